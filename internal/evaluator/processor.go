package evaluator

import (
	"log/slog"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/modules"
	"github.com/funvibe/tiny/internal/pipeline"
)

// EvalProcessor is the last pipeline stage. It leaves the program's value
// (or runtime *Error) in ctx.Result.
type EvalProcessor struct {
	Env     *Environment
	Options config.Options
	Stdio   Stdio
	Root    string
	Loader  ModuleLoader
	Logger  *slog.Logger
	// Prelude imports @std/prelude into Env first when the options ask for
	// it. Interactive callers set it; file runs leave it off.
	Prelude bool
}

func (ep *EvalProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil || ctx.Failed() {
		return ctx
	}

	env := ep.Env
	if env == nil {
		env = NewEnvironment()
	}

	e := New(ep.Options, ep.Stdio)
	e.Root = ep.Root
	e.SetFile(ctx.FilePath)
	if ep.Logger != nil {
		e.Logger = ep.Logger
	}
	if ep.Loader != nil {
		e.Loader = ep.Loader
	} else {
		loader := modules.NewLoader(ep.Root, ep.Options.StdLibRoot)
		loader.Logger = e.logger()
		e.Loader = loader
	}

	if ep.Prelude && ep.Options.UseStdLibAutomatically {
		if res := e.LoadPrelude(env); isError(res) {
			ctx.Result = res
			return ctx
		}
	}

	ctx.Result = e.Eval(ctx.AstRoot, env)
	return ctx
}
