package lexer

import (
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/pipeline"
)

type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	ctx.TokenStream = NewWithFile(ctx.SourceCode, ctx.FilePath, func(err *diagnostics.DiagnosticError) {
		ctx.ReportLexical(err)
	})
	return ctx
}
