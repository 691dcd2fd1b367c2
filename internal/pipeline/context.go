package pipeline

import (
	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/token"
)

// TokenStream is the lazy token source the parser pulls from.
type TokenStream interface {
	NextToken() token.Token
}

// PipelineContext carries the state shared by all stages.
type PipelineContext struct {
	SourceCode string
	FilePath   string

	TokenStream TokenStream
	AstRoot     *ast.Program

	// LexicalErrors were already reported through OnLexicalError when found.
	LexicalErrors []*diagnostics.DiagnosticError
	// Errors are syntax errors; the caller reports them after the run.
	Errors []*diagnostics.DiagnosticError

	// OnLexicalError is called immediately for every lexical error.
	OnLexicalError func(err *diagnostics.DiagnosticError)

	// Result is the value produced by the execution stage.
	Result interface{}
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source}
}

// Failed reports whether lexing or parsing produced errors.
func (c *PipelineContext) Failed() bool {
	return len(c.LexicalErrors) > 0 || len(c.Errors) > 0
}

// ReportLexical records a lexical error and forwards it to OnLexicalError.
func (c *PipelineContext) ReportLexical(err *diagnostics.DiagnosticError) {
	c.LexicalErrors = append(c.LexicalErrors, err)
	if c.OnLexicalError != nil {
		c.OnLexicalError(err)
	}
}
