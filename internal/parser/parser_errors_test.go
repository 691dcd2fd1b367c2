package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/lexer"
	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/pipeline"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	return ctx.Errors
}

// expectError asserts an error with the given code is among the results.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectNoErrors asserts parsing succeeds without errors.
func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

// ---------------------------------------------------------------------------
// P001: Unexpected token
// ---------------------------------------------------------------------------

func TestP001_MissingLetValue(t *testing.T) {
	expectError(t, "let x = ;", diagnostics.ErrP001)
}

func TestP001_InvalidAssignmentTarget(t *testing.T) {
	expectError(t, "1 = 2;", diagnostics.ErrP001)
	expectError(t, "f() = 2;", diagnostics.ErrP001)
}

func TestP001_IllegalCharacter(t *testing.T) {
	e := expectError(t, "a & b;", diagnostics.ErrP001)
	if !strings.Contains(e.Message, "illegal character") {
		t.Errorf("message = %q", e.Message)
	}
}

func TestP001_DuplicateParameter(t *testing.T) {
	expectError(t, "func(a, a) a;", diagnostics.ErrP001)
}

// ---------------------------------------------------------------------------
// P002: Missing semicolon
// ---------------------------------------------------------------------------

func TestP002_LetWithoutSemicolon(t *testing.T) {
	e := expectError(t, "let x = 1\nlet y = 2;", diagnostics.ErrP002)
	if e.Line() != 2 || e.Column() != 1 {
		t.Errorf("position = %d:%d, want 2:1", e.Line(), e.Column())
	}
}

func TestP002_ExpressionWithoutSemicolon(t *testing.T) {
	expectError(t, "print(1) print(2)", diagnostics.ErrP002)
}

func TestP002_TailExpressionsNeedNoSemicolon(t *testing.T) {
	expectNoErrors(t, "let f = func(x) { let y = x; y * 2 };\nf(3)")
	expectNoErrors(t, "if (a) { 1 } else { 2 }\nfunc g() { 3 }\ng()")
	expectNoErrors(t, "let x = 1;")
	expectNoErrors(t, "")
}

// ---------------------------------------------------------------------------
// P003: Expected token
// ---------------------------------------------------------------------------

func TestP003_ExpectedToken(t *testing.T) {
	tests := []string{
		"if x) 1;",
		"while (x { }",
		"func f(a b) { a }",
		"let 5 = 1;",
		"[1, 2;",
		"{a 1};",
		"func() { 1;",
		"Expr 1;",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectError(t, input, diagnostics.ErrP003)
		})
	}
}

// ---------------------------------------------------------------------------
// P004: Decorator without function
// ---------------------------------------------------------------------------

func TestP004_DecoratorWithoutFunction(t *testing.T) {
	expectError(t, "@{a: 1}; let x = 1;", diagnostics.ErrP004)
	expectError(t, "@{a: 1} 5;", diagnostics.ErrP004)
	expectError(t, "@{a: 1};", diagnostics.ErrP004)
}

func TestP004_DecoratorForms(t *testing.T) {
	expectNoErrors(t, "@{skipCheckArguments: true}; func add(a, b) { a + b }")
	expectNoErrors(t, "@{noCapture: true} func f() { x }")
	expectNoErrors(t, "let opts = {};\n@opts\nfunc f() 1;")
}

// ---------------------------------------------------------------------------
// P005: Invalid member access
// ---------------------------------------------------------------------------

func TestP005_MemberMustBeName(t *testing.T) {
	expectError(t, "a.1;", diagnostics.ErrP005)
	expectError(t, `a."b";`, diagnostics.ErrP005)
}

func TestP005_KeywordMembersAreNames(t *testing.T) {
	expectNoErrors(t, "o.delete; o.in; o.length;")
}

// ---------------------------------------------------------------------------
// P006: Nesting too deep
// ---------------------------------------------------------------------------

func TestP006_NestingTooDeep(t *testing.T) {
	n := parser.MaxRecursionDepth + 10
	input := strings.Repeat("(", n) + "1" + strings.Repeat(")", n) + ";"
	errs := parseWithErrors(input)
	count := 0
	for _, e := range errs {
		if e.Code == diagnostics.ErrP006 {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d P006 errors, want exactly 1 (all: %v)", count, errs)
	}
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecoveryContinuesAfterBrokenStatement(t *testing.T) {
	ctx := &pipeline.PipelineContext{SourceCode: "let = 1; let y = 2; y"}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)

	if len(ctx.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(ctx.Errors), ctx.Errors)
	}
	if got := len(ctx.AstRoot.Statements); got != 2 {
		t.Fatalf("got %d statements, want 2", got)
	}
}

func TestLexicalErrorSuppressesEOFSyntaxErrors(t *testing.T) {
	var reported []*diagnostics.DiagnosticError
	ctx := &pipeline.PipelineContext{
		SourceCode: "let x = 1.2.3; let y = 2;",
		OnLexicalError: func(err *diagnostics.DiagnosticError) {
			reported = append(reported, err)
		},
	}
	ctx = (&lexer.LexerProcessor{}).Process(ctx)
	ctx = (&parser.ParserProcessor{}).Process(ctx)

	if len(reported) != 1 || reported[0].Code != diagnostics.ErrL002 {
		t.Fatalf("reported = %v, want one L002", reported)
	}
	if len(ctx.Errors) != 0 {
		t.Errorf("unexpected syntax errors: %v", ctx.Errors)
	}
	if !ctx.Failed() {
		t.Error("context should be marked failed")
	}
}

func TestErrorsCarryFileName(t *testing.T) {
	_, lexErrs, errs := parser.ParseString("let x = ;", "lib/util.tiny", nil)
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs)
	}
	if len(errs) == 0 {
		t.Fatal("expected a syntax error")
	}
	if !strings.HasPrefix(errs[0].Error(), "lib/util.tiny:1:9: [P001]") {
		t.Errorf("Error() = %q", errs[0].Error())
	}
}
