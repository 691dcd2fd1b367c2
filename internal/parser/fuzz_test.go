package parser_test

import (
	"testing"

	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/prettyprinter"
)

// FuzzFormatter checks that parsing never panics and that formatting a
// program that parsed is stable:
// code1 = format(parse(input)), code2 = format(parse(code1)), code1 == code2
func FuzzFormatter(f *testing.F) {
	f.Add("let x = 1 + 2 * 3;")
	f.Add("func add(a, b) { a + b }\nadd(1, 2)")
	f.Add("if (x) { print(\"a\"); } else print(\"b\");")
	f.Add("let o = {a: [1, 2], \"k k\": null}; o <- k; o.a[0] = -1;")
	f.Add("@{skipCheckArguments: true}; func f(x) x;")
	f.Add("while (i < 3) i = i + 1;")
	f.Add("typeof x == \"number\" && !(a ?? b);")

	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > 2000 {
			return
		}
		program, lexErrs, parseErrs := parser.ParseString(input, "fuzz.tiny", nil)
		if program == nil || len(lexErrs) > 0 || len(parseErrs) > 0 {
			return
		}

		code1 := prettyprinter.Format(program)
		program2, lexErrs, parseErrs := parser.ParseString(code1, "fuzz.tiny", nil)
		if len(lexErrs) > 0 || len(parseErrs) > 0 {
			t.Fatalf("formatter produced invalid code:\n%s\nerrors: %v %v", code1, lexErrs, parseErrs)
		}
		if code2 := prettyprinter.Format(program2); code1 != code2 {
			t.Errorf("formatter instability:\npass 1:\n%s\npass 2:\n%s", code1, code2)
		}
	})
}
