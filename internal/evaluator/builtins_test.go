package evaluator_test

import (
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/evaluator"
	"github.com/funvibe/tiny/internal/parser"
)

func TestPrintAndWrite(t *testing.T) {
	_, out := run(t, `print("a", 1, [1, "b"], {k: null}); write("x", 2); write("y")`, config.Default())
	want := "a 1 [1, \"b\"] {\"k\": null}\nx2y"
	if out != want {
		t.Errorf("stdout = %q, want %q", out, want)
	}

	result, _ := run(t, `print("ignored")`, config.Default())
	if result.Type() != evaluator.UNDEFINED_OBJ {
		t.Errorf("print returned %s, want undefined", result.Inspect())
	}
}

func TestReadlineUsesStdin(t *testing.T) {
	program, _, parseErrs := parser.ParseString(`let name = readline("name? "); "hi " + name`, testFile, nil)
	if len(parseErrs) > 0 {
		t.Fatalf("parse: %v", parseErrs)
	}

	var prompts []string
	stdio := evaluator.Stdio{
		Stdin: func(prompt string) string {
			prompts = append(prompts, prompt)
			return "ada"
		},
		Stdout: func(string) {},
	}
	result := evaluator.Evaluate(program, evaluator.NewEnvironment(), config.Default(), stdio, testFile, t.TempDir())
	expectInspect(t, result, "hi ada")
	if diff := cmp.Diff([]string{"name? "}, prompts); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStdioReadsLines(t *testing.T) {
	var out strings.Builder
	stdio := evaluator.NewStdio(strings.NewReader("first\r\nsecond\n"), &out, &out)
	if got := stdio.Stdin("> "); got != "first" {
		t.Errorf("first line = %q", got)
	}
	if got := stdio.Stdin(""); got != "second" {
		t.Errorf("second line = %q", got)
	}
	if got := stdio.Stdin(""); got != "" {
		t.Errorf("at EOF = %q, want empty", got)
	}
	if out.String() != "> " {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestConversionBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`len("héllo")`, "5"},
		{"len([1, 2, 3])", "3"},
		{"len({a: 1, b: 2})", "2"},
		{"str(12)", "12"},
		{"str(1.5)", "1.5"},
		{`str([1, "a"])`, `[1, "a"]`},
		{`num(" 42 ")`, "42"},
		{`num("2.5")`, "2.5"},
		{"num(true)", "1"},
		{"bool(0)", "false"},
		{`bool("")`, "true"},
		{"bool(null)", "false"},
		{"type(1)", "number"},
		{"type({})", "object"},
		{"type(len)", "builtin"},
		{"type(func() 1)", "function"},
		{"type(undefined)", "undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	err := expectError(t, testEval(t, `num("abc")`), evaluator.KindInvalidArgument)
	if err.Message != `num: cannot convert "abc" to a number` {
		t.Errorf("message = %q", err.Message)
	}
	expectError(t, testEval(t, "len(1)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "len()"), evaluator.KindArityMismatch)
}

func TestErrorBuiltinRaises(t *testing.T) {
	err := expectError(t, testEval(t, `error("nope")`), evaluator.KindThrown)
	if err.Message != "nope" {
		t.Errorf("message = %q", err.Message)
	}
	expectInspect(t, testEval(t, `Expr(error("nope")).message`), "nope")
}

func TestUUIDAndNow(t *testing.T) {
	obj := testEval(t, "uuid()")
	s, ok := obj.(*evaluator.String)
	if !ok {
		t.Fatalf("uuid() = %s", obj.Inspect())
	}
	if _, err := uuid.Parse(s.Value); err != nil {
		t.Errorf("uuid() = %q: %v", s.Value, err)
	}
	expectInspect(t, testEval(t, "uuid() == uuid()"), "false")
	expectInspect(t, testEval(t, "now() > 1600000000000"), "true")
}

func TestCollectionBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"let a = [1]; push(a, 2, 3); a", "[1, 2, 3]"},
		{"let a = [1, 2]; pop(a)", "2"},
		{"let a = [1, 2]; pop(a); a", "[1]"},
		{"typeof pop([])", "undefined"},
		{"slice([1, 2, 3, 4], 1, 3)", "[2, 3]"},
		{"slice([1, 2, 3, 4], -2)", "[3, 4]"},
		{"slice([1, 2], 5)", "[]"},
		{"slice([1, 2, 3], 0, 99999999999999999999)", "[1, 2, 3]"},
		{"slice([1, 2, 3], -99999999999999999999)", "[1, 2, 3]"},
		{`slice("abc", 1, 99999999999999999999)`, "bc"},
		{"slice([1, 2, 3], -1.5)", "[3]"},
		{`slice("héllo", 1, 3)`, "él"},
		{"join([1, 2, 3])", "1,2,3"},
		{`join(["a", "b"], " - ")`, "a - b"},
		{"keys({b: 1, a: 2})", `["b", "a"]`},
		{"values({b: 1, a: 2})", "[1, 2]"},
		{"range(3)", "[0, 1, 2]"},
		{"range(2, 5)", "[2, 3, 4]"},
		{"range(5, 0, -2)", "[5, 3, 1]"},
		{"reverse([1, 2, 3])", "[3, 2, 1]"},
		{`reverse("abc")`, "cba"},
		{"sort([3, 1, 2])", "[1, 2, 3]"},
		{`sort(["b", "c", "a"])`, `["a", "b", "c"]`},
		{"sort([1, 3, 2], func(a, b) b - a)", "[3, 2, 1]"},
		{"let a = [2, 1]; sort(a); a", "[2, 1]"},
		{"map([1, 2, 3], func(x) x * x)", "[1, 4, 9]"},
		{"filter(range(6), func(x) x % 2 == 0)", "[0, 2, 4]"},
		{"reduce([1, 2, 3, 4], func(acc, x) acc + x, 0)", "10"},
		{"[1, 2, 3].map(func(x) x + 1).filter(func(x) x > 2)", "[3, 4]"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	expectError(t, testEval(t, "range(1, 2, 0)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, `sort([1, "a"])`), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "map([1], 2)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "push(1, 2)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "slice([1, 2], 0 / 0)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "slice([1, 2], 0, 0 / 0)"), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, "map([1], func(x) x + missing)"), evaluator.KindIdentifierNotFound)
}

func TestStringBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`split("a,b,,c", ",")`, `["a", "b", "", "c"]`},
		{`trim("  x y \n")`, "x y"},
		{`upper("héllo")`, "HÉLLO"},
		{`lower("ÀB")`, "àb"},
		{`title("hello wide world")`, "Hello Wide World"},
		{`replace("a-b-c", "-", "+")`, "a+b+c"},
		{`indexOf("héllo", "l")`, "2"},
		{`indexOf("abc", "z")`, "-1"},
		{`indexOf([1, [2], 3], [2])`, "1"},
		{`startsWith("tiny.tiny", "tiny")`, "true"},
		{`endsWith("tiny.tiny", ".go")`, "false"},
		{`format("{} + {} = {}", 1, 2, 3)`, "1 + 2 = 3"},
		{`format("{{}} {}", "x")`, "{} x"},
		{`format("{}", [1, "a"])`, `[1, "a"]`},
		{`"a b".split(" ").join("_")`, "a_b"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	expectError(t, testEval(t, `format("{} {}", 1)`), evaluator.KindInvalidArgument)
	err := expectError(t, testEval(t, "upper(1)"), evaluator.KindInvalidArgument)
	if !strings.Contains(err.Message, "upper") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestRegexBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`match("\\d+", "abc123")`, "true"},
		{`match("^\\d+$", "abc123")`, "false"},
		{`match("foo(?=bar)", "foobar")`, "true"},
		{`findAll("\\d+", "a1 b22 c333")`, `["1", "22", "333"]`},
		{`findAll("x", "abc")`, "[]"},
		{`regexReplace("(\\w+)@(\\w+)", "me@host", "$2 at $1")`, "host at me"},
		{`regexReplace("\\s+", "a  b   c", " ")`, "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	err := expectError(t, testEval(t, `match("(", "x")`), evaluator.KindInvalidArgument)
	if !strings.Contains(err.Message, "invalid pattern") {
		t.Errorf("message = %q", err.Message)
	}
}

func TestJSONBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`jsonEncode({b: 1, a: [true, null, "x"], c: 1.5})`, `{"b":1,"a":[true,null,"x"],"c":1.5}`},
		{`jsonEncode("q\"uote")`, `"q\"uote"`},
		{`jsonEncode(undefined)`, "null"},
		{`jsonEncode({a: [1]}, true)`, "{\n  \"a\": [\n    1\n  ]\n}"},
		{`jsonDecode("{\"z\": 1, \"a\": {\"b\": [1, 2.5]}}")`, `{"z": 1, "a": {"b": [1, 2.5]}}`},
		{`keys(jsonDecode("{\"z\": 0, \"y\": 0, \"x\": 0}"))`, `["z", "y", "x"]`},
		{`jsonDecode("null") == null`, "true"},
		{`let v = {n: 1, s: "two", l: [3]}; jsonDecode(jsonEncode(v)) == v`, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	expectError(t, testEval(t, `jsonEncode(func() 1)`), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, `jsonEncode(1 / 0)`), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, `jsonDecode("{")`), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, `jsonDecode("1 2")`), evaluator.KindInvalidArgument)
	expectError(t, testEval(t, `let a = []; push(a, a); jsonEncode(a)`), evaluator.KindInvalidArgument)
}

func TestYAMLBuiltins(t *testing.T) {
	obj := testEval(t, `yamlEncode({name: "tiny", tags: ["a", "b"], nested: {x: 1.5, ok: true}})`)
	s, ok := obj.(*evaluator.String)
	if !ok {
		t.Fatalf("yamlEncode = %s", obj.Inspect())
	}
	for _, want := range []string{"name: tiny", "tags:", "- a", "nested:", "x: 1.5", "ok: true"} {
		if !strings.Contains(s.Value, want) {
			t.Errorf("yamlEncode output missing %q:\n%s", want, s.Value)
		}
	}
	if strings.Index(s.Value, "name:") > strings.Index(s.Value, "tags:") {
		t.Errorf("keys out of order:\n%s", s.Value)
	}

	tests := []struct {
		input string
		want  string
	}{
		{`yamlDecode("b: 1\na: [x, 2]\nc: ~\nd: yes_not_bool\n")`, `{"b": 1, "a": ["x", 2], "c": null, "d": "yes_not_bool"}`},
		{`yamlDecode("")`, "null"},
		{`yamlDecode("- true\n- 0.5\n")`, "[true, 0.5]"},
		{`let v = {n: 1, s: "two", l: [3, null]}; yamlDecode(yamlEncode(v)) == v`, "true"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectInspect(t, testEval(t, tt.input), tt.want)
		})
	}

	expectError(t, testEval(t, `yamlDecode("a: [")`), evaluator.KindInvalidArgument)
}

func TestDatabaseBuiltinsAreGated(t *testing.T) {
	err := expectError(t, testEval(t, `sqlQuery("x.db", "select 1")`), evaluator.KindPermissionDenied)
	if !strings.Contains(err.Message, "allowDatabase") {
		t.Errorf("message = %q", err.Message)
	}
	expectError(t, testEval(t, `sqlExec("x.db", "select 1")`), evaluator.KindPermissionDenied)
}

func TestDatabaseBuiltins(t *testing.T) {
	opts := config.Default()
	opts.AllowDatabase = true
	db := strconv.Quote(filepath.Join(t.TempDir(), "test.db"))

	input := `
let db = ` + db + `;
sqlExec(db, "create table items (id integer primary key, name text, price real)");
let n = sqlExec(db, "insert into items (name, price) values (?, ?), (?, ?)", "pen", 1.5, "ink", null);
let rows = sqlQuery(db, "select id, name, price from items where id >= ? order by id", 1);
[n, rows]`
	result, _ := run(t, input, opts)
	expectInspect(t, result, `[2, [{"id": 1, "name": "pen", "price": 1.5}, {"id": 2, "name": "ink", "price": null}]]`)

	result, _ = run(t, `sqlQuery(`+db+`, "select * from missing")`, opts)
	expectError(t, result, evaluator.KindInvalidArgument)
	result, _ = run(t, `sqlExec(`+db+`, "select ?", [1])`, opts)
	expectError(t, result, evaluator.KindInvalidArgument)
}

func TestEvalBuiltin(t *testing.T) {
	err := expectError(t, testEval(t, `eval("1 + 1")`), evaluator.KindPermissionDenied)
	if !strings.Contains(err.Message, "allowEval") {
		t.Errorf("message = %q", err.Message)
	}

	opts := config.Default()
	opts.AllowEval = true
	result, _ := run(t, `let x = 2; eval("let y = x * 3;"); eval("y + 1")`, opts)
	expectNumber(t, result, 7)

	result, _ = run(t, `eval("let = ;")`, opts)
	err = expectError(t, result, evaluator.KindInvalidArgument)
	if !strings.HasPrefix(err.Message, "eval: ") {
		t.Errorf("message = %q", err.Message)
	}

	result, _ = run(t, `eval("missing")`, opts)
	err = expectError(t, result, evaluator.KindIdentifierNotFound)
	if err.File != "<eval>" {
		t.Errorf("file = %q, want <eval>", err.File)
	}
}

func TestJSBuiltin(t *testing.T) {
	expectError(t, testEval(t, `js("1 + 1")`), evaluator.KindPermissionDenied)

	opts := config.Default()
	opts.AllowJavaScript = true
	result, _ := run(t, `js("1 + 1")`, opts)
	expectError(t, result, evaluator.KindUnsupported)
}

func TestBuiltinNamesSorted(t *testing.T) {
	names := evaluator.BuiltinNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("names not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
	for _, want := range []string{"print", "len", "jsonEncode", "sqlQuery", "regexReplace", "import"} {
		if _, ok := evaluator.LookupBuiltin(want); !ok {
			t.Errorf("builtin %q not registered", want)
		}
	}
}
