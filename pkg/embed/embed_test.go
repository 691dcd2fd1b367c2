package tiny_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/tiny/internal/evaluator"
	tiny "github.com/funvibe/tiny/pkg/embed"
)

// User is converted to an object when handed to a script.
type User struct {
	Name   string
	Score  int
	Tags   []string `tiny:"tags"`
	secret string
}

func TestEmbedAPI(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())

	if err := it.Bind("double", func(x int) int { return x * 2 }); err != nil {
		t.Fatal(err)
	}
	if err := it.Bind("greet", func(names ...string) string {
		return "hello " + strings.Join(names, " and ")
	}); err != nil {
		t.Fatal(err)
	}
	if err := it.Set("player", &User{Name: "Alice", Score: 10, Tags: []string{"x"}, secret: "s"}); err != nil {
		t.Fatal(err)
	}

	res, err := it.Eval(`
let doubled = double(21);
let name = player.Name;
[doubled, name, greet("Bob", "Eve"), player.tags, typeof player.secret]`)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}

	want := []interface{}{42.0, "Alice", "hello Bob and Eve", []interface{}{"x"}, "undefined"}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}

	doubled, err := it.Get("doubled")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doubled != 42.0 {
		t.Errorf("doubled = %v", doubled)
	}
	if _, err := it.Get("missing"); err == nil {
		t.Error("expected an error for an unknown variable")
	}
}

func TestHostErrorsBecomeScriptErrors(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())
	_ = it.Bind("fail", func() error { return errors.New("boom") })
	_ = it.Bind("double", func(x int) int { return x * 2 })
	_ = it.Bind("divide", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})

	tests := []struct {
		code    string
		kind    evaluator.ErrorKind
		message string
	}{
		{"fail()", evaluator.KindThrown, "boom"},
		{"divide(1, 0)", evaluator.KindThrown, "division by zero"},
		{"double(1, 2)", evaluator.KindArityMismatch, "function double expects 1 arguments, got 2"},
		{`double("x")`, evaluator.KindInvalidArgument, "double: argument 1: cannot convert STRING to int"},
		{"double(1.5)", evaluator.KindInvalidArgument, "double: argument 1: cannot convert NUMBER to int"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			_, err := it.Eval(tt.code)
			var scriptErr *tiny.Error
			if !errors.As(err, &scriptErr) {
				t.Fatalf("expected a script error, got %v", err)
			}
			if scriptErr.Kind != tt.kind || scriptErr.Message != tt.message {
				t.Errorf("got %s %q, want %s %q", scriptErr.Kind, scriptErr.Message, tt.kind, tt.message)
			}
			if scriptErr.Line != 1 {
				t.Errorf("line = %d, want 1", scriptErr.Line)
			}
		})
	}

	res, err := it.Eval("Expr(divide(6, 3))")
	if err != nil || res != 2.0 {
		t.Errorf("divide(6, 3) = %v, %v", res, err)
	}
	res, err = it.Eval("Expr(fail()).message")
	if err != nil || res != "boom" {
		t.Errorf("Expr(fail()).message = %v, %v", res, err)
	}
}

func TestSourceErrors(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())
	_, err := it.Eval("let = ;")
	var srcErr *tiny.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *SourceError, got %v", err)
	}
	if len(srcErr.Diagnostics) == 0 || !strings.Contains(err.Error(), "<eval>:1:") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	pkgDir := filepath.Join(dir, "mylib")
	if err := os.Mkdir(pkgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "mylib.tiny"), []byte(`func getGreeting() "Hello from Import";`), 0o644); err != nil {
		t.Fatal(err)
	}
	mainPath := filepath.Join(dir, "main.tiny")
	if err := os.WriteFile(mainPath, []byte("use \"./mylib/mylib\";\nlet greeting = getGreeting();\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	it := tiny.New(tiny.DefaultOptions())
	if err := it.LoadFile(mainPath); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	res, err := it.Get("greeting")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res != "Hello from Import" {
		t.Errorf("greeting = %v", res)
	}

	if err := it.LoadFile(filepath.Join(dir, "absent.tiny")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestCall(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())
	if _, err := it.Eval("func add(a, b) a + b;"); err != nil {
		t.Fatal(err)
	}

	res, err := it.Call("add", 2, 3)
	if err != nil || res != 5.0 {
		t.Errorf("add(2, 3) = %v, %v", res, err)
	}
	res, err = it.Call("len", []int{1, 2, 3})
	if err != nil || res != 3.0 {
		t.Errorf("len = %v, %v", res, err)
	}

	_, err = it.Call("add", 1)
	var scriptErr *tiny.Error
	if !errors.As(err, &scriptErr) || scriptErr.Kind != evaluator.KindArityMismatch {
		t.Errorf("add(1) error = %v", err)
	}
	if _, err := it.Call("nope"); err == nil {
		t.Error("expected an error for an unknown function")
	}
}

func TestGetAs(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())
	if _, err := it.Eval(`let cfg = {Name: "x", Score: 3, tags: ["a", "b"], extra: true};`); err != nil {
		t.Fatal(err)
	}

	var u User
	if err := it.GetAs("cfg", &u); err != nil {
		t.Fatalf("GetAs failed: %v", err)
	}
	want := User{Name: "x", Score: 3, Tags: []string{"a", "b"}}
	if diff := cmp.Diff(want, u, cmp.AllowUnexported(User{})); diff != "" {
		t.Errorf("struct mismatch (-want +got):\n%s", diff)
	}

	var counts map[string]int
	if _, err := it.Eval(`let counts = {a: 1, b: 2};`); err != nil {
		t.Fatal(err)
	}
	if err := it.GetAs("counts", &counts); err != nil {
		t.Fatalf("GetAs failed: %v", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, counts); diff != "" {
		t.Errorf("map mismatch (-want +got):\n%s", diff)
	}

	if err := it.GetAs("cfg", u); err == nil {
		t.Error("expected an error for a non-pointer target")
	}
}

func TestPreludeAndStdio(t *testing.T) {
	opts := tiny.DefaultOptions()
	opts.UseStdLibAutomatically = true
	it := tiny.New(opts)

	var out strings.Builder
	it.SetStdio(tiny.Stdio{Stdout: func(s string) { out.WriteString(s) }})

	res, err := it.Eval(`print("hi"); identity(5)`)
	if err != nil {
		t.Fatal(err)
	}
	if res != 5.0 {
		t.Errorf("identity(5) = %v", res)
	}
	if out.String() != "hi\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestGatesFollowOptions(t *testing.T) {
	it := tiny.New(tiny.DefaultOptions())
	_, err := it.Eval(`eval("1")`)
	var scriptErr *tiny.Error
	if !errors.As(err, &scriptErr) || scriptErr.Kind != evaluator.KindPermissionDenied {
		t.Errorf("eval with gate closed: %v", err)
	}

	opts := tiny.DefaultOptions()
	opts.AllowEval = true
	res, err := tiny.New(opts).Eval(`eval("1 + 1")`)
	if err != nil || res != 2.0 {
		t.Errorf("eval with gate open = %v, %v", res, err)
	}
}

func TestMarshallerToValue(t *testing.T) {
	m := tiny.NewMarshaller()
	var nilUser *User
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{"int", 7, "7"},
		{"uint8", uint8(200), "200"},
		{"float", 1.25, "1.25"},
		{"bool", true, "true"},
		{"string", "s", "s"},
		{"bytes", []byte("raw"), "raw"},
		{"slice", []interface{}{1, "a", nil}, `[1, "a", null]`},
		{"array", [2]int{1, 2}, "[1, 2]"},
		{"map sorted", map[string]int{"b": 2, "a": 1}, `{"a": 1, "b": 2}`},
		{"struct", User{Name: "n", Score: 1}, `{"Name": "n", "Score": 1, "tags": null}`},
		{"nil pointer", nilUser, "null"},
		{"nil", nil, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := m.ToValue(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := obj.Inspect(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := m.ToValue(make(chan int)); err == nil {
		t.Error("expected an error for a channel")
	}
	if _, err := m.ToValue(map[bool]int{true: 1}); err == nil {
		t.Error("expected an error for a bool-keyed map")
	}
}

func TestMarshallerFromValue(t *testing.T) {
	m := tiny.NewMarshaller()

	arr := &evaluator.Array{Elements: []evaluator.Object{&evaluator.Number{Value: 1}, &evaluator.Number{Value: 2}}}
	got, err := m.FromValue(arr, reflect.TypeOf([]int8{}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int8{1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := m.FromValue(&evaluator.Number{Value: 300}, reflect.TypeOf(int8(0))); err == nil {
		t.Error("expected an overflow error")
	}
	if _, err := m.FromValue(&evaluator.Number{Value: -1}, reflect.TypeOf(uint(0))); err == nil {
		t.Error("expected an overflow error for a negative uint")
	}

	p, err := m.FromValue(&evaluator.String{Value: "v"}, reflect.TypeOf((*string)(nil)))
	if err != nil {
		t.Fatal(err)
	}
	if s, ok := p.(*string); !ok || *s != "v" {
		t.Errorf("pointer conversion = %#v", p)
	}

	obj, err := m.FromValue(evaluator.TRUE, reflect.TypeOf((*evaluator.Object)(nil)).Elem())
	if err != nil || obj != evaluator.TRUE {
		t.Errorf("Object target = %v, %v", obj, err)
	}

	natural, err := m.FromValue(evaluator.UNDEFINED, nil)
	if err != nil || natural != nil {
		t.Errorf("undefined = %v, %v", natural, err)
	}
}

// Interpreters share the builtin registry; running them side by side must be
// safe (go test -race).
func TestInterpretersRunConcurrently(t *testing.T) {
	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			it := tiny.New(tiny.DefaultOptions())
			for i := 0; i < 50; i++ {
				res, err := it.Eval(`title("hello world") + upper("x-y") + lower("ABC")`)
				if err != nil {
					errs <- err
					return
				}
				if res != "Hello WorldX-Yabc" {
					errs <- fmt.Errorf("worker %d: got %v", w, res)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
