package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/tiny/internal/config"
)

func runMain(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Main(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMainModes(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.tiny", "let x=1+2*3;\nprint(x);\n")

	tests := []struct {
		name   string
		args   []string
		stdin  string
		stdout string
	}{
		{"expression echoes its value", []string{"-e", "1 + 2"}, "", "3\n"},
		{"undefined is not echoed", []string{"-e", "let y = 1;"}, "", ""},
		{"file run", []string{script}, "", "7\n"},
		{"ast", []string{"-ast", script}, "", "let x = (1 + (2 * 3));\nprint(x);\n"},
		{"fmt", []string{"-fmt", script}, "", "let x = 1 + 2 * 3;\nprint(x);\n"},
		{"stdin", nil, "print(\"from stdin\");", "from stdin\n"},
		{"version", []string{"-version"}, "", "tiny " + config.Version + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runMain(t, tt.stdin, tt.args...)
			if code != exitOK {
				t.Fatalf("exit code %d, stderr:\n%s", code, stderr)
			}
			if diff := cmp.Diff(tt.stdout, stdout); diff != "" {
				t.Errorf("stdout mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMainErrors(t *testing.T) {
	dir := t.TempDir()
	broken := writeFile(t, dir, "broken.tiny", "print(1);\nmissing;\n")

	code, stdout, stderr := runMain(t, "", broken)
	if code != exitError {
		t.Errorf("runtime error exit code = %d", code)
	}
	if stdout != "1\n" {
		t.Errorf("stdout = %q", stdout)
	}
	if !strings.Contains(stderr, "broken.tiny:2:") || !strings.Contains(stderr, "identifier_not_found: identifier not found: missing") {
		t.Errorf("stderr = %q", stderr)
	}

	code, _, stderr = runMain(t, "", "-e", "let = ;")
	if code != exitError {
		t.Errorf("syntax error exit code = %d", code)
	}
	if !strings.HasPrefix(stderr, "<eval>:1:") {
		t.Errorf("syntax error stderr = %q", stderr)
	}

	code, _, stderr = runMain(t, "", filepath.Join(dir, "absent.tiny"))
	if code != exitError || !strings.HasPrefix(stderr, "tiny: ") {
		t.Errorf("missing file: code %d, stderr %q", code, stderr)
	}
}

func TestMainUsage(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tiny", "1;")
	b := writeFile(t, dir, "b.tiny", "2;")

	tests := map[string][]string{
		"two files":     {a, b},
		"expr and file": {"-e", "1", a},
		"unknown flag":  {"-nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if code, _, _ := runMain(t, "", args...); code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
		})
	}

	code, _, stderr := runMain(t, "", "-h")
	if code != exitOK || !strings.Contains(stderr, "usage: tiny") {
		t.Errorf("-h: code %d, stderr %q", code, stderr)
	}
}

func TestMainConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "opts.yaml", "stderrPrefix: \"ERR \"\nstderrColor: never\nuseStdLibAutomatically: true\n")

	code, stdout, stderr := runMain(t, "", "-config", cfg, "-e", "identity(4)")
	if code != exitOK || stdout != "4\n" {
		t.Errorf("prelude via config: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	code, _, stderr = runMain(t, "", "-config", cfg, "-e", "missing")
	if code != exitError || !strings.HasPrefix(stderr, "ERR <eval>:1:") {
		t.Errorf("prefixed error: code %d, stderr %q", code, stderr)
	}

	// A .tinyrc in the file's directory is picked up without -config.
	writeFile(t, dir, ".tinyrc.yaml", "allowEval: true\n")
	script := writeFile(t, dir, "eval.tiny", "print(eval(\"2 * 21\"));")
	code, stdout, stderr = runMain(t, "", script)
	if code != exitOK || stdout != "42\n" {
		t.Errorf(".tinyrc: code %d, stdout %q, stderr %q", code, stdout, stderr)
	}

	if code, _, _ := runMain(t, "", "-config", filepath.Join(dir, "absent.yaml"), "-e", "1"); code != exitError {
		t.Errorf("missing config exit code = %d", code)
	}
}

func TestMainRelativeImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.tiny", "func twice(x) x * 2;")
	script := writeFile(t, dir, "main.tiny", "use \"./lib\";\nprint(twice(21));")

	code, stdout, stderr := runMain(t, "", script)
	if code != exitOK || stdout != "42\n" {
		t.Errorf("code %d, stdout %q, stderr %q", code, stdout, stderr)
	}
}

// scriptedLines feeds readBalanced from a list and then reports EOF.
type scriptedLines struct {
	lines   []string
	prompts []string
}

func (s *scriptedLines) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func TestReadBalanced(t *testing.T) {
	in := &scriptedLines{lines: []string{"func f(x) {", "  \"}\" + x", "}", "f(1)"}}

	code, ok := readBalanced(in, promptMain, promptCont)
	if !ok {
		t.Fatal("unexpected EOF")
	}
	if want := "func f(x) {\n  \"}\" + x\n}"; code != want {
		t.Errorf("code = %q, want %q", code, want)
	}
	if diff := cmp.Diff([]string{promptMain, promptCont, promptCont}, in.prompts); diff != "" {
		t.Errorf("prompts mismatch (-want +got):\n%s", diff)
	}

	if code, ok := readBalanced(in, promptMain, promptCont); !ok || code != "f(1)" {
		t.Errorf("second read = %q, %v", code, ok)
	}
	if _, ok := readBalanced(in, promptMain, promptCont); ok {
		t.Error("expected EOF")
	}

	// EOF in the middle of an entry hands back what was read.
	in = &scriptedLines{lines: []string{"[1,"}}
	if code, ok := readBalanced(in, promptMain, promptCont); !ok || code != "[1," {
		t.Errorf("partial read = %q, %v", code, ok)
	}
}

func TestBracketDepth(t *testing.T) {
	tests := map[string]int{
		"f(1)":            0,
		"{ [ (":           3,
		"}":               -1,
		"\"((\" + (":       1,
		"// {\nlet x = 1": 0,
	}
	for src, want := range tests {
		if got := bracketDepth(src); got != want {
			t.Errorf("bracketDepth(%q) = %d, want %d", src, got, want)
		}
	}
}

func TestReplState(t *testing.T) {
	opts := config.Default()
	opts.StderrColor = config.ColorNever
	opts.UseStdLibAutomatically = true
	var out, errOut bytes.Buffer
	s := newSession(opts, t.TempDir(), strings.NewReader(""), &out, &errOut)
	st := newReplState(s)

	steps := []struct {
		input  string
		stdout string
		stderr string
		quit   bool
	}{
		{input: "let x = 2;"},
		{input: "x * 3", stdout: "6\n"},
		{input: "identity(\"p\")", stdout: "p\n"},
		{input: "missing", stderr: "identifier_not_found: identifier not found: missing"},
		{input: "let = ;", stderr: "<repl>:1:"},
		{input: ":nope", stdout: "unknown command :nope. Type :help for the list.\n"},
		{input: ":reset", stdout: "environment cleared\n"},
		{input: "typeof x", stdout: "undefined\n"},
		{input: ":quit", quit: true},
	}
	for _, step := range steps {
		out.Reset()
		errOut.Reset()
		if quit := st.execute(step.input); quit != step.quit {
			t.Errorf("%q: quit = %v", step.input, quit)
		}
		if out.String() != step.stdout {
			t.Errorf("%q: stdout = %q, want %q", step.input, out.String(), step.stdout)
		}
		if !strings.Contains(errOut.String(), step.stderr) {
			t.Errorf("%q: stderr = %q, want it to contain %q", step.input, errOut.String(), step.stderr)
		}
	}
}

func TestReplEnvListing(t *testing.T) {
	opts := config.Default()
	var out bytes.Buffer
	s := newSession(opts, t.TempDir(), strings.NewReader(""), &out, io.Discard)
	st := newReplState(s)

	st.execute("let b = [1, \"two\"];")
	st.execute("let a = 1;")
	out.Reset()
	st.execute(":env")
	if want := "a = 1\nb = [1, \"two\"]\n"; out.String() != want {
		t.Errorf(":env = %q, want %q", out.String(), want)
	}
}
