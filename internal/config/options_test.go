package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/funvibe/tiny/internal/config"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  config.Options
	}{
		{
			name:  "yaml",
			input: "allowEval: true\nstrictMode: true\nstderrPrefix: '[tiny] '\nstderrColor: never\n",
			want: config.Options{
				AllowEval:    true,
				StrictMode:   true,
				StderrPrefix: "[tiny] ",
				StderrColor:  config.ColorNever,
				MaxDepth:     config.DefaultMaxDepth,
			},
		},
		{
			name:  "json",
			input: `{"allowJavaScript": true, "useStdLibAutomatically": true, "stderrColor": true, "maxDepth": 50}`,
			want: config.Options{
				AllowJavaScript:        true,
				UseStdLibAutomatically: true,
				StderrColor:            config.ColorAlways,
				MaxDepth:               50,
			},
		},
		{
			name:  "empty keeps defaults",
			input: "",
			want:  config.Default(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.Parse([]byte(tt.input))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOptionsInvalid(t *testing.T) {
	if _, err := config.Parse([]byte("allowEval: [1, 2")); err == nil {
		t.Fatal("expected an error for malformed yaml")
	}
	if _, err := config.Parse([]byte("stderrColor: {a: 1}")); err == nil {
		t.Fatal("expected an error for non-scalar stderrColor")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TINY_ALLOW_EVAL":    "1",
		"TINY_STRICT":        "true",
		"TINY_STDLIB":        "/opt/tiny/std",
		"TINY_STDERR_PREFIX": "! ",
		"TINY_MAX_DEPTH":     "123",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	opts := config.Default()
	if err := opts.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	want := config.Options{
		AllowEval:    true,
		StrictMode:   true,
		StdLibRoot:   "/opt/tiny/std",
		StderrPrefix: "! ",
		StderrColor:  config.ColorAuto,
		MaxDepth:     123,
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("ApplyEnv() mismatch (-want +got):\n%s", diff)
	}

	env["TINY_ALLOW_DB"] = "maybe"
	if err := opts.ApplyEnv(lookup); err == nil {
		t.Error("expected an error for a non-boolean TINY_ALLOW_DB")
	}
}

func TestFindConfigAndLoad(t *testing.T) {
	dir := t.TempDir()
	if got := config.FindConfig(dir); got != "" {
		t.Fatalf("FindConfig() on empty dir = %q, want empty", got)
	}

	path := filepath.Join(dir, ".tinyrc.json")
	if err := os.WriteFile(path, []byte(`{"allowDatabase": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := config.FindConfig(dir); got != path {
		t.Fatalf("FindConfig() = %q, want %q", got, path)
	}

	opts, err := config.Parse([]byte(`{"allowDatabase": true}`))
	if err != nil {
		t.Fatal(err)
	}
	if !opts.AllowDatabase {
		t.Error("allowDatabase not decoded")
	}

	if _, err := config.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestDepth(t *testing.T) {
	if got := (config.Options{}).Depth(); got != config.DefaultMaxDepth {
		t.Errorf("Depth() = %d, want default", got)
	}
	if got := (config.Options{MaxDepth: 7}).Depth(); got != 7 {
		t.Errorf("Depth() = %d, want 7", got)
	}
}

func TestWithSourceExt(t *testing.T) {
	if got := config.WithSourceExt("lib/util"); got != "lib/util.tiny" {
		t.Errorf("WithSourceExt() = %q", got)
	}
	if got := config.WithSourceExt("lib/util.tiny"); got != "lib/util.tiny" {
		t.Errorf("WithSourceExt() = %q", got)
	}
}
