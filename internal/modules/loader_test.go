package modules_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/funvibe/tiny/internal/modules"
)

func TestResolve(t *testing.T) {
	root := filepath.Join("proj")
	l := modules.NewLoader(root, "")

	tests := []struct {
		importPath string
		fromDir    string
		want       string
		embedded   bool
	}{
		{"lib/util", "", filepath.Join("proj", "lib", "util.tiny"), false},
		{"lib/util.tiny", filepath.Join("proj", "sub"), filepath.Join("proj", "lib", "util.tiny"), false},
		{"./helper", filepath.Join("proj", "sub"), filepath.Join("proj", "sub", "helper.tiny"), false},
		{"../up", filepath.Join("proj", "sub"), filepath.Join("proj", "up.tiny"), false},
		{"@std/math", "", "math.tiny", true},
		{"@std/a/../b", "", "b.tiny", true},
	}
	for _, tt := range tests {
		t.Run(tt.importPath, func(t *testing.T) {
			got, embedded, err := l.Resolve(tt.importPath, tt.fromDir)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || embedded != tt.embedded {
				t.Errorf("Resolve = %s (embedded %v), want %s (embedded %v)", got, embedded, tt.want, tt.embedded)
			}
		})
	}

	for _, bad := range []string{"", "@std/../escape"} {
		if _, _, err := l.Resolve(bad, ""); !errors.Is(err, modules.ErrInvalidPath) {
			t.Errorf("Resolve(%q) error = %v, want ErrInvalidPath", bad, err)
		}
	}
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "lib", "util.tiny")
	if err := os.WriteFile(path, []byte("let u = 1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := modules.NewLoader(dir, "")
	src, err := l.Load("lib/util", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.Path != path || src.Dir != filepath.Join(dir, "lib") || src.Code != "let u = 1;" {
		t.Errorf("Load = %+v", src)
	}

	if _, err := l.Load("lib/absent", ""); err == nil || !strings.Contains(err.Error(), "lib/absent") {
		t.Errorf("missing file error = %v", err)
	}
}

func TestLoadStandardLibrary(t *testing.T) {
	l := modules.NewLoader(t.TempDir(), "")
	src, err := l.Load("@std/prelude", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.Path != "@std/prelude.tiny" || src.Dir != "" || !strings.Contains(src.Code, "identity") {
		t.Errorf("embedded prelude = %s in %q", src.Path, src.Dir)
	}

	l.StdFS = fstest.MapFS{"extra.tiny": {Data: []byte("let e = 1;")}}
	if src, err := l.Load("@std/extra", ""); err != nil || src.Code != "let e = 1;" {
		t.Errorf("custom StdFS = %v, %v", src, err)
	}

	override := t.TempDir()
	if err := os.WriteFile(filepath.Join(override, "math.tiny"), []byte("let PI = 3;"), 0o644); err != nil {
		t.Fatal(err)
	}
	l = modules.NewLoader(".", override)
	src, err = l.Load("@std/math", "")
	if err != nil {
		t.Fatal(err)
	}
	if src.Code != "let PI = 3;" || src.Dir != override {
		t.Errorf("override = %+v", src)
	}

	l.StdLibRoot = ""
	l.StdFS = nil
	if _, err := l.Load("@std/math", ""); err == nil {
		t.Error("expected an error without a standard library")
	}
}
