package modules

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/utils"
	"github.com/funvibe/tiny/std"
)

// ErrInvalidPath is returned for import paths that escape their root.
var ErrInvalidPath = errors.New("invalid import path")

// Source is a resolved and read import target.
type Source struct {
	// Path identifies the file in diagnostics: an OS path, or "@std/name.tiny"
	// for the embedded library.
	Path string
	// Dir is the directory relative imports in this file resolve against.
	// Empty for embedded files.
	Dir  string
	Code string
}

// Loader resolves import paths and reads the files they name. It keeps no
// cache: every Load reads the file again.
type Loader struct {
	Root       string // project root for plain paths
	StdLibRoot string // directory overriding the embedded standard library
	StdFS      fs.FS
	Logger     *slog.Logger
}

func NewLoader(root, stdLibRoot string) *Loader {
	return &Loader{
		Root:       root,
		StdLibRoot: stdLibRoot,
		StdFS:      std.FS,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Resolve maps an import path to a file location without reading it.
// fromDir is the directory of the importing file ("" at top level).
func (l *Loader) Resolve(importPath, fromDir string) (string, bool, error) {
	if importPath == "" {
		return "", false, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if strings.HasPrefix(importPath, config.StdPrefix) {
		rel := config.WithSourceExt(strings.TrimPrefix(importPath, config.StdPrefix))
		if l.StdLibRoot != "" {
			return filepath.Join(l.StdLibRoot, filepath.FromSlash(rel)), false, nil
		}
		clean := path.Clean(rel)
		if !fs.ValidPath(clean) {
			return "", false, fmt.Errorf("%w: %s", ErrInvalidPath, importPath)
		}
		return clean, true, nil
	}
	return utils.ResolveImportPath(l.Root, fromDir, config.WithSourceExt(importPath)), false, nil
}

// Load resolves and reads an import target.
func (l *Loader) Load(importPath, fromDir string) (*Source, error) {
	resolved, embedded, err := l.Resolve(importPath, fromDir)
	if err != nil {
		return nil, err
	}
	l.logger().Debug("resolve import", "path", importPath, "resolved", resolved, "embedded", embedded)

	if embedded {
		if l.StdFS == nil {
			return nil, fmt.Errorf("read %s: no standard library available", importPath)
		}
		data, err := fs.ReadFile(l.StdFS, resolved)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", importPath, err)
		}
		return &Source{Path: config.StdPrefix + resolved, Code: string(data)}, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", importPath, err)
	}
	return &Source{Path: resolved, Dir: utils.GetModuleDir(resolved), Code: string(data)}, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}
