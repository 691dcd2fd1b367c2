package utils

import (
	"path/filepath"
	"strings"

	"github.com/funvibe/tiny/internal/config"
)

// ResolveImportPath resolves an import path against the importing file's
// directory when it starts with "./" or "../", and against root otherwise.
// Absolute paths are returned cleaned.
func ResolveImportPath(root, baseDir, importPath string) string {
	relative := IsRelativeImport(importPath)
	importPath = filepath.FromSlash(importPath)
	if filepath.IsAbs(importPath) {
		return filepath.Clean(importPath)
	}
	if relative && baseDir != "" {
		return filepath.Join(baseDir, importPath)
	}
	if root == "" {
		root = "."
	}
	return filepath.Join(root, importPath)
}

// GetModuleDir returns the directory context for a module path.
// If the path points to a source file, returns the file's directory.
// If the path points to a directory (no extension), returns the path itself.
func GetModuleDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}

// IsRelativeImport reports whether importPath starts with "./" or "../".
// Names such as ".hidden/x" are not relative.
func IsRelativeImport(importPath string) bool {
	for _, prefix := range []string{"./", "../", "." + string(filepath.Separator), ".." + string(filepath.Separator)} {
		if strings.HasPrefix(importPath, prefix) {
			return true
		}
	}
	return false
}
