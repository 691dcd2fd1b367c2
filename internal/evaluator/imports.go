package evaluator

import (
	"strings"

	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/parser"
)

func (e *Evaluator) evalUseExpression(node *ast.UseExpression, env *Environment) Object {
	path := e.Eval(node.Path, env)
	if isAbrupt(path) {
		return path
	}
	result := e.ImportFile(path, env)
	if isError(result) {
		return result
	}
	return UNDEFINED
}

// ImportFile loads, parses and evaluates a file into env and returns the
// file's final value. Nothing is cached: importing twice runs the file twice.
func (e *Evaluator) ImportFile(pathObj Object, env *Environment) Object {
	s, ok := pathObj.(*String)
	if !ok {
		return newError(KindTypeMismatch, "import path must be a string, got %s", pathObj.Type())
	}
	if e.Loader == nil {
		return newError(KindImportFailed, "cannot import %q: imports are not available", s.Value)
	}

	src, err := e.Loader.Load(s.Value, e.dir)
	if err != nil {
		return newError(KindImportFailed, "cannot import %q: %v", s.Value, err)
	}
	if e.importing[src.Path] {
		return newError(KindImportFailed, "cannot import %q: circular import of %s", s.Value, src.Path)
	}
	e.logger().Debug("import", "path", s.Value, "file", src.Path)

	program, lexErrs, parseErrs := parser.ParseString(src.Code, src.Path, nil)
	if len(lexErrs) > 0 || len(parseErrs) > 0 {
		var lines []string
		for _, diag := range lexErrs {
			lines = append(lines, diag.Error())
		}
		for _, diag := range parseErrs {
			lines = append(lines, diag.Error())
		}
		return newError(KindImportFailed, "cannot import %q:\n%s", s.Value, strings.Join(lines, "\n"))
	}

	if e.importing == nil {
		e.importing = make(map[string]bool)
	}
	e.importing[src.Path] = true
	savedFile, savedDir := e.File, e.dir
	e.File, e.dir = src.Path, src.Dir
	defer func() {
		delete(e.importing, src.Path)
		e.File, e.dir = savedFile, savedDir
	}()

	return e.Eval(program, env)
}

// LoadPrelude imports @std/prelude into env.
func (e *Evaluator) LoadPrelude(env *Environment) Object {
	return e.ImportFile(&String{Value: config.PreludePath}, env)
}
