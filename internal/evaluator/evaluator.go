package evaluator

import (
	"io"
	"log/slog"
	"path/filepath"

	"github.com/funvibe/tiny/internal/ast"
	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/modules"
)

// ModuleLoader resolves and reads import targets. *modules.Loader is the
// production implementation.
type ModuleLoader interface {
	Load(importPath, fromDir string) (*modules.Source, error)
}

type Evaluator struct {
	Options config.Options
	Stdio   Stdio
	// File is the file being evaluated; runtime errors without a file get it.
	File string
	// Root is the project root plain import paths resolve against.
	Root string
	// Loader for use/import. Nil disables imports.
	Loader ModuleLoader
	Logger *slog.Logger

	// dir is the directory of File, for "./" imports.
	dir string
	// importing holds the files currently being imported, to reject cycles.
	importing map[string]bool
	// evalDepth tracks the current nesting depth of Eval calls to prevent stack overflow
	evalDepth int
}

func New(opts config.Options, stdio Stdio) *Evaluator {
	return &Evaluator{
		Options:   opts,
		Stdio:     stdio,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		importing: make(map[string]bool),
	}
}

// SetFile sets the current file and the directory relative imports use.
func (e *Evaluator) SetFile(file string) {
	e.File = file
	if file != "" {
		e.dir = filepath.Dir(file)
	} else {
		e.dir = ""
	}
}

// Evaluate runs a parsed program in env and returns its value, or the Error
// that stopped it.
func Evaluate(program *ast.Program, env *Environment, opts config.Options, stdio Stdio, filename, root string) Object {
	e := New(opts, stdio)
	e.Root = root
	e.SetFile(filename)
	e.Loader = modules.NewLoader(root, opts.StdLibRoot)
	return e.Eval(program, env)
}

func (e *Evaluator) logger() *slog.Logger {
	if e.Logger == nil {
		e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	// Check recursion depth to prevent Go stack overflow
	e.evalDepth++
	defer func() { e.evalDepth-- }()
	if e.evalDepth > e.Options.Depth() {
		return e.locate(newError(KindRecursionLimit, "maximum recursion depth exceeded (%d)", e.Options.Depth()), node)
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok {
		e.locate(err, node)
	}
	return obj
}

// locate gives an error without a position the position of node.
func (e *Evaluator) locate(err *Error, node ast.Node) *Error {
	if err.Line == 0 && node != nil {
		if provider, ok := node.(ast.TokenProvider); ok {
			tok := provider.GetToken()
			err.Line = tok.Line
			err.Column = tok.Column
		}
	}
	if err.File == "" {
		err.File = e.File
	}
	return err
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return e.evalProgram(node, env)
	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)
	case *ast.LetStatement:
		return e.evalLetStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.DecoratorStatement:
		return e.evalDecoratorStatement(node, env)

	// Literals
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NullLiteral:
		return NULL
	case *ast.UndefinedLiteral:
		return UNDEFINED
	case *ast.ArrayLiteral:
		return e.evalArrayLiteral(node, env)
	case *ast.ObjectLiteral:
		return e.evalObjectLiteral(node, env)
	case *ast.FunctionLiteral:
		return e.evalFunctionLiteral(node, env, nil)

	// Expressions
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PrefixExpression:
		right := e.Eval(node.Right, env)
		if isAbrupt(right) {
			return right
		}
		return e.evalPrefixExpression(node.Operator, right)
	case *ast.InfixExpression:
		return e.evalInfix(node, env)
	case *ast.BlockExpression:
		return e.evalBlockExpression(node, env)
	case *ast.IfExpression:
		return e.evalIfExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(node, env)
	case *ast.TypeofExpression:
		return e.evalTypeofExpression(node, env)
	case *ast.ThrowExpression:
		return e.evalThrowExpression(node, env)
	case *ast.DeleteExpression:
		return e.evalDeleteExpression(node, env)
	case *ast.VoidExpression:
		val := e.Eval(node.Operand, env)
		if isAbrupt(val) {
			return val
		}
		return UNDEFINED
	case *ast.ExprExpression:
		return e.evalExprExpression(node, env)
	case *ast.UseExpression:
		return e.evalUseExpression(node, env)
	}
	return newError(KindUnsupported, "cannot evaluate %T", node)
}
