package config

import "strings"

const Version = "0.4.0"

const SourceFileExt = ".tiny"

// StdPrefix marks an import path that resolves against the standard library root.
const StdPrefix = "@std/"

// PreludePath is imported automatically when UseStdLibAutomatically is set.
const PreludePath = StdPrefix + "prelude"

// HasSourceExt reports whether path already carries the source extension.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

// WithSourceExt appends the source extension when it is missing.
func WithSourceExt(path string) string {
	if HasSourceExt(path) {
		return path
	}
	return path + SourceFileExt
}

// Built-in function names
const (
	PrintFuncName    = "print"
	WriteFuncName    = "write"
	ReadlineFuncName = "readline"
	LenFuncName      = "len"
	StrFuncName      = "str"
	NumFuncName      = "num"
	BoolFuncName     = "bool"
	TypeFuncName     = "type"
	ErrorFuncName    = "error"
	NowFuncName      = "now"
	UUIDFuncName     = "uuid"
	EvalFuncName     = "eval"
	JSFuncName       = "js"
	ImportFuncName   = "import"
)

// Names bound inside every function call environment.
const (
	ArgumentsName = "arguments"
	DecoratorName = "decorator"
	ThisName      = "this"
)

// Well-known decorator keys.
const (
	SkipCheckArgumentsKey = "skipCheckArguments"
	NoCaptureKey          = "noCapture"
)

// DefaultMaxDepth bounds evaluator nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 10000
