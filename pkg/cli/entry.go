package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/diagnostics"
	"github.com/funvibe/tiny/internal/evaluator"
	"github.com/funvibe/tiny/internal/lexer"
	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/pipeline"
	"github.com/funvibe/tiny/internal/prettyprinter"
)

const usage = `usage: tiny [flags] [file.tiny]

With a file, runs it. With -e, runs the given source text. With neither,
starts the interactive prompt on a terminal or runs standard input otherwise.

flags:
`

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// invocation is the parsed command line.
type invocation struct {
	expr       string
	hasExpr    bool
	showAST    bool
	format     bool
	configPath string
	root       string
	debug      bool
	version    bool
	file       string
}

func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	inv := &invocation{}
	fs := flag.NewFlagSet("tiny", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.Func("e", "evaluate `source` instead of a file", func(s string) error {
		inv.expr, inv.hasExpr = s, true
		return nil
	})
	fs.BoolVar(&inv.showAST, "ast", false, "print the parsed tree with explicit grouping instead of running")
	fs.BoolVar(&inv.format, "fmt", false, "print the source reformatted instead of running")
	fs.StringVar(&inv.configPath, "config", "", "options `file` (YAML or JSON); default .tinyrc.* in the project root")
	fs.StringVar(&inv.root, "root", "", "project root for imports (default: the file's directory, else the working directory)")
	fs.BoolVar(&inv.debug, "debug", false, "log debug output to stderr")
	fs.BoolVar(&inv.version, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch rest := fs.Args(); {
	case len(rest) > 1:
		fs.Usage()
		return nil, fmt.Errorf("expected at most one file, got %d", len(rest))
	case len(rest) == 1:
		if inv.hasExpr {
			return nil, errors.New("-e and a file are mutually exclusive")
		}
		inv.file = rest[0]
	}
	return inv, nil
}

// Run is the process entry point.
func Run() {
	os.Exit(Main(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Main runs the command line against the given streams and returns the exit
// code.
func Main(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "tiny: %v\n", err)
		return exitUsage
	}
	if inv.version {
		fmt.Fprintln(stdout, "tiny "+config.Version)
		return exitOK
	}

	root, err := inv.projectRoot()
	if err != nil {
		fmt.Fprintf(stderr, "tiny: %v\n", err)
		return exitError
	}
	opts, err := loadOptions(inv, root)
	if err != nil {
		fmt.Fprintf(stderr, "tiny: %v\n", err)
		return exitError
	}

	s := newSession(opts, root, stdin, stdout, stderr)
	s.logger.Debug("options", "root", root, "strict", opts.StrictMode, "allowEval", opts.AllowEval,
		"allowDatabase", opts.AllowDatabase, "stdLibRoot", opts.StdLibRoot)

	switch {
	case inv.hasExpr:
		return s.runSource(inv.expr, "<eval>", modeRun, true)
	case inv.file != "":
		data, err := os.ReadFile(inv.file)
		if err != nil {
			fmt.Fprintf(stderr, "tiny: %v\n", err)
			return exitError
		}
		path, err := filepath.Abs(inv.file)
		if err != nil {
			path = inv.file
		}
		return s.runSource(string(data), path, inv.mode(), false)
	case isTerminal(stdin):
		return s.repl()
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "tiny: reading stdin: %v\n", err)
		return exitError
	}
	return s.runSource(string(data), "<stdin>", inv.mode(), false)
}

func (inv *invocation) projectRoot() (string, error) {
	switch {
	case inv.root != "":
		return filepath.Abs(inv.root)
	case inv.file != "":
		return filepath.Abs(filepath.Dir(inv.file))
	}
	return os.Getwd()
}

type mode int

const (
	modeRun mode = iota
	modeAST
	modeFormat
)

func (inv *invocation) mode() mode {
	switch {
	case inv.showAST:
		return modeAST
	case inv.format:
		return modeFormat
	}
	return modeRun
}

// loadOptions reads -config, else the first .tinyrc.* in root, then applies
// TINY_* environment overrides.
func loadOptions(inv *invocation, root string) (config.Options, error) {
	path := inv.configPath
	if path == "" {
		path = config.FindConfig(root)
	}
	opts, err := config.Load(path)
	if err != nil {
		return config.Options{}, err
	}
	if inv.debug {
		opts.Debug = true
	}
	return opts, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// session holds what every run mode shares: options, streams, the
// diagnostics printer and the logger.
type session struct {
	opts    config.Options
	root    string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	stdio   evaluator.Stdio
	printer *diagnostics.Printer
	logger  *slog.Logger
}

func newSession(opts config.Options, root string, stdin io.Reader, stdout, stderr io.Writer) *session {
	level := slog.LevelWarn
	if opts.Debug {
		level = slog.LevelDebug
	}
	var color bool
	if f, ok := stderr.(*os.File); ok && f == os.Stderr {
		color = diagnostics.ResolveColor(string(opts.StderrColor))
	} else {
		color = opts.StderrColor == config.ColorAlways
	}

	return &session{
		opts:   opts,
		root:   root,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		stdio:  evaluator.NewStdio(stdin, stdout, stderr),
		printer: diagnostics.NewPrinter(func(text string) {
			_, _ = io.WriteString(stderr, text)
		}, opts.StderrPrefix, color),
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
}

// runSource lexes, parses and then runs, prints or formats one source text.
// With echo set, a result other than undefined is printed.
func (s *session) runSource(src, file string, m mode, echo bool) int {
	ctx := pipeline.NewPipelineContext(src)
	ctx.FilePath = file
	ctx.OnLexicalError = func(err *diagnostics.DiagnosticError) {
		s.printer.Print(err.Error())
	}

	stages := []pipeline.Processor{&lexer.LexerProcessor{}, &parser.ParserProcessor{}}
	if m == modeRun {
		stages = append(stages, &evaluator.EvalProcessor{
			Env:     evaluator.NewEnvironment(),
			Options: s.opts,
			Stdio:   s.stdio,
			Root:    s.root,
			Logger:  s.logger,
			Prelude: echo,
		})
	}
	ctx = pipeline.New(stages...).Run(ctx)

	s.printer.PrintAll(ctx.Errors)
	if ctx.Failed() {
		return exitError
	}

	switch m {
	case modeAST:
		fmt.Fprint(s.stdout, prettyprinter.Explain(ctx.AstRoot))
		return exitOK
	case modeFormat:
		fmt.Fprint(s.stdout, prettyprinter.Format(ctx.AstRoot))
		return exitOK
	}

	result, _ := ctx.Result.(evaluator.Object)
	if runtimeErr, ok := result.(*evaluator.Error); ok {
		s.printer.Print(runtimeErr.Inspect())
		return exitError
	}
	if echo && result != nil && result.Type() != evaluator.UNDEFINED_OBJ {
		fmt.Fprintln(s.stdout, result.Inspect())
	}
	return exitOK
}
