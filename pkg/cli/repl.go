package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/funvibe/tiny/internal/config"
	"github.com/funvibe/tiny/internal/evaluator"
	"github.com/funvibe/tiny/internal/lexer"
	"github.com/funvibe/tiny/internal/modules"
	"github.com/funvibe/tiny/internal/parser"
	"github.com/funvibe/tiny/internal/token"
)

const (
	promptMain  = "tiny> "
	promptCont  = "  ... "
	historyFile = ".tiny_history"
	replFile    = "<repl>"
)

const replHelp = `:quit   leave
:reset  start over with an empty environment
:env    list the global bindings
:help   show this text`

// repl runs the interactive prompt until EOF or :quit.
func (s *session) repl() int {
	fmt.Fprintf(s.stdout, "tiny %s (:help for commands)\n", config.Version)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	// Prompts go through liner; scripts reading input share the terminal.
	s.stdio.Stdin = func(prompt string) string {
		line, err := ln.Prompt(prompt)
		if err != nil {
			return ""
		}
		return line
	}

	st := newReplState(s)
	for {
		code, ok := readBalanced(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(s.stdout)
			return exitOK
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if st.execute(code) {
			return exitOK
		}
	}
}

// lineReader is the part of liner.State readBalanced needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// readBalanced reads lines until the brackets, braces and parentheses in
// the collected text balance. Ctrl-C discards the pending input.
func readBalanced(ln lineReader, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if strings.HasPrefix(strings.TrimSpace(b.String()), ":") || bracketDepth(b.String()) <= 0 {
			return b.String(), true
		}
	}
}

// bracketDepth counts open minus closed brackets. Strings and comments are
// skipped because it works on tokens.
func bracketDepth(src string) int {
	l := lexer.New(src)
	depth := 0
	for {
		tok := l.NextToken()
		switch tok.Type {
		case token.EOF:
			return depth
		case token.LPAREN, token.LBRACE, token.LBRACKET:
			depth++
		case token.RPAREN, token.RBRACE, token.RBRACKET:
			depth--
		}
	}
}

// replState is one interactive environment. :reset replaces it.
type replState struct {
	s    *session
	eval *evaluator.Evaluator
	env  *evaluator.Environment
}

func newReplState(s *session) *replState {
	st := &replState{s: s}
	st.reset()
	return st
}

func (st *replState) reset() {
	e := evaluator.New(st.s.opts, st.s.stdio)
	e.Root = st.s.root
	e.Logger = st.s.logger
	loader := modules.NewLoader(st.s.root, st.s.opts.StdLibRoot)
	loader.Logger = st.s.logger
	e.Loader = loader
	e.SetFile(replFile)

	st.eval = e
	st.env = evaluator.NewEnvironment()
	if st.s.opts.UseStdLibAutomatically {
		if res, failed := e.LoadPrelude(st.env).(*evaluator.Error); failed {
			st.s.printer.Print(res.Inspect())
		}
	}
}

// execute runs one REPL entry and reports whether the session should end.
func (st *replState) execute(code string) bool {
	if cmd := strings.TrimSpace(code); strings.HasPrefix(cmd, ":") {
		return st.command(cmd)
	}

	program, lexErrs, parseErrs := parser.ParseString(code, replFile, nil)
	if len(lexErrs) > 0 || len(parseErrs) > 0 {
		st.s.printer.PrintAll(lexErrs)
		st.s.printer.PrintAll(parseErrs)
		return false
	}

	result := st.eval.Eval(program, st.env)
	switch r := result.(type) {
	case *evaluator.Error:
		st.s.printer.Print(r.Inspect())
	case *evaluator.Undefined:
	default:
		fmt.Fprintln(st.s.stdout, result.Inspect())
	}
	return false
}

func (st *replState) command(cmd string) bool {
	switch strings.ToLower(cmd) {
	case ":quit", ":q", ":exit":
		return true
	case ":reset":
		st.reset()
		fmt.Fprintln(st.s.stdout, "environment cleared")
	case ":env":
		for _, name := range st.env.Names() {
			val, _ := st.env.Get(name)
			fmt.Fprintf(st.s.stdout, "%s = %s\n", name, val.Inspect())
		}
	case ":help":
		fmt.Fprintln(st.s.stdout, replHelp)
	default:
		fmt.Fprintf(st.s.stdout, "unknown command %s. Type :help for the list.\n", cmd)
	}
	return false
}
