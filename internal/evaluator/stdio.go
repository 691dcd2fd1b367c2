package evaluator

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Stdio is the evaluator's view of the process streams. Hosts replace the
// functions to capture output or feed input.
type Stdio struct {
	Stdin  func(prompt string) string
	Stdout func(s string)
	Stderr func(s string)
}

// DefaultStdio binds to os.Stdin, os.Stdout and os.Stderr.
func DefaultStdio() Stdio {
	return NewStdio(os.Stdin, os.Stdout, os.Stderr)
}

// NewStdio binds the collaborators to arbitrary streams. Stdin returns the
// next line without its terminator, or "" at end of input.
func NewStdio(in io.Reader, out, errOut io.Writer) Stdio {
	reader := bufio.NewReader(in)
	return Stdio{
		Stdin: func(prompt string) string {
			if prompt != "" {
				_, _ = io.WriteString(out, prompt)
			}
			line, _ := reader.ReadString('\n')
			return strings.TrimRight(line, "\r\n")
		},
		Stdout: func(s string) { _, _ = io.WriteString(out, s) },
		Stderr: func(s string) { _, _ = io.WriteString(errOut, s) },
	}
}

func (s Stdio) write(text string) {
	if s.Stdout != nil {
		s.Stdout(text)
	}
}

func (s Stdio) read(prompt string) string {
	if s.Stdin == nil {
		return ""
	}
	return s.Stdin(prompt)
}
