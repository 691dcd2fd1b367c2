package diagnostics

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Printer writes diagnostics to the stderr collaborator, optionally prefixed
// and wrapped in ANSI colour.
type Printer struct {
	Prefix string
	Color  bool
	Out    func(text string)
}

func NewPrinter(out func(text string), prefix string, color bool) *Printer {
	return &Printer{Prefix: prefix, Color: color, Out: out}
}

// Print writes one message, terminating it with a newline.
func (p *Printer) Print(msg string) {
	if p == nil || p.Out == nil {
		return
	}
	var b strings.Builder
	if p.Color {
		b.WriteString(colorRed)
	}
	b.WriteString(p.Prefix)
	b.WriteString(msg)
	if p.Color {
		b.WriteString(colorReset)
	}
	b.WriteString("\n")
	p.Out(b.String())
}

func (p *Printer) PrintError(err error) {
	if err == nil {
		return
	}
	p.Print(err.Error())
}

func (p *Printer) PrintAll(errs []*DiagnosticError) {
	for _, err := range errs {
		p.Print(err.Error())
	}
}

// ResolveColor turns a stderrColor setting into a decision. "auto" (and the
// empty string) colour only when stderr is a terminal.
func ResolveColor(mode string) bool {
	switch strings.ToLower(mode) {
	case "always", "true", "yes", "on":
		return true
	case "never", "false", "no", "off":
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
