package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

// Renderer pretty-prints diagnostics to a terminal, modeled on the
// teacher's internal/repl/repl.go color-function table (green/red/yellow/
// cyan/bold/dim SprintFuncs built once and reused).
type Renderer struct {
	errorLabel color.Attribute
	bold       func(a ...interface{}) string
	red        func(a ...interface{}) string
	yellow     func(a ...interface{}) string
	cyan       func(a ...interface{}) string
	dim        func(a ...interface{}) string
}

// NewRenderer builds a Renderer. Color is disabled automatically by the
// fatih/color package when stdout isn't a terminal (its NoColor detection),
// matching the teacher's REPL behavior under non-tty output.
func NewRenderer() *Renderer {
	return &Renderer{
		bold:   color.New(color.Bold).SprintFunc(),
		red:    color.New(color.FgRed, color.Bold).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		cyan:   color.New(color.FgCyan).SprintFunc(),
		dim:    color.New(color.Faint).SprintFunc(),
	}
}

// Render formats one diagnostic for terminal display: a bold red kind/
// position header, the message, and a width-aligned Expected/Actual block
// when present.
func (r *Renderer) Render(e *Error) string {
	var b strings.Builder
	header := fmt.Sprintf("[%s]", e.Kind)
	if e.Pos.Line != 0 {
		header += " " + e.Pos.String()
	}
	b.WriteString(r.red(header))
	b.WriteString(" ")
	b.WriteString(r.bold(e.message()))
	b.WriteString("\n")

	if e.Expected != nil && e.Actual != nil {
		re := renameGreek(e.Expected, e.Actual)
		b.WriteString(r.cyan(alignLabel("Expected", re.expected)))
		b.WriteString("\n")
		b.WriteString(r.cyan(alignLabel("Actual", re.actual)))
		b.WriteString("\n")
	}

	if hint := e.hint(); hint != "" {
		b.WriteString(r.yellow("hint: "))
		b.WriteString(r.dim(hint))
		b.WriteString("\n")
	}
	return b.String()
}

// alignLabel right-pads label using display-width (not byte length), so
// labels line up even if a future label contains wide/combining runes —
// golang.org/x/text/width gives the East-Asian-width-aware column count the
// plain len() byte count can't.
func alignLabel(label, value string) string {
	const column = 10
	w := displayWidth(label + ":")
	pad := column - w
	if pad < 1 {
		pad = 1
	}
	return label + ":" + strings.Repeat(" ", pad) + value
}

func displayWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}
