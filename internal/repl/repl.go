// Package repl implements an interactive read-eval-print loop over the
// inferencer and evaluator, modeled on the teacher's internal/repl/repl.go
// (liner-based line editing with history, fatih/color prompt/output
// coloring) with `:type`, `:env`, `:quit` introspection commands mirroring
// internal/repl/repl_commands.go's colon-command dispatch (SPEC_FULL.md §3).
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/eval"
	"github.com/jethrolarson/noolang-sub003/internal/infer"
	"github.com/jethrolarson/noolang-sub003/internal/loader"
	"github.com/jethrolarson/noolang-sub003/internal/parser"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// REPL holds the persistent evaluator/inferencer state shared across
// commands, one `Registry` of traits feeding both (spec §4.7: "the trait
// registry is read-only at runtime" after setup, but the REPL's own
// `constraint`/`implement` statements still mutate it as they're entered).
type REPL struct {
	registry  *traits.Registry
	inf       *infer.Inferencer
	ev        *eval.Evaluator
	typeState *types.TypeState
	env       *eval.Environment
	history   []string
}

// New builds a REPL wired to a module loader for `import` support.
func New(ld *loader.Loader) *REPL {
	registry := traits.NewRegistry()
	inferencer := infer.New(registry)
	inferencer.Resolver = ld
	evaluator := eval.New(registry)
	evaluator.Resolver = ld

	return &REPL{
		registry:  registry,
		inf:       inferencer,
		ev:        evaluator,
		typeState: types.NewTypeState(),
		env:       evaluator.Global,
	}
}

// Start runs the read-eval-print loop against in/out until `:quit` or EOF.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".noolang_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s\n", bold("Noolang"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if strings.HasPrefix(input, ":") {
			for _, cmd := range []string{":help", ":type", ":env", ":quit"} {
				if strings.HasPrefix(cmd, input) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt("noo> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}
		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand dispatches a colon-prefixed command, returning true if the
// REPL should exit.
func (r *REPL) handleCommand(cmd string, out io.Writer) bool {
	parts := strings.Fields(cmd)
	switch parts[0] {
	case ":quit", ":q", ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case ":help", ":h":
		r.printHelp(out)
	case ":type", ":t":
		if len(parts) < 2 {
			fmt.Fprintln(out, "Usage: :type <expression>")
			return false
		}
		r.showType(strings.Join(parts[1:], " "), out)
	case ":env":
		r.showEnv(out)
	default:
		fmt.Fprintf(out, "%s: unknown command %s\n", yellow("warning"), parts[0])
	}
	return false
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  :type <expr>   show the inferred type of an expression")
	fmt.Fprintln(out, "  :env           list bound names in the current environment")
	fmt.Fprintln(out, "  :quit          exit the REPL")
}

func (r *REPL) showEnv(out io.Writer) {
	names := r.env.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, dim("(empty)"))
		return
	}
	for _, n := range names {
		fmt.Fprintf(out, "  %s\n", cyan(n))
	}
}

// showType parses and infers input without evaluating it.
func (r *REPL) showType(input string, out io.Writer) {
	prog, err := parser.Parse([]byte(input), "<repl>")
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("parse error"), err)
		return
	}
	result, err := r.inf.InferProgram(prog, r.typeState)
	if err != nil {
		r.printError(err, out)
		return
	}
	fmt.Fprintf(out, "%s\n", cyan(result.Type.String()))
}

// evalLine runs input through the full parse -> infer -> eval pipeline,
// printing the resulting value (or a rendered diagnostic on failure).
func (r *REPL) evalLine(input string, out io.Writer) {
	prog, err := parser.Parse([]byte(input), "<repl>")
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("parse error"), err)
		return
	}
	typed, err := r.inf.InferProgram(prog, r.typeState)
	if err != nil {
		r.printError(err, out)
		return
	}
	r.typeState = typed.State

	v, err := r.ev.EvalProgram(prog, r.env)
	if err != nil {
		r.printError(err, out)
		return
	}
	fmt.Fprintf(out, "%s : %s\n", v.String(), dim(typed.Type.String()))
}

func (r *REPL) printError(err error, out io.Writer) {
	if de, ok := err.(*diagnostic.Error); ok {
		fmt.Fprint(out, diagnostic.NewRenderer().Render(de))
		return
	}
	fmt.Fprintf(out, "%s: %v\n", red("error"), err)
}
