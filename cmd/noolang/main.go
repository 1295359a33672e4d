// Command noolang is the CLI entrypoint: `run`, `repl`, `check` subcommands
// dispatched over stdlib flag (SPEC_FULL.md §1 notes the teacher's own
// cmd/ailang/main.go reaches for flag directly rather than cobra/pflag,
// despite both appearing as indirect deps, so this mirrors that choice).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/jethrolarson/noolang-sub003/internal/diagnostic"
	"github.com/jethrolarson/noolang-sub003/internal/eval"
	"github.com/jethrolarson/noolang-sub003/internal/infer"
	"github.com/jethrolarson/noolang-sub003/internal/loader"
	"github.com/jethrolarson/noolang-sub003/internal/manifest"
	"github.com/jethrolarson/noolang-sub003/internal/parser"
	"github.com/jethrolarson/noolang-sub003/internal/repl"
	"github.com/jethrolarson/noolang-sub003/internal/traits"
	"github.com/jethrolarson/noolang-sub003/internal/types"
)

var (
	// Version is set by ldflags during build.
	Version = "dev"

	red  = color.New(color.FgRed).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
)

func main() {
	var versionFlag = flag.Bool("version", false, "Print version information")
	var helpFlag = flag.Bool("help", false, "Show help")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Noolang %s\n", bold(Version))
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch flag.Arg(0) {
	case "run":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			os.Exit(1)
		}
		runFile(flag.Arg(1))
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			os.Exit(1)
		}
		checkFile(flag.Arg(1))
	case "repl":
		runREPL()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), flag.Arg(0))
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(bold("Noolang"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  noolang <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file>   run a program\n", cyan("run"))
	fmt.Printf("  %s <file>   type-check a program without running it\n", cyan("check"))
	fmt.Printf("  %s          start the interactive REPL\n", cyan("repl"))
}

func newPipeline() (*loader.Loader, *traits.Registry, *infer.Inferencer, *eval.Evaluator) {
	ld := loader.New(manifest.LoadOrDefault())
	registry := traits.NewRegistry()
	inferencer := infer.New(registry)
	inferencer.Resolver = ld
	evaluator := eval.New(registry)
	evaluator.Resolver = ld
	return ld, registry, inferencer, evaluator
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %q: %v\n", red("Error"), path, err)
		os.Exit(1)
	}
	prog, err := parser.Parse(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}

	_, _, inferencer, evaluator := newPipeline()
	inferencer.CurrentFile = path
	evaluator.CurrentFile = path

	if _, err := inferencer.InferProgram(prog, types.NewTypeState()); err != nil {
		printDiagnostic(err)
		os.Exit(1)
	}
	v, err := evaluator.EvalProgram(prog, evaluator.Global)
	if err != nil {
		printDiagnostic(err)
		os.Exit(1)
	}
	fmt.Println(v.String())
}

func checkFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %q: %v\n", red("Error"), path, err)
		os.Exit(1)
	}
	prog, err := parser.Parse(src, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("parse error"), err)
		os.Exit(1)
	}

	_, _, inferencer, _ := newPipeline()
	inferencer.CurrentFile = path

	result, err := inferencer.InferProgram(prog, types.NewTypeState())
	if err != nil {
		printDiagnostic(err)
		os.Exit(1)
	}
	fmt.Printf("%s : %s\n", cyan(path), result.Type.String())
}

func runREPL() {
	ld := loader.New(manifest.LoadOrDefault())
	r := repl.New(ld)
	r.Start(os.Stdout)
}

func printDiagnostic(err error) {
	if de, ok := err.(*diagnostic.Error); ok {
		fmt.Fprint(os.Stderr, diagnostic.NewRenderer().Render(de))
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
}
