package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"rue-lang.dev/rue/pkg/compiler"
	"rue-lang.dev/rue/pkg/tvm"

	"github.com/teris-io/cli"
)

var Description = strings.ReplaceAll(`
The Rue Compiler compiles a single Rue source file into a compiled TVM
s-expression, printed to standard output as a hex string. Rue is a small
statically-typed expression language; TVM is a minimal Chialisp-style
s-expression VM.
`, "\n", " ")

var RueCompiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The source (.rue) file to be compiled").WithType(cli.TypeString)).
	WithOption(cli.NewOption("run", "Executes the compiled output on the bundled TVM interpreter and prints its result").
		WithType(cli.TypeBool)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Unable to open input file: %s\n", err)
		return -1
	}

	result := compiler.Compile(string(content))

	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}

	if !result.Ok {
		return -1
	}

	fmt.Println(hex.EncodeToString(result.Bytes))

	if _, enabled := options["run"]; enabled {
		value, cost, err := tvm.Eval(result.Allocator, result.Node, result.Allocator.Null())
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Unable to complete 'run' pass: %s\n", err)
			return -1
		}
		fmt.Printf("result: %s, cost: %d\n", hex.EncodeToString(result.Allocator.NodeToBytes(value)), cost)
	}

	return 0
}

func main() { os.Exit(RueCompiler.Run(os.Args, os.Stdout)) }
