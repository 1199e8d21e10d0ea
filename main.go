package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
	"tinygo.org/x/go-llvm"
)

const ENV_FILE = ".env"

const helpMessage = `monet compiles a small expression language to LLVM IR.

Usage:
  monet [flags]                   start the REPL (also -ll, --llvm-prompt)
  monet [flags] -c <in> <out>     compile a file; <out> ending in .bc gets bitcode,
                                  anything else textual IR
  monet [flags] -data <file>      decode a literal value and print it

Flags:
`

var (
	compileMode bool
	llvmPrompt  bool

	debugAST    = flag.Bool("debug-ast", false, "print the AST of every parsed item")
	verbose     = flag.Bool("v", false, "print the IR of every compiled function")
	target      = flag.String("target", "", "target triple (default $"+envTarget+")")
	dataLayout  = flag.String("datalayout", "", "data layout string (default $"+envDataLayout+")")
	showVersion = flag.Bool("version", false, "print version information and exit")
	dataFile    = flag.String("data", "", "decode the literal value in `file` and print it")
)

func init() {
	flag.BoolVar(&compileMode, "c", false, "compile <in> to <out>")
	flag.BoolVar(&compileMode, "compile", false, "same as -c")
	flag.BoolVar(&llvmPrompt, "ll", false, "start the REPL")
	flag.BoolVar(&llvmPrompt, "llvm-prompt", false, "same as -ll")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
	os.Exit(1)
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), helpMessage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return
	}

	cfg, err := loadConfig(ENV_FILE)
	if err != nil {
		fail(err)
	}
	if *target != "" {
		cfg.Target = *target
	}
	if *dataLayout != "" {
		cfg.DataLayout = *dataLayout
	}

	opts := options{
		Target:     cfg.Target,
		DataLayout: cfg.DataLayout,
		Verbose:    *verbose,
		DebugAST:   *debugAST,
		Color:      term.IsTerminal(int(os.Stdout.Fd())),
		LockDir:    cfg.CacheDir,
		Out:        os.Stdout,
	}

	if *dataFile != "" {
		if compileMode || llvmPrompt || len(flag.Args()) != 0 {
			flag.Usage()
			os.Exit(2)
		}
		if err := dumpData(*dataFile, opts); err != nil {
			fail(err)
		}
		return
	}

	ctx := llvm.NewContext()
	defer ctx.Dispose()

	args := flag.Args()
	if compileMode {
		if len(args) != 2 || llvmPrompt {
			flag.Usage()
			os.Exit(2)
		}
		if err := compileFile(ctx, args[0], args[1], opts); err != nil {
			fail(err)
		}
		fmt.Printf("✅ Wrote %s\n", args[1])
		return
	}

	if len(args) != 0 {
		flag.Usage()
		os.Exit(2)
	}
	if err := runREPL(ctx, cfg, opts); err != nil {
		fail(err)
	}
}
