package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/monet-lang/monet/codegen"
	"github.com/monet-lang/monet/compiler"
	"github.com/monet-lang/monet/parser"
	"tinygo.org/x/go-llvm"
)

const (
	IR_SUFFIX = ".ll"
	BC_SUFFIX = ".bc"
)

type options struct {
	Target     string
	DataLayout string
	Verbose    bool
	DebugAST   bool
	Color      bool
	LockDir    string
	Out        io.Writer
}

func moduleName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func applyTarget(b *codegen.Backend, opts options) {
	if opts.Target != "" {
		b.SetTarget(opts.Target)
	}
	if opts.DataLayout != "" {
		b.SetDataLayout(opts.DataLayout)
	}
}

// compileFile compiles every item of input into one module and writes it to
// output, as bitcode when output ends in .bc and as textual IR otherwise.
// Nothing is written if any item fails.
func compileFile(ctx llvm.Context, input, output string, opts options) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", input, err)
	}

	program, err := parser.Program(input, string(src))
	if err != nil {
		return err
	}
	if opts.DebugAST {
		for _, fn := range program.Functions {
			pretty.Fprintf(opts.Out, "%# v\n", fn)
		}
	}

	b := codegen.New(ctx, moduleName(input))
	defer b.Dispose()
	applyTarget(b, opts)

	funcs, err := compiler.New(b).CompileProgram(program)
	if err != nil {
		return err
	}
	if opts.Verbose {
		for _, f := range funcs {
			highlightIR(opts.Out, b.FunctionIR(f), opts.Color)
		}
	}
	if err := b.Verify(); err != nil {
		return fmt.Errorf("module %s is invalid: %w", moduleName(input), err)
	}

	return writeOutput(output, opts.LockDir, func(f *os.File) error {
		if filepath.Ext(output) == BC_SUFFIX {
			return b.WriteBitcode(f)
		}
		_, err := io.WriteString(f, b.GenerateIR())
		return err
	})
}
