package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/kr/pretty"
	"github.com/monet-lang/monet/codegen"
	"github.com/monet-lang/monet/compiler"
	"github.com/monet-lang/monet/lexer"
	"github.com/monet-lang/monet/parser"
	"tinygo.org/x/go-llvm"
)

const (
	PROMPT     = "monet-llvm> "
	REPL_INPUT = "<stdin>"
)

// session is one REPL module. Definitions and externs stay in it for the
// rest of the session; each expression is compiled into an anonymous
// function that is removed once its value has been printed.
type session struct {
	backend *codegen.Backend
	comp    *compiler.Compiler
	opts    options
}

func newSession(ctx llvm.Context, opts options) *session {
	b := codegen.New(ctx, "repl")
	applyTarget(b, opts)
	return &session{backend: b, comp: compiler.New(b), opts: opts}
}

func (s *session) Dispose() {
	s.backend.Dispose()
}

// eval parses and compiles every item on line. It stops at the first error;
// items before it keep their effect.
func (s *session) eval(line string) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	program, err := parser.New(lexer.New(REPL_INPUT, line)).ParseProgram()
	if err != nil {
		return err
	}

	out := s.opts.Out
	for _, fn := range program.Functions {
		if s.opts.DebugAST {
			pretty.Fprintf(out, "%# v\n", fn)
		}

		if !fn.Prototype.IsAnonymous() {
			f, err := s.comp.CompileFunction(fn)
			if err != nil {
				return err
			}
			highlightIR(out, s.backend.FunctionIR(f), s.opts.Color)
			continue
		}

		f, v, err := s.comp.CompileTopLevel(fn.Body)
		if err != nil {
			return err
		}
		if s.opts.Verbose {
			highlightIR(out, s.backend.FunctionIR(f), s.opts.Color)
		}
		fmt.Fprintln(out, v.String())
		s.backend.DeleteFunction(f)
	}
	return nil
}

func runREPL(ctx llvm.Context, cfg Config, opts options) error {
	rlCfg := &readline.Config{
		Prompt:      PROMPT,
		HistoryFile: cfg.historyPath(),
	}
	if opts.Color {
		rlCfg.Painter = inputPainter{}
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("failed to start line editor: %w", err)
	}
	defer rl.Close()

	s := newSession(ctx, opts)
	defer s.Dispose()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := s.eval(line); err != nil {
			fmt.Fprintln(os.Stderr, color.RedString("%v", err))
		}
	}
}
