package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/quick"
	"github.com/fatih/color"
	"github.com/monet-lang/monet/lexer"
	"github.com/monet-lang/monet/token"
)

var (
	keywordColor = color.New(color.FgCyan, color.Bold)
	numberColor  = color.New(color.FgMagenta)
	illegalColor = color.New(color.FgRed)
)

// highlightIR writes ir to w, syntax highlighted when enabled.
func highlightIR(w io.Writer, ir string, enabled bool) {
	if enabled {
		if err := quick.Highlight(w, ir, "llvm", "terminal256", "monokai"); err == nil {
			return
		}
	}
	fmt.Fprint(w, ir)
}

// paintSource colours keywords, numbers and illegal characters of a source
// line. Everything else, comments included, is copied unchanged.
func paintSource(src string) string {
	runes := []rune(src)
	var b strings.Builder

	i := 0
	for _, tok := range lexer.New("", src).Tokenize() {
		if tok.Type == token.EOF {
			break
		}
		if tok.Pos.Offset > i {
			b.WriteString(string(runes[i:tok.Pos.Offset]))
		}

		switch {
		case tok.IsKeyword():
			b.WriteString(keywordColor.Sprint(tok.Literal))
		case tok.Type == token.INT || tok.Type == token.FLOAT:
			b.WriteString(numberColor.Sprint(tok.Literal))
		case tok.Type == token.ILLEGAL:
			b.WriteString(illegalColor.Sprint(tok.Literal))
		default:
			b.WriteString(tok.Literal)
		}
		i = tok.Pos.Offset + len([]rune(tok.Literal))
	}
	if i < len(runes) {
		b.WriteString(string(runes[i:]))
	}

	return b.String()
}

// inputPainter colours the line being edited in the REPL.
type inputPainter struct{}

func (inputPainter) Paint(line []rune, _ int) []rune {
	if color.NoColor {
		return line
	}
	return []rune(paintSource(string(line)))
}
