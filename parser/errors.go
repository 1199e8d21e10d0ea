package parser

import (
	"fmt"

	"github.com/monet-lang/monet/token"
)

// SyntaxError reports input that does not match the grammar.
type SyntaxError struct {
	Pos      token.Position
	Expected string      // description of what would have been accepted
	Found    token.Token // token present at Pos
	Msg      string      // set instead of Expected for non-mismatch errors
}

func (e *SyntaxError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: syntax error: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("%s: syntax error: expected %s, got %s", e.Pos, e.Expected, e.Found)
}
