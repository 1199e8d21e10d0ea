package token

import "fmt"

// CompileError is a message anchored at the token that caused it.
type CompileError struct {
	Token Token
	Msg   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Token.Pos, e.Msg)
}
