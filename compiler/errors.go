package compiler

import (
	"errors"
	"fmt"

	"github.com/monet-lang/monet/token"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedFunction = errors.New("unknown function")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrVerification      = errors.New("invalid generated function")
	ErrArgumentCount     = errors.New("wrong number of arguments")
	ErrRedefinedFunction = errors.New("function redefined")
	ErrEmptyBody         = errors.New("empty expression")
)

// Error is a fatal compile error for one top-level item. Kind is one of the
// Err* sentinels; Err is the backend's own error, if any.
type Error struct {
	Kind  error
	Name  string
	Token token.Token
	Err   error
	Msg   string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Name != "" {
		msg += " " + e.Name
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return (&token.CompileError{Token: e.Token, Msg: msg}).Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, name string, tok token.Token, format string, args ...any) *Error {
	e := &Error{Kind: kind, Name: name, Token: tok}
	if format != "" {
		e.Msg = fmt.Sprintf(format, args...)
	}
	return e
}
