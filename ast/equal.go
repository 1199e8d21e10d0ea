package ast

import "slices"

// Equal reports whether a and b have the same shape and values.
// Source positions are ignored.
func Equal(a, b Expression) bool {
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name == y.Name
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Operator == y.Operator && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Call:
		y, ok := b.(*Call)
		if !ok || x.Callee != y.Callee || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if !Equal(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		return true
	case *Empty:
		_, ok := b.(*Empty)
		return ok
	case nil:
		return b == nil
	}
	return false
}

// EqualFunctions is Equal for whole functions, prototypes included.
func EqualFunctions(a, b *Function) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Prototype.Name == b.Prototype.Name &&
		slices.Equal(a.Prototype.Parameters, b.Prototype.Parameters) &&
		Equal(a.Body, b.Body)
}
