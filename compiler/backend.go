package compiler

import "github.com/monet-lang/monet/token"

// Op is a primitive binary operation on two float values.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	// OpLt compares unordered-less-than and widens the result to 1.0 or 0.0.
	OpLt
)

var opNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpLt:  "lt",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "op(?)"
	}
	return opNames[op]
}

var ops = map[string]Op{
	token.SYM_ADD: OpAdd,
	token.SYM_SUB: OpSub,
	token.SYM_MUL: OpMul,
	token.SYM_QUO: OpDiv,
	token.SYM_LSS: OpLt,
}

// LookupOp maps an operator symbol to its backend primitive.
func LookupOp(symbol string) (Op, bool) {
	op, ok := ops[symbol]
	return op, ok
}

// Func is a function known to the backend, declared or defined.
type Func interface {
	Name() string
	Arity() int
}

// Slot is a named stack location holding one float.
type Slot interface {
	Name() string
}

// Value is an SSA value produced by the backend.
type Value interface {
	String() string
}

// Backend receives the operations produced by lowering, in order. Every
// value is a float; a function takes one float per parameter and returns one.
//
// A Backend is single-owner. Callers must not share one across goroutines.
type Backend interface {
	// DeclareFunction adds name to the function registry. An existing
	// function with the same arity is returned as is.
	DeclareFunction(name string, params []string) (Func, error)
	// BeginBody opens the entry block of fn. Subsequent operations are
	// emitted into it.
	BeginBody(fn Func) error
	Param(fn Func, i int) Value

	AllocSlot(name string) Slot
	Store(slot Slot, v Value)
	Load(slot Slot) Value

	ConstFloat(f float64) Value
	BinaryOp(op Op, l, r Value) Value

	LookupFunction(name string) (Func, bool)
	Call(fn Func, args []Value) Value

	Return(v Value)
	// FinishFunction verifies fn and returns an error when it is invalid.
	// On failure fn loses its body; it is removed from the registry unless
	// it was declared before this definition started.
	FinishFunction(fn Func) error
	// DeleteFunction removes fn from the registry.
	DeleteFunction(fn Func)
	// ClearBody drops the body of fn and keeps its declaration.
	ClearBody(fn Func)
}

// Definer is implemented by backends that can tell a declaration from a
// definition.
type Definer interface {
	HasBody(fn Func) bool
}
