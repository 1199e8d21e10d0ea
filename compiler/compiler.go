package compiler

import (
	"fmt"

	"github.com/monet-lang/monet/ast"
	"github.com/monet-lang/monet/token"
)

// AnonPrefix names the functions wrapping top-level expressions.
const AnonPrefix = "__anon_expr"

// Compiler lowers parsed functions into backend operations. It keeps no
// state between items apart from the counter used to name anonymous
// functions; symbol tables are created per function.
type Compiler struct {
	backend   Backend
	anonCount int
}

func New(b Backend) *Compiler {
	return &Compiler{backend: b}
}

// CompileProgram compiles every item of p in order and stops at the first
// error. The functions compiled before the failure stay in the backend.
func (c *Compiler) CompileProgram(p *ast.Program) ([]Func, error) {
	funcs := make([]Func, 0, len(p.Functions))
	for _, fn := range p.Functions {
		f, err := c.CompileFunction(fn)
		if err != nil {
			return funcs, err
		}
		funcs = append(funcs, f)
	}
	return funcs, nil
}

// CompileTopLevel wraps expr in a zero parameter function and compiles it.
// It returns the function and the value it returns.
func (c *Compiler) CompileTopLevel(expr ast.Expression) (Func, Value, error) {
	fn := ast.NewTopLevel(expr)
	f, v, err := c.compileFunction(fn)
	if err != nil {
		return nil, nil, err
	}
	return f, v, nil
}

// CompileFunction declares fn and, unless it is an extern, lowers its body.
// Anonymous functions receive a fresh name.
func (c *Compiler) CompileFunction(fn *ast.Function) (Func, error) {
	f, _, err := c.compileFunction(fn)
	return f, err
}

func (c *Compiler) compileFunction(fn *ast.Function) (Func, Value, error) {
	proto := fn.Prototype
	name := proto.Name
	if proto.IsAnonymous() {
		name = c.anonName()
	}

	_, existed := c.backend.LookupFunction(name)
	f, err := c.declare(name, proto, !fn.IsExtern())
	if err != nil {
		return nil, nil, err
	}
	if fn.IsExtern() {
		return f, nil, nil
	}

	if err := c.backend.BeginBody(f); err != nil {
		if !existed {
			c.backend.DeleteFunction(f)
		}
		return nil, nil, &Error{Kind: ErrVerification, Name: name, Token: proto.Token, Err: err}
	}

	syms := NewSymbolTable()
	for i, param := range proto.Parameters {
		slot := c.backend.AllocSlot(param)
		c.backend.Store(slot, c.backend.Param(f, i))
		syms.Put(param, slot)
	}

	ret, err := c.CompileExpression(fn.Body, syms)
	if err != nil {
		c.discard(f, existed)
		return nil, nil, err
	}
	c.backend.Return(ret)

	if err := c.backend.FinishFunction(f); err != nil {
		return nil, nil, &Error{Kind: ErrVerification, Name: name, Token: proto.Token, Err: err}
	}
	return f, ret, nil
}

// discard undoes a failed definition. A function declared before this
// definition may already be called elsewhere, so it keeps its declaration
// and only loses the partial body.
func (c *Compiler) discard(f Func, existed bool) {
	if existed {
		c.backend.ClearBody(f)
		return
	}
	c.backend.DeleteFunction(f)
}

func (c *Compiler) declare(name string, proto *ast.Prototype, withBody bool) (Func, error) {
	arity := len(proto.Parameters)
	if prev, ok := c.backend.LookupFunction(name); ok {
		if prev.Arity() != arity {
			return nil, newError(ErrRedefinedFunction, name, proto.Token,
				"previously declared with %d parameters, now %d", prev.Arity(), arity)
		}
		if d, ok := c.backend.(Definer); ok && withBody && d.HasBody(prev) {
			return nil, newError(ErrRedefinedFunction, name, proto.Token, "already has a body")
		}
	}

	f, err := c.backend.DeclareFunction(name, proto.Parameters)
	if err != nil {
		return nil, &Error{Kind: ErrRedefinedFunction, Name: name, Token: proto.Token, Err: err}
	}
	return f, nil
}

func (c *Compiler) anonName() string {
	name := AnonPrefix
	if c.anonCount > 0 {
		name = fmt.Sprintf("%s.%d", AnonPrefix, c.anonCount)
	}
	c.anonCount++
	return name
}

// CompileExpression lowers expr against syms and returns its value. Each
// node is visited once; operands are lowered left to right.
func (c *Compiler) CompileExpression(expr ast.Expression, syms *SymbolTable) (Value, error) {
	switch e := expr.(type) {
	case *ast.Number:
		return c.backend.ConstFloat(e.Value), nil
	case *ast.Variable:
		return c.compileVariable(e, syms)
	case *ast.Binary:
		return c.compileBinary(e, syms)
	case *ast.Call:
		return c.compileCall(e, syms)
	case *ast.Empty:
		return nil, newError(ErrEmptyBody, "", e.Token, "")
	}
	return nil, newError(ErrUnknownOperator, "", token.Token{}, "unsupported expression %T", expr)
}

func (c *Compiler) compileVariable(v *ast.Variable, syms *SymbolTable) (Value, error) {
	slot, ok := syms.Get(v.Name)
	if !ok {
		return nil, newError(ErrUndefinedVariable, v.Name, v.Token, "")
	}
	return c.backend.Load(slot), nil
}

func (c *Compiler) compileBinary(b *ast.Binary, syms *SymbolTable) (Value, error) {
	op, ok := LookupOp(b.Operator)
	if !ok {
		return nil, newError(ErrUnknownOperator, b.Operator, b.Token, "")
	}

	left, err := c.CompileExpression(b.Left, syms)
	if err != nil {
		return nil, err
	}
	right, err := c.CompileExpression(b.Right, syms)
	if err != nil {
		return nil, err
	}
	return c.backend.BinaryOp(op, left, right), nil
}

func (c *Compiler) compileCall(call *ast.Call, syms *SymbolTable) (Value, error) {
	fn, ok := c.backend.LookupFunction(call.Callee)
	if !ok {
		return nil, newError(ErrUndefinedFunction, call.Callee, call.Token, "")
	}
	if fn.Arity() != len(call.Arguments) {
		return nil, newError(ErrArgumentCount, call.Callee, call.Token,
			"expected %d, got %d", fn.Arity(), len(call.Arguments))
	}

	args := make([]Value, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		v, err := c.CompileExpression(arg, syms)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return c.backend.Call(fn, args), nil
}
