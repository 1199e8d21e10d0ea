package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/monet-lang/monet/ast"
	"github.com/monet-lang/monet/parser"
	"github.com/monet-lang/monet/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBadFunction = errors.New("recorder rejected function")

type recFunc struct {
	name   string
	params []string
	body   bool
	reused bool
}

func (f *recFunc) Name() string { return f.name }
func (f *recFunc) Arity() int   { return len(f.params) }

type recSlot string

func (s recSlot) Name() string { return string(s) }

type recValue string

func (v recValue) String() string { return string(v) }

// recorder is a Backend that logs every operation it receives.
type recorder struct {
	ops        []string
	funcs      map[string]*recFunc
	rejects    map[string]bool
	tmpCounter int
}

func newRecorder() *recorder {
	return &recorder{funcs: make(map[string]*recFunc), rejects: make(map[string]bool)}
}

func (r *recorder) emit(format string, args ...any) {
	r.ops = append(r.ops, fmt.Sprintf(format, args...))
}

func (r *recorder) tmp() recValue {
	r.tmpCounter++
	return recValue(fmt.Sprintf("%%t%d", r.tmpCounter))
}

// since returns the operations logged after mark.
func (r *recorder) since(mark int) []string {
	return r.ops[mark:]
}

func (r *recorder) DeclareFunction(name string, params []string) (Func, error) {
	r.emit("declare %s(%s)", name, strings.Join(params, " "))
	if f, ok := r.funcs[name]; ok {
		if f.Arity() != len(params) {
			return nil, fmt.Errorf("%s already exists", name)
		}
		f.reused = true
		return f, nil
	}
	f := &recFunc{name: name, params: params}
	r.funcs[name] = f
	return f, nil
}

func (r *recorder) BeginBody(fn Func) error {
	r.emit("begin %s", fn.Name())
	if fn.(*recFunc).body {
		return fmt.Errorf("%s already has a body", fn.Name())
	}
	fn.(*recFunc).body = true
	return nil
}

func (r *recorder) Param(fn Func, i int) Value {
	return recValue("%" + fn.(*recFunc).params[i])
}

func (r *recorder) AllocSlot(name string) Slot {
	r.emit("alloca %s", name)
	return recSlot(name)
}

func (r *recorder) Store(slot Slot, v Value) {
	r.emit("store %s -> %s", v, slot.Name())
}

func (r *recorder) Load(slot Slot) Value {
	v := r.tmp()
	r.emit("%s = load %s", v, slot.Name())
	return v
}

func (r *recorder) ConstFloat(f float64) Value {
	r.emit("const %g", f)
	return recValue(fmt.Sprintf("%g", f))
}

func (r *recorder) BinaryOp(op Op, left, right Value) Value {
	v := r.tmp()
	r.emit("%s = %s %s %s", v, op, left, right)
	return v
}

func (r *recorder) LookupFunction(name string) (Func, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

func (r *recorder) Call(fn Func, args []Value) Value {
	strs := make([]string, len(args))
	for i, a := range args {
		strs[i] = a.String()
	}
	v := r.tmp()
	r.emit("%s = call %s(%s)", v, fn.Name(), strings.Join(strs, " "))
	return v
}

func (r *recorder) Return(v Value) {
	r.emit("ret %s", v)
}

func (r *recorder) FinishFunction(fn Func) error {
	r.emit("finish %s", fn.Name())
	if r.rejects[fn.Name()] {
		if fn.(*recFunc).reused {
			r.ClearBody(fn)
		} else {
			r.DeleteFunction(fn)
		}
		return errBadFunction
	}
	return nil
}

func (r *recorder) DeleteFunction(fn Func) {
	r.emit("delete %s", fn.Name())
	delete(r.funcs, fn.Name())
}

func (r *recorder) ClearBody(fn Func) {
	r.emit("clear %s", fn.Name())
	fn.(*recFunc).body = false
}

func (r *recorder) HasBody(fn Func) bool {
	return fn.(*recFunc).body
}

func mustParseTopLevel(t *testing.T, src string) *ast.Function {
	t.Helper()
	fn, err := parser.TopLevel(src)
	require.NoError(t, err, "input: %q", src)
	return fn
}

func mustCompile(t *testing.T, c *Compiler, src string) Func {
	t.Helper()
	f, err := c.CompileFunction(mustParseTopLevel(t, src))
	require.NoError(t, err, "input: %q", src)
	return f
}

func TestCompileFunctionProtocol(t *testing.T) {
	r := newRecorder()
	c := New(r)

	f := mustCompile(t, c, "def foo(x y) x + y")
	require.Equal(t, "foo", f.Name())
	require.Equal(t, 2, f.Arity())

	expected := []string{
		"declare foo(x y)",
		"begin foo",
		"alloca x",
		"store %x -> x",
		"alloca y",
		"store %y -> y",
		"%t1 = load x",
		"%t2 = load y",
		"%t3 = add %t1 %t2",
		"ret %t3",
		"finish foo",
	}
	require.Equal(t, expected, r.ops)
}

func TestCompileOperandOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{
			"3.0 * 4.0 / 2.0",
			[]string{"const 3", "const 4", "const 2", "%t1 = div 4 2", "%t2 = mul 3 %t1"},
		},
		{
			"1 - 2 + 3",
			[]string{"const 1", "const 2", "%t1 = sub 1 2", "const 3", "%t2 = add %t1 3"},
		},
		{
			"6.0 < 4.0 * 20.0",
			[]string{"const 6", "const 4", "const 20", "%t1 = mul 4 20", "%t2 = lt 6 %t1"},
		},
		{
			"(1 + 2) * 3",
			[]string{"const 1", "const 2", "%t1 = add 1 2", "const 3", "%t2 = mul %t1 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := newRecorder()
			c := New(r)
			fn, v, err := c.CompileTopLevel(mustParseTopLevel(t, tt.input).Body)
			require.NoError(t, err)
			require.Equal(t, AnonPrefix, fn.Name())
			require.Equal(t, 0, fn.Arity())

			// declare + begin, then the body, then ret + finish
			ops := r.ops
			require.Equal(t, "declare __anon_expr()", ops[0])
			require.Equal(t, "begin __anon_expr", ops[1])
			require.Equal(t, tt.expected, ops[2:len(ops)-2])
			require.Equal(t, "ret "+v.String(), ops[len(ops)-2])
			require.Equal(t, "finish __anon_expr", ops[len(ops)-1])
		})
	}
}

func TestCompileCall(t *testing.T) {
	r := newRecorder()
	c := New(r)
	mustCompile(t, c, "extern sin(a)")
	mustCompile(t, c, "def twice(a b) a + b")

	mark := len(r.ops)
	mustCompile(t, c, "def f(x) twice(sin(x) x * 2)")
	expected := []string{
		"declare f(x)",
		"begin f",
		"alloca x",
		"store %x -> x",
		"%t4 = load x",
		"%t5 = call sin(%t4)",
		"%t6 = load x",
		"const 2",
		"%t7 = mul %t6 2",
		"%t8 = call twice(%t5 %t7)",
		"ret %t8",
		"finish f",
	}
	require.Equal(t, expected, r.since(mark))
}

func TestCompileExtern(t *testing.T) {
	r := newRecorder()
	c := New(r)

	f := mustCompile(t, c, "extern cos(x)")
	require.Equal(t, "cos", f.Name())
	require.Equal(t, 1, f.Arity())
	require.Equal(t, []string{"declare cos(x)"}, r.ops)

	// a matching definition fills in the declaration
	mustCompile(t, c, "def cos(x) x")
	require.True(t, r.funcs["cos"].body)
}

func TestCompileRecursive(t *testing.T) {
	r := newRecorder()
	c := New(r)
	mustCompile(t, c, "def foo(x y) x + foo(y 4.0)")
	require.Contains(t, r.ops, "%t3 = call foo(%t2 4)")
}

func TestAnonymousNames(t *testing.T) {
	r := newRecorder()
	c := New(r)

	var names []string
	for _, src := range []string{"1", "2", "3"} {
		fn, _, err := c.CompileTopLevel(mustParseTopLevel(t, src).Body)
		require.NoError(t, err)
		names = append(names, fn.Name())
	}
	require.Equal(t, []string{"__anon_expr", "__anon_expr.1", "__anon_expr.2"}, names)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   []string
		input   string
		kind    error
		message string
	}{
		{"undefined variable", nil, "def f(x) y", ErrUndefinedVariable, "1:10: undefined variable y"},
		{"undefined function", nil, "g(1)", ErrUndefinedFunction, "1:1: unknown function g"},
		{"too few arguments", []string{"extern f(a b)"}, "f(1)", ErrArgumentCount, "1:1: wrong number of arguments f: expected 2, got 1"},
		{"too many arguments", []string{"extern f(a)"}, "f(1 2)", ErrArgumentCount, "1:1: wrong number of arguments f: expected 1, got 2"},
		{"redefined", []string{"def f(x) x"}, "def f(x) x + 1", ErrRedefinedFunction, "1:5: function redefined f: already has a body"},
		{"arity changed", []string{"extern f(x)"}, "extern f(x y)", ErrRedefinedFunction, "1:8: function redefined f: previously declared with 1 parameters, now 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder()
			c := New(r)
			for _, src := range tt.setup {
				mustCompile(t, c, src)
			}

			f, err := c.CompileFunction(mustParseTopLevel(t, tt.input))
			require.Nil(t, f)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.kind), "got %v", err)
			require.Equal(t, tt.message, err.Error())

			var ce *Error
			require.True(t, errors.As(err, &ce))
			require.Equal(t, tt.kind, ce.Kind)
		})
	}
}

func TestFailedLoweringDeletesFunction(t *testing.T) {
	r := newRecorder()
	c := New(r)

	_, err := c.CompileFunction(mustParseTopLevel(t, "def f(x) x + g(x)"))
	require.ErrorIs(t, err, ErrUndefinedFunction)

	_, ok := r.LookupFunction("f")
	require.False(t, ok)
	require.Equal(t, "delete f", r.ops[len(r.ops)-1])
	for _, op := range r.ops {
		require.False(t, strings.Contains(op, "call"), "call emitted before failure: %s", op)
		require.False(t, strings.HasPrefix(op, "ret"), "return emitted before failure: %s", op)
	}
}

func TestFailedDefinitionKeepsDeclaration(t *testing.T) {
	r := newRecorder()
	c := New(r)
	mustCompile(t, c, "extern g(x)")
	mustCompile(t, c, "def f(x) g(x)")

	_, err := c.CompileFunction(mustParseTopLevel(t, "def g(x) y"))
	require.ErrorIs(t, err, ErrUndefinedVariable)

	g, ok := r.LookupFunction("g")
	require.True(t, ok, "extern g was removed")
	require.False(t, r.HasBody(g))
	require.Equal(t, "clear g", r.ops[len(r.ops)-1])
	require.NotContains(t, r.ops, "delete g")

	// the declaration can still be filled in
	mustCompile(t, c, "def g(x) x")
	require.True(t, r.HasBody(g))
}

func TestVerificationFailureKeepsDeclaration(t *testing.T) {
	r := newRecorder()
	r.rejects["h"] = true
	c := New(r)
	mustCompile(t, c, "extern h(x)")

	_, err := c.CompileFunction(mustParseTopLevel(t, "def h(x) x"))
	require.ErrorIs(t, err, ErrVerification)

	h, ok := r.LookupFunction("h")
	require.True(t, ok)
	require.False(t, r.HasBody(h))
	require.Equal(t, "clear h", r.ops[len(r.ops)-1])
}

// plainBackend hides the recorder's HasBody, so only BeginBody can catch
// a second body.
type plainBackend struct{ Backend }

func TestBeginBodyFailureKeepsExistingBody(t *testing.T) {
	r := newRecorder()
	c := New(plainBackend{r})
	mustCompile(t, c, "def k(x) x")

	_, err := c.CompileFunction(mustParseTopLevel(t, "def k(x) x + 1"))
	require.ErrorIs(t, err, ErrVerification)

	k, ok := r.LookupFunction("k")
	require.True(t, ok)
	require.True(t, r.HasBody(k))
	require.Equal(t, "begin k", r.ops[len(r.ops)-1])
}

func TestVerificationFailure(t *testing.T) {
	r := newRecorder()
	r.rejects["bad"] = true
	c := New(r)

	f, err := c.CompileFunction(mustParseTopLevel(t, "def bad(x) x"))
	require.Nil(t, f)
	require.ErrorIs(t, err, ErrVerification)
	require.ErrorIs(t, err, errBadFunction)
	assert.Equal(t, "1:5: invalid generated function bad: recorder rejected function", err.Error())

	_, ok := r.LookupFunction("bad")
	require.False(t, ok)
}

func TestUnknownOperator(t *testing.T) {
	r := newRecorder()
	c := New(r)

	tok := token.Token{Type: token.ILLEGAL, Literal: "%", Pos: token.Position{Line: 1, Column: 3}}
	expr := &ast.Binary{
		Token:    tok,
		Operator: "%",
		Left:     &ast.Number{Value: 1},
		Right:    &ast.Number{Value: 2},
	}
	_, _, err := c.CompileTopLevel(expr)
	require.ErrorIs(t, err, ErrUnknownOperator)
	require.Equal(t, "1:3: unknown operator %", err.Error())
	require.NotContains(t, r.ops, "const 1")
}

func TestEmptyExpression(t *testing.T) {
	c := New(newRecorder())
	_, err := c.CompileExpression(&ast.Empty{}, NewSymbolTable())
	require.ErrorIs(t, err, ErrEmptyBody)
}

func TestCompileProgramStopsAtFirstError(t *testing.T) {
	r := newRecorder()
	c := New(r)

	program, err := parser.Program("prog.mt", "def a(x) x; b(1); def c(y) y")
	require.NoError(t, err)

	funcs, err := c.CompileProgram(program)
	require.ErrorIs(t, err, ErrUndefinedFunction)
	require.Len(t, funcs, 1)
	require.Equal(t, "a", funcs[0].Name())
	require.True(t, strings.HasPrefix(err.Error(), "prog.mt:1:13: "), err.Error())

	_, ok := r.LookupFunction("c")
	require.False(t, ok)
}

func TestSymbolTable(t *testing.T) {
	s := NewSymbolTable()
	s.Put("x", recSlot("x"))
	s.Put("y", recSlot("y"))
	s.Put("x", recSlot("x2"))

	slot, ok := s.Get("x")
	require.True(t, ok)
	require.Equal(t, "x2", slot.Name())
	_, ok = s.Get("z")
	require.False(t, ok)
	slot, ok = s.Get("y")
	require.True(t, ok)
	require.Equal(t, "y", slot.Name())
}

func TestLookupOp(t *testing.T) {
	for sym, name := range map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "div", "<": "lt"} {
		op, ok := LookupOp(sym)
		require.True(t, ok)
		require.Equal(t, name, op.String())
	}
	_, ok := LookupOp("%")
	require.False(t, ok)
}
