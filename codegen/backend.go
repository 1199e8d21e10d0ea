// Package codegen emits LLVM IR for the operations produced by the compiler.
package codegen

import (
	"fmt"
	"os"

	"github.com/monet-lang/monet/compiler"
	"tinygo.org/x/go-llvm"
)

// Function is a function in the module. The module itself is the registry;
// Function only caches what the compiler asks for.
type Function struct {
	Val   llvm.Value
	Type  llvm.Type
	name  string
	arity int
	// reused is set when DeclareFunction returned a function that was
	// already in the module.
	reused bool
}

func (f *Function) Name() string { return f.name }
func (f *Function) Arity() int   { return f.arity }

// Slot is an alloca in the entry block of the current function.
type Slot struct {
	Ptr  llvm.Value
	name string
}

func (s *Slot) Name() string { return s.name }

type Value struct {
	Val llvm.Value
}

// String prints the value the way LLVM does, e.g. "double 1.000000e+00".
func (v *Value) String() string { return v.Val.String() }

// Backend implements compiler.Backend on top of one LLVM module.
type Backend struct {
	Context llvm.Context
	Module  llvm.Module
	builder llvm.Builder
	double  llvm.Type
}

var (
	_ compiler.Backend = (*Backend)(nil)
	_ compiler.Definer = (*Backend)(nil)
)

func New(ctx llvm.Context, moduleName string) *Backend {
	return &Backend{
		Context: ctx,
		Module:  ctx.NewModule(moduleName),
		builder: ctx.NewBuilder(),
		double:  ctx.DoubleType(),
	}
}

// Dispose frees the builder and module. The context belongs to the caller.
func (b *Backend) Dispose() {
	b.builder.Dispose()
	b.Module.Dispose()
}

func (b *Backend) funcType(arity int) llvm.Type {
	params := make([]llvm.Type, arity)
	for i := range params {
		params[i] = b.double
	}
	return llvm.FunctionType(b.double, params, false)
}

func (b *Backend) wrap(fn llvm.Value) *Function {
	arity := fn.ParamsCount()
	return &Function{Val: fn, Type: b.funcType(arity), name: fn.Name(), arity: arity}
}

func (b *Backend) DeclareFunction(name string, params []string) (compiler.Func, error) {
	if fn := b.Module.NamedFunction(name); !fn.IsNil() {
		if fn.ParamsCount() != len(params) {
			return nil, fmt.Errorf("@%s already takes %d parameters", name, fn.ParamsCount())
		}
		if fn.BasicBlocksCount() == 0 {
			for i, p := range params {
				fn.Param(i).SetName(p)
			}
		}
		f := b.wrap(fn)
		f.reused = true
		return f, nil
	}

	fnType := b.funcType(len(params))
	fn := llvm.AddFunction(b.Module, name, fnType)
	for i, p := range params {
		fn.Param(i).SetName(p)
	}
	return &Function{Val: fn, Type: fnType, name: name, arity: len(params)}, nil
}

func (b *Backend) BeginBody(f compiler.Func) error {
	fn := f.(*Function).Val
	if fn.BasicBlocksCount() > 0 {
		return fmt.Errorf("@%s already has a body", f.Name())
	}
	entry := b.Context.AddBasicBlock(fn, "entry")
	b.builder.SetInsertPointAtEnd(entry)
	return nil
}

func (b *Backend) Param(f compiler.Func, i int) compiler.Value {
	return &Value{Val: f.(*Function).Val.Param(i)}
}

// AllocSlot places the alloca at the top of the entry block, ahead of any
// instruction already emitted there.
func (b *Backend) AllocSlot(name string) compiler.Slot {
	current := b.builder.GetInsertBlock()
	entry := current.Parent().EntryBasicBlock()
	first := entry.FirstInstruction()

	if first.IsNil() {
		b.builder.SetInsertPointAtEnd(entry)
	} else {
		b.builder.SetInsertPointBefore(first)
	}

	ptr := b.builder.CreateAlloca(b.double, name)
	b.builder.SetInsertPointAtEnd(current)
	return &Slot{Ptr: ptr, name: name}
}

func (b *Backend) Store(s compiler.Slot, v compiler.Value) {
	b.builder.CreateStore(v.(*Value).Val, s.(*Slot).Ptr)
}

func (b *Backend) Load(s compiler.Slot) compiler.Value {
	slot := s.(*Slot)
	return &Value{Val: b.builder.CreateLoad(b.double, slot.Ptr, slot.name)}
}

func (b *Backend) ConstFloat(f float64) compiler.Value {
	return &Value{Val: llvm.ConstFloat(b.double, f)}
}

func (b *Backend) BinaryOp(op compiler.Op, l, r compiler.Value) compiler.Value {
	lhs, rhs := l.(*Value).Val, r.(*Value).Val
	var res llvm.Value
	switch op {
	case compiler.OpAdd:
		res = b.builder.CreateFAdd(lhs, rhs, "addtmp")
	case compiler.OpSub:
		res = b.builder.CreateFSub(lhs, rhs, "subtmp")
	case compiler.OpMul:
		res = b.builder.CreateFMul(lhs, rhs, "multmp")
	case compiler.OpDiv:
		res = b.builder.CreateFDiv(lhs, rhs, "divtmp")
	case compiler.OpLt:
		cmp := b.builder.CreateFCmp(llvm.FloatULT, lhs, rhs, "cmptmp")
		res = b.builder.CreateUIToFP(cmp, b.double, "booltmp")
	default:
		panic(fmt.Sprintf("codegen: unsupported operation %s", op))
	}
	return &Value{Val: res}
}

func (b *Backend) LookupFunction(name string) (compiler.Func, bool) {
	fn := b.Module.NamedFunction(name)
	if fn.IsNil() {
		return nil, false
	}
	return b.wrap(fn), true
}

func (b *Backend) Call(f compiler.Func, args []compiler.Value) compiler.Value {
	fn := f.(*Function)
	vals := make([]llvm.Value, len(args))
	for i, a := range args {
		vals[i] = a.(*Value).Val
	}
	return &Value{Val: b.builder.CreateCall(fn.Type, fn.Val, vals, "calltmp")}
}

func (b *Backend) Return(v compiler.Value) {
	b.builder.CreateRet(v.(*Value).Val)
}

func (b *Backend) FinishFunction(f compiler.Func) error {
	fn := f.(*Function)
	if err := llvm.VerifyFunction(fn.Val, llvm.ReturnStatusAction); err != nil {
		if fn.reused {
			b.ClearBody(f)
		} else {
			b.DeleteFunction(f)
		}
		return err
	}
	return nil
}

func (b *Backend) DeleteFunction(f compiler.Func) {
	b.builder.ClearInsertionPoint()
	f.(*Function).Val.EraseFromParentAsFunction()
}

// ClearBody erases every basic block of f, turning it back into a
// declaration. Calls to f elsewhere in the module stay valid.
func (b *Backend) ClearBody(f compiler.Func) {
	b.builder.ClearInsertionPoint()
	blocks := f.(*Function).Val.BasicBlocks()
	for i := len(blocks) - 1; i >= 0; i-- {
		blocks[i].EraseFromParent()
	}
}

func (b *Backend) HasBody(f compiler.Func) bool {
	return f.(*Function).Val.BasicBlocksCount() > 0
}

// FunctionIR returns the textual IR of a single function.
func (b *Backend) FunctionIR(f compiler.Func) string {
	return f.(*Function).Val.String()
}

// GenerateIR returns the textual IR of the whole module.
func (b *Backend) GenerateIR() string {
	return b.Module.String()
}

// Verify checks every function in the module.
func (b *Backend) Verify() error {
	return llvm.VerifyModule(b.Module, llvm.ReturnStatusAction)
}

// WriteBitcode writes the module as LLVM bitcode to f.
func (b *Backend) WriteBitcode(f *os.File) error {
	return llvm.WriteBitcodeToFile(b.Module, f)
}

func (b *Backend) SetTarget(triple string) {
	b.Module.SetTarget(triple)
}

func (b *Backend) SetDataLayout(layout string) {
	b.Module.SetDataLayout(layout)
}
