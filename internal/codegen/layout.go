// Package codegen implements the value & type services §4.2 groups
// under "Code generator (value & type services)": class layout,
// vtable/class-id access, member access, calls, casts, is-checks and
// constructor emission. internal/visitor drives the AST walk and calls
// into this package for every node kind that touches class or boxed-value
// representation.
package codegen

import (
	"fmt"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/irtype"
	"github.com/occ-lang/occ/internal/irvalue"
)

// Layout describes one class's attribute layout: index 0 is always the
// class identity/vtable pointer (§6's Symbol ABI); subsequent indices are
// the class's own Fields in declaration order, after its superclass
// chain's fields (single inheritance, so this is a simple linear
// concatenation up the SuperDecls chain).
type Layout struct {
	Class      *ast.ClassDeclaration
	AttrCount  int // including the reserved index-0 slot
}

// ComputeLayout walks decl's superclass chain (root first) and assigns
// the class's own Fields attribute indices immediately following its
// superclass's layout, reserving index 0 for the class descriptor.
func ComputeLayout(decl *ast.ClassDeclaration) *Layout {
	base := 1
	if len(decl.SuperDecls) > 0 {
		base = ComputeLayout(decl.SuperDecls[0]).AttrCount
	}
	for i, f := range decl.Fields {
		f.AttributeIndex = base + i
	}
	return &Layout{Class: decl, AttrCount: base + len(decl.Fields)}
}

// Emitter writes IR instructions into one function body's Context; its
// Reg method mints fresh SSA register names, and one Emitter instance owns
// numbering for the duration of one function-body emission, matching the
// Context it shares.
type Emitter struct {
	ctx    *irvalue.Context
	regSeq int

	// CurrentVariation is the generic-monomorphization side channel
	// §4.2 names ("Core code maintains a current variation side channel
	// read by the IR-type mapping to substitute abstract generic
	// types"); nil outside a variation's emission.
	CurrentVariation *ast.ClassDeclarationVariation
}

// NewEmitter returns an Emitter writing into ctx.
func NewEmitter(ctx *irvalue.Context) *Emitter {
	return &Emitter{ctx: ctx}
}

func (e *Emitter) Reg() string {
	e.regSeq++
	return fmt.Sprintf("%%t%d", e.regSeq)
}

// ClassTypeOf resolves t through the current variation's substitution
// map before producing a ClassType, so a generic body's abstract type
// parameters resolve to concrete types during monomorphized emission.
func (e *Emitter) ClassTypeOf(t ast.Type) *ast.ClassType {
	if e.CurrentVariation != nil {
		t = e.CurrentVariation.Substitute(t)
	}
	if ct, ok := t.(*ast.ClassType); ok {
		return ct
	}
	return nil
}

// Box emits the allocate+store sequence for boxing value into classDecl's
// layout and returns the resulting pointer operand; it does not touch the
// evaluation stack (callers push the result themselves).
func (e *Emitter) Box(value irvalue.Operand, classDecl *ast.ClassDeclaration) irvalue.Operand {
	reg := e.Reg()
	op := irtype.BoxType(reg, value, classDecl)
	e.ctx.Body.WriteString("  " + op.AllocInstr + "\n")
	e.ctx.Body.WriteString("  " + op.StoreInstr + "\n")
	return op.Result
}

// Unbox emits a load of the boxed payload at the class's payload offset
// (index 1), returning the unboxed operand.
func (e *Emitter) Unbox(boxed irvalue.Operand, classDecl *ast.ClassDeclaration) irvalue.Operand {
	reg := e.Reg()
	unboxedTy := irtype.UnboxedType(classDecl)
	structTy := "%" + classDecl.Ident.Mangled()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = load %s, %s* getelementptr(%s, %s* %s, i32 0, i32 1)\n",
		reg, unboxedTy, unboxedTy, structTy, structTy, boxed.Value))
	return irvalue.Operand{Value: reg, Type: unboxedTy}
}

// AllocateInstance emits the allocation routine call for a fresh instance
// of classDecl (dispatch rule 4's "allocate a new instance via the
// class's allocation routine").
func (e *Emitter) AllocateInstance(classDecl *ast.ClassDeclaration) irvalue.Operand {
	reg := e.Reg()
	structTy := "%" + classDecl.Ident.Mangled()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = call %s* @%s.alloc()\n", reg, structTy, classDecl.Ident.Mangled()))
	return irvalue.Operand{Value: reg, Type: irvalue.IRType(structTy + "*")}
}

// MemberAddress emits a getelementptr to field's attribute index within
// object, optionally dereferencing (loading) the result unless asLValue
// is true, matching §4.2's "Variable access" case 3.
func (e *Emitter) MemberAddress(object irvalue.Operand, field *ast.VariableDeclaration, asLValue bool) irvalue.Operand {
	reg := e.Reg()
	fieldTy := irtype.UnboxedType(field.ResolvedTypeOrVoid())
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = getelementptr %s, %s %s, i32 0, i32 %d\n",
		reg, object.Type, object.Type, object.Value, field.AttributeIndex))
	addr := irvalue.Operand{Value: reg, Type: fieldTy, NeedsDereference: !asLValue}
	if asLValue {
		return addr
	}
	return e.Load(addr)
}

// Load emits a dereferencing load of addr.
func (e *Emitter) Load(addr irvalue.Operand) irvalue.Operand {
	reg := e.Reg()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = load %s, %s* %s\n", reg, addr.Type, addr.Type, addr.Value))
	return irvalue.Operand{Value: reg, Type: addr.Type}
}

// Store emits a store of value into addr, implementing assignment's
// "store from right's resolved value into left's address."
func (e *Emitter) Store(value, addr irvalue.Operand) {
	e.ctx.Body.WriteString(fmt.Sprintf("  store %s %s, %s* %s\n", value.Type, value.Value, addr.Type, addr.Value))
}

// VirtualCall emits a vtable-indexed call to method on receiver
// (dispatch rule 5, "methods use a virtual call via the class's dispatch
// table").
func (e *Emitter) VirtualCall(receiver irvalue.Operand, method *ast.FunctionDeclaration, args []irvalue.Operand, resultTy irvalue.IRType) *irvalue.Operand {
	vtableSlot := e.Reg()
	fnPtr := e.Reg()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = getelementptr %s, %s %s, i32 0, i32 0\n", vtableSlot, receiver.Type, receiver.Type, receiver.Value))
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = load i8*, i8** %s ; vtable slot for %s\n", fnPtr, vtableSlot, method.Ident.Name))
	return e.emitCall(fnPtr, append([]irvalue.Operand{receiver}, args...), resultTy, true)
}

// DirectCall emits a call by mangled symbol (dispatch rule 5, "non-methods
// and initializers call by mangled name").
func (e *Emitter) DirectCall(symbol string, args []irvalue.Operand, resultTy irvalue.IRType) *irvalue.Operand {
	return e.emitCall(symbol, args, resultTy, false)
}

func (e *Emitter) emitCall(callee string, args []irvalue.Operand, resultTy irvalue.IRType, indirect bool) *irvalue.Operand {
	argStr := ""
	for i, a := range args {
		if i > 0 {
			argStr += ", "
		}
		argStr += fmt.Sprintf("%s %s", a.Type, a.Value)
	}
	if resultTy == "" || resultTy == "void" {
		e.ctx.Body.WriteString(fmt.Sprintf("  call void %s(%s)\n", callee, argStr))
		return nil
	}
	reg := e.Reg()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = call %s %s(%s)\n", reg, resultTy, callee, argStr))
	op := irvalue.Operand{Value: reg, Type: resultTy}
	return &op
}

// Cast emits a checked class cast ("x as T"), label-prefixed "cast".
func (e *Emitter) Cast(value irvalue.Operand, target *ast.ClassDeclaration) irvalue.Operand {
	reg := e.Reg()
	targetTy := "%" + target.Ident.Mangled() + "*"
	label := e.ctx.FreshLabel("cast")
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = call %s @__cast(%s %s, %%classdesc* @%s.desc) ; %s\n",
		reg, targetTy, value.Type, value.Value, target.Ident.Mangled(), label))
	return irvalue.Operand{Value: reg, Type: irvalue.IRType(targetTy)}
}

// IsCheck emits a class-identity test against target's class descriptor,
// then boxes the Boolean result, matching "x is T."
func (e *Emitter) IsCheck(value irvalue.Operand, target *ast.ClassDeclaration) irvalue.Operand {
	reg := e.Reg()
	e.ctx.Body.WriteString(fmt.Sprintf("  %s = call i1 @__is(%s %s, %%classdesc* @%s.desc)\n",
		reg, value.Type, value.Value, target.Ident.Mangled()))
	return e.Box(irvalue.Operand{Value: reg, Type: "i1"}, ast.CoreClasses.Bool)
}
