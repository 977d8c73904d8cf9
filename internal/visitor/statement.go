package visitor

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/irtype"
	"github.com/occ-lang/occ/internal/irvalue"
)

// visitBlock opens a fresh lexical scope, declares the block's own local
// VariableDeclarations, visits every statement in order, then closes the
// scope. A WhileLoop's PreludeDecl is declared by visitWhileLoop, not
// here.
func (v *Visitor) visitBlock(b *ast.Block) {
	if b == nil {
		return
	}
	v.ctx.OpenScope()
	for _, d := range b.Declarations {
		if vd, ok := d.(*ast.VariableDeclaration); ok {
			v.declareLocalSlot(vd)
		}
	}
	for _, s := range b.Statements {
		v.visitStatement(s)
	}
	v.ctx.CloseScope()
}

func (v *Visitor) declareLocalSlot(vd *ast.VariableDeclaration) {
	ty := irtype.UnboxedType(vd.ResolvedTypeOrVoid())
	reg := v.emitter.Reg()
	v.ctx.Body.WriteString("  " + reg + " = alloca " + string(ty) + "\n")
	v.ctx.DeclareLocal(vd.Ident.Name, irvalue.Operand{Value: reg, Type: ty})
}

// visitStatement is the exhaustive type switch over every Statement
// concrete type.
func (v *Visitor) visitStatement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.AssignmentStatement:
		v.visitAssignment(n)
	case *ast.UnpackAssignmentStatement:
		v.visitUnpackAssignment(n)
	case *ast.ConditionalStatement:
		v.visitConditionalStatement(n)
	case *ast.WhileLoop:
		v.visitWhileLoop(n)
	case *ast.BreakStatement:
		v.ctx.Body.WriteString("  br label %" + n.Loop.LabelPrefix + ".end\n")
	case *ast.SkipStatement:
		v.ctx.Body.WriteString("  br label %" + n.Loop.LabelPrefix + ".condition\n")
	case *ast.ReturnStatement:
		v.visitReturn(n)
	case *ast.YieldStatement:
		v.visitYield(n)
	case *ast.TryStatement:
		v.visitTry(n)
	case *ast.RaiseStatement:
		v.visitRaise(n)
	case *ast.WrappedFunctionCall:
		v.evalExpr(n.Call)
	default:
		v.internal(s.Pos(), "visitStatement: unhandled statement node %T", s)
	}
}

// visitAssignment evaluates Right before Left, per §4.2, then stores
// through Left's address. Left must be an l-value: a VariableAccessExpression
// naming a local/global, or a MemberAccessExpression naming an attribute.
func (v *Visitor) visitAssignment(n *ast.AssignmentStatement) {
	right := v.evalExpr(n.Right)
	addr := v.lvalueAddress(n.Left)
	v.emitter.Store(right, addr)
}

func (v *Visitor) lvalueAddress(e ast.Expression) irvalue.Operand {
	switch n := e.(type) {
	case *ast.VariableAccessExpression:
		if n.Decl.Kind == ast.ATTRIBUTE {
			self, _ := v.ctx.ResolveLocal("self")
			return v.emitter.MemberAddress(self, n.Decl, true)
		}
		if n.Decl.IsGlobal {
			return irvalue.Operand{Value: irtype.MangleVariable(n.Decl), Type: irtype.UnboxedType(n.Decl.ResolvedTypeOrVoid())}
		}
		op, _ := v.ctx.ResolveLocal(n.Decl.Ident.Name)
		return op
	case *ast.MemberAccessExpression:
		return v.visitMemberAccess(n, true)
	default:
		v.internal(e.Pos(), "lvalueAddress: %T is not assignable", e)
		return irvalue.Operand{}
	}
}

// visitUnpackAssignment evaluates Right exactly once into Temp, then
// stores each field of the resulting tuple into the corresponding
// Target, per ast.UnpackAssignmentStatement's doc comment.
func (v *Visitor) visitUnpackAssignment(n *ast.UnpackAssignmentStatement) {
	tuple := v.evalExpr(n.Right)
	if n.Temp != nil {
		v.declareLocalSlot(n.Temp)
		tempSlot, _ := v.ctx.ResolveLocal(n.Temp.Ident.Name)
		v.emitter.Store(tuple, tempSlot)
	}
	for i, target := range n.Targets {
		field := v.emitter.Reg()
		v.ctx.Body.WriteString("  " + field + " = getelementptr " + string(tuple.Type) + ", " + string(tuple.Type) + " " + tuple.Value + ", i32 0, i32 " + itoaInt(int64(i)) + "\n")
		elem := v.emitter.Load(irvalue.Operand{Value: field, Type: tuple.Type})
		v.emitter.Store(elem, v.lvalueAddress(target))
	}
}

func (v *Visitor) visitConditionalStatement(n *ast.ConditionalStatement) {
	prefix := v.ctx.FreshLabel("if")
	cond := v.emitter.Unbox(v.evalExpr(n.Condition), ast.CoreClasses.Bool)
	elseLabel := prefix + ".else"
	if n.Else == nil {
		elseLabel = prefix + ".end"
	}
	v.ctx.Body.WriteString("  br i1 " + cond.Value + ", label %" + prefix + ".then, label %" + elseLabel + "\n")
	v.ctx.Body.WriteString(prefix + ".then:\n")
	v.visitBlock(n.Then)
	v.ctx.Body.WriteString("  br label %" + prefix + ".end\n")
	if n.Else != nil {
		v.ctx.Body.WriteString(prefix + ".else:\n")
		v.visitBlock(n.Else)
		v.ctx.Body.WriteString("  br label %" + prefix + ".end\n")
	}
	v.ctx.Body.WriteString(prefix + ".end:\n")
}

// visitWhileLoop first splices Prelude/PreludeDecl into the enclosing
// block (immediately before the loop's own condition label), then
// emits the condition/block/end label triple.
func (v *Visitor) visitWhileLoop(n *ast.WhileLoop) {
	if n.PreludeDecl != nil {
		v.declareLocalSlot(n.PreludeDecl)
	}
	for _, s := range n.Prelude {
		v.visitStatement(s)
	}

	prefix := n.LabelPrefix
	if prefix == "" {
		prefix = v.ctx.FreshLabel("while")
		n.LabelPrefix = prefix
	}
	v.ctx.Body.WriteString("  br label %" + prefix + ".condition\n")
	v.ctx.Body.WriteString(prefix + ".condition:\n")
	cond := v.emitter.Unbox(v.evalExpr(n.Condition), ast.CoreClasses.Bool)
	v.ctx.Body.WriteString("  br i1 " + cond.Value + ", label %" + prefix + ".block, label %" + prefix + ".end\n")
	v.ctx.Body.WriteString(prefix + ".block:\n")
	v.visitBlock(n.Body)
	v.ctx.Body.WriteString("  br label %" + prefix + ".condition\n")
	v.ctx.Body.WriteString(prefix + ".end:\n")
}

func (v *Visitor) visitReturn(n *ast.ReturnStatement) {
	if n.ReturnValue == nil {
		v.ctx.Body.WriteString("  ret void\n")
		return
	}
	val := v.evalExpr(n.ReturnValue)
	v.ctx.Body.WriteString("  ret " + string(val.Type) + " " + val.Value + "\n")
}

// visitYield implements the generator state machine's suspend point: it
// stores the next resume label into self.$state, stores the yielded
// value into the result out-parameter, then returns true (has-next);
// the resume label itself is emitted by emitGeneratorGetNext, which owns
// the indirect-branch dispatch table.
func (v *Visitor) visitYield(n *ast.YieldStatement) {
	val := v.evalExpr(n.ReturnValue)
	self, _ := v.ctx.ResolveLocal("self")
	v.ctx.Body.WriteString("  store i8* blockaddress(@" + n.ResumeLabel + "), i8** %self.$state\n")
	v.ctx.Body.WriteString("  store " + string(val.Type) + " " + val.Value + ", " + string(val.Type) + "* %self.$current, !point " + self.Value + "\n")
	v.ctx.Body.WriteString("  ret i1 1\n")
	v.ctx.Body.WriteString(n.ResumeLabel + ":\n")
}

// visitTry emits a lowering stand-in for exception handling: the body
// runs unconditionally, handlers and finally blocks are appended in
// sequence. No unwinding code is emitted, so every handler body runs
// after the try body whether or not anything was raised.
func (v *Visitor) visitTry(n *ast.TryStatement) {
	v.visitBlock(n.Body)
	for _, h := range n.Handlers {
		if h.Binding != nil {
			v.declareLocalSlot(h.Binding)
		}
		v.visitBlock(h.Body)
	}
	if n.Finally != nil {
		v.visitBlock(n.Finally)
	}
}

func (v *Visitor) visitRaise(n *ast.RaiseStatement) {
	if n.Value == nil {
		v.ctx.Body.WriteString("  call void @__reraise()\n")
		return
	}
	val := v.evalExpr(n.Value)
	v.emitter.DirectCall("@__raise", []irvalue.Operand{val}, "void")
}
