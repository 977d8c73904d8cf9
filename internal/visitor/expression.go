package visitor

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/irtype"
	"github.com/occ-lang/occ/internal/irvalue"
)

// evalExpr visits e, then immediately pops its one pushed operand back off
// the evaluation stack for the caller's own use — every statement drains
// the stack to empty by its end (§9's "stack balance" invariant), so
// nothing stays resident across statement boundaries.
func (v *Visitor) evalExpr(e ast.Expression) irvalue.Operand {
	v.visitExpression(e)
	return v.ctx.Stack.Pop()
}

// visitExpression is the exhaustive type switch over every Expression
// concrete type, pushing exactly one Operand onto the context's
// evaluation stack per node (the empty Operand for a void-returning
// call used only for its side effect).
func (v *Visitor) visitExpression(e ast.Expression) {
	switch n := e.(type) {
	case *ast.IntegerLiteral:
		raw := irvalue.Operand{Value: itoaInt(n.Value), Type: "i64"}
		v.ctx.Stack.Push(v.emitter.Box(raw, ast.CoreClasses.Int))
	case *ast.FloatLiteral:
		raw := irvalue.Operand{Value: n.String(), Type: "double"}
		v.ctx.Stack.Push(v.emitter.Box(raw, ast.CoreClasses.Float))
	case *ast.BoolLiteral:
		raw := irvalue.Operand{Value: boolLit(n.Value), Type: "i1"}
		v.ctx.Stack.Push(v.emitter.Box(raw, ast.CoreClasses.Bool))
	case *ast.CharLiteral:
		raw := irvalue.Operand{Value: itoaInt(int64(n.Value)), Type: "i8"}
		v.ctx.Stack.Push(v.emitter.Box(raw, ast.CoreClasses.Char))
	case *ast.StringLiteral:
		v.visitStringLiteral(n)
	case *ast.ArrayLiteral:
		v.visitArrayLiteral(n)
	case *ast.VariableAccessExpression:
		v.visitVariableAccess(n)
	case *ast.MemberAccessExpression:
		v.visitMemberAccess(n, false)
	case *ast.SelfExpression:
		op, _ := v.ctx.ResolveLocal("self")
		v.ctx.Stack.Push(op)
	case *ast.ParentCastExpression:
		self, _ := v.ctx.ResolveLocal("self")
		v.ctx.Stack.Push(v.emitter.Cast(self, n.TargetDecl))
	case *ast.FunctionCallExpression:
		v.visitCall(n)
	case *ast.CastExpression:
		value := v.evalExpr(n.Value)
		v.ctx.Stack.Push(v.emitter.Cast(value, n.TargetDecl))
	case *ast.IsExpression:
		value := v.evalExpr(n.Value)
		v.ctx.Stack.Push(v.emitter.IsCheck(value, n.TargetDecl))
	case *ast.ConditionalExpression:
		v.visitConditionalExpression(n)
	case *ast.UnpackAssignmentExpression:
		// A bare tuple expression has no single IR representation; it is
		// only ever consumed through UnpackAssignmentStatement, which
		// reads n.Elements directly rather than through evalExpr.
		v.ctx.Stack.Push(irvalue.Operand{})
	default:
		v.internal(e.Pos(), "visitExpression: unhandled expression node %T", e)
		v.ctx.Stack.Push(irvalue.Operand{})
	}
}

func (v *Visitor) visitStringLiteral(n *ast.StringLiteral) {
	name := v.internConstant(n.Value)
	raw := irvalue.Operand{Value: name, Type: "i8*"}
	v.ctx.Stack.Push(v.emitter.Box(raw, ast.CoreClasses.String))
}

func (v *Visitor) internConstant(s string) string {
	idx := len(v.constants)
	name := "@.str." + itoaInt(int64(idx))
	v.constants = append(v.constants, name+" = constant "+quoteConstant(s))
	return name
}

func (v *Visitor) visitArrayLiteral(n *ast.ArrayLiteral) {
	elems := make([]irvalue.Operand, len(n.Elements))
	for i, el := range n.Elements {
		elems[i] = v.evalExpr(el)
	}
	array := v.emitter.AllocateInstance(arrayElementClass(n))
	for _, el := range elems {
		v.emitter.DirectCall("@Array.append", []irvalue.Operand{array, el}, "void")
	}
	v.ctx.Stack.Push(array)
}

func arrayElementClass(n *ast.ArrayLiteral) *ast.ClassDeclaration {
	if ct, ok := n.ExprType().(*ast.ClassType); ok {
		return ct.Decl
	}
	return ast.CoreClasses.Array
}

// visitVariableAccess implements three of §4.2's variable-access cases
// (the generator-local case reaches the visitor already rewritten by
// internal/desugar into a member access on self), distinguished by the
// resolved declaration's Kind/IsGlobal/ownership rather than by separate
// node types: a local/parameter resolves from
// the context's lexical scope chain; a global resolves to its mangled
// symbol; an attribute implicitly reads through self.
func (v *Visitor) visitVariableAccess(n *ast.VariableAccessExpression) {
	if n.Decl == nil {
		v.fail(n.Pos(), 1, "unresolved variable reference %q", n.Name.String())
		v.ctx.Stack.Push(irvalue.Operand{})
		return
	}
	switch {
	case n.Decl.Kind == ast.ATTRIBUTE:
		self, _ := v.ctx.ResolveLocal("self")
		v.ctx.Stack.Push(v.emitter.MemberAddress(self, n.Decl, false))
	case n.Decl.IsGlobal:
		v.ctx.Stack.Push(v.emitter.Load(irvalue.Operand{Value: irtype.MangleVariable(n.Decl), Type: irtype.UnboxedType(n.Decl.ResolvedTypeOrVoid())}))
	default:
		if op, ok := v.ctx.ResolveLocal(n.Decl.Ident.Name); ok {
			v.ctx.Stack.Push(op)
			return
		}
		v.internal(n.Pos(), "local %q not bound in current scope", n.Decl.Ident.Name)
		v.ctx.Stack.Push(irvalue.Operand{})
	}
}

func (v *Visitor) visitMemberAccess(n *ast.MemberAccessExpression, asLValue bool) irvalue.Operand {
	object := v.evalExpr(n.Object)
	if n.Decl == nil {
		v.internal(n.Pos(), "member access %q has no resolved field (method reference used as a value)", n.Member.String())
		if !asLValue {
			v.ctx.Stack.Push(irvalue.Operand{})
		}
		return irvalue.Operand{}
	}
	addr := v.emitter.MemberAddress(object, n.Decl, asLValue)
	if !asLValue {
		v.ctx.Stack.Push(addr)
	}
	return addr
}

func (v *Visitor) visitConditionalExpression(n *ast.ConditionalExpression) {
	prefix := n.LabelPrefix
	if prefix == "" {
		prefix = v.ctx.FreshLabel("cond")
	}
	cond := v.emitter.Unbox(v.evalExpr(n.Condition), ast.CoreClasses.Bool)
	v.ctx.Body.WriteString("  br i1 " + cond.Value + ", label %" + prefix + ".true, label %" + prefix + ".false\n")
	v.ctx.Body.WriteString(prefix + ".true:\n")
	thenVal := v.evalExpr(n.Then)
	v.ctx.Body.WriteString("  br label %" + prefix + ".end\n")
	v.ctx.Body.WriteString(prefix + ".false:\n")
	elseVal := v.evalExpr(n.Else)
	v.ctx.Body.WriteString("  br label %" + prefix + ".end\n")
	v.ctx.Body.WriteString(prefix + ".end:\n")
	reg := v.emitter.Reg()
	v.ctx.Body.WriteString("  " + reg + " = phi " + string(thenVal.Type) + " [" + thenVal.Value + ", %" + prefix + ".true], [" + elseVal.Value + ", %" + prefix + ".false]\n")
	v.ctx.Stack.Push(irvalue.Operand{Value: reg, Type: thenVal.Type})
}

// visitCall implements the function-call dispatch rules of §4.2: an
// initializer of a treated-special core boxed class (Int, Float, Bool,
// Char, String, Array) receives an already-boxed argument and pushes it
// unchanged, emitting no call at all; unbound functions call directly by
// mangled name; initializers reached through ".Create(...)" allocate a
// fresh instance first and always push self as the call's result;
// initializers reached any other way (superclass-initializer chaining)
// call directly against the existing receiver and still push self;
// native-derived methods call directly, bypassing the vtable (there is
// no overriding to dispatch on); ordinary methods call virtually through
// the receiver's dispatch table; operator- and comprehension-lowered
// calls are ordinary method or unbound calls by the time they reach
// here, already shaped that way by internal/desugar.
func (v *Visitor) visitCall(n *ast.FunctionCallExpression) {
	fn := n.Callee
	if fn == nil {
		v.fail(n.Pos(), 1, "unresolved call")
		v.ctx.Stack.Push(irvalue.Operand{})
		return
	}
	args := make([]irvalue.Operand, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = v.evalExpr(a)
	}
	resultTy := callResultType(fn)
	symbol := irtype.MangleFunction(fn)

	switch {
	case fn.Kind == ast.INITIALIZER && ast.IsTreatedSpecialBoxed(fn.Owner):
		// Rule 1: a treated-special core boxed class's initializer
		// (Int(x), Bool(x), ...) receives an argument that is already
		// the boxed value per the Literals rule; push it unchanged and
		// emit no call.
		v.ctx.Stack.Push(args[0])

	case fn.Kind == ast.UNBOUND:
		// Rule 5 (non-methods): no receiver, direct call by mangled name.
		if r := v.emitter.DirectCall(symbol, args, resultTy); r != nil {
			v.ctx.Stack.Push(*r)
		} else {
			v.ctx.Stack.Push(irvalue.Operand{})
		}

	case fn.Kind == ast.INITIALIZER && n.IsInitializerOfMemberAccess:
		// Rule 4: allocate a new instance via the class's allocation
		// routine, then call the initializer directly against it.
		instance := v.emitter.AllocateInstance(fn.Owner)
		v.emitter.DirectCall(symbol, append([]irvalue.Operand{instance}, args...), "void")
		v.ctx.Stack.Push(instance)

	case fn.Kind == ast.INITIALIZER:
		// Initializer without allocation (superclass-initializer
		// chaining) against an already-allocated receiver; still pushes
		// self per dispatch rule 6.
		receiver := v.evalExpr(n.Receiver)
		v.emitter.DirectCall(symbol, append([]irvalue.Operand{receiver}, args...), "void")
		v.ctx.Stack.Push(receiver)

	case fn.NativeDerived:
		// Native methods have no override set to dispatch on;
		// call directly.
		receiver := v.evalExpr(n.Receiver)
		if r := v.emitter.DirectCall(symbol, append([]irvalue.Operand{receiver}, args...), resultTy); r != nil {
			v.ctx.Stack.Push(*r)
		} else {
			v.ctx.Stack.Push(irvalue.Operand{})
		}

	case fn.Kind == ast.METHOD:
		// Rule 5 (methods): ordinary virtual dispatch through the receiver's
		// vtable.
		receiver := v.evalExpr(n.Receiver)
		if r := v.emitter.VirtualCall(receiver, fn, args, resultTy); r != nil {
			v.ctx.Stack.Push(*r)
		} else {
			v.ctx.Stack.Push(irvalue.Operand{})
		}

	default:
		// Anything left over (e.g. a resolved call whose
		// receiver was already folded away, such as a wrapper-class
		// invoke forwarding shim) calls directly by mangled name.
		if r := v.emitter.DirectCall(symbol, args, resultTy); r != nil {
			v.ctx.Stack.Push(*r)
		} else {
			v.ctx.Stack.Push(irvalue.Operand{})
		}
	}
}

func callResultType(fn *ast.FunctionDeclaration) irvalue.IRType {
	if fn.Kind == ast.INITIALIZER {
		return "void"
	}
	if fn.ResolvedReturnType == nil {
		return "void"
	}
	if ct, ok := fn.ResolvedReturnType.(*ast.ClassType); ok {
		return irtype.MapToLLVMType(ct)
	}
	return "void"
}

func itoaInt(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func boolLit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func quoteConstant(s string) string {
	out := []byte{'"'}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\', c)
			continue
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
