package builder

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/desugar"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
	"github.com/occ-lang/occ/internal/overload"
)

// surfaceToCanonicalOp translates a lexer token literal to the operator
// spelling desugar's mapping tables use (desugar.BinaryOperatorMethod
// expects "=" for equality and the and/or keywords, and
// desugar.UnaryOperatorMethod expects "not", where the lexer produces the
// "=="/"&&"/"||"/"!" symbols).
func surfaceToCanonicalOp(op string) string {
	switch op {
	case "==":
		return "="
	case "&&":
		return "and"
	case "||":
		return "or"
	case "!":
		return "not"
	default:
		return op
	}
}

// buildExpr builds one surface expression. Operator lowering, call
// dispatch, and receiver resolution happen here rather than being
// deferred wholesale to internal/resolve: a call against a name visible
// in the current class or module resolves eagerly; only genuinely
// type-dependent dispatch (which overload among several candidates of
// the same name and arity, which class a "+" lowers against) is left as
// an unresolved stub for internal/resolve to rebind once it has attached
// types to every expression.
func (b *Builder) buildExpr(e cst.Expr) ast.Expression {
	switch n := e.(type) {
	case *cst.IntLit:
		return &ast.IntegerLiteral{PosVal: n.Pos(), Value: n.Value}
	case *cst.FloatLit:
		return &ast.FloatLiteral{PosVal: n.Pos(), Value: n.Value}
	case *cst.BoolLit:
		return &ast.BoolLiteral{PosVal: n.Pos(), Value: n.Value}
	case *cst.CharLit:
		return &ast.CharLiteral{PosVal: n.Pos(), Value: n.Value}
	case *cst.StringLit:
		return &ast.StringLiteral{PosVal: n.Pos(), Value: n.Value}

	case *cst.ArrayLit:
		elems := make([]ast.Expression, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = b.buildExpr(el)
		}
		return &ast.ArrayLiteral{PosVal: n.Pos(), Elements: elems}

	case *cst.Self:
		return &ast.SelfExpression{PosVal: n.Pos()}

	case *cst.Parent:
		return &ast.ParentCastExpression{PosVal: n.Pos(), Target: ident.New(n.Target), TargetDecl: b.classByName(n.Target)}

	case *cst.Ident:
		return b.buildIdent(n)

	case *cst.MemberAccess:
		return &ast.MemberAccessExpression{PosVal: n.Pos(), Object: b.buildExpr(n.Object), Member: ident.New(n.Member), Decl: b.lookupField(n.Object, n.Member)}

	case *cst.Call:
		return b.buildCall(n)

	case *cst.New:
		return b.buildNew(n)

	case *cst.BinaryExpr:
		return b.lowerBinaryOp(n.Pos(), surfaceToCanonicalOp(n.Op), b.buildExpr(n.Left), b.buildExpr(n.Right))

	case *cst.UnaryExpr:
		return b.lowerUnaryOp(n.Pos(), surfaceToCanonicalOp(n.Op), b.buildExpr(n.Operand))

	case *cst.Cast:
		return &ast.CastExpression{PosVal: n.Pos(), Value: b.buildExpr(n.Value), Target: ident.New(n.Target), TargetDecl: b.classByName(n.Target)}

	case *cst.IsExpr:
		return &ast.IsExpression{PosVal: n.Pos(), Value: b.buildExpr(n.Value), Target: ident.New(n.Target), TargetDecl: b.classByName(n.Target)}

	case *cst.Conditional:
		return &ast.ConditionalExpression{
			PosVal:      n.Pos(),
			Condition:   b.buildExpr(n.Cond),
			Then:        b.buildExpr(n.Then),
			Else:        b.buildExpr(n.Else),
			LabelPrefix: b.minter.Temp("cond").Name,
		}

	case *cst.Tuple:
		elems := make([]ast.Expression, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = b.buildExpr(el)
		}
		return &ast.UnpackAssignmentExpression{PosVal: n.Pos(), Elements: elems}

	case *cst.Lambda:
		return b.buildLambda(n)

	case *cst.ListComp:
		return b.buildListComp(n)

	default:
		b.errorf(e.Pos(), diagnostics.KindInternal, "builder: unhandled expression node %T", e)
		return &ast.IntegerLiteral{PosVal: e.Pos()}
	}
}

// buildIdent resolves a bare identifier against the four-case variable-
// access rule of §4.2: an attribute of the enclosing class (implicit
// self.), a module-level global, a lexically visible local/parameter, or
// (falling through all three) a bare unbound-function reference used as
// a call target, which buildCall handles directly instead of routing
// through here.
func (b *Builder) buildIdent(n *cst.Ident) ast.Expression {
	if v, ok := b.scope.lookup(n.Name); ok {
		return &ast.VariableAccessExpression{PosVal: n.Pos(), Name: v.Ident, Decl: v}
	}
	if len(b.class) > 0 {
		class := b.class[len(b.class)-1]
		if field := findField(class, n.Name); field != nil {
			return &ast.MemberAccessExpression{PosVal: n.Pos(), Object: &ast.SelfExpression{PosVal: n.Pos()}, Member: field.Ident, Decl: field}
		}
	}
	decl := &ast.VariableDeclaration{PosVal: n.Pos(), Ident: ident.New(n.Name), Kind: ast.VARIABLE, IsGlobal: true}
	return &ast.VariableAccessExpression{PosVal: n.Pos(), Name: decl.Ident, Decl: decl}
}

func findField(class *ast.ClassDeclaration, name string) *ast.VariableDeclaration {
	for c := class; c != nil; {
		for _, f := range c.Fields {
			if f.Ident.Name == name {
				return f
			}
		}
		if len(c.SuperDecls) == 0 {
			break
		}
		c = c.SuperDecls[0]
	}
	return nil
}

func (b *Builder) lookupField(obj cst.Expr, name string) *ast.VariableDeclaration {
	if _, ok := obj.(*cst.Self); ok && len(b.class) > 0 {
		return findField(b.class[len(b.class)-1], name)
	}
	return nil
}

// candidatesByName walks class and its superclasses (single-inheritance
// chain, per §3) collecting every method/initializer named name, in
// declaration order with the most-derived class's overloads first.
func candidatesByName(class *ast.ClassDeclaration, name string) []*ast.FunctionDeclaration {
	var candidates []*ast.FunctionDeclaration
	for c := class; c != nil; {
		for _, m := range c.Methods {
			if m.Ident.Name == name {
				candidates = append(candidates, m)
			}
		}
		for _, m := range c.Initializers {
			if m.Ident.Name == name {
				candidates = append(candidates, m)
			}
		}
		if len(c.SuperDecls) == 0 {
			break
		}
		c = c.SuperDecls[0]
	}
	return candidates
}

// findMethod picks a same-name candidate by arity alone, preferring an
// exact match; used where no call-site argument expressions are
// available to attempt real distance-based resolution (operator
// lowering, internal/resolve's whole-program rebind pass).
func findMethod(class *ast.ClassDeclaration, name string, argc int) *ast.FunctionDeclaration {
	candidates := candidatesByName(class, name)
	for _, m := range candidates {
		if len(m.Parameters) == argc {
			return m
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

// selectOverload picks the best same-name candidate for a call whose raw
// argument expressions are available: §1 and §8 scenario 6 require
// dispatch by best-match superclass-hop distance, not merely arity. When
// every argument's class is evident without a type checker (a literal,
// or a nested `new ClassName(...)`), this runs the real
// internal/overload.Resolve distance scan instead of leaving it as
// unreachable dead code; otherwise (a variable or a call result, whose
// type this stage cannot know without general type inference) it falls
// back to findMethod's arity-preferring heuristic.
func (b *Builder) selectOverload(class *ast.ClassDeclaration, name string, cstArgs []cst.Expr) *ast.FunctionDeclaration {
	candidates := candidatesByName(class, name)
	if len(candidates) == 0 {
		return nil
	}
	if argTypes, ok := b.argClassesIfKnown(cstArgs); ok {
		if fn, err := overload.Resolve(candidates, argTypes); err == nil {
			return fn
		}
	}
	return findMethod(class, name, len(cstArgs))
}

// argClassesIfKnown returns the statically-evident class of each
// argument expression and true only when every one was determined this
// way; a single unresolvable argument (a variable reference, a call
// result, anything needing a type checker this stage does not have)
// makes the whole call ineligible for distance-based resolution.
func (b *Builder) argClassesIfKnown(args []cst.Expr) ([]*ast.ClassDeclaration, bool) {
	classes := make([]*ast.ClassDeclaration, len(args))
	for i, a := range args {
		class, ok := b.literalArgClass(a)
		if !ok {
			return nil, false
		}
		classes[i] = class
	}
	return classes, true
}

// literalArgClass names the class of an argument expression when it is
// evident purely from its surface form: a literal's core class, or a
// nested `new ClassName(...)` naming a known class.
func (b *Builder) literalArgClass(a cst.Expr) (*ast.ClassDeclaration, bool) {
	switch n := a.(type) {
	case *cst.IntLit:
		return ast.CoreClasses.Int, true
	case *cst.FloatLit:
		return ast.CoreClasses.Float, true
	case *cst.BoolLit:
		return ast.CoreClasses.Bool, true
	case *cst.CharLit:
		return ast.CoreClasses.Char, true
	case *cst.StringLit:
		return ast.CoreClasses.String, true
	case *cst.ArrayLit:
		return ast.CoreClasses.Array, true
	case *cst.New:
		class := b.classByName(n.ClassName)
		return class, class != nil
	default:
		return nil, false
	}
}

// unresolvedCallee stands in for a callee internal/builder could not
// bind against a concrete declaration (the receiver's class is not yet
// known, or the name is not declared in this module). internal/resolve
// rebinds Callee once type information is available.
func unresolvedCallee(name string, kind ast.FuncKind) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Ident: ident.New(name), Kind: kind, Unresolved: true}
}

func (b *Builder) lowerBinaryOp(pos ident.Position, op string, x, y ast.Expression) ast.Expression {
	methodName, ok := desugar.BinaryOperatorMethod(op)
	if !ok {
		b.errorf(pos, diagnostics.KindSyntax, "unknown binary operator %q", op)
		methodName = "_add_"
	}
	receiver := x
	if op == "in" {
		receiver = y
	}
	method := b.resolveOperand(receiver, methodName, 1)
	return desugar.BinaryOperatorCall(op, x, y, method)
}

func (b *Builder) lowerUnaryOp(pos ident.Position, op string, x ast.Expression) ast.Expression {
	methodName, ok := desugar.UnaryOperatorMethod(op)
	if !ok {
		b.errorf(pos, diagnostics.KindSyntax, "unknown unary operator %q", op)
		methodName = "_neg_"
	}
	method := b.resolveOperand(x, methodName, 0)
	return desugar.UnaryOperatorCall(x, method)
}

// resolveOperand resolves methodName against the class of the current
// receiver context when receiver is self (the common case inside a
// method body implementing its own operator), falling back to an
// unresolved stub otherwise.
func (b *Builder) resolveOperand(receiver ast.Expression, methodName string, argc int) *ast.FunctionDeclaration {
	if _, ok := receiver.(*ast.SelfExpression); ok && len(b.class) > 0 {
		if m := findMethod(b.class[len(b.class)-1], methodName, argc); m != nil {
			return m
		}
	}
	return unresolvedCallee(methodName, ast.METHOD)
}

func (b *Builder) buildCall(n *cst.Call) ast.Expression {
	args := make([]ast.Expression, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = b.buildExpr(a)
	}

	switch callee := n.Callee.(type) {
	case *cst.MemberAccess:
		receiver := b.buildExpr(callee.Object)
		isInit := callee.Member == "Create"
		var fn *ast.FunctionDeclaration
		if recvClass := b.receiverClass(callee.Object); recvClass != nil {
			fn = b.selectOverload(recvClass, callee.Member, n.Arguments)
		}
		if fn == nil {
			kind := ast.METHOD
			if isInit {
				kind = ast.INITIALIZER
			}
			fn = unresolvedCallee(callee.Member, kind)
		}
		return &ast.FunctionCallExpression{
			PosVal:                      n.Pos(),
			Callee:                      fn,
			Receiver:                    receiver,
			Arguments:                   args,
			IsInitializerOfMemberAccess: isInit,
		}

	case *cst.Ident:
		fn := b.functionsByName[callee.Name]
		if fn == nil && len(b.class) > 0 {
			fn = b.selectOverload(b.class[len(b.class)-1], callee.Name, n.Arguments)
		}
		var receiver ast.Expression
		if fn != nil && fn.Kind != ast.UNBOUND {
			receiver = &ast.SelfExpression{PosVal: n.Pos()}
		}
		if fn == nil {
			fn = unresolvedCallee(callee.Name, ast.UNBOUND)
		}
		return &ast.FunctionCallExpression{PosVal: n.Pos(), Callee: fn, Receiver: receiver, Arguments: args}

	default:
		b.errorf(n.Pos(), diagnostics.KindInternal, "builder: unsupported call target %T", n.Callee)
		return &ast.FunctionCallExpression{PosVal: n.Pos(), Callee: unresolvedCallee("?", ast.UNBOUND), Arguments: args}
	}
}

// receiverClass makes a best-effort guess at obj's static class without
// a type checker: self resolves to the class currently being built;
// "new ClassName(...)" and a direct class-name reference (used for
// calling a native/static-style member) resolve by name. Anything more
// (a variable's declared or inferred type) is internal/resolve's job.
func (b *Builder) receiverClass(obj cst.Expr) *ast.ClassDeclaration {
	switch o := obj.(type) {
	case *cst.Self:
		if len(b.class) > 0 {
			return b.class[len(b.class)-1]
		}
	case *cst.New:
		return b.classByName(o.ClassName)
	case *cst.Ident:
		return b.classByName(o.Name)
	}
	return nil
}

func (b *Builder) buildNew(n *cst.New) ast.Expression {
	args := make([]ast.Expression, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = b.buildExpr(a)
	}
	class := b.classByName(n.ClassName)
	var fn *ast.FunctionDeclaration
	if class != nil {
		fn = b.selectOverload(class, "Create", n.Arguments)
	}
	if fn == nil {
		fn = unresolvedCallee("Create", ast.INITIALIZER)
	}
	return &ast.FunctionCallExpression{
		PosVal:                      n.Pos(),
		Callee:                      fn,
		Arguments:                   args,
		IsInitializerOfMemberAccess: true,
	}
}

// buildLambda synthesizes the function-wrapper class a lambda literal
// lowers to via desugar.Lambda, splicing the wrapper-instantiation
// assignment it returns directly into the "current blocks" stack's top
// block, immediately before the statement whose build triggered this
// (every buildExpr call happens while that statement's enclosing block
// is already on the stack, pushed by buildBlock).
func (b *Builder) buildLambda(n *cst.Lambda) ast.Expression {
	params, _ := b.buildParams(n.Params)

	b.scope = newScope(b.scope)
	for _, p := range params {
		b.scope.vars[p.Ident.Name] = p
	}
	var body *ast.Block
	if n.Shorthand != nil {
		body = &ast.Block{Statements: []ast.Statement{&ast.ReturnStatement{PosVal: n.Pos(), ReturnValue: b.buildExpr(n.Shorthand)}}}
	} else {
		body = b.buildBlock(n.Body)
	}
	b.scope = b.scope.parent

	result := desugar.Lambda(n.Pos(), b.minter, params, b.resolveType(n.ReturnType), body)
	b.extraClasses = append(b.extraClasses, result.WrapperClass)
	b.extraFuncs = append(b.extraFuncs, result.Function)
	if cur := b.curBlock(); cur != nil {
		cur.Declarations = append(cur.Declarations, result.WrapperObject)
		cur.Statements = append(cur.Statements, result.Init)
	}

	return &ast.VariableAccessExpression{PosVal: n.Pos(), Name: result.WrapperObject.Ident, Decl: result.WrapperObject}
}

func (b *Builder) buildListComp(n *cst.ListComp) ast.Expression {
	b.scope = newScope(b.scope)
	v := &ast.VariableDeclaration{PosVal: n.Pos(), Ident: ident.New(n.Var), Kind: ast.VARIABLE}
	b.scope.vars[v.Ident.Name] = v
	source := b.buildExpr(n.Source)
	elem := b.buildExpr(n.Elem)
	var filter ast.Expression
	if n.Filter != nil {
		filter = b.buildExpr(n.Filter)
	}
	b.scope = b.scope.parent

	result := desugar.ListComp(b.minter, n.Pos(), v, source, filter, elem, nil)
	b.extraClasses = append(b.extraClasses, result.GeneratorClass, result.IteratorClass)
	b.extraFuncs = append(b.extraFuncs, result.Generator.FunctionDeclaration)

	return &ast.FunctionCallExpression{
		PosVal:                      n.Pos(),
		Callee:                      result.GeneratorClass.Constructor,
		IsInitializerOfMemberAccess: true,
	}
}
