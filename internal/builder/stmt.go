package builder

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/desugar"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
)

// appendStmt builds one surface statement and appends its built form (or
// forms, for constructs that splice a prelude into the enclosing block)
// onto block.
func (b *Builder) appendStmt(block *ast.Block, s cst.Stmt) {
	switch n := s.(type) {
	case *cst.LocalVarStmt:
		b.appendLocalVar(block, n.Decl)

	case *cst.AssignStmt:
		block.Statements = append(block.Statements, b.buildAssign(n))

	case *cst.TupleAssignStmt:
		block.Statements = append(block.Statements, b.buildTupleAssign(n))

	case *cst.IfStmt:
		block.Statements = append(block.Statements, b.buildIf(n))

	case *cst.WhileStmt:
		block.Statements = append(block.Statements, b.buildWhile(n))

	case *cst.ForInStmt:
		block.Statements = append(block.Statements, b.buildForIn(n))

	case *cst.BreakStmt:
		block.Statements = append(block.Statements, &ast.BreakStatement{PosVal: n.Pos(), Loop: b.currentLoop()})

	case *cst.SkipStmt:
		block.Statements = append(block.Statements, &ast.SkipStatement{PosVal: n.Pos(), Loop: b.currentLoop()})

	case *cst.ReturnStmt:
		ret := &ast.ReturnStatement{PosVal: n.Pos()}
		if n.Value != nil {
			ret.ReturnValue = b.buildExpr(n.Value)
		}
		block.Statements = append(block.Statements, ret)

	case *cst.YieldStmt:
		block.Statements = append(block.Statements, b.buildYield(n))

	case *cst.RaiseStmt:
		raise := &ast.RaiseStatement{PosVal: n.Pos()}
		if n.Value != nil {
			raise.Value = b.buildExpr(n.Value)
		}
		block.Statements = append(block.Statements, raise)

	case *cst.TryStmt:
		block.Statements = append(block.Statements, b.buildTry(n))

	case *cst.ExprStmt:
		if call, ok := b.buildExpr(n.Value).(*ast.FunctionCallExpression); ok {
			block.Statements = append(block.Statements, &ast.WrappedFunctionCall{Call: call})
		} else {
			b.errorf(n.Pos(), diagnostics.KindSemanticInvariant, "expression statement has no effect")
		}

	default:
		b.errorf(s.Pos(), diagnostics.KindInternal, "builder: unhandled statement node %T", s)
	}
}

func (b *Builder) appendLocalVar(block *ast.Block, d *cst.VarDecl) {
	decl := &ast.VariableDeclaration{
		PosVal:       d.Pos(),
		Ident:        ident.New(d.Name),
		DeclaredType: b.resolveType(d.Type),
		Kind:         ast.VARIABLE,
	}
	block.Declarations = append(block.Declarations, decl)
	b.scope.vars[decl.Ident.Name] = decl

	if d.Init != nil {
		init := b.buildExpr(d.Init)
		block.Statements = append(block.Statements, &ast.AssignmentStatement{
			PosVal: d.Pos(),
			Left:   &ast.VariableAccessExpression{PosVal: d.Pos(), Name: decl.Ident, Decl: decl},
			Right:  init,
		})
	}
}

func (b *Builder) buildAssign(n *cst.AssignStmt) ast.Statement {
	left := b.buildExpr(n.Left)
	if n.Op == ":=" {
		return &ast.AssignmentStatement{PosVal: n.Pos(), Left: left, Right: b.buildExpr(n.Right)}
	}
	binOp, ok := desugar.CompoundAssignmentOperator(n.Op)
	if !ok {
		b.errorf(n.Pos(), diagnostics.KindSyntax, "unknown assignment operator %q", n.Op)
		binOp = "+"
	}
	right := b.buildExpr(n.Right)
	return desugar.CompoundAssignment(left, binOp, right, func(a, c ast.Expression, op string) ast.Expression {
		return b.lowerBinaryOp(n.Pos(), op, a, c)
	})
}

func (b *Builder) buildTupleAssign(n *cst.TupleAssignStmt) ast.Statement {
	targets := make([]ast.Expression, len(n.Targets))
	for i, t := range n.Targets {
		targets[i] = b.buildExpr(t)
	}
	return &ast.UnpackAssignmentStatement{
		PosVal:  n.Pos(),
		Targets: targets,
		Right:   b.buildExpr(n.Right),
		Temp:    &ast.VariableDeclaration{PosVal: n.Pos(), Ident: b.minter.Temp("tuple"), Kind: ast.VARIABLE},
	}
}

func (b *Builder) buildIf(n *cst.IfStmt) ast.Statement {
	cond := b.buildExpr(n.Cond)
	then := b.buildScopedBlock(n.Then)
	stmt := &ast.ConditionalStatement{PosVal: n.Pos(), Condition: cond, Then: then}
	if n.Else != nil {
		stmt.Else = b.buildScopedBlock(n.Else)
	}
	return stmt
}

func (b *Builder) buildWhile(n *cst.WhileStmt) ast.Statement {
	loop := &ast.WhileLoop{PosVal: n.Pos(), LabelPrefix: b.minter.Temp("loop").Name}
	loop.Condition = b.buildExpr(n.Cond)
	b.loops = append(b.loops, loop)
	loop.Body = b.buildScopedBlock(n.Body)
	b.loops = b.loops[:len(b.loops)-1]
	return loop
}

// buildForIn lowers a surface for-in loop via desugar.ForIn. The loop
// variable is declared in a fresh scope that also covers the body, since
// §4.1's desugared shape binds it immediately above B.
func (b *Builder) buildForIn(n *cst.ForInStmt) ast.Statement {
	iterable := b.buildExpr(n.Iterable)

	b.scope = newScope(b.scope)
	v := &ast.VariableDeclaration{PosVal: n.Pos(), Ident: ident.New(n.VarName), Kind: ast.VARIABLE}
	b.scope.vars[v.Ident.Name] = v

	placeholder := &ast.WhileLoop{PosVal: n.Pos()}
	b.loops = append(b.loops, placeholder)
	body := b.buildBlock(n.Body)
	b.loops = b.loops[:len(b.loops)-1]
	b.scope = b.scope.parent

	loop := desugar.ForIn(n.Pos(), b.minter, nil, v, iterable, body)
	loop.LabelPrefix = b.minter.Temp("forin").Name
	// Copy into placeholder's address so BreakStatement/SkipStatement
	// nodes built while the body was under construction (which captured
	// placeholder's pointer identity via currentLoop) keep pointing at
	// the loop actually installed in the enclosing block.
	*placeholder = *loop
	return placeholder
}

func (b *Builder) buildYield(n *cst.YieldStmt) ast.Statement {
	if len(b.generators) == 0 {
		b.errorf(n.Pos(), diagnostics.KindSemanticInvariant, "yield outside a generator function")
		return &ast.ReturnStatement{PosVal: n.Pos()}
	}
	gctx := b.generators[len(b.generators)-1]
	value := b.buildExpr(n.Value)
	y := desugar.Yield(len(gctx.yields), n.Pos(), value, gctx.elementType)
	gctx.yields = append(gctx.yields, y)
	return y
}

func (b *Builder) buildTry(n *cst.TryStmt) ast.Statement {
	stmt := &ast.TryStatement{PosVal: n.Pos(), Body: b.buildScopedBlock(n.Body)}
	for _, h := range n.Handlers {
		b.scope = newScope(b.scope)
		handler := &ast.ExceptHandler{ExceptionType: b.resolveType(h.ExceptionType)}
		if h.BindingName != "" {
			handler.Binding = &ast.VariableDeclaration{PosVal: n.Pos(), Ident: ident.New(h.BindingName), DeclaredType: handler.ExceptionType, Kind: ast.VARIABLE}
			b.scope.vars[h.BindingName] = handler.Binding
		}
		handler.Body = b.buildBlock(h.Body)
		b.scope = b.scope.parent
		stmt.Handlers = append(stmt.Handlers, handler)
	}
	if n.Finally != nil {
		stmt.Finally = b.buildScopedBlock(n.Finally)
	}
	return stmt
}

func (b *Builder) currentLoop() *ast.WhileLoop {
	if len(b.loops) == 0 {
		return nil
	}
	return b.loops[len(b.loops)-1]
}

// buildScopedBlock opens a fresh lexical scope, builds stmts into a new
// Block, then restores the enclosing scope.
func (b *Builder) buildScopedBlock(stmts []cst.Stmt) *ast.Block {
	b.scope = newScope(b.scope)
	block := b.buildBlock(stmts)
	b.scope = b.scope.parent
	return block
}

// buildBlock builds stmts into a new Block without touching scope itself
// (the caller has already opened whatever scope should be active). It
// pushes block onto the "current blocks" stack so nested expression
// builds (lambda/list-comprehension synthesis) can splice prelude
// statements into it.
func (b *Builder) buildBlock(stmts []cst.Stmt) *ast.Block {
	block := &ast.Block{}
	b.blocks = append(b.blocks, block)
	for _, s := range stmts {
		b.appendStmt(block, s)
	}
	b.blocks = b.blocks[:len(b.blocks)-1]
	return block
}
