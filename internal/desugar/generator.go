package desugar

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

// GeneratorResult bundles the two classes §4.1's "generator declaration"
// row synthesizes: the generator class (a factory, instantiated when the
// generator function is called) and the generator-iterator class (owns
// the per-instance state and implements getNext() as the yield state
// machine). fn's original body becomes the iterator's getNext() body,
// its local variables relocated onto the iterator as fields per §4.2
// ("Generator state machine").
type GeneratorResult struct {
	GeneratorClass *ast.ClassDeclaration
	IteratorClass  *ast.ClassDeclaration
	Generator      *ast.GeneratorFunctionDeclaration
}

// Generator synthesizes the generator/iterator class pair for fn, whose
// Body has already had every surface "yield e" rewritten to a
// YieldStatement (by Yield, below) before this runs, and whose ordered
// yields list is the stable index→statement mapping §3's
// GeneratorFunctionDeclaration requires.
func Generator(m *Minter, fn *ast.FunctionDeclaration, yields []*ast.YieldStatement, elementType *ident.Identifier) *GeneratorResult {
	pos := fn.PosVal

	iterIdent := m.Temp(fn.Ident.Name + "Iterator")
	iterClass := &ast.ClassDeclaration{
		PosVal:     pos,
		Ident:      iterIdent,
		Generator:  true,
		Body:       &ast.Block{},
		SuperDecls: []*ast.ClassDeclaration{ast.CoreClasses.Object},
	}

	// $state is the iterator's first field, so it holds the first payload
	// slot, which §6's Symbol ABI reserves for the indirect-branch target.
	// The AttributeIndex values written here are provisional:
	// codegen.ComputeLayout reassigns every field's index when the class
	// is emitted, placing $state at 1, right after the class descriptor.
	stateField := &ast.VariableDeclaration{
		PosVal:         pos,
		Ident:          ident.New("$state"),
		Kind:           ast.ATTRIBUTE,
		AttributeIndex: 0,
	}
	iterClass.Fields = append(iterClass.Fields, stateField)

	locals := collectLocals(fn.Body)
	fieldByName := make(map[string]*ast.VariableDeclaration, len(locals))
	for i, l := range locals {
		field := &ast.VariableDeclaration{
			PosVal:         l.PosVal,
			Ident:          l.Ident,
			DeclaredType:   l.DeclaredType,
			Kind:           ast.ATTRIBUTE,
			AttributeIndex: i + 1,
		}
		iterClass.Fields = append(iterClass.Fields, field)
		fieldByName[l.Ident.Name] = field
	}

	getNextBody := rewriteLocalsToSelfMembers(fn.Body, fieldByName)

	getNext := &ast.FunctionDeclaration{
		PosVal:             pos,
		Ident:              ident.New("getNext"),
		Kind:               ast.METHOD,
		DeclaredReturnType: ast.WellKnownClasses.Maybe.Ident,
		Body:               getNextBody,
		Owner:              iterClass,
	}
	iterClass.Methods = []*ast.FunctionDeclaration{getNext}

	iterInit := defaultInitializer(iterClass)
	iterClass.Constructor = iterInit
	iterClass.Initializers = []*ast.FunctionDeclaration{iterInit}

	// The generator (factory) class: calling the original generator
	// function produces an instance of this; its getIterator() hands back
	// a fresh iterator instance so "for x in gen(): ..." can desugar
	// through the ordinary Iterable protocol (ForIn, above) uniformly.
	genIdent := m.Temp(fn.Ident.Name + "Generator")
	genClass := &ast.ClassDeclaration{
		PosVal:     pos,
		Ident:      genIdent,
		Generator:  true,
		Body:       &ast.Block{},
		SuperDecls: []*ast.ClassDeclaration{ast.CoreClasses.Object},
	}
	getIterator := &ast.FunctionDeclaration{
		PosVal:             pos,
		Ident:              ident.New("getIterator"),
		Kind:               ast.METHOD,
		DeclaredReturnType: iterIdent,
		Owner:              genClass,
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ReturnStatement{
					PosVal:      pos,
					ReturnValue: &ast.FunctionCallExpression{PosVal: pos, Callee: iterInit},
				},
			},
		},
	}
	genClass.Methods = []*ast.FunctionDeclaration{getIterator}
	genInit := defaultInitializer(genClass)
	genClass.Constructor = genInit
	genClass.Initializers = []*ast.FunctionDeclaration{genInit}

	gen := &ast.GeneratorFunctionDeclaration{
		FunctionDeclaration: fn,
		Yields:               yields,
		IteratorClass:        iterClass,
	}
	fn.GeneratorInfo = gen

	return &GeneratorResult{GeneratorClass: genClass, IteratorClass: iterClass, Generator: gen}
}

// Yield lowers a surface "yield e" into "return Just<T>(e)" plus a
// YieldStatement marker carrying its stable ordinal index, per §4.1's
// "yield e" row. elementType is the current generator return type (the
// builder's second context stack); the Just initializer call built here
// does not carry it.
func Yield(index int, pos ident.Position, value ast.Expression, elementType *ident.Identifier) *ast.YieldStatement {
	justInit := ast.WellKnownClasses.Just.Initializers
	var initDecl *ast.FunctionDeclaration
	if len(justInit) > 0 {
		initDecl = justInit[0]
	} else {
		initDecl = defaultInitializer(ast.WellKnownClasses.Just)
	}
	ret := &ast.ReturnStatement{
		PosVal: pos,
		ReturnValue: &ast.FunctionCallExpression{
			PosVal:    pos,
			Callee:    initDecl,
			Arguments: []ast.Expression{value},
		},
	}
	return &ast.YieldStatement{
		ReturnStatement: ret,
		Index:           index,
		ResumeLabel:     "yield" + itoa(index),
	}
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// collectLocals walks block (recursively into nested blocks reachable
// through statements, but not into nested function/class declarations,
// which own their own scopes) and returns every VARIABLE-kind local
// declaration found, in declaration order.
func collectLocals(block *ast.Block) []*ast.VariableDeclaration {
	var out []*ast.VariableDeclaration
	var walk func(b *ast.Block)
	walk = func(b *ast.Block) {
		if b == nil {
			return
		}
		for _, d := range b.Declarations {
			if v, ok := d.(*ast.VariableDeclaration); ok && v.Kind == ast.VARIABLE {
				out = append(out, v)
			}
		}
		for _, s := range b.Statements {
			switch st := s.(type) {
			case *ast.ConditionalStatement:
				walk(st.Then)
				walk(st.Else)
			case *ast.WhileLoop:
				walk(st.Body)
			case *ast.TryStatement:
				walk(st.Body)
				for _, h := range st.Handlers {
					walk(h.Body)
				}
				walk(st.Finally)
			}
		}
	}
	walk(block)
	return out
}

// rewriteLocalsToSelfMembers returns a copy of block in which a
// VariableAccessExpression referencing a hoisted local is rewritten to a
// MemberAccessExpression on self, and the corresponding local
// declarations removed (they now live as iterator fields instead). The
// rewrite reaches assignments, conditionals, while loops (including
// their Prelude), returns and yields, and within expressions only call
// receivers and arguments; references nested anywhere else (a call
// statement, a member access, a cast, a raise, a try block, ...) are
// copied unchanged.
func rewriteLocalsToSelfMembers(block *ast.Block, fields map[string]*ast.VariableDeclaration) *ast.Block {
	if block == nil {
		return nil
	}
	newDecls := make([]ast.Declaration, 0, len(block.Declarations))
	for _, d := range block.Declarations {
		if v, ok := d.(*ast.VariableDeclaration); ok {
			if _, hoisted := fields[v.Ident.Name]; hoisted {
				continue
			}
		}
		newDecls = append(newDecls, d)
	}
	newStmts := make([]ast.Statement, len(block.Statements))
	for i, s := range block.Statements {
		newStmts[i] = rewriteStmt(s, fields)
	}
	return &ast.Block{Declarations: newDecls, Statements: newStmts, Parent: block.Parent}
}

func rewriteStmt(s ast.Statement, fields map[string]*ast.VariableDeclaration) ast.Statement {
	switch st := s.(type) {
	case *ast.AssignmentStatement:
		return &ast.AssignmentStatement{PosVal: st.PosVal, Left: rewriteExpr(st.Left, fields), Right: rewriteExpr(st.Right, fields)}
	case *ast.ConditionalStatement:
		return &ast.ConditionalStatement{PosVal: st.PosVal, Condition: rewriteExpr(st.Condition, fields), Then: rewriteLocalsToSelfMembers(st.Then, fields), Else: rewriteLocalsToSelfMembers(st.Else, fields)}
	case *ast.WhileLoop:
		prelude := make([]ast.Statement, len(st.Prelude))
		for i, p := range st.Prelude {
			prelude[i] = rewriteStmt(p, fields)
		}
		return &ast.WhileLoop{PosVal: st.PosVal, Condition: rewriteExpr(st.Condition, fields), Body: rewriteLocalsToSelfMembers(st.Body, fields), LabelPrefix: st.LabelPrefix, Prelude: prelude, PreludeDecl: st.PreludeDecl}
	case *ast.YieldStatement:
		return &ast.YieldStatement{ReturnStatement: &ast.ReturnStatement{PosVal: st.PosVal, ReturnValue: rewriteExpr(st.ReturnValue, fields)}, Index: st.Index, ResumeLabel: st.ResumeLabel}
	case *ast.ReturnStatement:
		if st.ReturnValue == nil {
			return st
		}
		return &ast.ReturnStatement{PosVal: st.PosVal, ReturnValue: rewriteExpr(st.ReturnValue, fields)}
	default:
		return s
	}
}

func rewriteExpr(e ast.Expression, fields map[string]*ast.VariableDeclaration) ast.Expression {
	if e == nil {
		return nil
	}
	switch ex := e.(type) {
	case *ast.VariableAccessExpression:
		if field, ok := fields[ex.Name.Name]; ok {
			return &ast.MemberAccessExpression{PosVal: ex.PosVal, Object: &ast.SelfExpression{PosVal: ex.PosVal}, Member: field.Ident, Decl: field}
		}
		return ex
	case *ast.FunctionCallExpression:
		args := make([]ast.Expression, len(ex.Arguments))
		for i, a := range ex.Arguments {
			args[i] = rewriteExpr(a, fields)
		}
		return &ast.FunctionCallExpression{PosVal: ex.PosVal, Callee: ex.Callee, Receiver: rewriteExpr(ex.Receiver, fields), Arguments: args, IsInitializerOfMemberAccess: ex.IsInitializerOfMemberAccess}
	default:
		return e
	}
}
