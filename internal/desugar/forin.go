package desugar

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

// ForIn lowers "for v in E: B" into the exact shape named by §4.1:
//
//	r := E.getIterator()
//	while true:
//	  Maybe<T> _i := r.getNext()
//	  if _i.hasValue():
//	    v := (_i as Just<T>).getValue()
//	    B
//	  else:
//	    break
//
// elemType is not read by this lowering (the Just cast and the
// temporaries carry no element type); v is the loop variable declaration the builder
// installed in the loop body's enclosing scope; body is B, already
// built by the builder (so any nested for-in/comprehension inside B has
// already been lowered by the time this runs).
func ForIn(pos ident.Position, m *Minter, elemType ast.Type, v *ast.VariableDeclaration, iterable ast.Expression, body *ast.Block) *ast.WhileLoop {
	iterDecl := &ast.VariableDeclaration{
		PosVal: pos,
		Ident:  m.Temp("iter"),
		Kind:   ast.VARIABLE,
	}
	getIterator := &ast.FunctionDeclaration{
		Ident: ident.New("getIterator"),
		Kind:  ast.METHOD,
	}
	iterInit := &ast.FunctionCallExpression{
		PosVal:   pos,
		Callee:   getIterator,
		Receiver: iterable,
	}
	iterAssign := &ast.AssignmentStatement{
		PosVal: pos,
		Left:   variableRef(pos, iterDecl),
		Right:  iterInit,
	}

	maybeDecl := &ast.VariableDeclaration{
		PosVal: pos,
		Ident:  m.Temp("maybe"),
		Kind:   ast.VARIABLE,
	}
	getNext := ast.WellKnownClasses.Iterator.Methods[0] // getNext()
	maybeAssign := &ast.AssignmentStatement{
		PosVal: pos,
		Left:   variableRef(pos, maybeDecl),
		Right: &ast.FunctionCallExpression{
			PosVal:   pos,
			Callee:   getNext,
			Receiver: variableRef(pos, iterDecl),
		},
	}

	hasValue := ast.WellKnownClasses.Maybe.Methods[0] // hasValue()
	hasValueCall := &ast.FunctionCallExpression{
		PosVal:   pos,
		Callee:   hasValue,
		Receiver: variableRef(pos, maybeDecl),
	}

	getValue := ast.WellKnownClasses.Just.Methods[0] // getValue()
	asJust := &ast.CastExpression{
		PosVal:     pos,
		Value:      variableRef(pos, maybeDecl),
		Target:     ast.WellKnownClasses.Just.Ident,
		TargetDecl: ast.WellKnownClasses.Just,
	}
	valueAssign := &ast.AssignmentStatement{
		PosVal: pos,
		Left:   variableRef(pos, v),
		Right: &ast.FunctionCallExpression{
			PosVal:   pos,
			Callee:   getValue,
			Receiver: asJust,
		},
	}

	thenBlock := &ast.Block{
		Statements: append([]ast.Statement{valueAssign}, body.Statements...),
		Declarations: body.Declarations,
	}
	brk := &ast.BreakStatement{PosVal: pos}
	elseBlock := &ast.Block{
		Statements: []ast.Statement{brk},
	}

	loopBody := &ast.Block{
		Declarations: []ast.Declaration{maybeDecl},
		Statements: []ast.Statement{
			maybeAssign,
			&ast.ConditionalStatement{
				PosVal:    pos,
				Condition: hasValueCall,
				Then:      thenBlock,
				Else:      elseBlock,
			},
		},
	}

	loop := &ast.WhileLoop{
		PosVal:      pos,
		Condition:   &ast.BoolLiteral{PosVal: pos, Value: true},
		Body:        loopBody,
		LabelPrefix: m.Temp("forin").Name,
	}
	brk.Loop = loop

	// iterAssign must run before the loop itself, so it cannot live in
	// the loop body; ForIn returns the loop only and exposes the iterator
	// setup through Prelude/PreludeDecl, which internal/visitor emits
	// immediately before the loop's condition label.
	loop.Prelude = []ast.Statement{iterAssign}
	loop.PreludeDecl = iterDecl
	return loop
}

func variableRef(pos ident.Position, decl *ast.VariableDeclaration) *ast.VariableAccessExpression {
	return &ast.VariableAccessExpression{PosVal: pos, Name: decl.Ident, Decl: decl}
}
