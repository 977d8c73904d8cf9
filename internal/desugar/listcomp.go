package desugar

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

// ListComp synthesizes the nested generator class for a comprehension
// "[elem for v in source if filter]" per §4.1: the body is the nested
// for/if chain yielding Just(elem), and the expression's value is a new
// instance of that generator (GeneratorClass, constructed via its
// default initializer).
//
// v must already be declared (the caller builds elem/filter against it),
// and elem/filter are already-built internal/ast fragments referencing v.
// filter may be nil for a comprehension with no "if" clause.
func ListComp(m *Minter, pos ident.Position, v *ast.VariableDeclaration, source ast.Expression, filter ast.Expression, elem ast.Expression, elemType *ident.Identifier) *GeneratorResult {
	yieldStmt := Yield(0, pos, elem, elemType)

	var innerBody *ast.Block
	if filter != nil {
		innerBody = &ast.Block{
			Statements: []ast.Statement{
				&ast.ConditionalStatement{
					PosVal:    pos,
					Condition: filter,
					Then:      &ast.Block{Statements: []ast.Statement{yieldStmt}},
				},
			},
		}
	} else {
		innerBody = &ast.Block{Statements: []ast.Statement{yieldStmt}}
	}

	loop := ForIn(pos, m, nil, v, source, innerBody)

	fnIdent := m.Temp("listcomp")
	fnBody := &ast.Block{
		Declarations: []ast.Declaration{loop.PreludeDecl},
		Statements:   append(append([]ast.Statement{}, loop.Prelude...), loop),
	}
	fn := &ast.FunctionDeclaration{
		PosVal:             pos,
		Ident:              fnIdent,
		Kind:               ast.UNBOUND,
		DeclaredReturnType: elemType,
		Body:               fnBody,
	}

	return Generator(m, fn, []*ast.YieldStatement{yieldStmt}, elemType)
}
