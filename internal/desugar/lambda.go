package desugar

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

// WrapperClassResult is the set of synthesized declarations a lambda (or
// an address-of of an unbound function) lowers to, per §4.1's "lambda
// expression" row and the glossary's "Wrapper class" entry: a synthesized
// function declaration holding the lambda's body, a function-wrapper
// class whose single method forwards to it, and a variable declaration
// for an instance of that wrapper class.
type WrapperClassResult struct {
	Function      *ast.FunctionDeclaration
	WrapperClass  *ast.ClassDeclaration
	WrapperObject *ast.VariableDeclaration
	// Init is the assignment that binds WrapperObject to a fresh
	// instance of WrapperClass; the builder installs it immediately
	// before the expression that referenced the lambda.
	Init *ast.AssignmentStatement
}

// Lambda synthesizes a function-wrapper class for a lambda expression
// whose parameters and already-built body are params/body. The single
// forwarding method is named "invoke"; callers needing to invoke the
// lambda as a value call that method.
func Lambda(pos ident.Position, m *Minter, params []*ast.VariableDeclaration, returnType *ident.Identifier, body *ast.Block) *WrapperClassResult {
	fnIdent := m.Temp("lambda")
	fn := &ast.FunctionDeclaration{
		PosVal:             pos,
		Ident:              fnIdent,
		Kind:               ast.UNBOUND,
		Parameters:         params,
		DeclaredReturnType: returnType,
		Body:               body,
	}

	wrapperIdent := m.Temp("LambdaWrapper")
	wrapperClass := &ast.ClassDeclaration{
		PosVal:          pos,
		Ident:           wrapperIdent,
		FunctionWrapper: true,
		Body:            &ast.Block{},
		SuperDecls:      []*ast.ClassDeclaration{ast.CoreClasses.Object},
	}

	forwardBody := &ast.Block{
		Statements: []ast.Statement{
			&ast.ReturnStatement{
				PosVal: pos,
				ReturnValue: &ast.FunctionCallExpression{
					PosVal:    pos,
					Callee:    fn,
					Arguments: paramRefs(pos, params),
				},
			},
		},
	}
	forward := &ast.FunctionDeclaration{
		PosVal:             pos,
		Ident:              ident.New("invoke"),
		Kind:               ast.METHOD,
		Parameters:         params,
		DeclaredReturnType: returnType,
		Body:               forwardBody,
		Owner:              wrapperClass,
	}
	wrapperClass.Methods = []*ast.FunctionDeclaration{forward}

	wrapperObjIdent := m.Temp("wrapper")
	wrapperObj := &ast.VariableDeclaration{
		PosVal:       pos,
		Ident:        wrapperObjIdent,
		DeclaredType: wrapperIdent,
		Kind:         ast.VARIABLE,
	}

	defaultInit := defaultInitializer(wrapperClass)
	wrapperClass.Constructor = defaultInit
	wrapperClass.Initializers = []*ast.FunctionDeclaration{defaultInit}

	init := &ast.AssignmentStatement{
		PosVal: pos,
		Left:   variableRef(pos, wrapperObj),
		Right: &ast.FunctionCallExpression{
			PosVal: pos,
			Callee: defaultInit,
		},
	}

	return &WrapperClassResult{
		Function:      fn,
		WrapperClass:  wrapperClass,
		WrapperObject: wrapperObj,
		Init:          init,
	}
}

func defaultInitializer(owner *ast.ClassDeclaration) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{
		PosVal:             owner.PosVal,
		Ident:              ident.New("Create"),
		Kind:               ast.INITIALIZER,
		Body:               &ast.Block{},
		DefaultInitializer: true,
		Owner:              owner,
	}
}

func paramRefs(pos ident.Position, params []*ast.VariableDeclaration) []ast.Expression {
	out := make([]ast.Expression, len(params))
	for i, p := range params {
		out[i] = variableRef(pos, p)
	}
	return out
}
