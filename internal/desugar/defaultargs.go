package desugar

import "github.com/occ-lang/occ/internal/ast"

// DefaultArgOverloads synthesizes the thunk overloads §4.1's
// "unbound function with default arguments" row names: for a function
// full whose last len(defaults) parameters have default-value
// expressions (defaults[i] corresponds to full.Parameters[len(full.Parameters)-len(defaults)+i]),
// returns one thunk per prefix arity from the minimum (fully-specified
// defaults omitted) up to the maximal arity minus one. Each thunk calls
// full, filling the missing trailing parameters with their default
// expressions. Methods (full.Kind == METHOD) receive a self
// member-access prefix automatically, since the thunk's body is itself a
// method on the same owner with the same receiver.
func DefaultArgOverloads(full *ast.FunctionDeclaration, defaults []ast.Expression) []*ast.FunctionDeclaration {
	total := len(full.Parameters)
	minArity := total - len(defaults)

	var out []*ast.FunctionDeclaration
	for arity := minArity; arity < total; arity++ {
		thunkParams := full.Parameters[:arity]

		args := make([]ast.Expression, 0, total)
		for i := 0; i < arity; i++ {
			args = append(args, variableRef(full.PosVal, thunkParams[i]))
		}
		for i := arity; i < total; i++ {
			args = append(args, defaults[i-minArity])
		}

		var receiver ast.Expression
		if full.Kind == ast.METHOD {
			receiver = &ast.SelfExpression{PosVal: full.PosVal}
		}

		call := &ast.FunctionCallExpression{
			PosVal:    full.PosVal,
			Callee:    full,
			Receiver:  receiver,
			Arguments: args,
		}

		var body *ast.Block
		if full.DeclaredReturnType != nil {
			body = &ast.Block{Statements: []ast.Statement{&ast.ReturnStatement{PosVal: full.PosVal, ReturnValue: call}}}
		} else {
			body = &ast.Block{Statements: []ast.Statement{&ast.WrappedFunctionCall{Call: call}}}
		}

		thunk := &ast.FunctionDeclaration{
			PosVal:             full.PosVal,
			Ident:              full.Ident,
			Access_:            full.Access_,
			Parameters:         thunkParams,
			DeclaredReturnType: full.DeclaredReturnType,
			Body:               body,
			Kind:               full.Kind,
			Owner:              full.Owner,
		}
		out = append(out, thunk)
	}
	return out
}
