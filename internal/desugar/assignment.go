package desugar

import "github.com/occ-lang/occ/internal/ast"

// CompoundAssignment lowers "a ⊕= b" into "a := a ⊕ b", where lowerBinary
// is the caller's binary-operator lowering (BinaryOperatorCall, below),
// applied to (a, op, b). The round-trip law in SPEC_FULL.md §8 requires a
// to be evaluated once when a is a pure l-value expression; callers that
// build a from a side-effecting sub-expression (e.g. an array-index
// expression with a side-effecting index) are responsible for hoisting
// that sub-expression into a temporary before calling this, since this
// factory only rewrites the assignment shape, not l-value evaluation
// order.
func CompoundAssignment(a ast.Expression, binOp string, b ast.Expression, lowerBinary func(a, b ast.Expression, op string) ast.Expression) *ast.AssignmentStatement {
	return &ast.AssignmentStatement{
		PosVal: a.Pos(),
		Left:   a,
		Right:  lowerBinary(a, b, binOp),
	}
}

// BinaryOperatorCall lowers "x ⊕ y" into "x._op_(y)" per the canonical
// operator mapping, with the special "in" inversion ("a in x" becomes
// "x._contains_(a)", i.e. the method call's receiver is y, not x).
// method is the resolved FunctionDeclaration for the lowered method name
// on x's (or, for "in", y's) class, supplied by the caller (internal/builder)
// once the resolver has looked it up.
func BinaryOperatorCall(op string, x, y ast.Expression, method *ast.FunctionDeclaration) *ast.FunctionCallExpression {
	if op == "in" {
		return &ast.FunctionCallExpression{
			PosVal:    x.Pos(),
			Callee:    method,
			Receiver:  y,
			Arguments: []ast.Expression{x},
		}
	}
	return &ast.FunctionCallExpression{
		PosVal:    x.Pos(),
		Callee:    method,
		Receiver:  x,
		Arguments: []ast.Expression{y},
	}
}

// UnaryOperatorCall lowers "⊖ x" into "x._op_()".
func UnaryOperatorCall(x ast.Expression, method *ast.FunctionDeclaration) *ast.FunctionCallExpression {
	return &ast.FunctionCallExpression{
		PosVal:   x.Pos(),
		Callee:   method,
		Receiver: x,
	}
}
