// Package ast defines the canonical abstract syntax tree: the uniform,
// desugared node catalogue that the builder produces and the code
// generator consumes. Every surface construct the builder recognizes
// (for-in loops, comprehensions, lambdas, generators, operator
// expressions, default-argument functions) has already been rewritten
// into this smaller set of node kinds by the time anything here is
// constructed.
//
// The node kinds form a closed sum type: Declaration, Statement and
// Expression are satisfied by a fixed list of concrete struct types in
// this package, and every visitor in internal/visitor exhaustively
// switches over that fixed list rather than performing open double
// dispatch.
package ast

import "github.com/occ-lang/occ/internal/ident"

// Node is the root interface implemented by every AST node.
type Node interface {
	Pos() ident.Position
	String() string
}

// Access is the access modifier carried by every Declaration. Default is
// PackageAccess when a declaration appears inside a class body without an
// explicit modifier.
type Access int

const (
	Public Access = iota
	Protected
	PackageAccess
	Private
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case PackageAccess:
		return "package"
	case Private:
		return "private"
	default:
		return "unknown"
	}
}

// Declaration is implemented by every declaration node: Module, Package,
// ClassDeclaration, VariableDeclaration, FunctionDeclaration and
// GeneratorFunctionDeclaration.
type Declaration interface {
	Node
	DeclIdent() *ident.Identifier
	DeclAccess() Access
	declNode()
}

// Statement is implemented by every statement node.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by every expression node. Every expression
// carries its resolved type and whether it denotes an assignable
// location (an l-value). Neither internal/builder nor internal/resolve
// calls SetType or SetLValue, so both stay at their zero values (nil
// type, not an l-value) when the code generator runs.
type Expression interface {
	Node
	ExprType() Type
	IsLValue() bool
	exprNode()
}

// baseExpr is embedded by every concrete expression to provide the
// Type/LValue bookkeeping shared by all of them.
type baseExpr struct {
	Type   Type
	LValue bool
}

func (b *baseExpr) ExprType() Type  { return b.Type }
func (b *baseExpr) IsLValue() bool  { return b.LValue }
func (b *baseExpr) SetType(t Type)  { b.Type = t }
func (b *baseExpr) SetLValue(v bool) { b.LValue = v }
