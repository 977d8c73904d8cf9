// Package cst is the minimal stand-in for the out-of-scope parser's
// output contract. It is deliberately thin: just enough surface-syntax
// shape for internal/builder to have something concrete to desugar, for
// every row of the desugaring table in SPEC_FULL.md §4.1. A real parser
// would produce a much richer tree (precedence-resolved expressions,
// full type syntax, source comments); this package only carries what the
// builder actually branches on.
package cst

import "github.com/occ-lang/occ/internal/ident"

// Node is implemented by every surface node.
type Node interface {
	Pos() ident.Position
}

type Base struct{ PosVal ident.Position }

func (b Base) Pos() ident.Position { return b.PosVal }

// NewBase is the frontend's entry point for constructing the embedded
// position-carrying field of every node literal below.
func NewBase(pos ident.Position) Base { return Base{PosVal: pos} }

// Module is one parsed source file.
type Module struct {
	Base
	Name    string
	Imports []string
	Native  bool
	Decls   []Decl
	Stmts   []Stmt // top-level statements, gathered into main by internal/visitor's emitMain
}

// Decl is implemented by every surface declaration.
type Decl interface{ Node }

type ClassDecl struct {
	Base
	Name       string
	Supers     []string
	Abstract   bool
	Generics   []string
	Fields     []*FieldDecl
	Methods    []*FuncDecl
	Initializers []*FuncDecl
	Operators  []*OperatorDecl
}

type FieldDecl struct {
	Base
	Name string
	Type string
}

type Param struct {
	Name    string
	Type    string
	Default Expr // nil if no default
}

type FuncDecl struct {
	Base
	Name       string
	Params     []*Param
	ReturnType string // "" => procedure
	Body       []Stmt
	Abstract   bool
	Native     bool
	IsGenerator bool
}

type OperatorDecl struct {
	Base
	Symbol string
	Method *FuncDecl
}

type VarDecl struct {
	Base
	Name string
	Type string
	Init Expr // nil if uninitialized
}

// Stmt is implemented by every surface statement.
type Stmt interface{ Node }

type AssignStmt struct {
	Base
	Op    string // ":=", "+=", "-=", "*=", "/=", "%=", "^="
	Left  Expr
	Right Expr
}

type TupleAssignStmt struct {
	Base
	Targets []Expr
	Right   Expr
}

type IfStmt struct {
	Base
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if no else
}

type WhileStmt struct {
	Base
	Cond Expr
	Body []Stmt
}

type ForInStmt struct {
	Base
	VarName  string
	Iterable Expr
	Body     []Stmt
}

type BreakStmt struct{ Base }
type SkipStmt struct{ Base }

type ReturnStmt struct {
	Base
	Value Expr // nil for a bare return
}

type YieldStmt struct {
	Base
	Value Expr
}

type RaiseStmt struct {
	Base
	Value Expr // nil to re-raise
}

type TryStmt struct {
	Base
	Body     []Stmt
	Handlers []*ExceptClause
	Finally  []Stmt
}

type ExceptClause struct {
	ExceptionType string
	BindingName   string // "" if unbound
	Body          []Stmt
}

type ExprStmt struct {
	Base
	Value Expr
}

type LocalVarStmt struct {
	Base
	Decl *VarDecl
}

// Expr is implemented by every surface expression.
type Expr interface{ Node }

type IntLit struct {
	Base
	Value int64
}

type FloatLit struct {
	Base
	Value float64
}

type BoolLit struct {
	Base
	Value bool
}

type CharLit struct {
	Base
	Value rune
}

type StringLit struct {
	Base
	Value string
}

type ArrayLit struct {
	Base
	Elements []Expr
}

type Ident struct {
	Base
	Name string
}

type MemberAccess struct {
	Base
	Object Expr
	Member string
}

type Call struct {
	Base
	Callee    Expr // Ident, MemberAccess, or a synthesized name
	Arguments []Expr
}

// BinaryExpr is the surface operator-expression node; the builder lowers
// every instance of this (except short-circuit "and"/"or", which are
// control flow, not operator-method calls under some surface dialects —
// here "and"/"or"/"xor" are lowered to their _and_/_or_/_xor_ methods like
// every other binary operator, per the operator mapping table) to a
// FunctionCallExpression per §4.1's binary-operator desugaring.
type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is the surface unary-operator node ("-x", "not x"), lowered
// to a FunctionCallExpression per §4.1's unary-operator desugaring.
type UnaryExpr struct {
	Base
	Op      string
	Operand Expr
}

type Lambda struct {
	Base
	Params     []*Param
	ReturnType string
	Body       []Stmt // full syntax: the literal body
	Shorthand  Expr   // shorthand syntax ("=> expr"); nil unless this is shorthand
}

type ListComp struct {
	Base
	Elem   Expr
	Var    string
	Source Expr
	Filter Expr // nil if no "if" clause
}

type New struct {
	Base
	ClassName string
	Arguments []Expr
}

type Cast struct {
	Base
	Value  Expr
	Target string
}

type IsExpr struct {
	Base
	Value  Expr
	Target string
}

type Conditional struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

type Self struct{ Base }

type Parent struct {
	Base
	Target string
}

type Tuple struct {
	Base
	Elements []Expr
}
