package ast

import (
	"strconv"
	"strings"

	"github.com/occ-lang/occ/internal/ident"
)

// --- Literals ---------------------------------------------------------

type IntegerLiteral struct {
	baseExpr
	PosVal ident.Position
	Value  int64
}

func (l *IntegerLiteral) exprNode()          {}
func (l *IntegerLiteral) Pos() ident.Position { return l.PosVal }
func (l *IntegerLiteral) String() string      { return strconv.FormatInt(l.Value, 10) }

type FloatLiteral struct {
	baseExpr
	PosVal ident.Position
	Value  float64
}

func (l *FloatLiteral) exprNode()          {}
func (l *FloatLiteral) Pos() ident.Position { return l.PosVal }
func (l *FloatLiteral) String() string      { return strconv.FormatFloat(l.Value, 'g', -1, 64) }

type BoolLiteral struct {
	baseExpr
	PosVal ident.Position
	Value  bool
}

func (l *BoolLiteral) exprNode()          {}
func (l *BoolLiteral) Pos() ident.Position { return l.PosVal }
func (l *BoolLiteral) String() string      { return strconv.FormatBool(l.Value) }

type CharLiteral struct {
	baseExpr
	PosVal ident.Position
	Value  rune
}

func (l *CharLiteral) exprNode()          {}
func (l *CharLiteral) Pos() ident.Position { return l.PosVal }
func (l *CharLiteral) String() string      { return "'" + string(l.Value) + "'" }

type StringLiteral struct {
	baseExpr
	PosVal ident.Position
	Value  string
}

func (l *StringLiteral) exprNode()          {}
func (l *StringLiteral) Pos() ident.Position { return l.PosVal }
func (l *StringLiteral) String() string      { return strconv.Quote(l.Value) }

// ArrayLiteral evaluates its Elements left-to-right; the code generator
// pops them in reverse push order then reverses again to restore source
// order before building the aggregate (§9 "Evaluation value stack").
type ArrayLiteral struct {
	baseExpr
	PosVal   ident.Position
	Elements []Expression
}

func (l *ArrayLiteral) exprNode()          {}
func (l *ArrayLiteral) Pos() ident.Position { return l.PosVal }
func (l *ArrayLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// --- Variable / member access ------------------------------------------

// VariableAccessExpression names a declaration resolved by internal/resolve.
// The four cases of §4.2 ("Variable access") are distinguished by Decl's
// Kind/IsGlobal/owning-function fields at codegen time, not by separate
// node types.
type VariableAccessExpression struct {
	baseExpr
	PosVal ident.Position
	Name   *ident.Identifier
	Decl   *VariableDeclaration
}

func (v *VariableAccessExpression) exprNode()          {}
func (v *VariableAccessExpression) Pos() ident.Position { return v.PosVal }
func (v *VariableAccessExpression) String() string      { return v.Name.String() }

// MemberAccessExpression accesses Member (a field, via VariableDeclaration,
// or bound as the receiver of a method call) on Object.
type MemberAccessExpression struct {
	baseExpr
	PosVal ident.Position
	Object Expression
	Member *ident.Identifier
	Decl   *VariableDeclaration // resolved field declaration; nil if Member names a method instead
}

func (m *MemberAccessExpression) exprNode()          {}
func (m *MemberAccessExpression) Pos() ident.Position { return m.PosVal }
func (m *MemberAccessExpression) String() string {
	return m.Object.String() + "." + m.Member.String()
}

// SelfExpression pushes the current function's first parameter (self),
// remapped through the generic-variation table when the enclosing class
// is a monomorphized variation.
type SelfExpression struct {
	baseExpr
	PosVal ident.Position
}

func (s *SelfExpression) exprNode()          {}
func (s *SelfExpression) Pos() ident.Position { return s.PosVal }
func (s *SelfExpression) String() string      { return "self" }

// ParentCastExpression implements the surface "parent(T)": casts self to
// the specified supertype via the class-cast routine (label prefix
// "cast").
type ParentCastExpression struct {
	baseExpr
	PosVal   ident.Position
	Target   *ident.Identifier
	TargetDecl *ClassDeclaration
}

func (p *ParentCastExpression) exprNode()          {}
func (p *ParentCastExpression) Pos() ident.Position { return p.PosVal }
func (p *ParentCastExpression) String() string      { return "parent(" + p.Target.String() + ")" }

// --- Calls, casts, conditionals -----------------------------------------

// FunctionCallExpression is the single call-expression node; every
// surface call, operator-lowered call (_add_, _contains_, ...), method
// call, and initializer invocation goes through this node. Which of the
// six function-call dispatch rules (§4.2) applies is determined entirely
// from Callee's and Receiver's resolved declarations at codegen time.
type FunctionCallExpression struct {
	baseExpr
	PosVal   ident.Position
	Callee   *FunctionDeclaration // resolved by internal/resolve (possibly via internal/overload when ambiguous)
	Receiver Expression           // non-nil for method/initializer calls reached through member access; nil for a bare unbound-function call
	Arguments []Expression
	// IsInitializerOfMemberAccess records whether this call's syntactic
	// position is the right-hand side of a member access (".Create()"),
	// which dispatch rule 4 uses to distinguish "allocate a fresh
	// instance" from "call Init on an existing receiver".
	IsInitializerOfMemberAccess bool
}

func (f *FunctionCallExpression) exprNode()          {}
func (f *FunctionCallExpression) Pos() ident.Position { return f.PosVal }
func (f *FunctionCallExpression) String() string {
	var sb strings.Builder
	if f.Receiver != nil {
		sb.WriteString(f.Receiver.String())
		sb.WriteByte('.')
	}
	sb.WriteString(f.Callee.Ident.String())
	sb.WriteByte('(')
	for i, a := range f.Arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// CastExpression implements "x as T": a checked upcast/downcast
// producing a typed pointer.
type CastExpression struct {
	baseExpr
	PosVal ident.Position
	Value  Expression
	Target *ident.Identifier
	TargetDecl *ClassDeclaration
}

func (c *CastExpression) exprNode()          {}
func (c *CastExpression) Pos() ident.Position { return c.PosVal }
func (c *CastExpression) String() string {
	return c.Value.String() + " as " + c.Target.String()
}

// IsExpression implements "x is T": a class-identity test against T's
// class descriptor, boxed into a Bool.
type IsExpression struct {
	baseExpr
	PosVal ident.Position
	Value  Expression
	Target *ident.Identifier
	TargetDecl *ClassDeclaration
}

func (i *IsExpression) exprNode()          {}
func (i *IsExpression) Pos() ident.Position { return i.PosVal }
func (i *IsExpression) String() string {
	return i.Value.String() + " is " + i.Target.String()
}

// ConditionalExpression is a ternary if/else expression; the code
// generator emits labels {pre}.true/.false/.end and joins the two arms
// with a phi of the common type.
type ConditionalExpression struct {
	baseExpr
	PosVal      ident.Position
	Condition   Expression
	Then        Expression
	Else        Expression
	LabelPrefix string
}

func (c *ConditionalExpression) exprNode()          {}
func (c *ConditionalExpression) Pos() ident.Position { return c.PosVal }
func (c *ConditionalExpression) String() string {
	return c.Condition.String() + " ? " + c.Then.String() + " : " + c.Else.String()
}

// UnpackAssignmentExpression names the tuple source of an
// UnpackAssignmentStatement as a standalone expression, for contexts
// (e.g. nested inside another expression's argument list) where the
// surface grammar allows a tuple expression without necessarily being
// the right-hand side of an assignment statement.
type UnpackAssignmentExpression struct {
	baseExpr
	PosVal ident.Position
	Elements []Expression
}

func (u *UnpackAssignmentExpression) exprNode()          {}
func (u *UnpackAssignmentExpression) Pos() ident.Position { return u.PosVal }
func (u *UnpackAssignmentExpression) String() string {
	parts := make([]string, len(u.Elements))
	for i, e := range u.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
