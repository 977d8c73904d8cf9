package ast

import (
	"strings"

	"github.com/occ-lang/occ/internal/ident"
)

// AssignmentStatement stores the value of Right into the l-value Left.
// Per §4.2, Right is evaluated before Left.
type AssignmentStatement struct {
	PosVal ident.Position
	Left   Expression
	Right  Expression
}

func (a *AssignmentStatement) stmtNode()          {}
func (a *AssignmentStatement) Pos() ident.Position { return a.PosVal }
func (a *AssignmentStatement) String() string {
	return a.Left.String() + " := " + a.Right.String()
}

// UnpackAssignmentStatement destructures a tuple-valued Right into
// multiple l-value Targets, using an auxiliary synthesized temporary
// declaration (Temp) to hold the tuple so Right is evaluated exactly
// once.
type UnpackAssignmentStatement struct {
	PosVal  ident.Position
	Targets []Expression
	Right   Expression
	Temp    *VariableDeclaration
}

func (u *UnpackAssignmentStatement) stmtNode()          {}
func (u *UnpackAssignmentStatement) Pos() ident.Position { return u.PosVal }
func (u *UnpackAssignmentStatement) String() string {
	names := make([]string, len(u.Targets))
	for i, t := range u.Targets {
		names[i] = t.String()
	}
	return "(" + strings.Join(names, ", ") + ") := " + u.Right.String()
}

// ConditionalStatement is an if/else; Else may be nil.
type ConditionalStatement struct {
	PosVal    ident.Position
	Condition Expression
	Then      *Block
	Else      *Block
}

func (c *ConditionalStatement) stmtNode()          {}
func (c *ConditionalStatement) Pos() ident.Position { return c.PosVal }
func (c *ConditionalStatement) String() string {
	s := "if " + c.Condition.String() + " { " + c.Then.String() + " }"
	if c.Else != nil {
		s += " else { " + c.Else.String() + " }"
	}
	return s
}

// WhileLoop tests Condition at the top; every for-in loop is desugared
// into one of these per §4.1.
type WhileLoop struct {
	PosVal    ident.Position
	Condition Expression
	Body      *Block
	LabelPrefix string // stable per-loop prefix used for {pre}.condition/.block/.end

	// Prelude and PreludeDecl carry statements/declarations a desugaring
	// (e.g. for-in lowering's "r := E.getIterator()") must run
	// immediately before this loop, in the same enclosing block.
	// internal/visitor's visitWhileLoop emits them just before the loop's
	// condition label; they are not part of the loop's own Body.
	Prelude     []Statement
	PreludeDecl *VariableDeclaration
}

func (w *WhileLoop) stmtNode()          {}
func (w *WhileLoop) Pos() ident.Position { return w.PosVal }
func (w *WhileLoop) String() string {
	return "while " + w.Condition.String() + " { " + w.Body.String() + " }"
}

// BreakStatement jumps to the enclosing loop's {pre}.end label.
type BreakStatement struct {
	PosVal ident.Position
	Loop   *WhileLoop // set by internal/builder from its enclosing-loop stack (desugar.ForIn sets it for its own break); nil is a semantic-invariant error (break outside a loop)
}

func (b *BreakStatement) stmtNode()          {}
func (b *BreakStatement) Pos() ident.Position { return b.PosVal }
func (b *BreakStatement) String() string      { return "break" }

// SkipStatement jumps to the enclosing loop's {pre}.condition label
// (i.e. "continue").
type SkipStatement struct {
	PosVal ident.Position
	Loop   *WhileLoop
}

func (s *SkipStatement) stmtNode()          {}
func (s *SkipStatement) Pos() ident.Position { return s.PosVal }
func (s *SkipStatement) String() string      { return "skip" }

// ReturnStatement returns ReturnValue (nil for a procedure return).
type ReturnStatement struct {
	PosVal      ident.Position
	ReturnValue Expression
}

func (r *ReturnStatement) stmtNode()          {}
func (r *ReturnStatement) Pos() ident.Position { return r.PosVal }
func (r *ReturnStatement) String() string {
	if r.ReturnValue == nil {
		return "return"
	}
	return "return " + r.ReturnValue.String()
}

// YieldStatement is the desugared form of a surface "yield e": a return
// of Just(e) that additionally carries the stable zero-based Index used
// to name its resume label (yield{Index}) and its ResumeLabel once the
// code generator assigns one.
type YieldStatement struct {
	*ReturnStatement
	Index       int
	ResumeLabel string
}

func (y *YieldStatement) String() string {
	return "yield " + y.ReturnValue.String() + " /* " + y.ResumeLabel + " */"
}

// TryStatement models a try/except block; Handlers run in order when an
// exception raised inside Body matches the handler's ExceptionType.
type TryStatement struct {
	PosVal   ident.Position
	Body     *Block
	Handlers []*ExceptHandler
	Finally  *Block // nil if absent
}

func (t *TryStatement) stmtNode()          {}
func (t *TryStatement) Pos() ident.Position { return t.PosVal }
func (t *TryStatement) String() string      { return "try { " + t.Body.String() + " }" }

// ExceptHandler is one except-clause of a TryStatement.
type ExceptHandler struct {
	ExceptionType *ident.Identifier
	Binding       *VariableDeclaration // nil if the exception value is not bound
	Body          *Block
}

// RaiseStatement raises Value (or re-raises the currently handled
// exception when Value is nil, inside an except handler).
type RaiseStatement struct {
	PosVal ident.Position
	Value  Expression
}

func (r *RaiseStatement) stmtNode()          {}
func (r *RaiseStatement) Pos() ident.Position { return r.PosVal }
func (r *RaiseStatement) String() string {
	if r.Value == nil {
		return "raise"
	}
	return "raise " + r.Value.String()
}

// WrappedFunctionCall is a FunctionCallExpression used in statement
// position; its result, if any, is discarded (the evaluation-value stack
// is emptied after this statement per §4.2).
type WrappedFunctionCall struct {
	Call *FunctionCallExpression
}

func (w *WrappedFunctionCall) stmtNode()          {}
func (w *WrappedFunctionCall) Pos() ident.Position { return w.Call.Pos() }
func (w *WrappedFunctionCall) String() string      { return w.Call.String() }
