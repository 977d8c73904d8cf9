package ast

import (
	"strings"

	"github.com/occ-lang/occ/internal/ident"
)

// Block is an ordered list of declarations followed by an ordered list of
// statements. Blocks establish lexical scopes.
type Block struct {
	Declarations []Declaration
	Statements   []Statement
	Parent       *Block // non-owning back-pointer to the enclosing block; nil at the module's top level
}

func (b *Block) Pos() ident.Position {
	if len(b.Declarations) > 0 {
		return b.Declarations[0].Pos()
	}
	if len(b.Statements) > 0 {
		return b.Statements[0].Pos()
	}
	return ident.Position{}
}

func (b *Block) String() string {
	var sb strings.Builder
	for _, d := range b.Declarations {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	for _, s := range b.Statements {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Module is a Declaration containing an import list and a top-level
// block. A native module declares bodies but never emits them; calls
// against it become external symbols.
type Module struct {
	PosVal  ident.Position
	Ident   *ident.Identifier
	Access  Access
	Imports []*ident.Identifier
	Body    *Block
	Native  bool
}

func (m *Module) declNode()                    {}
func (m *Module) Pos() ident.Position          { return m.PosVal }
func (m *Module) DeclIdent() *ident.Identifier { return m.Ident }
func (m *Module) DeclAccess() Access           { return m.Access }
func (m *Module) String() string {
	prefix := "module "
	if m.Native {
		prefix = "native module "
	}
	return prefix + m.Ident.String()
}

// Package groups modules; may itself be marked native, in which case
// every module it contains behaves as if individually marked native.
type Package struct {
	PosVal  ident.Position
	Ident   *ident.Identifier
	Modules []*Module
	Native  bool
}

func (p *Package) declNode()                    {}
func (p *Package) Pos() ident.Position          { return p.PosVal }
func (p *Package) DeclIdent() *ident.Identifier { return p.Ident }
func (p *Package) DeclAccess() Access           { return Public }
func (p *Package) String() string               { return "package " + p.Ident.String() }

// DeclKind distinguishes the three contexts a VariableDeclaration can
// appear in; the builder's "current variable context" stack tracks which
// one is active while constructing new declarations.
type DeclKind int

const (
	VARIABLE DeclKind = iota
	PARAMETER
	ATTRIBUTE
)

func (k DeclKind) String() string {
	switch k {
	case VARIABLE:
		return "variable"
	case PARAMETER:
		return "parameter"
	case ATTRIBUTE:
		return "attribute"
	default:
		return "unknown"
	}
}

// VariableDeclaration covers locals, parameters and class attributes
// uniformly; AttributeIndex is meaningful only when Kind == ATTRIBUTE and
// is assigned by internal/codegen.ComputeLayout when the class is
// emitted, stable per class.
type VariableDeclaration struct {
	PosVal         ident.Position
	Ident          *ident.Identifier
	DeclaredType   *ident.Identifier // resolvable identifier naming the type, before resolution substitutes a Type
	ResolvedType   Type
	Access_        Access
	Kind           DeclKind
	IsGlobal       bool
	AttributeIndex int // valid iff Kind == ATTRIBUTE
}

func (v *VariableDeclaration) declNode()                    {}
func (v *VariableDeclaration) Pos() ident.Position          { return v.PosVal }
func (v *VariableDeclaration) DeclIdent() *ident.Identifier { return v.Ident }
func (v *VariableDeclaration) DeclAccess() Access           { return v.Access_ }
func (v *VariableDeclaration) String() string {
	return v.Kind.String() + " " + v.Ident.String() + ": " + v.DeclaredType.String()
}

// ResolvedTypeOrVoid returns the class this declaration's resolved type
// names, falling back to the Void core class when resolution has not
// (yet) attached one — used by emission helpers that need a concrete
// class to compute an unboxed IR type from.
func (v *VariableDeclaration) ResolvedTypeOrVoid() *ClassDeclaration {
	if ct, ok := v.ResolvedType.(*ClassType); ok {
		return ct.Decl
	}
	return CoreClasses.Void
}

// FuncKind distinguishes top-level unbound functions from methods and
// initializers; the builder's "current function context" stack tracks
// which one is active.
type FuncKind int

const (
	UNBOUND FuncKind = iota
	METHOD
	INITIALIZER
)

func (k FuncKind) String() string {
	switch k {
	case UNBOUND:
		return "function"
	case METHOD:
		return "method"
	case INITIALIZER:
		return "initializer"
	default:
		return "unknown"
	}
}

// FunctionDeclaration covers unbound functions, methods and initializers.
// An initializer's DeclaredReturnType is always nil (initializers return
// no value observable to the caller; dispatch rule 6 pushes self
// instead). An abstract function has an empty Body and, at emission time,
// synthesizes a default return of its declared type's zero value.
type FunctionDeclaration struct {
	PosVal             ident.Position
	Ident              *ident.Identifier
	Access_            Access
	Parameters         []*VariableDeclaration
	DeclaredReturnType *ident.Identifier // nil => procedure (or always nil for INITIALIZER)
	ResolvedReturnType Type
	Body               *Block
	Kind               FuncKind
	Abstract           bool
	NativeDerived      bool
	DefaultInitializer bool // true for the implicit/explicit zero-argument initializer
	Owner              *ClassDeclaration // non-owning back-pointer; nil for UNBOUND functions

	// GeneratorInfo is non-nil when this declaration's original body
	// contained yields; it is self-referential (GeneratorInfo.FunctionDeclaration
	// == this declaration) since a ClassDeclaration's Methods/Initializers
	// slices are typed []*FunctionDeclaration, so the richer
	// GeneratorFunctionDeclaration wrapper cannot be stored there directly.
	// Code that needs the Yields/IteratorClass fields reads this back-link
	// instead of type-asserting the slice element.
	GeneratorInfo *GeneratorFunctionDeclaration

	// Unresolved marks a stand-in declaration internal/builder could not
	// bind eagerly (the receiver's class was not known from local
	// syntax); internal/resolve rebinds FunctionCallExpression.Callee
	// away from this stub once it has whole-program class information.
	Unresolved bool
}

func (f *FunctionDeclaration) declNode()                    {}
func (f *FunctionDeclaration) Pos() ident.Position          { return f.PosVal }
func (f *FunctionDeclaration) DeclIdent() *ident.Identifier { return f.Ident }
func (f *FunctionDeclaration) DeclAccess() Access           { return f.Access_ }
func (f *FunctionDeclaration) IsProcedure() bool            { return f.DeclaredReturnType == nil }
func (f *FunctionDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(f.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(f.Ident.String())
	sb.WriteByte('(')
	for i, p := range f.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	if f.DeclaredReturnType != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.DeclaredReturnType.String())
	}
	return sb.String()
}

// GeneratorFunctionDeclaration is a FunctionDeclaration annotated with
// the ordered list of yield statements found in its original (pre-desugar)
// body. Each entry's Index is the stable zero-based ordinal used to name
// its resume label (yield0, yield1, ...).
type GeneratorFunctionDeclaration struct {
	*FunctionDeclaration
	Yields []*YieldStatement

	// IteratorClass is the synthesized generator-iterator class
	// implementing getNext() for this generator; set by the desugarer
	// once synthesis completes.
	IteratorClass *ClassDeclaration
}
