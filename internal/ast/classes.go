package ast

import (
	"strings"

	"github.com/occ-lang/occ/internal/ident"
)

// ClassDeclaration is a Declaration with a superclass list, an owning
// block, generic-parameter and monomorphization bookkeeping, and the
// generator/function-wrapper flags the desugarer sets on synthesized
// classes.
//
// Invariants (enforced by internal/visitor, not by this type): a class
// with non-empty FormalGenerics emits no code directly, only its
// Variations do; a class with Generator == true owns exactly one
// generator-iterator inner class (linked from the GeneratorFunctionDeclaration
// that produced it, not from here, since the iterator is itself an
// ordinary ClassDeclaration appearing in the owning block's Declarations).
type ClassDeclaration struct {
	PosVal     ident.Position
	Ident      *ident.Identifier
	Access_    Access
	Supers     []*ident.Identifier   // superclass identifiers as written; resolved via SuperDecls
	SuperDecls []*ClassDeclaration   // resolved by internal/resolve, in declaration order
	Body       *Block                // left empty by internal/builder and internal/desugar; members live in the Fields/Methods/Operators/Properties/Initializers slices below
	Abstract   bool

	FormalGenerics []*AbstractGenericType
	Variations     []*ClassDeclarationVariation // appended during typing, in first-discovered order

	Generator       bool // true for both classes desugar.Generator synthesizes: the generator factory class and its generator-iterator class
	FunctionWrapper bool // true for a synthesized first-class-function wrapper class

	Fields      []*VariableDeclaration // Kind == ATTRIBUTE
	Methods     []*FunctionDeclaration // Kind == METHOD
	Operators   []*OperatorDeclaration
	Properties  []*PropertyDeclaration
	Constructor *FunctionDeclaration // Kind == INITIALIZER; the default (zero-argument) initializer, or the first declared initializer when none takes zero arguments
	Initializers []*FunctionDeclaration // Kind == INITIALIZER, every overload including Constructor
}

func (c *ClassDeclaration) declNode()                    {}
func (c *ClassDeclaration) Pos() ident.Position          { return c.PosVal }
func (c *ClassDeclaration) DeclIdent() *ident.Identifier { return c.Ident }
func (c *ClassDeclaration) DeclAccess() Access           { return c.Access_ }

// IsGeneric reports whether this class has unsubstituted formal generic
// parameters and therefore emits no code of its own.
func (c *ClassDeclaration) IsGeneric() bool { return len(c.FormalGenerics) > 0 }

func (c *ClassDeclaration) String() string {
	var sb strings.Builder
	if c.Abstract {
		sb.WriteString("abstract ")
	}
	sb.WriteString("class ")
	sb.WriteString(c.Ident.String())
	if len(c.Supers) > 0 {
		sb.WriteByte('(')
		for i, s := range c.Supers {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.String())
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// ClassDeclarationVariation is a monomorphized clone of a generic class
// for one concrete substitution of its FormalGenerics. It shares identity
// with the template (Template) for lookup purposes, but has its own
// layout and mangled symbols once emitted.
type ClassDeclarationVariation struct {
	Template *ClassDeclaration
	Ident    *ident.Identifier      // e.g. "Box<Int>"
	Subst    map[*AbstractGenericType]Type // substitution map consulted by internal/irtype during emission
}

// Substitute resolves t through this variation's substitution map if t is
// a GenericParamType bound to this variation's template; any other type
// is returned unchanged.
func (v *ClassDeclarationVariation) Substitute(t Type) Type {
	g, ok := t.(*GenericParamType)
	if !ok {
		return t
	}
	if resolved, ok := v.Subst[g.Param]; ok {
		return resolved
	}
	return t
}

// OperatorDeclaration is a class member implementing one of the operator
// mapping methods (_add_, _sub_, _contains_, ...) synthesized by operator
// desugaring, or written directly in that lowered form by the builder.
type OperatorDeclaration struct {
	Symbol string // surface operator, e.g. "+"
	Method *FunctionDeclaration
}

func (o *OperatorDeclaration) String() string {
	if o == nil {
		return ""
	}
	return "operator " + o.Symbol + " " + o.Method.String()
}

// PropertyDeclaration exposes a field through named read/write accessor
// methods.
type PropertyDeclaration struct {
	PosVal ident.Position
	Ident  *ident.Identifier
	Type   *ident.Identifier
	Reader *FunctionDeclaration // nil if write-only
	Writer *FunctionDeclaration // nil if read-only
}

func (p *PropertyDeclaration) Pos() ident.Position { return p.PosVal }
func (p *PropertyDeclaration) String() string {
	return "property " + p.Ident.String() + ": " + p.Type.String()
}

// CoreClasses is the fixed registry of built-in classes recognized by
// identity (pointer equality), never by name lookup, matching §3's "Core
// classes" requirement. Populated once by init(); the code generator's
// boxing/dispatch special cases (function-call rule 1) compare against
// these pointers directly.
var CoreClasses struct {
	Int, Float, Bool, Char, String, Array, Object, Void *ClassDeclaration
}

func init() {
	mk := func(name string) *ClassDeclaration {
		return &ClassDeclaration{Ident: ident.New(name), Body: &Block{}}
	}
	CoreClasses.Object = mk("Object")
	CoreClasses.Void = mk("Void")
	CoreClasses.Int = mk("Int")
	CoreClasses.Float = mk("Float")
	CoreClasses.Bool = mk("Bool")
	CoreClasses.Char = mk("Char")
	CoreClasses.String = mk("String")
	CoreClasses.Array = mk("Array")

	for _, c := range []*ClassDeclaration{
		CoreClasses.Int, CoreClasses.Float, CoreClasses.Bool,
		CoreClasses.Char, CoreClasses.String, CoreClasses.Array,
	} {
		c.SuperDecls = []*ClassDeclaration{CoreClasses.Object}
	}
}

// IsTreatedSpecialBoxed reports whether decl is one of the core boxed
// classes whose initializer dispatch follows function-call rule 1 (push
// the already-boxed argument unchanged, emit no call).
func IsTreatedSpecialBoxed(decl *ClassDeclaration) bool {
	switch decl {
	case CoreClasses.Int, CoreClasses.Float, CoreClasses.Bool,
		CoreClasses.Char, CoreClasses.String, CoreClasses.Array:
		return true
	default:
		return false
	}
}
