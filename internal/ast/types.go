package ast

import "github.com/occ-lang/occ/internal/ident"

// Type is the resolved-type contract the resolver stand-in attaches to
// every Expression and VariableDeclaration. In this language every type
// is ultimately a class (primitives are core classes, per §3's "Core
// classes" registry), so Type is implemented by ClassType and
// GenericParamType only.
type Type interface {
	TypeIdent() *ident.Identifier
	Equals(Type) bool
	typeNode()
}

// ClassType names a (possibly monomorphized) class as a type.
type ClassType struct {
	Decl      *ClassDeclaration
	Variation *ClassDeclarationVariation // nil unless this names a specific monomorphization
}

func (c *ClassType) typeNode() {}

func (c *ClassType) TypeIdent() *ident.Identifier {
	if c.Variation != nil {
		return c.Variation.Ident
	}
	return c.Decl.Ident
}

func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	if !ok {
		return false
	}
	if c.Decl != o.Decl {
		return false
	}
	return c.Variation == o.Variation
}

// GenericParamType names an unsubstituted formal generic-type parameter,
// used only inside the template body of a generic class before
// monomorphization resolves it to a concrete ClassType via the current
// variation's substitution map.
type GenericParamType struct {
	Param *AbstractGenericType
}

func (g *GenericParamType) typeNode() {}

func (g *GenericParamType) TypeIdent() *ident.Identifier { return g.Param.Ident }

func (g *GenericParamType) Equals(other Type) bool {
	o, ok := other.(*GenericParamType)
	return ok && o.Param == g.Param
}

// AbstractGenericType is a type parameter bound to its defining class,
// e.g. the "T" in "class Box<T>".
type AbstractGenericType struct {
	Ident *ident.Identifier
	Owner *ClassDeclaration
}
