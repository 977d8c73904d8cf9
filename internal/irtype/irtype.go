// Package irtype implements the pure name-mangling and IR-type-mapping
// functions §4.3 specifies as a consumed interface: deterministic,
// side-effect-free functions from a declaration or type to a textual IR
// symbol or type tag.
package irtype

import (
	"strings"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/irvalue"
)

// MangleFunction computes a deterministic symbol for decl, stable under
// recompilation: it is a pure function of the fully-qualified name,
// parameter types, and owning class variation (if any).
func MangleFunction(decl *ast.FunctionDeclaration) string {
	var b strings.Builder
	b.WriteString("@")
	if decl.Owner != nil {
		b.WriteString(ownerMangledName(decl.Owner))
		b.WriteByte('.')
	}
	b.WriteString(decl.Ident.Mangled())
	for _, p := range decl.Parameters {
		b.WriteByte('$')
		b.WriteString(mangleTypeIdent(p.DeclaredType))
	}
	return b.String()
}

// MangleVariable computes a deterministic symbol for a global or
// attribute declaration.
func MangleVariable(decl *ast.VariableDeclaration) string {
	var b strings.Builder
	b.WriteString("@")
	b.WriteString(decl.Ident.Mangled())
	return b.String()
}

func ownerMangledName(c *ast.ClassDeclaration) string {
	// A variation shares the template's lookup identity but carries its
	// own mangled symbols (§3's ClassDeclarationVariation), so the
	// current-variation side channel (threaded by internal/visitor) is
	// what actually determines which identifier mangles here; this
	// function mangles whatever identifier it is given, without
	// resolving the variation itself.
	return c.Ident.Mangled()
}

func mangleTypeIdent(id interface{ String() string }) string {
	if id == nil {
		return "void"
	}
	return id.String()
}

// MapToLLVMType maps t to its textual IR type: a class to a
// pointer-to-struct (boxed) unless it is a core primitive class (which
// maps to its unboxed IR type instead, since boxing is a separate,
// explicit step - see BoxType), and the Void core class to IR void.
func MapToLLVMType(t *ast.ClassType) irvalue.IRType {
	switch t.Decl {
	case ast.CoreClasses.Void:
		return "void"
	case ast.CoreClasses.Int:
		return "i64"
	case ast.CoreClasses.Float:
		return "double"
	case ast.CoreClasses.Bool:
		return "i1"
	case ast.CoreClasses.Char:
		return "i8"
	default:
		return irvalue.IRType("%" + structName(t) + "*")
	}
}

func structName(t *ast.ClassType) string {
	if t.Variation != nil {
		return t.Variation.Ident.Mangled()
	}
	return t.Decl.Ident.Mangled()
}

// UnboxedType returns the unboxed IR type of a core primitive class,
// used by BoxType to know the payload type to store (String and Array
// store a pointer-sized payload, mirroring DWScript's own boxed-string
// representation).
func UnboxedType(decl *ast.ClassDeclaration) irvalue.IRType {
	switch decl {
	case ast.CoreClasses.Int:
		return "i64"
	case ast.CoreClasses.Float:
		return "double"
	case ast.CoreClasses.Bool:
		return "i1"
	case ast.CoreClasses.Char:
		return "i8"
	case ast.CoreClasses.String, ast.CoreClasses.Array:
		return "i8*"
	default:
		return irvalue.IRType("%" + decl.Ident.Mangled() + "*")
	}
}

// BoxOp is the emitted instruction pair a BoxType call produces: an
// allocation of the class's layout followed by a store of value at the
// boxed-payload offset (offset 1; offset 0 is always the class
// identity/vtable pointer per §6's Symbol ABI).
type BoxOp struct {
	AllocInstr string
	StoreInstr string
	Result     irvalue.Operand
}

// BoxType allocates a box of classDecl's layout, stores value at the
// boxed-payload offset, and returns the IR instructions plus the
// resulting pointer operand. reg is a fresh register name minted by the
// caller (internal/codegen owns register numbering).
func BoxType(reg string, value irvalue.Operand, classDecl *ast.ClassDeclaration) BoxOp {
	structTy := "%" + classDecl.Ident.Mangled()
	alloc := reg + " = call " + structTy + "* @" + classDecl.Ident.Mangled() + ".alloc()"
	store := "store " + string(value.Type) + " " + value.Value + ", " + string(UnboxedType(classDecl)) + "* " +
		"getelementptr(" + structTy + ", " + structTy + "* " + reg + ", i32 0, i32 1)"
	return BoxOp{
		AllocInstr: alloc,
		StoreInstr: store,
		Result:     irvalue.Operand{Value: reg, Type: irvalue.IRType(structTy + "*")},
	}
}
