package codegen

import (
	"testing"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

func field(name string) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{Ident: ident.New(name), Kind: ast.ATTRIBUTE}
}

func TestComputeLayoutRootClassReservesSlotZero(t *testing.T) {
	base := &ast.ClassDeclaration{
		Ident:      ident.New("Base"),
		SuperDecls: []*ast.ClassDeclaration{ast.CoreClasses.Object},
		Fields:     []*ast.VariableDeclaration{field("a"), field("b")},
	}
	layout := ComputeLayout(base)
	if base.Fields[0].AttributeIndex != 1 || base.Fields[1].AttributeIndex != 2 {
		t.Fatalf("unexpected attribute indices: %d, %d", base.Fields[0].AttributeIndex, base.Fields[1].AttributeIndex)
	}
	if layout.AttrCount != 3 {
		t.Fatalf("AttrCount = %d, want 3", layout.AttrCount)
	}
}

func TestComputeLayoutInheritsSuperclassFields(t *testing.T) {
	base := &ast.ClassDeclaration{
		Ident:      ident.New("Base"),
		SuperDecls: []*ast.ClassDeclaration{ast.CoreClasses.Object},
		Fields:     []*ast.VariableDeclaration{field("a")},
	}
	derived := &ast.ClassDeclaration{
		Ident:      ident.New("Derived"),
		SuperDecls: []*ast.ClassDeclaration{base},
		Fields:     []*ast.VariableDeclaration{field("b"), field("c")},
	}
	ComputeLayout(derived)
	if derived.Fields[0].AttributeIndex != 2 {
		t.Fatalf("Derived.b index = %d, want 2 (after Base's slot 0 + a)", derived.Fields[0].AttributeIndex)
	}
	if derived.Fields[1].AttributeIndex != 3 {
		t.Fatalf("Derived.c index = %d, want 3", derived.Fields[1].AttributeIndex)
	}
}
