package overload

import (
	"strings"
	"testing"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/ident"
)

func param(name string, class *ast.ClassDeclaration) *ast.VariableDeclaration {
	return &ast.VariableDeclaration{
		Ident:        ident.New(name),
		Kind:         ast.PARAMETER,
		ResolvedType: &ast.ClassType{Decl: class},
	}
}

func method(name string, params ...*ast.VariableDeclaration) *ast.FunctionDeclaration {
	return &ast.FunctionDeclaration{Ident: ident.New(name), Parameters: params}
}

func TestDistanceIdentity(t *testing.T) {
	if d := Distance(ast.CoreClasses.Object, ast.CoreClasses.Object); d != 0 {
		t.Fatalf("Distance(Object, Object) = %d, want 0", d)
	}
}

func TestDistanceDirectSuper(t *testing.T) {
	if d := Distance(ast.CoreClasses.Object, ast.CoreClasses.Int); d != 1 {
		t.Fatalf("Distance(Object, Int) = %d, want 1", d)
	}
}

func TestDistanceUnrelated(t *testing.T) {
	child := &ast.ClassDeclaration{Ident: ident.New("Orphan")}
	if d := Distance(ast.CoreClasses.Int, child); d != -1 {
		t.Fatalf("Distance(Int, Orphan) = %d, want -1", d)
	}
}

func TestDistanceMonotonicAlongChain(t *testing.T) {
	base := &ast.ClassDeclaration{Ident: ident.New("Base"), SuperDecls: []*ast.ClassDeclaration{ast.CoreClasses.Object}}
	mid := &ast.ClassDeclaration{Ident: ident.New("Mid"), SuperDecls: []*ast.ClassDeclaration{base}}
	leaf := &ast.ClassDeclaration{Ident: ident.New("Leaf"), SuperDecls: []*ast.ClassDeclaration{mid}}

	dBase := Distance(ast.CoreClasses.Object, base)
	dMid := Distance(ast.CoreClasses.Object, mid)
	dLeaf := Distance(ast.CoreClasses.Object, leaf)
	if !(dBase < dMid && dMid < dLeaf) {
		t.Fatalf("distances not monotonic along chain: Base=%d Mid=%d Leaf=%d", dBase, dMid, dLeaf)
	}
}

func TestResolveSingleCandidate(t *testing.T) {
	m := method("f", param("x", ast.CoreClasses.Object))
	got, err := Resolve([]*ast.FunctionDeclaration{m}, []*ast.ClassDeclaration{ast.CoreClasses.Int})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != m {
		t.Fatalf("got wrong overload")
	}
}

func TestResolvePicksClosestOverload(t *testing.T) {
	exact := method("f", param("x", ast.CoreClasses.Int))
	general := method("f", param("x", ast.CoreClasses.Object))
	got, err := Resolve([]*ast.FunctionDeclaration{general, exact}, []*ast.ClassDeclaration{ast.CoreClasses.Int})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != exact {
		t.Fatalf("expected the exact-match overload to win, got %v", got.Ident)
	}
}

func TestResolveAmbiguousTieErrors(t *testing.T) {
	a := method("f", param("x", ast.CoreClasses.Object))
	b := method("f", param("x", ast.CoreClasses.Object))
	_, err := Resolve([]*ast.FunctionDeclaration{a, b}, []*ast.ClassDeclaration{ast.CoreClasses.Int})
	if err == nil {
		t.Fatal("expected an ambiguity error for a tied-distance call, got nil")
	}
	if !strings.Contains(err.Error(), "ambiguous") {
		t.Fatalf("error %q does not describe ambiguity", err)
	}
}

func TestResolveNoMatchingOverload(t *testing.T) {
	orphan := &ast.ClassDeclaration{Ident: ident.New("Orphan")}
	m := method("f", param("x", orphan))
	_, err := Resolve([]*ast.FunctionDeclaration{m}, []*ast.ClassDeclaration{ast.CoreClasses.Int})
	if err == nil {
		t.Fatal("expected an error when no candidate accepts the argument types")
	}
}

func TestResolveNoCandidates(t *testing.T) {
	_, err := Resolve(nil, []*ast.ClassDeclaration{ast.CoreClasses.Int})
	if err == nil {
		t.Fatal("expected an error when no candidates are provided")
	}
}

func TestSignatureDistanceArityMismatch(t *testing.T) {
	m := method("f", param("x", ast.CoreClasses.Int))
	if d := SignatureDistance([]*ast.ClassDeclaration{ast.CoreClasses.Int, ast.CoreClasses.Int}, m.Parameters); d != -1 {
		t.Fatalf("SignatureDistance with mismatched arity = %d, want -1", d)
	}
}
