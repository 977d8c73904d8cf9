// Package snapshot golden-files the full pipeline (internal/builder ->
// internal/resolve -> internal/visitor -> internal/irout) for two small
// fixtures (a top-level literal binding, and a class with one
// initializer and one method), bypassing
// internal/frontend by constructing internal/cst trees directly — the
// same shortcut the teacher's own bytecode-compiler tests take when they
// want to pin down codegen output without going through the parser.
package snapshot

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/occ-lang/occ/internal/builder"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/ident"
	"github.com/occ-lang/occ/internal/irout"
	"github.com/occ-lang/occ/internal/resolve"
	"github.com/occ-lang/occ/internal/visitor"
)

func pos(line, col int) ident.Position {
	return ident.Position{File: "snapshot_test.occ", Line: line, Col: col}
}

func base(line, col int) cst.Base {
	return cst.NewBase(pos(line, col))
}

// compile runs a single module through the whole non-parsing pipeline
// and returns the assembled document, failing the test on any stage
// error rather than returning one, since every fixture below is expected
// to compile cleanly.
func compile(t *testing.T, mod *cst.Module) string {
	t.Helper()

	b := builder.New()
	prog := b.BuildProgram([]*cst.Module{mod})
	if errs := b.Errors(); len(errs) > 0 {
		t.Fatalf("build errors: %v", errs)
	}

	if errs := resolve.Resolve(prog); len(errs) > 0 {
		t.Fatalf("resolve errors: %v", errs)
	}

	v := visitor.New()
	constants, declarations, bodies := v.EmitProgram(prog)
	if errs := v.Errors(); len(errs) > 0 {
		t.Fatalf("emission errors: %v", errs)
	}

	if err := irout.CheckTerminators(bodies); err != nil {
		t.Fatalf("terminator invariant violated: %v", err)
	}

	doc := &irout.Document{
		TargetTriple: "x86_64-unknown-linux-gnu",
		Constants:    constants,
		Declarations: declarations,
		Bodies:       bodies,
	}
	return doc.String()
}

// TestTopLevelLiteralBinding covers the simplest possible program: a single
// local variable bound to a literal at module scope, emitted as the
// implicit main.
func TestTopLevelLiteralBinding(t *testing.T) {
	mod := &cst.Module{
		Base: base(1, 1),
		Name: "Main",
		Stmts: []cst.Stmt{
			&cst.LocalVarStmt{
				Base: base(2, 3),
				Decl: &cst.VarDecl{
					Base: base(2, 3),
					Name: "answer",
					Type: "Int",
					Init: &cst.IntLit{Base: base(2, 17), Value: 42},
				},
			},
		},
	}
	snaps.MatchSnapshot(t, compile(t, mod))
}

// TestClassWithMethodAndInitializer covers a class with a single explicit
// zero-argument Create, constructed with new at module scope, and a
// method reading back a field the initializer assigned.
func TestClassWithMethodAndInitializer(t *testing.T) {
	counter := &cst.ClassDecl{
		Base: base(1, 1),
		Name: "Counter",
		Fields: []*cst.FieldDecl{
			{Base: base(2, 3), Name: "value", Type: "Int"},
		},
		Initializers: []*cst.FuncDecl{
			{
				Base: base(3, 3),
				Name: "Create",
				Body: []cst.Stmt{
					&cst.AssignStmt{
						Base: base(4, 5),
						Op:   ":=",
						Left: &cst.MemberAccess{Base: base(4, 5), Object: &cst.Self{Base: base(4, 5)}, Member: "value"},
						Right: &cst.IntLit{Base: base(4, 14), Value: 0},
					},
				},
			},
		},
		Methods: []*cst.FuncDecl{
			{
				Base:       base(6, 3),
				Name:       "Get",
				ReturnType: "Int",
				Body: []cst.Stmt{
					&cst.ReturnStmt{
						Base:  base(7, 5),
						Value: &cst.MemberAccess{Base: base(7, 12), Object: &cst.Self{Base: base(7, 12)}, Member: "value"},
					},
				},
			},
		},
	}
	mod := &cst.Module{
		Base:  base(1, 1),
		Name:  "Main",
		Decls: []cst.Decl{counter},
		Stmts: []cst.Stmt{
			&cst.LocalVarStmt{
				Base: base(10, 3),
				Decl: &cst.VarDecl{
					Base: base(10, 3),
					Name: "c",
					Type: "Counter",
					Init: &cst.New{Base: base(10, 15), ClassName: "Counter"},
				},
			},
		},
	}
	snaps.MatchSnapshot(t, compile(t, mod))
}
