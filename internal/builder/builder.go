// Package builder walks the internal/cst parse tree and applies the
// internal/desugar factories, producing the internal/ast node catalogue
// that internal/resolve (attribute indices, generic instantiation,
// overload resolution) and internal/visitor (emission) consume in turn.
//
// Builder carries every piece of traversal state as an explicit field on
// the struct — no package-level globals — so tests can construct
// multiple independent builders without cross-talk, per §9's "Shared
// resources" requirement.
package builder

import (
	"fmt"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/desugar"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
)

// scope is one lexical level of the "current blocks" stack: a chain of
// name -> declaration bindings, mirroring ast.Block's own lexical
// nesting.
type scope struct {
	vars   map[string]*ast.VariableDeclaration
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{vars: map[string]*ast.VariableDeclaration{}, parent: parent}
}

func (s *scope) lookup(name string) (*ast.VariableDeclaration, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// generatorContext is one entry of the "current generator return type"
// stack, live only while building the body of a generator function or a
// list comprehension.
type generatorContext struct {
	elementType *ident.Identifier
	yields      []*ast.YieldStatement
}

// Builder threads the four builder-time context stacks spec.md §9 names
// explicitly: current blocks (scope), current generator return type
// (generators), current variable context (varKind), and current function
// context (funcKind).
type Builder struct {
	minter *desugar.Minter

	classesByName   map[string]*ast.ClassDeclaration
	functionsByName map[string]*ast.FunctionDeclaration

	// blocks is the "current blocks" stack: the block currently being
	// appended to, so a sub-expression build (lambda/list-comprehension
	// synthesis) can splice a prelude statement in immediately before
	// the statement that referenced it without threading the block
	// through every buildExpr call explicitly.
	blocks     []*ast.Block
	scope      *scope
	generators []*generatorContext
	varKind    []ast.DeclKind
	funcKind   []ast.FuncKind
	class      []*ast.ClassDeclaration

	// loops is the enclosing-loop stack BreakStatement/SkipStatement
	// resolve against; not one of §9's four named context stacks, but a
	// necessary fifth one for the same reason funcKind/varKind exist: a
	// builder-time fact about the syntactic nesting of the node being
	// built, not something internal/resolve recomputes later.
	loops []*ast.WhileLoop

	// extraClasses/extraFuncs accumulate declarations synthesized mid-build
	// (lambda wrapper classes, generator/iterator class pairs,
	// default-argument thunks) that belong at module scope alongside the
	// construct that produced them.
	extraClasses []*ast.ClassDeclaration
	extraFuncs   []*ast.FunctionDeclaration

	errs []*diagnostics.CompilerError
}

// New returns a Builder with its registries seeded by the core and
// well-known classes every desugaring factory depends on.
func New() *Builder {
	b := &Builder{
		minter:          desugar.NewMinter(),
		classesByName:   map[string]*ast.ClassDeclaration{},
		functionsByName: map[string]*ast.FunctionDeclaration{},
	}
	for _, c := range []*ast.ClassDeclaration{
		ast.CoreClasses.Int, ast.CoreClasses.Float, ast.CoreClasses.Bool,
		ast.CoreClasses.Char, ast.CoreClasses.String, ast.CoreClasses.Array,
		ast.CoreClasses.Object, ast.CoreClasses.Void,
		ast.WellKnownClasses.Maybe, ast.WellKnownClasses.Just, ast.WellKnownClasses.Iterator,
	} {
		b.classesByName[c.Ident.Name] = c
	}
	return b
}

func (b *Builder) Errors() []*diagnostics.CompilerError { return b.errs }

func (b *Builder) errorf(pos ident.Position, kind diagnostics.Kind, format string, args ...any) {
	b.errs = append(b.errs, diagnostics.NewCompilerError(kind, pos, fmt.Sprintf(format, args...), "", ""))
}

// BuildProgram registers every class across all modules (so forward
// references to classes resolve) before building any bodies, then builds
// every module in turn. Top-level functions are registered only as each
// one is built, so a call to a function declared later in the program is
// left as an unresolved stub.
func (b *Builder) BuildProgram(mods []*cst.Module) *ast.Program {
	for _, m := range mods {
		for _, d := range m.Decls {
			if cd, ok := d.(*cst.ClassDecl); ok {
				b.classesByName[cd.Name] = &ast.ClassDeclaration{PosVal: cd.Pos(), Ident: ident.New(cd.Name), Abstract: cd.Abstract}
			}
		}
	}
	prog := &ast.Program{}
	for _, m := range mods {
		prog.Modules = append(prog.Modules, b.buildModule(m))
	}
	return prog
}

func (b *Builder) buildModule(m *cst.Module) *ast.Module {
	mod := &ast.Module{PosVal: m.Pos(), Ident: ident.New(m.Name), Native: m.Native, Body: &ast.Block{}}
	for _, imp := range m.Imports {
		mod.Imports = append(mod.Imports, ident.New(imp))
	}

	for _, d := range m.Decls {
		switch cd := d.(type) {
		case *cst.ClassDecl:
			class := b.buildClass(cd)
			mod.Body.Declarations = append(mod.Body.Declarations, class)
		case *cst.FuncDecl:
			fn := b.buildFunc(cd, nil, ast.UNBOUND)
			b.functionsByName[fn.Ident.Name] = fn
			mod.Body.Declarations = append(mod.Body.Declarations, fn)
		}
	}

	b.scope = newScope(nil)
	b.blocks = append(b.blocks, mod.Body)
	for _, s := range m.Stmts {
		b.appendStmt(mod.Body, s)
	}
	b.blocks = b.blocks[:len(b.blocks)-1]

	for _, fn := range b.extraFuncs {
		mod.Body.Declarations = append(mod.Body.Declarations, fn)
	}
	for _, c := range b.extraClasses {
		mod.Body.Declarations = append(mod.Body.Declarations, c)
	}
	b.extraFuncs, b.extraClasses = nil, nil

	return mod
}

func (b *Builder) resolveType(name string) *ident.Identifier {
	if name == "" {
		return nil
	}
	return ident.New(name)
}

func (b *Builder) curBlock() *ast.Block {
	if len(b.blocks) == 0 {
		return nil
	}
	return b.blocks[len(b.blocks)-1]
}

func (b *Builder) classByName(name string) *ast.ClassDeclaration {
	if c, ok := b.classesByName[name]; ok {
		return c
	}
	return nil
}
