package builder

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/ident"
)

// buildClass fills in the stub ast.ClassDeclaration BuildProgram's
// registration pass already installed in classesByName, so that forward
// references (a method returning the class's own type, or a field typed
// as a sibling class declared later in the same module) already resolve
// to the same pointer identity every other reference to this class uses.
func (b *Builder) buildClass(cd *cst.ClassDecl) *ast.ClassDeclaration {
	class := b.classByName(cd.Name)
	class.Body = &ast.Block{}
	for _, s := range cd.Supers {
		class.Supers = append(class.Supers, ident.New(s))
	}
	class.SuperDecls = b.resolveSupers(cd.Supers)

	for _, g := range cd.Generics {
		class.FormalGenerics = append(class.FormalGenerics, &ast.AbstractGenericType{Ident: ident.New(g), Owner: class})
	}

	b.class = append(b.class, class)
	defer func() { b.class = b.class[:len(b.class)-1] }()

	for _, f := range cd.Fields {
		field := &ast.VariableDeclaration{
			PosVal:       f.Pos(),
			Ident:        ident.New(f.Name),
			DeclaredType: b.resolveType(f.Type),
			Kind:         ast.ATTRIBUTE,
		}
		class.Fields = append(class.Fields, field)
	}

	for _, m := range cd.Methods {
		fn := b.buildFunc(m, class, ast.METHOD)
		class.Methods = append(class.Methods, fn)
	}

	for _, init := range cd.Initializers {
		fn := b.buildFunc(init, class, ast.INITIALIZER)
		fn.DefaultInitializer = len(fn.Parameters) == 0
		class.Initializers = append(class.Initializers, fn)
		if class.Constructor == nil || (fn.DefaultInitializer && !class.Constructor.DefaultInitializer) {
			class.Constructor = fn
		}
	}
	if len(class.Initializers) == 0 {
		def := &ast.FunctionDeclaration{
			PosVal:             cd.Pos(),
			Ident:              ident.New("Create"),
			Kind:               ast.INITIALIZER,
			Body:               &ast.Block{},
			DefaultInitializer: true,
			Owner:              class,
		}
		class.Initializers = append(class.Initializers, def)
		class.Constructor = def
	}

	for _, op := range cd.Operators {
		method := b.buildFunc(op.Method, class, ast.METHOD)
		class.Methods = append(class.Methods, method)
		class.Operators = append(class.Operators, &ast.OperatorDeclaration{Symbol: op.Symbol, Method: method})
	}

	return class
}

// resolveSupers maps cd.Supers names to their registered
// ast.ClassDeclaration; a class with no explicit superclass implicitly
// extends Object, per §3's single-inheritance rule.
func (b *Builder) resolveSupers(names []string) []*ast.ClassDeclaration {
	if len(names) == 0 {
		return []*ast.ClassDeclaration{ast.CoreClasses.Object}
	}
	out := make([]*ast.ClassDeclaration, 0, len(names))
	for _, n := range names {
		if c := b.classByName(n); c != nil {
			out = append(out, c)
		}
	}
	return out
}
