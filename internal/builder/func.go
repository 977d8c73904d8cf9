package builder

import (
	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/cst"
	"github.com/occ-lang/occ/internal/desugar"
	"github.com/occ-lang/occ/internal/ident"
)

// buildFunc builds one surface function/method/initializer declaration.
// Every parameter stays on the primary (maximal-arity) declaration; the
// default-value expressions additionally synthesize the arity-overload
// thunks desugar.DefaultArgOverloads names, which are appended as soon
// as the body is built: to extraFuncs (module scope) or, for a method,
// directly to the owning class's Methods.
func (b *Builder) buildFunc(fd *cst.FuncDecl, owner *ast.ClassDeclaration, kind ast.FuncKind) *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{
		PosVal:        fd.Pos(),
		Ident:         ident.New(fd.Name),
		Kind:          kind,
		Abstract:      fd.Abstract,
		NativeDerived: fd.Native,
		Owner:         owner,
	}
	if fd.ReturnType != "" && kind != ast.INITIALIZER {
		fn.DeclaredReturnType = b.resolveType(fd.ReturnType)
	}

	params, defaults := b.buildParams(fd.Params)
	fn.Parameters = params

	if owner != nil {
		b.functionsByName[owner.Ident.Name+"."+fn.Ident.Name] = fn
	} else {
		b.functionsByName[fn.Ident.Name] = fn
	}

	if fd.Abstract || fd.Native {
		return fn
	}

	b.funcKind = append(b.funcKind, kind)
	b.scope = newScope(b.scope)
	for _, pd := range params {
		b.scope.vars[pd.Ident.Name] = pd
	}
	defer func() {
		b.scope = b.scope.parent
		b.funcKind = b.funcKind[:len(b.funcKind)-1]
	}()

	if fd.IsGenerator {
		return b.buildGeneratorFunc(fd, fn, defaults)
	}

	fn.Body = b.buildBlock(fd.Body)

	if len(defaults) > 0 {
		b.attachDefaultArgOverloads(fn, defaults)
	}
	return fn
}

// buildGeneratorFunc builds fd's body with the "current generator return
// type" context stack active, turning every surface yield into a
// desugar.Yield marker, then hands the whole thing to desugar.Generator
// to synthesize the generator/iterator class pair.
func (b *Builder) buildGeneratorFunc(fd *cst.FuncDecl, fn *ast.FunctionDeclaration, defaults []ast.Expression) *ast.FunctionDeclaration {
	gctx := &generatorContext{elementType: fn.DeclaredReturnType}
	b.generators = append(b.generators, gctx)
	defer func() { b.generators = b.generators[:len(b.generators)-1] }()

	fn.Body = b.buildBlock(fd.Body)

	result := desugar.Generator(b.minter, fn, gctx.yields, gctx.elementType)
	b.extraClasses = append(b.extraClasses, result.GeneratorClass, result.IteratorClass)

	if len(defaults) > 0 {
		b.attachDefaultArgOverloads(result.Generator.FunctionDeclaration, defaults)
	}
	return result.Generator.FunctionDeclaration
}

func (b *Builder) attachDefaultArgOverloads(fn *ast.FunctionDeclaration, defaults []ast.Expression) {
	thunks := desugar.DefaultArgOverloads(fn, defaults)
	if fn.Owner != nil {
		fn.Owner.Methods = append(fn.Owner.Methods, thunks...)
		return
	}
	b.extraFuncs = append(b.extraFuncs, thunks...)
}

// buildParams builds the parameter declaration list, peeling off any
// trailing default-value expressions (built against the enclosing
// scope, which is still the caller's at this point, matching a default
// expression's surface-level scoping rule of seeing only names visible
// where the function is declared).
func (b *Builder) buildParams(ps []*cst.Param) ([]*ast.VariableDeclaration, []ast.Expression) {
	var params []*ast.VariableDeclaration
	var defaults []ast.Expression
	b.varKind = append(b.varKind, ast.PARAMETER)
	defer func() { b.varKind = b.varKind[:len(b.varKind)-1] }()

	for _, p := range ps {
		pd := &ast.VariableDeclaration{
			DeclaredType: b.resolveType(p.Type),
			Ident:        ident.New(p.Name),
			Kind:         ast.PARAMETER,
		}
		if c := b.classByName(p.Type); c != nil {
			pd.ResolvedType = &ast.ClassType{Decl: c}
		}
		params = append(params, pd)
		if p.Default != nil {
			defaults = append(defaults, b.buildExpr(p.Default))
		}
	}
	return params, defaults
}
