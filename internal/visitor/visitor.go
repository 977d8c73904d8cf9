// Package visitor implements the code-generation visitor: it drives the
// AST walk in evaluation order, orchestrates generator-state emission,
// and manages scopes and labels. Per the REDESIGN FLAG, dispatch over
// the node catalogue is a single exhaustive Go type switch — a closed
// sum type — rather than open-class double dispatch, directly
// generalizing the pattern the teacher's own bytecode compiler already
// uses for its (smaller) node catalogue.
package visitor

import (
	"fmt"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/codegen"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
	"github.com/occ-lang/occ/internal/irtype"
	"github.com/occ-lang/occ/internal/irvalue"
)

// Visitor holds the state shared across one whole-program emission: the
// growing constants/declarations/function-body regions (assembled by
// internal/irout at the end) and the current function's emission
// context, swapped out on every OpenScope-equivalent function entry.
type Visitor struct {
	ctx     *irvalue.Context
	emitter *codegen.Emitter

	constants    []string
	declarations []string
	bodies       []string

	errs []*diagnostics.CompilerError
}

// New returns a Visitor ready to emit a whole program.
func New() *Visitor {
	return &Visitor{}
}

// Errors returns every error recorded during emission.
func (v *Visitor) Errors() []*diagnostics.CompilerError { return v.errs }

func (v *Visitor) fail(pos ident.Position, kind diagnostics.Kind, format string, args ...any) {
	v.errs = append(v.errs, diagnostics.NewCompilerError(kind, pos, fmt.Sprintf(format, args...), "", ""))
}

func (v *Visitor) internal(pos ident.Position, format string, args ...any) {
	v.errs = append(v.errs, diagnostics.Internal(pos, format, args...))
}

// EmitProgram walks prog and returns the three concatenated IR regions
// (constants, declarations, function bodies) per §6's output contract.
// The implicit top-level is emitted last, as "main", returning integer
// zero.
func (v *Visitor) EmitProgram(prog *ast.Program) (constants, declarations, bodies []string) {
	for _, class := range prog.AllClasses() {
		v.emitClass(class)
	}
	for _, fn := range prog.AllUnboundFunctions() {
		v.emitFunctionDecl(fn)
	}
	v.emitMain(prog)
	return v.constants, v.declarations, v.bodies
}

// emitClass implements §4.2's "Generic monomorphization": a generic
// class emits no code directly, only its variations; a non-generic class
// emits its constructor(s) and method bodies once.
func (v *Visitor) emitClass(class *ast.ClassDeclaration) {
	codegen.ComputeLayout(class)

	if class.IsGeneric() {
		for _, variation := range class.Variations {
			v.emitter = codegen.NewEmitter(irvalue.NewContext())
			v.emitter.CurrentVariation = variation
			v.emitClassBody(class, variation)
		}
		return
	}
	v.emitter = codegen.NewEmitter(irvalue.NewContext())
	v.emitClassBody(class, nil)
}

func (v *Visitor) emitClassBody(class *ast.ClassDeclaration, variation *ast.ClassDeclarationVariation) {
	for _, init := range class.Initializers {
		v.emitFunctionDecl(init)
	}
	for _, m := range class.Methods {
		v.emitFunctionDecl(m)
	}
}

// emitFunctionDecl implements §4.2's "Function declaration emission"
// cases.
func (v *Visitor) emitFunctionDecl(fn *ast.FunctionDeclaration) {
	symbol := irtype.MangleFunction(fn)

	switch {
	case fn.NativeDerived:
		v.declarations = append(v.declarations, fmt.Sprintf("declare %s %s(...)", returnTypeOf(fn), symbol))
		return
	case fn.Abstract:
		v.bodies = append(v.bodies, fmt.Sprintf("define %s %s() {\nentry:\n  ret %s zeroinitializer\n}",
			returnTypeOf(fn), symbol, returnTypeOf(fn)))
		return
	}

	ctx := irvalue.NewContext()
	v.ctx = ctx
	v.emitter = codegen.NewEmitter(ctx)
	ctx.OpenScope()

	if fn.Kind != ast.UNBOUND {
		ctx.DeclareLocal("self", irvalue.Operand{Value: "%self", Type: "i8*"})
	}
	for _, p := range fn.Parameters {
		ctx.DeclareLocal(p.Ident.Name, irvalue.Operand{Value: "%" + p.Ident.Name, Type: irtype.UnboxedType(p.ResolvedTypeOrVoid())})
	}

	if gen, ok := asGenerator(fn); ok {
		v.emitGeneratorGetNext(gen)
	} else {
		v.visitBlock(fn.Body)
	}

	if fn.Kind == ast.INITIALIZER {
		if isGeneratorClass(fn.Owner) {
			ctx.Body.WriteString("  store i8* blockaddress(@startGenerator), i8** %self.$state\n")
		}
		ctx.Body.WriteString("  ret void\n")
	}

	ctx.CloseScope()
	if ctx.ScopeDepth() != 0 {
		v.internal(fn.Pos(), "imbalanced emission scopes in %s", symbol)
	}

	v.bodies = append(v.bodies, fmt.Sprintf("define %s %s(%s) {\nentry:\n%s}", returnTypeOf(fn), symbol, paramList(fn), ctx.Body.String()))
}

func returnTypeOf(fn *ast.FunctionDeclaration) string {
	if fn.Kind == ast.INITIALIZER {
		if fn.Owner != nil {
			return "%" + fn.Owner.Ident.Mangled() + "*"
		}
		return "i8*"
	}
	if fn.DeclaredReturnType == nil {
		return "void"
	}
	return fn.DeclaredReturnType.String()
}

func paramList(fn *ast.FunctionDeclaration) string {
	s := ""
	if fn.Kind != ast.UNBOUND {
		s += "i8* %self"
	}
	for _, p := range fn.Parameters {
		if s != "" {
			s += ", "
		}
		s += "i8* %" + p.Ident.Name
	}
	return s
}

func asGenerator(fn *ast.FunctionDeclaration) (*ast.GeneratorFunctionDeclaration, bool) {
	return fn.GeneratorInfo, fn.GeneratorInfo != nil
}

func isGeneratorClass(c *ast.ClassDeclaration) bool { return c != nil && c.Generator }

// emitMain gathers every module's top-level statements into the implicit
// top-level function, per §4.1's "module top-level statements" row,
// returning integer zero per §6.
func (v *Visitor) emitMain(prog *ast.Program) {
	ctx := irvalue.NewContext()
	v.ctx = ctx
	v.emitter = codegen.NewEmitter(ctx)
	ctx.OpenScope()
	for _, m := range prog.Modules {
		if m.Native {
			continue
		}
		for _, stmt := range m.Body.Statements {
			v.visitStatement(stmt)
		}
	}
	ctx.Body.WriteString("  ret i64 0\n")
	ctx.CloseScope()
	v.bodies = append(v.bodies, fmt.Sprintf("define i64 @main() {\nentry:\n%s}", ctx.Body.String()))
}
