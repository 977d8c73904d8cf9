// Package resolve is the minimal post-build pass that runs between
// internal/builder and internal/visitor: it rebinds the unresolved
// call-target stubs internal/builder leaves behind when a receiver's
// class is not known from local syntax alone, and assigns a fallback
// monomorphization to any generic class the program never explicitly
// instantiates, so internal/visitor's "emit only the Variations" rule
// (§4.2) always has at least one concrete target to emit.
package resolve

import (
	"fmt"

	"github.com/occ-lang/occ/internal/ast"
	"github.com/occ-lang/occ/internal/diagnostics"
	"github.com/occ-lang/occ/internal/ident"
)

// Resolver carries the whole-program registries every rebind needs;
// built fresh per Resolve call so tests can run it repeatedly without
// cross-talk, the same requirement §9 places on internal/builder.
type Resolver struct {
	classesByName map[string]*ast.ClassDeclaration
	class         []*ast.ClassDeclaration // current-class stack, mirrors internal/builder's
	errs          []*diagnostics.CompilerError
}

// Resolve runs the pass over prog in place and returns any errors
// encountered (an unresolved call with no matching declaration at all is
// reported, not silently left dangling).
func Resolve(prog *ast.Program) []*diagnostics.CompilerError {
	r := &Resolver{classesByName: map[string]*ast.ClassDeclaration{}}
	for _, c := range []*ast.ClassDeclaration{
		ast.CoreClasses.Int, ast.CoreClasses.Float, ast.CoreClasses.Bool,
		ast.CoreClasses.Char, ast.CoreClasses.String, ast.CoreClasses.Array,
		ast.CoreClasses.Object, ast.CoreClasses.Void,
		ast.WellKnownClasses.Maybe, ast.WellKnownClasses.Just, ast.WellKnownClasses.Iterator,
	} {
		r.classesByName[c.Ident.Name] = c
	}
	for _, c := range prog.AllClasses() {
		r.classesByName[c.Ident.Name] = c
	}

	for _, c := range prog.AllClasses() {
		r.resolveClass(c)
	}
	for _, fn := range prog.AllUnboundFunctions() {
		r.resolveFunc(fn)
	}
	for _, m := range prog.Modules {
		r.resolveBlock(m.Body)
	}

	return r.errs
}

func (r *Resolver) fail(pos ident.Position, format string, args ...any) {
	r.errs = append(r.errs, diagnostics.NewCompilerError(diagnostics.KindResolution, pos, fmt.Sprintf(format, args...), "", ""))
}

func (r *Resolver) resolveClass(c *ast.ClassDeclaration) {
	r.class = append(r.class, c)
	defer func() { r.class = r.class[:len(r.class)-1] }()

	for _, m := range c.Methods {
		r.resolveFunc(m)
	}
	for _, m := range c.Initializers {
		r.resolveFunc(m)
	}

	// §4.2's generic monomorphization: a template with no discovered
	// instantiation site still needs one concrete Variation, substituting
	// every formal parameter with Object, so it emits something.
	if c.IsGeneric() && len(c.Variations) == 0 {
		subst := map[*ast.AbstractGenericType]ast.Type{}
		for _, g := range c.FormalGenerics {
			subst[g] = &ast.ClassType{Decl: ast.CoreClasses.Object}
		}
		c.Variations = append(c.Variations, &ast.ClassDeclarationVariation{
			Template: c,
			Ident:    ident.Generic(c.Ident.Name, ast.CoreClasses.Object.Ident),
			Subst:    subst,
		})
	}
}

func (r *Resolver) resolveFunc(fn *ast.FunctionDeclaration) {
	if fn.Body == nil {
		return
	}
	r.resolveBlock(fn.Body)
}

func (r *Resolver) resolveBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, s := range b.Statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.AssignmentStatement:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)
	case *ast.UnpackAssignmentStatement:
		for _, t := range n.Targets {
			r.resolveExpr(t)
		}
		r.resolveExpr(n.Right)
	case *ast.ConditionalStatement:
		r.resolveExpr(n.Condition)
		r.resolveBlock(n.Then)
		r.resolveBlock(n.Else)
	case *ast.WhileLoop:
		for _, s := range n.Prelude {
			r.resolveStmt(s)
		}
		r.resolveExpr(n.Condition)
		r.resolveBlock(n.Body)
	case *ast.ReturnStatement:
		r.resolveExpr(n.ReturnValue)
	case *ast.YieldStatement:
		r.resolveExpr(n.ReturnValue)
	case *ast.RaiseStatement:
		r.resolveExpr(n.Value)
	case *ast.TryStatement:
		r.resolveBlock(n.Body)
		for _, h := range n.Handlers {
			r.resolveBlock(h.Body)
		}
		r.resolveBlock(n.Finally)
	case *ast.WrappedFunctionCall:
		r.resolveExpr(n.Call)
	}
}

func (r *Resolver) resolveExpr(e ast.Expression) {
	switch n := e.(type) {
	case nil:
		return
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			r.resolveExpr(el)
		}
	case *ast.MemberAccessExpression:
		r.resolveExpr(n.Object)
	case *ast.ParentCastExpression:
		if n.TargetDecl == nil {
			n.TargetDecl = r.classesByName[n.Target.Name]
		}
	case *ast.CastExpression:
		r.resolveExpr(n.Value)
		if n.TargetDecl == nil {
			n.TargetDecl = r.classesByName[n.Target.Name]
		}
	case *ast.IsExpression:
		r.resolveExpr(n.Value)
		if n.TargetDecl == nil {
			n.TargetDecl = r.classesByName[n.Target.Name]
		}
	case *ast.ConditionalExpression:
		r.resolveExpr(n.Condition)
		r.resolveExpr(n.Then)
		r.resolveExpr(n.Else)
	case *ast.UnpackAssignmentExpression:
		for _, el := range n.Elements {
			r.resolveExpr(el)
		}
	case *ast.FunctionCallExpression:
		r.resolveExpr(n.Receiver)
		for _, a := range n.Arguments {
			r.resolveExpr(a)
		}
		r.rebindCallee(n)
	}
}

// rebindCallee replaces call.Callee with a concrete declaration when the
// builder left an Unresolved stub behind, searching the receiver's class
// (best-effort: the class currently being walked, when the receiver is
// self; otherwise the call is left as-is and reported, since this stage
// still has no general type inference).
func (r *Resolver) rebindCallee(call *ast.FunctionCallExpression) {
	if call.Callee == nil || !call.Callee.Unresolved {
		return
	}
	name := call.Callee.Ident.Name
	argc := len(call.Arguments)

	if _, ok := call.Receiver.(*ast.SelfExpression); ok && len(r.class) > 0 {
		if m := findMethod(r.class[len(r.class)-1], name, argc); m != nil {
			call.Callee = m
			return
		}
	}
	if call.Receiver == nil && len(r.class) > 0 {
		if m := findMethod(r.class[len(r.class)-1], name, argc); m != nil {
			call.Callee = m
			return
		}
	}

	r.fail(call.Pos(), "unresolved call target %q (%d argument(s))", name, argc)
}

func findMethod(class *ast.ClassDeclaration, name string, argc int) *ast.FunctionDeclaration {
	var candidates []*ast.FunctionDeclaration
	for c := class; c != nil; {
		for _, m := range c.Methods {
			if m.Ident.Name == name {
				candidates = append(candidates, m)
			}
		}
		for _, m := range c.Initializers {
			if m.Ident.Name == name {
				candidates = append(candidates, m)
			}
		}
		if len(c.SuperDecls) == 0 {
			break
		}
		c = c.SuperDecls[0]
	}
	for _, m := range candidates {
		if len(m.Parameters) == argc {
			return m
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}
