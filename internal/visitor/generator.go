package visitor

import (
	"github.com/occ-lang/occ/internal/ast"
)

// emitGeneratorGetNext emits the body of a generator-iterator's getNext()
// method: an indirect branch over self.$state (set to startGenerator on
// construction — see visitor.go's initializer emission — and to a resume
// label by each yield point, see statement.go's visitYield) followed by
// the generator's own locals-hoisted-to-self-members body, whose
// embedded YieldStatements each terminate one reachable block and open
// the next at their ResumeLabel. Once the body runs off its end, state
// is pinned to the exhausted sink so every later call returns false
// without re-running it.
func (v *Visitor) emitGeneratorGetNext(gen *ast.GeneratorFunctionDeclaration) {
	self, _ := v.ctx.ResolveLocal("self")

	// targets must list every label this function's single indirectbr
	// might ever dispatch to, since a blockaddress is only valid as the
	// operand of an indirectbr that names its block: startGenerator (the
	// construction-time initial state, stored by visitor.go's
	// initializer emission), every yield's resume label, and exhausted
	// (the post-completion sink every subsequent call after the body
	// finishes lands on).
	targets := make([]string, 0, len(gen.Yields)+2)
	targets = append(targets, "startGenerator")
	for _, y := range gen.Yields {
		targets = append(targets, y.ResumeLabel)
	}
	targets = append(targets, "exhausted")

	stateReg := v.emitter.Reg()
	v.ctx.Body.WriteString("  " + stateReg + " = load i8*, i8** %self.$state\n")
	v.ctx.Body.WriteString("  indirectbr i8* " + stateReg + ", [")
	for i, t := range targets {
		if i > 0 {
			v.ctx.Body.WriteString(", ")
		}
		v.ctx.Body.WriteString("label %" + t)
	}
	v.ctx.Body.WriteString("] ; self=" + self.Value + "\n")

	v.ctx.Body.WriteString("startGenerator:\n")
	v.visitBlock(gen.Body)

	// A generator whose body runs to completion without a final yield
	// has exhausted itself: store the sink label so a subsequent
	// getNext() resumes straight into it instead of falling through the
	// body again, and return false (Maybe's absent case) for this call.
	v.ctx.Body.WriteString("  store i8* blockaddress(@exhausted), i8** %self.$state\n")
	v.ctx.Body.WriteString("  br label %exhausted\n")

	// exhausted is the dispatch sink itself: every call once the body has
	// run to completion lands here directly via the indirectbr above, and
	// re-stores its own address so the state never points anywhere else.
	v.ctx.Body.WriteString("exhausted:\n")
	v.ctx.Body.WriteString("  store i8* blockaddress(@exhausted), i8** %self.$state\n")
	v.ctx.Body.WriteString("  ret i1 0\n")
}
