package irvalue

import (
	"fmt"
	"strings"
)

// Context is the per-function emission context: three partitioned output
// buffers (constants, declarations, active body) plus the evaluation
// stack and a scope-depth counter used to detect imbalanced
// opens/closes, per §4.2's "Scopes" and §9's "Shared resources."
//
// One Context exists per function-body emission (including the implicit
// top-level "main"); it does not outlive that single emission.
type Context struct {
	Constants    strings.Builder
	Declarations strings.Builder
	Body         strings.Builder

	Stack *Stack

	scopeDepth int
	labelSeq   int

	// Locals maps a mangled local name to its IR register/slot
	// reference, reset on scope entry/exit per §4.2.
	Locals []map[string]Operand
}

// NewContext returns a fresh, empty emission context.
func NewContext() *Context {
	return &Context{Stack: NewStack()}
}

// OpenScope pushes a fresh identifier scope, matching the function-body
// or implicit-top-level entry point described in §4.2.
func (c *Context) OpenScope() {
	c.scopeDepth++
	c.Locals = append(c.Locals, map[string]Operand{})
}

// CloseScope pops the innermost identifier scope. It panics if called
// without a matching OpenScope, since an imbalance is, per §9, "a
// programmer error and detectable in tests."
func (c *Context) CloseScope() {
	if c.scopeDepth == 0 {
		panic(fmt.Errorf("irvalue: CloseScope without matching OpenScope"))
	}
	c.scopeDepth--
	c.Locals = c.Locals[:len(c.Locals)-1]
}

// ScopeDepth reports the current nesting depth; callers assert this is 0
// at function-emission exit to verify "opens-of-scope equal
// closes-of-scope" (§8).
func (c *Context) ScopeDepth() int { return c.scopeDepth }

// DeclareLocal binds name to op in the innermost open scope.
func (c *Context) DeclareLocal(name string, op Operand) {
	c.Locals[len(c.Locals)-1][name] = op
}

// ResolveLocal looks up name from the innermost scope outward, matching
// ordinary lexical shadowing.
func (c *Context) ResolveLocal(name string) (Operand, bool) {
	for i := len(c.Locals) - 1; i >= 0; i-- {
		if op, ok := c.Locals[i][name]; ok {
			return op, true
		}
	}
	return Operand{}, false
}

// FreshLabel returns prefix followed by a function-unique sequence
// number (e.g. "if.3"); callers append the construct's own label part to
// it (e.g. "if.3.then").
func (c *Context) FreshLabel(prefix string) string {
	c.labelSeq++
	return fmt.Sprintf("%s.%d", prefix, c.labelSeq)
}
