// Package diagnostics implements the error taxonomy and position-anchored
// reporting used across the builder, resolver and code generator.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/occ-lang/occ/internal/ident"
)

// Kind identifies one of the five error categories the core recognizes.
// Kinds 1-4 are reported and abort compilation; Kind 5 is an assertion
// that must never fire on well-resolved input.
type Kind int

const (
	// KindSyntax marks an error produced upstream by the parser;
	// internal/builder also reports an operator spelling it has no
	// method mapping for with this kind.
	KindSyntax Kind = iota
	// KindResolution covers unknown identifiers, ambiguous overloads and
	// undeclared types.
	KindResolution
	// KindType covers mismatches at assignment, return, and argument
	// position.
	KindType
	// KindSemanticInvariant covers break/skip outside a loop, yield
	// outside a generator, return-with-value inside a procedure.
	KindSemanticInvariant
	// KindInternal marks an assertion failure: stack underflow during
	// emission, a missing attribute index, imbalanced emission scopes.
	// It must never fire on well-resolved input and exists as a test
	// target, not a user-facing error.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindResolution:
		return "resolution"
	case KindType:
		return "type"
	case KindSemanticInvariant:
		return "semantic"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// CompilerError is a single position-anchored diagnostic.
type CompilerError struct {
	Kind    Kind
	Message string
	Source  string // full source text of File, for caret rendering
	File    string
	Pos     ident.Position
}

// NewCompilerError constructs a CompilerError. Source may be empty, in
// which case Format renders only the header line.
func NewCompilerError(kind Kind, pos ident.Position, message, source, file string) *CompilerError {
	return &CompilerError{Kind: kind, Message: message, Source: source, File: file, Pos: pos}
}

func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error as a header line, the offending source line,
// and a caret underneath the offending column. When color is true, ANSI
// escapes highlight the header and caret.
func (e *CompilerError) Format(color bool) string {
	var b strings.Builder

	header := fmt.Sprintf("error[%s]", e.Kind)
	if color {
		b.WriteString("\x1b[1;31m")
		b.WriteString(header)
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(header)
	}

	if e.Pos.IsSynthetic() {
		fmt.Fprintf(&b, ": %s\n", e.Message)
		return b.String()
	}

	if e.File != "" {
		fmt.Fprintf(&b, " in %s:%d:%d: %s\n", e.File, e.Pos.Line, e.Pos.Col, e.Message)
	} else {
		fmt.Fprintf(&b, " at %d:%d: %s\n", e.Pos.Line, e.Pos.Col, e.Message)
	}

	if line := getSourceLine(e.Source, e.Pos.Line); line != "" {
		fmt.Fprintf(&b, "  %s\n", line)
		pad := strings.Repeat(" ", max(0, e.Pos.Col-1))
		caret := "^"
		if color {
			caret = "\x1b[1;31m^\x1b[0m"
		}
		fmt.Fprintf(&b, "  %s%s\n", pad, caret)
	}

	return b.String()
}

func getSourceLine(source string, lineNum int) string {
	if lineNum <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatErrors renders a list of errors separated by blank lines, matching
// the aggregate report the CLI prints on abort.
func FormatErrors(errs []*CompilerError, color bool) string {
	var b strings.Builder
	for i, e := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Format(color))
	}
	return b.String()
}

// FromStringErrors wraps plain messages (no position available) from a
// collaborator that has not yet been upgraded to structured errors.
func FromStringErrors(kind Kind, messages []string, source, file string) []*CompilerError {
	out := make([]*CompilerError, 0, len(messages))
	for _, m := range messages {
		out = append(out, NewCompilerError(kind, ident.Position{}, m, source, file))
	}
	return out
}

// Internal constructs a KindInternal assertion error. Callers in the code
// generator invoke this when they observe a condition that resolved input
// should make impossible (stack underflow, imbalanced scopes, a missing
// attribute index).
func Internal(pos ident.Position, format string, args ...any) *CompilerError {
	return NewCompilerError(KindInternal, pos, fmt.Sprintf(format, args...), "", "")
}
