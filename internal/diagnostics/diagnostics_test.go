package diagnostics

import (
	"strings"
	"testing"

	"github.com/occ-lang/occ/internal/ident"
)

func TestFormatIncludesCaretAtColumn(t *testing.T) {
	source := "let x = y + 1\n"
	err := NewCompilerError(KindResolution, ident.Position{File: "t.occ", Line: 1, Col: 9}, "undeclared identifier \"y\"", source, "t.occ")
	out := err.Format(false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + source + caret lines, got %d: %q", len(lines), out)
	}
	caretCol := strings.IndexByte(lines[2], '^')
	if caretCol != 10 {
		t.Fatalf("caret at column %d, want 10 (two-space indent + 8, 0-indexed for source col 9)", caretCol)
	}
}

func TestFormatSyntheticPositionSkipsSourceLine(t *testing.T) {
	err := Internal(ident.Position{}, "emission stack underflow")
	out := err.Format(false)
	if strings.Contains(out, "^") {
		t.Fatalf("synthetic-position error should not render a caret line: %q", out)
	}
	if !strings.Contains(out, "emission stack underflow") {
		t.Fatalf("missing message in %q", out)
	}
}

func TestFormatErrorsSeparatesWithBlankLine(t *testing.T) {
	errs := []*CompilerError{
		NewCompilerError(KindType, ident.Position{File: "a.occ", Line: 1, Col: 1}, "first", "", "a.occ"),
		NewCompilerError(KindType, ident.Position{File: "a.occ", Line: 2, Col: 1}, "second", "", "a.occ"),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("missing one of the messages: %q", out)
	}
	if !strings.Contains(out, "first\n\n") {
		t.Fatalf("errors not separated by a blank line: %q", out)
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		KindSyntax:            "syntax",
		KindResolution:        "resolution",
		KindType:              "type",
		KindSemanticInvariant: "semantic",
		KindInternal:          "internal",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
