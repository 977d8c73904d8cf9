package irout

import (
	"strings"
	"testing"
)

func TestCheckTerminatorsAcceptsTerminatedBlocks(t *testing.T) {
	body := `define i64 @main() {
entry:
  %x = add i64 1, 2
  br label %done
done:
  ret i64 %x
}`
	if err := CheckTerminators([]string{body}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCheckTerminatorsRejectsFallthroughBlock(t *testing.T) {
	body := `define void @f() {
entry:
  %x = add i64 1, 2
}`
	err := CheckTerminators([]string{body})
	if err == nil {
		t.Fatal("expected an error for a block with no terminator")
	}
	if !strings.Contains(err.Error(), "entry") {
		t.Fatalf("error %q does not name the offending block", err)
	}
}

func TestCheckTerminatorsAcceptsIndirectBrAndUnreachable(t *testing.T) {
	body := `define void @g() {
entry:
  indirectbr i8* %target, [label %a, label %b]
a:
  unreachable
b:
  ret void
}`
	if err := CheckTerminators([]string{body}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDocumentStringOrdersSections(t *testing.T) {
	d := &Document{
		TargetTriple: "x86_64-unknown-linux-gnu",
		Constants:    []string{"@.str = constant [1 x i8] c\"\\00\""},
		Declarations: []string{"declare void @puts(i8*)"},
		Bodies:       []string{"define void @main() {\nentry:\n  ret void\n}"},
	}
	out := d.String()
	triplePos := strings.Index(out, "target triple")
	constPos := strings.Index(out, "@.str")
	declPos := strings.Index(out, "declare")
	bodyPos := strings.Index(out, "define void @main")
	if !(triplePos < constPos && constPos < declPos && declPos < bodyPos) {
		t.Fatalf("sections out of order in:\n%s", out)
	}
}
