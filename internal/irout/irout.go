// Package irout assembles the three emission regions internal/visitor
// produces (constants, declarations, function bodies) into one textual
// IR document, per §6.1's layout, and checks the "every basic block ends
// in a terminator" invariant before returning it.
package irout

import (
	"fmt"
	"strings"
)

// Document is the final textual IR output for one compiled program.
type Document struct {
	TargetTriple string
	Constants    []string
	Declarations []string
	Bodies       []string
}

// String renders the document in the order §6.1 specifies: a target
// comment, the constant pool, extern declarations, then every function
// body, each section blank-line separated.
func (d *Document) String() string {
	var sb strings.Builder
	if d.TargetTriple != "" {
		sb.WriteString("; target triple = \"" + d.TargetTriple + "\"\n\n")
	}
	writeSection(&sb, d.Constants)
	writeSection(&sb, d.Declarations)
	writeSection(&sb, d.Bodies)
	return sb.String()
}

func writeSection(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n\n")
	}
}

// terminators is the closed set of instructions §6.1 accepts as a basic
// block's final instruction.
var terminators = []string{"ret ", "br ", "indirectbr ", "unreachable"}

// CheckTerminators walks each function body and returns an error
// listing every basic block whose last non-empty line is not one of the
// terminator forms — the invariant §8 calls "every reachable basic block
// ends in exactly one terminator."
func CheckTerminators(bodies []string) error {
	var problems []string
	for _, body := range bodies {
		header := firstLine(body)
		blocks := splitBlocks(body)
		for label, lines := range blocks {
			if len(lines) == 0 {
				continue
			}
			last := strings.TrimSpace(lines[len(lines)-1])
			if !hasTerminator(last) {
				problems = append(problems, fmt.Sprintf("%s: block %q does not end in a terminator (last: %q)", header, label, last))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("irout: %s", strings.Join(problems, "; "))
	}
	return nil
}

func hasTerminator(line string) bool {
	for _, t := range terminators {
		if strings.HasPrefix(line, t) {
			return true
		}
	}
	return false
}

func firstLine(body string) string {
	if i := strings.IndexByte(body, '\n'); i >= 0 {
		return body[:i]
	}
	return body
}

// splitBlocks partitions a function body's lines into its labeled basic
// blocks; "entry" collects any lines preceding the first explicit label.
func splitBlocks(body string) map[string][]string {
	blocks := map[string][]string{}
	current := "entry"
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "{" || trimmed == "}" {
			continue
		}
		if strings.HasPrefix(trimmed, "define ") || strings.HasPrefix(trimmed, "declare ") {
			continue
		}
		if label, ok := blockLabel(trimmed); ok {
			current = label
			if _, exists := blocks[current]; !exists {
				blocks[current] = nil
			}
			continue
		}
		blocks[current] = append(blocks[current], trimmed)
	}
	return blocks
}

func blockLabel(line string) (string, bool) {
	if strings.HasSuffix(line, ":") && !strings.ContainsAny(line, " \t") {
		return strings.TrimSuffix(line, ":"), true
	}
	return "", false
}
