// Package overload implements the distance-based overload resolution
// §4.1 specifies: given a call's argument types, select the candidate
// minimizing the sum of per-parameter superclass-hop distances, erroring
// on ties rather than silently picking one.
package overload

import (
	"fmt"
	"strings"

	"github.com/occ-lang/occ/internal/ast"
)

// Distance computes the minimum hop count along to's superclass graph to
// reach from, or -1 if from is not a (possibly-indirect) superclass of
// to. Distance(T, T) is always 0 (identifiers match exactly, per §4.1).
func Distance(from, to *ast.ClassDeclaration) int {
	if from == to {
		return 0
	}
	// breadth-first over the superclass graph so the result is the
	// minimum hop count, not merely *a* hop count, in case a class
	// reaches an ancestor via more than one path (multiple interfaces).
	type frame struct {
		decl *ast.ClassDeclaration
		dist int
	}
	seen := map[*ast.ClassDeclaration]bool{to: true}
	queue := []frame{{to, 0}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if f.decl == from {
			return f.dist
		}
		for _, super := range f.decl.SuperDecls {
			if seen[super] {
				continue
			}
			seen[super] = true
			queue = append(queue, frame{super, f.dist + 1})
		}
	}
	return -1
}

// SignatureDistance sums per-argument distances between argTypes and
// signature's declared parameter types; returns -1 if any argument is
// incompatible or the arity does not match.
func SignatureDistance(argTypes []*ast.ClassDeclaration, params []*ast.VariableDeclaration) int {
	if len(argTypes) != len(params) {
		return -1
	}
	total := 0
	for i, argType := range argTypes {
		paramClass, ok := params[i].ResolvedType.(*ast.ClassType)
		if !ok {
			return -1
		}
		d := Distance(paramClass.Decl, argType)
		if d < 0 {
			return -1
		}
		total += d
	}
	return total
}

// Resolve selects the best-fit overload from candidates given the actual
// argument types, mirroring the teacher's ResolveOverload shape exactly
// (single-candidate fast path, min-distance scan, ambiguity error on
// tie) but with Distance performing real superclass-hop counting instead
// of the teacher's own unresolved exact/Variant-only special cases.
func Resolve(candidates []*ast.FunctionDeclaration, argTypes []*ast.ClassDeclaration) (*ast.FunctionDeclaration, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no overload candidates provided")
	}
	if len(candidates) == 1 {
		if SignatureDistance(argTypes, candidates[0].Parameters) < 0 {
			return nil, fmt.Errorf("no matching overload for argument types %s", formatArgTypes(argTypes))
		}
		return candidates[0], nil
	}

	type scored struct {
		fn   *ast.FunctionDeclaration
		dist int
	}
	var compatible []scored
	for _, c := range candidates {
		d := SignatureDistance(argTypes, c.Parameters)
		if d >= 0 {
			compatible = append(compatible, scored{c, d})
		}
	}
	if len(compatible) == 0 {
		return nil, fmt.Errorf("no matching overload for argument types %s", formatArgTypes(argTypes))
	}

	minDist := compatible[0].dist
	for _, c := range compatible[1:] {
		if c.dist < minDist {
			minDist = c.dist
		}
	}

	var best []*ast.FunctionDeclaration
	for _, c := range compatible {
		if c.dist == minDist {
			best = append(best, c.fn)
		}
	}
	if len(best) == 1 {
		return best[0], nil
	}
	return nil, fmt.Errorf("ambiguous overload call: %d candidates tie at distance %d for argument types %s",
		len(best), minDist, formatArgTypes(argTypes))
}

func formatArgTypes(argTypes []*ast.ClassDeclaration) string {
	names := make([]string, len(argTypes))
	for i, t := range argTypes {
		names[i] = t.Ident.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
