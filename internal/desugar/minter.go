package desugar

import (
	"strconv"

	"github.com/occ-lang/occ/internal/ident"
)

// Minter mints fresh, collision-free synthetic identifiers for temporary
// iterators, wrapper fields, generator state, and tuple-unpack
// temporaries. One Minter belongs to one AST builder instance — per
// spec.md §9's "tests must be able to construct multiple builders
// without cross-talk," Minter carries no package-level state.
type Minter struct {
	next int
}

// NewMinter returns a fresh, zeroed minter.
func NewMinter() *Minter {
	return &Minter{}
}

// Temp mints a fresh identifier with the given human-readable prefix
// (e.g. "iter", "wrapper", "tuple") suffixed with a monotonic counter
// unique to this minter.
func (m *Minter) Temp(prefix string) *ident.Identifier {
	m.next++
	return ident.New(prefix + "$" + strconv.Itoa(m.next))
}
