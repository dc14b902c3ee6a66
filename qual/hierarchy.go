// Package qual models qualifier hierarchies: independent annotation lattices,
// each with a unique top and optionally a bottom, layered over a host
// language's declared types.
package qual

import (
	"github.com/quala-dev/quala/internal/log"
)

var logger = log.DefaultLogger.With("section", "qual")

// Hierarchy is the qualifier-lattice oracle consumed by the subtype engine.
// It may hold several independent lattices; annotations from different
// lattices are never related.
//
// Implementations must be pure and safe for concurrent use.
type Hierarchy interface {
	// Tops returns the top annotation of every lattice, in a stable order.
	Tops() []Annotation

	// Bottom returns the bottom of the lattice rooted at top, if the lattice
	// has one.
	Bottom(top Annotation) (Annotation, bool)

	// IsSubtype reports whether sub is at or below sup in their shared
	// lattice. Annotations from different lattices are unrelated.
	IsSubtype(sub, sup Annotation) bool
}
