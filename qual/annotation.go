package qual

import (
	"hash/fnv"

	"github.com/benbjohnson/immutable"
)

// Annotation is a single type qualifier, e.g. @NonNull. Two annotations are
// the same qualifier iff their names are equal; which lattice a qualifier
// belongs to is the Hierarchy's business, not the annotation's.
//
// The zero value is not a valid qualifier.
type Annotation struct {
	Name string
}

func (a Annotation) String() string {
	return "@" + a.Name
}

func (a Annotation) IsZero() bool {
	return a.Name == ""
}

var _ immutable.Hasher[Annotation] = annotationHasher{}

type annotationHasher struct{}

func (annotationHasher) Hash(a Annotation) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(a.Name))
	return h.Sum32()
}

func (annotationHasher) Equal(a, b Annotation) bool {
	return a == b
}
