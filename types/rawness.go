package types

import (
	"github.com/quala-dev/quala/qual"
)

// RawnessPolicy governs how two declared types are matched when at least one
// of them is a raw use of a generic declaration, in which case type
// arguments cannot be compared under the usual containment relation.
//
// Valid receives the supertype before the subtype, mirroring how the engine
// compares each declared supertype argument against the corresponding
// subtype argument.
type RawnessPolicy interface {
	Valid(h *TypeHierarchy, sup, sub *Declared, top qual.Annotation, visited *VisitHistory) (bool, error)
}

// defaultRawness matches what can still be matched across a raw boundary:
// argument pairs that exist on both sides are checked leniently, missing
// arguments are accepted.
type defaultRawness struct{}

var _ RawnessPolicy = defaultRawness{}

func (defaultRawness) Valid(h *TypeHierarchy, sup, sub *Declared, top qual.Annotation, visited *VisitHistory) (bool, error) {
	v := &subtypeVisitor{h: h, top: top, visited: visited}

	pairs := len(sup.Args)
	if len(sub.Args) < pairs {
		pairs = len(sub.Args)
	}
	for i := 0; i < pairs; i++ {
		supArg, subArg := sup.Args[i], sub.Args[i]
		if wildcard, ok := supArg.(*Wildcard); ok {
			ok, err := v.checkAndSubtype(subArg, wildcard.Extends)
			if err != nil || !ok {
				return false, err
			}
			continue
		}
		if !v.isPrimarySubtype(subArg, supArg, true) {
			return false, nil
		}
	}
	return true, nil
}
