package types

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/quala-dev/quala/util"
)

// visitPair is an ordered (subtype, supertype) pair keyed by node identity.
type visitPair = util.Pair[TypeMirror, TypeMirror]

// VisitHistory records the (subtype, supertype) pairs already under
// comparison in one top-level subtype query. Re-encountering a pair means the
// comparison is structurally recursive (e.g. T extends Comparable<T>); the
// engine then stops descending instead of recursing forever.
//
// A history belongs to a single top-level call and is discarded on return;
// it is never shared between queries.
type VisitHistory struct {
	seen *set.Set[visitPair]
}

func NewVisitHistory() *VisitHistory {
	return &VisitHistory{seen: set.New[visitPair](8)}
}

func (h *VisitHistory) Contains(sub, sup TypeMirror) bool {
	return h.seen.Contains(util.NewPair(sub, sup))
}

func (h *VisitHistory) Add(sub, sup TypeMirror) {
	h.seen.Insert(util.NewPair(sub, sup))
}

func (h *VisitHistory) Len() int {
	return h.seen.Size()
}

func (h *VisitHistory) String() string {
	if h == nil || h.seen.Empty() {
		return "[]"
	}
	s := "["
	first := true
	for pair := range h.seen.Items() {
		if !first {
			s += ", "
		}
		s += "(" + pair.Fst.String() + " <: " + pair.Snd.String() + ")"
		first = false
	}
	return s + "]"
}
