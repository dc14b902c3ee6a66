package util

// Pair is an ordered two-tuple. Its main use is as the visit-history key in
// the subtype engine: an ordered (subtype, supertype) pair of type nodes,
// compared by identity when both element types are comparable.
type Pair[A, B any] struct {
	Fst A
	Snd B
}

func NewPair[A, B any](fst A, snd B) Pair[A, B] {
	return Pair[A, B]{
		Fst: fst,
		Snd: snd,
	}
}
