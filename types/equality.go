package types

import (
	"github.com/quala-dev/quala/util"
)

// EqualityComparer decides structural equality of two annotated types: same
// shape, same primary annotation per lattice (or both absent), and equal
// substructure. It is what makes non-wildcard type arguments invariant.
//
// Two distinct uses of the same type parameter are only equal when their
// annotations and bounds agree; identity of use matters wherever annotations
// can differ.
type EqualityComparer struct{}

func (c EqualityComparer) AreEqual(a, b TypeMirror) bool {
	return c.areEqual(a, b, util.NewEmptySet[visitPair]())
}

// areEqual carries the set of pairs already being compared so that cyclic
// bounds terminate; a revisited pair is assumed equal.
func (c EqualityComparer) areEqual(a, b TypeMirror, comparing util.MSet[visitPair]) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Kind() != b.Kind() {
		return false
	}
	pair := util.NewPair(a, b)
	if comparing.Contains(pair) {
		return true
	}
	comparing.Add(pair)

	switch a := a.(type) {
	case *Array:
		b := b.(*Array)
		return annotationsEqual(&a.annotations, &b.annotations) &&
			c.areEqual(a.Component, b.Component, comparing)

	case *Declared:
		b := b.(*Declared)
		return a.Decl == b.Decl &&
			a.WasRaw() == b.WasRaw() &&
			annotationsEqual(&a.annotations, &b.annotations) &&
			c.allEqual(a.Args, b.Args, comparing)

	case *Intersection:
		b := b.(*Intersection)
		return annotationsEqual(&a.annotations, &b.annotations) &&
			c.allEqual(a.Bounds, b.Bounds, comparing)

	case *Union:
		b := b.(*Union)
		return annotationsEqual(&a.annotations, &b.annotations) &&
			c.allEqual(a.Alternatives, b.Alternatives, comparing)

	case *Null:
		b := b.(*Null)
		return annotationsEqual(&a.annotations, &b.annotations)

	case *Primitive:
		b := b.(*Primitive)
		return a.Name == b.Name && annotationsEqual(&a.annotations, &b.annotations)

	case *TypeVar:
		// structural, not declaration identity: uses of distinct parameters
		// are equal when their annotations and bounds are
		b := b.(*TypeVar)
		return annotationsEqual(&a.annotations, &b.annotations) &&
			c.areEqual(a.Upper, b.Upper, comparing) &&
			c.areEqual(a.Lower, b.Lower, comparing)

	case *Wildcard:
		b := b.(*Wildcard)
		return a.TypeArgHack == b.TypeArgHack &&
			annotationsEqual(&a.annotations, &b.annotations) &&
			c.areEqual(a.Extends, b.Extends, comparing) &&
			c.wildcardSuperEqual(a.Super, b.Super, comparing)
	}
	return false
}

func (c EqualityComparer) allEqual(as, bs []TypeMirror, comparing util.MSet[visitPair]) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !c.areEqual(as[i], bs[i], comparing) {
			return false
		}
	}
	return true
}

// wildcardSuperEqual compares explicit super bounds, where absence (nil)
// only matches absence.
func (c EqualityComparer) wildcardSuperEqual(a, b TypeMirror, comparing util.MSet[visitPair]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return c.areEqual(a, b, comparing)
}
