package types

// isBottom reports whether t sits at the bottom of the current lattice.
// Unannotated shapes recurse through their defining bound; a lattice with no
// bottom has nothing at its bottom.
func (v *subtypeVisitor) isBottom(t TypeMirror) bool {
	bottom, ok := v.h.quals.Bottom(v.top)
	if !ok {
		return false
	}
	if anno, ok := t.AnnotationIn(v.top); ok {
		return v.h.quals.IsSubtype(anno, bottom)
	}
	switch t := t.(type) {
	case *TypeVar:
		return v.isBottom(t.Upper)
	case *Wildcard:
		return v.isBottom(t.Extends)
	}
	return false
}
