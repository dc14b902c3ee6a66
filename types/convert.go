package types

import (
	"slices"
)

// Converter adapts a type to an instance of a target declaration or
// primitive: the host language's "as supertype" conversion, including boxing
// and unboxing. It is an external collaborator; this engine only layers the
// qualifier dimension on top of whatever the converter decides.
//
// AsSuper returns ok == false when the conversion does not apply, e.g. when
// target's declaration is not a supertype of t. Implementations must be pure
// and safe for concurrent use.
type Converter interface {
	AsSuper(t TypeMirror, target TypeMirror) (TypeMirror, bool)
}

// asSuper runs the converter, special-casing implementations of marker
// interfaces: ordinary conversion fails for that relationship in the host
// type system, so the subtype's annotations are copied onto a structural
// copy of the supertype instead.
func (h *TypeHierarchy) asSuper(t TypeMirror, target TypeMirror) (TypeMirror, bool) {
	if copied, ok := markerInterfaceCopy(t, target); ok {
		return copied, true
	}
	return h.converter.AsSuper(t, target)
}

func markerInterfaceCopy(t TypeMirror, target TypeMirror) (TypeMirror, bool) {
	sub, ok := t.(*Declared)
	if !ok {
		return nil, false
	}
	tgt, ok := target.(*Declared)
	if !ok || !tgt.Decl.Marker {
		return nil, false
	}
	if !slices.Contains(sub.Decl.Interfaces, tgt.Decl) {
		return nil, false
	}

	copied := &Declared{Decl: tgt.Decl, Args: slices.Clone(tgt.Args), raw: tgt.raw}
	copied.replaceAnnotations(sub.annotationEntries())
	return copied, true
}
