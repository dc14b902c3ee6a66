// Package types holds the annotated type model and the qualifier-aware
// subtype engine that decides, one lattice at a time, whether one annotated
// type is a subtype of another.
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quala-dev/quala/internal/log"
	"github.com/quala-dev/quala/qual"
	"github.com/quala-dev/quala/util"
)

var logger = log.DefaultLogger.With("section", "types")

// Kind tags the shape of a TypeMirror node.
type Kind uint8

const (
	KindArray Kind = iota
	KindDeclared
	KindIntersection
	KindNull
	KindPrimitive
	KindTypeVar
	KindUnion
	KindWildcard
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindDeclared:
		return "declared"
	case KindIntersection:
		return "intersection"
	case KindNull:
		return "null"
	case KindPrimitive:
		return "primitive"
	case KindTypeVar:
		return "typevar"
	case KindUnion:
		return "union"
	case KindWildcard:
		return "wildcard"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// TypeMirror is one node of an annotated type tree. Nodes are built and
// annotated by an external applier before they reach the engine; the engine
// only ever queries them. Node identity (pointer identity) is meaningful: the
// visit history is keyed by it.
type TypeMirror interface {
	fmt.Stringer
	Kind() Kind

	// AnnotationIn returns the primary annotation of this node in the
	// lattice rooted at top, if one was applied.
	AnnotationIn(top qual.Annotation) (qual.Annotation, bool)
}

var (
	_ TypeMirror = (*Array)(nil)
	_ TypeMirror = (*Declared)(nil)
	_ TypeMirror = (*Intersection)(nil)
	_ TypeMirror = (*Null)(nil)
	_ TypeMirror = (*Primitive)(nil)
	_ TypeMirror = (*TypeVar)(nil)
	_ TypeMirror = (*Union)(nil)
	_ TypeMirror = (*Wildcard)(nil)
)

// annotations holds a node's primary annotations, at most one per lattice,
// keyed by the lattice top.
type annotations struct {
	byTop map[qual.Annotation]qual.Annotation
}

func (a *annotations) AnnotationIn(top qual.Annotation) (qual.Annotation, bool) {
	anno, ok := a.byTop[top]
	return anno, ok
}

// SetAnnotationIn applies anno as the primary annotation for the lattice
// rooted at top, replacing any previous one. This is the annotation applier's
// surface; the engine never mutates annotations.
func (a *annotations) SetAnnotationIn(top, anno qual.Annotation) {
	if a.byTop == nil {
		a.byTop = make(map[qual.Annotation]qual.Annotation, 1)
	}
	a.byTop[top] = anno
}

func (a *annotations) annotationEntries() map[qual.Annotation]qual.Annotation {
	return a.byTop
}

func (a *annotations) replaceAnnotations(entries map[qual.Annotation]qual.Annotation) {
	a.byTop = make(map[qual.Annotation]qual.Annotation, len(entries))
	for top, anno := range entries {
		a.byTop[top] = anno
	}
}

// annotationsEqual compares two nodes' primary annotations across every
// lattice: same lattices annotated, same qualifier per lattice.
func annotationsEqual(a, b *annotations) bool {
	if len(a.byTop) != len(b.byTop) {
		return false
	}
	for top, anno := range a.byTop {
		other, ok := b.byTop[top]
		if !ok || other != anno {
			return false
		}
	}
	return true
}

func (a *annotations) prefix() string {
	if len(a.byTop) == 0 {
		return ""
	}
	annos := make([]string, 0, len(a.byTop))
	for _, anno := range a.byTop {
		annos = append(annos, anno.String())
	}
	sort.Strings(annos)
	return strings.Join(annos, " ") + " "
}

// Array owns a single component type.
type Array struct {
	annotations
	Component TypeMirror
}

func NewArray(component TypeMirror) *Array {
	return &Array{Component: component}
}

func (t *Array) Kind() Kind { return KindArray }
func (t *Array) String() string {
	return t.prefix() + t.Component.String() + "[]"
}

// Declaration is the identity of a class or interface declaration, shared by
// every Declared node that instantiates it.
type Declaration struct {
	Name string
	// TypeParams is the number of type parameters the declaration takes.
	TypeParams int
	// Marker is set on single-method marker interfaces whose implementations
	// convert to the interface by annotation copying (convert.go).
	Marker bool
	// Interfaces are the directly implemented interface declarations.
	Interfaces []*Declaration
}

func (d *Declaration) String() string { return d.Name }

// Declared is a use of a class or interface declaration, possibly
// parameterized. A generic declaration used with no arguments at all is a
// raw type.
type Declared struct {
	annotations
	Decl *Declaration
	Args []TypeMirror
	raw  bool
}

func NewDeclared(decl *Declaration, args ...TypeMirror) *Declared {
	return &Declared{Decl: decl, Args: args}
}

// NewRawDeclared is a generic declaration used without type arguments.
func NewRawDeclared(decl *Declaration) *Declared {
	return &Declared{Decl: decl, raw: true}
}

func (t *Declared) Kind() Kind   { return KindDeclared }
func (t *Declared) WasRaw() bool { return t.raw }
func (t *Declared) String() string {
	if len(t.Args) == 0 {
		return t.prefix() + t.Decl.Name
	}
	return fmt.Sprintf("%s%s<%s>", t.prefix(), t.Decl.Name, util.JoinString(t.Args, ", "))
}

// Intersection owns its ordered, non-empty direct supertypes (bounds).
type Intersection struct {
	annotations
	Bounds []TypeMirror
}

func NewIntersection(bounds ...TypeMirror) *Intersection {
	if len(bounds) == 0 {
		panic("intersection type with no bounds")
	}
	return &Intersection{Bounds: bounds}
}

func (t *Intersection) Kind() Kind { return KindIntersection }
func (t *Intersection) String() string {
	return t.prefix() + "(" + util.JoinString(t.Bounds, " & ") + ")"
}

// Union owns its ordered, non-empty alternatives.
type Union struct {
	annotations
	Alternatives []TypeMirror
}

func NewUnion(alternatives ...TypeMirror) *Union {
	if len(alternatives) == 0 {
		panic("union type with no alternatives")
	}
	return &Union{Alternatives: alternatives}
}

func (t *Union) Kind() Kind { return KindUnion }
func (t *Union) String() string {
	return t.prefix() + "(" + util.JoinString(t.Alternatives, " | ") + ")"
}

// Null is the type of the null reference. It also serves as the default
// lower bound of type variables.
type Null struct {
	annotations
}

func NewNull() *Null { return &Null{} }

func (t *Null) Kind() Kind     { return KindNull }
func (t *Null) String() string { return t.prefix() + "null" }

// Primitive is a leaf primitive type; boxing and unboxing go through the
// Converter collaborator.
type Primitive struct {
	annotations
	Name string
}

func NewPrimitive(name string) *Primitive {
	return &Primitive{Name: name}
}

func (t *Primitive) Kind() Kind     { return KindPrimitive }
func (t *Primitive) String() string { return t.prefix() + t.Name }

// TypeParam is the identity of a type-parameter declaration. Two TypeVar
// uses reference the same parameter iff they share the same *TypeParam.
type TypeParam struct {
	Name string
	// Owner names the declaring class or method signature; the override
	// oracle relates owners of overriding signatures.
	Owner string
}

// TypeVar is a use of a type parameter, carrying its effective bounds.
type TypeVar struct {
	annotations
	Decl *TypeParam
	// Upper is the effective upper bound.
	Upper TypeMirror
	// Lower is the effective lower bound; defaults to the null type.
	Lower TypeMirror
}

func NewTypeVar(decl *TypeParam, upper, lower TypeMirror) *TypeVar {
	if lower == nil {
		lower = NewNull()
	}
	return &TypeVar{Decl: decl, Upper: upper, Lower: lower}
}

func (t *TypeVar) Kind() Kind     { return KindTypeVar }
func (t *TypeVar) String() string { return t.prefix() + t.Decl.Name }

// Wildcard is a wildcard type argument. Extends is the effective extends
// bound and is always present; Super is nil when the wildcard has no
// explicit super bound, which the engine reads as the lattice bottom.
type Wildcard struct {
	annotations
	Extends TypeMirror
	Super   TypeMirror
	// TypeArgHack marks an inference placeholder; containment against it
	// degrades to a plain extends-bound check.
	TypeArgHack bool
}

func NewWildcard(extends, super TypeMirror) *Wildcard {
	if extends == nil {
		panic("wildcard with no effective extends bound")
	}
	return &Wildcard{Extends: extends, Super: super}
}

func (t *Wildcard) Kind() Kind { return KindWildcard }
func (t *Wildcard) String() string {
	s := t.prefix() + "? extends " + t.Extends.String()
	if t.Super != nil {
		s += " super " + t.Super.String()
	}
	return s
}
