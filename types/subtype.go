package types

import (
	"github.com/quala-dev/quala/qual"
	"github.com/quala-dev/quala/qualerr"
	"github.com/quala-dev/quala/util"
)

// CyclePolicy selects what a union or intersection comparison does when it
// revisits a pair already on the visit history. Unlike the bound-cycle guard,
// which is known to be sound, it is an open question upstream whether such a
// revisit can arise from valid inputs at all, so the strict policy treats it
// as a defect.
type CyclePolicy uint8

const (
	// CycleFail surfaces the revisit as an UnresolvedCycle error.
	CycleFail CyclePolicy = iota
	// CycleAssumeSound assumes the revisited pair holds, consistent with the
	// bound-cycle guard.
	CycleAssumeSound
)

// Config carries the behavioral toggles of TypeHierarchy.
type Config struct {
	// IgnoreRawTypes skips type-argument checks entirely when either side
	// of a declared-declared comparison is raw.
	IgnoreRawTypes bool
	// InvariantArrayComponents requires structural equality of array
	// components rather than component subtyping.
	InvariantArrayComponents bool
	// CovariantTypeArgs admits plain subtyping of type arguments as a
	// shortcut before the usual containment rules.
	CovariantTypeArgs bool
	// CyclePolicy is the union/intersection revisit policy.
	CyclePolicy CyclePolicy
	// Rawness overrides the raw-type matching policy; nil selects the
	// default policy.
	Rawness RawnessPolicy
	// Overrides relates type parameters declared on overriding method
	// signatures; nil means no signatures override each other.
	Overrides OverrideOracle
}

// OverrideOracle reports whether the signature declaring sub's type
// parameter overrides the signature declaring sup's.
type OverrideOracle interface {
	Overrides(sub, sup *TypeParam) bool
}

// TypeHierarchy decides whether one fully-annotated type is a subtype of
// another. Host-language subtyping between declarations is delegated to the
// Converter; the qualifier lattices come from the qual.Hierarchy oracle.
// Each lattice is checked separately over the same pair of type trees, and
// all lattices must agree.
//
// A TypeHierarchy is immutable after construction; every query carries its
// own current lattice and visit history, so a single instance is safe for
// concurrent use.
type TypeHierarchy struct {
	quals     qual.Hierarchy
	converter Converter
	equality  EqualityComparer
	rawness   RawnessPolicy
	overrides OverrideOracle
	cfg       Config
}

func NewTypeHierarchy(quals qual.Hierarchy, converter Converter, cfg Config) *TypeHierarchy {
	rawness := cfg.Rawness
	if rawness == nil {
		rawness = defaultRawness{}
	}
	return &TypeHierarchy{
		quals:     quals,
		converter: converter,
		rawness:   rawness,
		overrides: cfg.Overrides,
		cfg:       cfg,
	}
}

// IsSubtype reports whether sub <: sup in every qualifier lattice the oracle
// exposes. No lattices means vacuously true.
func (h *TypeHierarchy) IsSubtype(sub, sup TypeMirror) (bool, error) {
	for _, top := range h.quals.Tops() {
		ok, err := h.IsSubtypeIn(sub, sup, top)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsSubtypeIn reports whether sub <: sup in the single lattice rooted at
// top; top stays the current lattice for the whole recursive descent.
func (h *TypeHierarchy) IsSubtypeIn(sub, sup TypeMirror, top qual.Annotation) (bool, error) {
	logger.Debug("subtype: begin", "sub", sub, "sup", sup, "top", top)
	v := &subtypeVisitor{h: h, top: top, visited: NewVisitHistory()}
	return v.isSubtype(sub, sup)
}

// AreSubtypes applies IsSubtype pairwise over two equal-length sequences.
// Unequal lengths are a caller defect and fail with a ShapeMismatch error,
// never a boolean.
func (h *TypeHierarchy) AreSubtypes(subs, sups []TypeMirror) (bool, error) {
	if len(subs) != len(sups) {
		return false, qualerr.New(qualerr.NewShapeMismatch{
			Subtypes:   util.JoinString(subs, ", "),
			Supertypes: util.JoinString(sups, ", "),
		})
	}
	for i := range subs {
		ok, err := h.IsSubtype(subs[i], sups[i])
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// AreEqual exposes the structural equality comparer the engine itself uses
// for invariant positions.
func (h *TypeHierarchy) AreEqual(a, b TypeMirror) bool {
	return h.equality.AreEqual(a, b)
}

// subtypeVisitor is the state of one single-lattice query: the engine, the
// current lattice top, and the visit history. It lives on the call stack of
// one IsSubtypeIn call, which keeps the engine re-entrant.
type subtypeVisitor struct {
	h       *TypeHierarchy
	top     qual.Annotation
	visited *VisitHistory
}

// isSubtype is the dispatch over every legal (subtype shape, supertype
// shape) pairing. A pairing outside the table is a modeling defect and
// fails with an IncomparableTypes error carrying both operands and the
// visit history.
func (v *subtypeVisitor) isSubtype(sub, sup TypeMirror) (bool, error) {
	switch sub := sub.(type) {
	case *Array:
		switch sup := sup.(type) {
		case *Array:
			return v.arrayArray(sub, sup)
		case *Declared:
			// arrays convert to Object/Serializable/Cloneable structurally;
			// only the qualifier needs checking
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Null:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Wildcard:
			return v.wildcardSupertype(sub, sup)
		}

	case *Declared:
		switch sup := sup.(type) {
		case *Array:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Declared:
			return v.declaredDeclared(sub, sup)
		case *Intersection:
			return v.intersectionSupertype(sub, sup)
		case *Null:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Primitive:
			return v.declaredPrimitive(sub, sup)
		case *TypeVar:
			return v.typevarSupertype(sub, sup)
		case *Union:
			return v.unionSupertype(sub, sup)
		case *Wildcard:
			return v.wildcardSupertype(sub, sup)
		}

	case *Intersection:
		switch sup := sup.(type) {
		case *Declared:
			// an intersection is a subtype if any of its bounds is
			return v.anySubtype(sub.Bounds, sup)
		}

	case *Null:
		switch sup := sup.(type) {
		case *Array:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Declared:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Intersection:
			return v.intersectionSupertype(sub, sup)
		case *Null:
			// occurs when comparing typevar lower bounds, which default to null
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Primitive:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *TypeVar:
			return v.typevarSupertype(sub, sup)
		case *Union:
			return v.unionSupertype(sub, sup)
		case *Wildcard:
			return v.wildcardSupertype(sub, sup)
		}

	case *Primitive:
		switch sup := sup.(type) {
		case *Declared:
			return v.primitiveDeclared(sub, sup)
		case *Intersection:
			return v.intersectionSupertype(sub, sup)
		case *Primitive:
			return v.isPrimarySubtype(sub, sup, false), nil
		case *Union:
			return v.unionSupertype(sub, sup)
		}

	case *TypeVar:
		switch sup := sup.(type) {
		case *Declared:
			return v.typevarSubtype(sub, sup)
		case *Null:
			return v.typevarSubtype(sub, sup)
		case *TypeVar:
			return v.typevarTypevar(sub, sup)
		case *Wildcard:
			return v.wildcardSupertype(sub, sup)
		}

	case *Union:
		switch sup := sup.(type) {
		case *Declared:
			return v.unionSubtype(sub, sup)
		}

	case *Wildcard:
		switch sup.(type) {
		case *Array, *Declared, *Primitive, *TypeVar, *Wildcard:
			// wildcards as subtypes only arise from capture-like positions;
			// the wildcard stands for its extends bound
			return v.isSubtype(sub.Extends, sup)
		}
	}

	logger.Error("subtype: no rule for shape pairing", "sub", sub, "sup", sup, "subKind", sub.Kind(), "supKind", sup.Kind())
	return false, qualerr.New(qualerr.NewIncomparableTypes{
		Subtype:   sub,
		Supertype: sup,
		History:   v.visited,
	})
}

// checkAndSubtype first consults the visit history; a pair already under
// comparison is a recursive bound and holds by assumption. Otherwise the
// pair is recorded and compared.
func (v *subtypeVisitor) checkAndSubtype(sub, sup TypeMirror) (bool, error) {
	if v.visited.Contains(sub, sup) {
		return true, nil
	}
	v.visited.Add(sub, sup)
	return v.isSubtype(sub, sup)
}

// isPrimarySubtype compares the primary annotations of sub and sup in the
// current lattice. With annosCanBeEmpty, two absent annotations succeed;
// one absent annotation always fails.
func (v *subtypeVisitor) isPrimarySubtype(sub, sup TypeMirror, annosCanBeEmpty bool) bool {
	subAnno, subOk := sub.AnnotationIn(v.top)
	supAnno, supOk := sup.AnnotationIn(v.top)
	switch {
	case !subOk && !supOk:
		return annosCanBeEmpty
	case !subOk || !supOk:
		return false
	}
	return v.h.quals.IsSubtype(subAnno, supAnno)
}

//------------------------------------------------------------------------
// shape rules

func (v *subtypeVisitor) arrayArray(sub, sup *Array) (bool, error) {
	if !v.isPrimarySubtype(sub, sup, false) {
		return false, nil
	}
	if v.h.cfg.InvariantArrayComponents {
		return v.h.equality.AreEqual(sub, sup), nil
	}
	return v.isSubtype(sub.Component, sup.Component)
}

func (v *subtypeVisitor) declaredDeclared(sub, sup *Declared) (bool, error) {
	converted, ok := v.h.asSuper(sub, sup)
	if !ok {
		return false, nil
	}
	subAsSuper, ok := converted.(*Declared)
	if !ok {
		return false, nil
	}

	if !v.isPrimarySubtype(subAsSuper, sup, false) {
		return false, nil
	}
	if v.visited.Contains(subAsSuper, sup) {
		return true, nil
	}

	result, err := v.visitTypeArgs(subAsSuper, sup, sub.WasRaw(), sup.WasRaw())
	v.visited.Add(subAsSuper, sup)
	return result, err
}

// visitTypeArgs compares the type arguments of two declared types already
// known to be related at the declaration level. When a raw type is involved
// the rawness policy takes over; otherwise arguments are compared pairwise
// under containment. A non-raw empty argument list against a non-empty one
// is tolerated for legacy interop (a permissive rule kept as-is from the
// reference semantics).
func (v *subtypeVisitor) visitTypeArgs(sub, sup *Declared, subRaw, supRaw bool) (bool, error) {
	if subRaw || supRaw {
		if v.h.cfg.IgnoreRawTypes {
			return true, nil
		}
		return v.h.rawness.Valid(v.h, sup, sub, v.top, v.visited)
	}

	if len(sub.Args) == 0 || len(sup.Args) == 0 {
		return true, nil
	}
	for i := range sup.Args {
		ok, err := v.isContainedBy(sub.Args[i], sup.Args[i], v.h.cfg.CovariantTypeArgs)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// isContainedBy is the JLS-style containment relation between type
// arguments: a wildcard contains whatever fits between its bounds, anything
// else contains only structurally equal arguments. With canBeCovariant,
// plain subtyping is admitted first.
func (v *subtypeVisitor) isContainedBy(inside, outside TypeMirror, canBeCovariant bool) (bool, error) {
	if canBeCovariant {
		ok, err := v.isSubtype(inside, outside)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	outsideWc, ok := outside.(*Wildcard)
	if !ok {
		return v.h.equality.AreEqual(inside, outside), nil
	}

	aboveSuper, err := v.isAboveSuper(inside, outsideWc)
	if err != nil {
		return false, err
	}
	belowExtends, err := v.checkAndSubtype(inside, outsideWc.Extends)
	if err != nil {
		return false, err
	}
	return belowExtends && aboveSuper, nil
}

func (v *subtypeVisitor) declaredPrimitive(sub *Declared, sup *Primitive) (bool, error) {
	// unboxing can imply a more specific annotation, e.g. an always-interned
	// boxed integer unboxes to an interned primitive, so convert first
	if subAsSuper, ok := v.h.asSuper(sub, sup); ok {
		return v.isPrimarySubtype(subAsSuper, sup, false), nil
	}
	return v.isPrimarySubtype(sub, sup, false), nil
}

func (v *subtypeVisitor) primitiveDeclared(sub *Primitive, sup *Declared) (bool, error) {
	// boxing, symmetric to declaredPrimitive
	if subAsSuper, ok := v.h.asSuper(sub, sup); ok {
		return v.isPrimarySubtype(subAsSuper, sup, false), nil
	}
	return v.isPrimarySubtype(sub, sup, false), nil
}

// intersectionSupertype holds when sub is a subtype of every direct bound.
// A revisited pair here is handled per the configured cycle policy, same as
// unions.
func (v *subtypeVisitor) intersectionSupertype(sub TypeMirror, sup *Intersection) (bool, error) {
	if v.visited.Contains(sub, sup) {
		if v.h.cfg.CyclePolicy == CycleAssumeSound {
			return true, nil
		}
		return false, qualerr.New(qualerr.NewUnresolvedCycle{Subtype: sub, Supertype: sup, History: v.visited})
	}
	v.visited.Add(sub, sup)
	return v.allSupertypes(sub, sup.Bounds)
}

// unionSupertype holds when sub is a subtype of at least one alternative.
// A revisit is handled per the configured cycle policy: it is unclear
// whether valid inputs can reach it, so the default refuses to assume
// soundness.
func (v *subtypeVisitor) unionSupertype(sub TypeMirror, sup *Union) (bool, error) {
	if v.visited.Contains(sub, sup) {
		if v.h.cfg.CyclePolicy == CycleAssumeSound {
			return true, nil
		}
		return false, qualerr.New(qualerr.NewUnresolvedCycle{Subtype: sub, Supertype: sup, History: v.visited})
	}
	v.visited.Add(sub, sup)
	return v.anySupertype(sub, sup.Alternatives)
}

// unionSubtype holds when every alternative is a subtype of sup, with the
// same cycle policy as unionSupertype.
func (v *subtypeVisitor) unionSubtype(sub *Union, sup TypeMirror) (bool, error) {
	if v.visited.Contains(sub, sup) {
		if v.h.cfg.CyclePolicy == CycleAssumeSound {
			return true, nil
		}
		return false, qualerr.New(qualerr.NewUnresolvedCycle{Subtype: sub, Supertype: sup, History: v.visited})
	}
	v.visited.Add(sub, sup)
	return v.allSubtypes(sub.Alternatives, sup)
}

// typevarSupertype: a type variable is a supertype of whatever is below its
// effective lower bound.
func (v *subtypeVisitor) typevarSupertype(sub TypeMirror, sup *TypeVar) (bool, error) {
	return v.checkAndSubtype(sub, sup.Lower)
}

// typevarSubtype: a type variable is a subtype of whatever is above its
// effective upper bound. Combined with typevarSupertype this checks the
// subtype's upper bound against the supertype's lower bound.
func (v *subtypeVisitor) typevarSubtype(sub *TypeVar, sup TypeMirror) (bool, error) {
	return v.checkAndSubtype(sub.Upper, sup)
}

// typevarTypevar compares two type-variable uses. For uses of the same type
// parameter the bounds are identical by construction, so only the primary
// annotations matter: descending into the bounds would demand an exact bound
// match where just the annotation differs. With no primary annotation on
// either side the two uses are equivalent outright.
func (v *subtypeVisitor) typevarTypevar(sub, sup *TypeVar) (bool, error) {
	if sub.Decl == sup.Decl {
		_, subHasAnno := sub.AnnotationIn(v.top)
		_, supHasAnno := sup.AnnotationIn(v.top)

		if subHasAnno && supHasAnno {
			return v.isPrimarySubtype(sub, sup, true), nil
		}
		if !subHasAnno && !supHasAnno {
			return true, nil
		}
	}

	// type variables declared on overriding signatures are interchangeable
	// when fully structurally equal
	if v.h.overrides != nil && v.h.overrides.Overrides(sub.Decl, sup.Decl) && v.h.equality.AreEqual(sub, sup) {
		return true, nil
	}

	return v.typevarSubtype(sub, sup)
}

// wildcardSupertype: a wildcard supertype admits whatever lies between its
// super bound and its extends bound. The inference placeholder degrades to a
// plain extends-bound check on a fresh history.
func (v *subtypeVisitor) wildcardSupertype(sub TypeMirror, sup *Wildcard) (bool, error) {
	if sup.TypeArgHack {
		fresh := &subtypeVisitor{h: v.h, top: v.top, visited: NewVisitHistory()}
		return fresh.isSubtype(sub, sup.Extends)
	}
	return v.isBelowSuper(sub, sup)
}

// isAboveSuper: with no explicit super bound the bound is bottom, so
// anything is above it unless the wildcard itself carries a primary
// annotation, which then must be below the candidate's.
func (v *subtypeVisitor) isAboveSuper(above TypeMirror, wildcard *Wildcard) (bool, error) {
	if wildcard.Super == nil {
		if _, ok := wildcard.AnnotationIn(v.top); !ok {
			return true, nil
		}
		return v.isPrimarySubtype(wildcard, above, false), nil
	}
	return v.checkAndSubtype(wildcard.Super, above)
}

// isBelowSuper: with no explicit super bound and no primary annotation only
// the lattice bottom is below the wildcard; a primary annotation is compared
// directly instead.
func (v *subtypeVisitor) isBelowSuper(below TypeMirror, wildcard *Wildcard) (bool, error) {
	if wildcard.Super == nil {
		if _, ok := wildcard.AnnotationIn(v.top); !ok {
			return v.isBottom(below), nil
		}
		return v.isPrimarySubtype(below, wildcard, false), nil
	}
	return v.isSubtype(below, wildcard.Super)
}

//------------------------------------------------------------------------
// quantifier helpers

func (v *subtypeVisitor) allSupertypes(sub TypeMirror, sups []TypeMirror) (bool, error) {
	for _, sup := range sups {
		ok, err := v.isSubtype(sub, sup)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (v *subtypeVisitor) anySupertype(sub TypeMirror, sups []TypeMirror) (bool, error) {
	for _, sup := range sups {
		ok, err := v.isSubtype(sub, sup)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (v *subtypeVisitor) allSubtypes(subs []TypeMirror, sup TypeMirror) (bool, error) {
	for _, sub := range subs {
		ok, err := v.isSubtype(sub, sup)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func (v *subtypeVisitor) anySubtype(subs []TypeMirror, sup TypeMirror) (bool, error) {
	for _, sub := range subs {
		ok, err := v.isSubtype(sub, sup)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
