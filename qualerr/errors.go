package qualerr

import (
	"fmt"
)

// NewShapeMismatch reports a pairwise batch comparison over sequences of
// different lengths. The operand lists are pre-rendered by the caller.
type NewShapeMismatch struct {
	Subtypes   string
	Supertypes string
	stack      []byte
}

func (e NewShapeMismatch) Error() string {
	return fmt.Sprintf("unbalanced sequences of types: subtypes=(%s) supertypes=(%s)", e.Subtypes, e.Supertypes)
}
func (e NewShapeMismatch) Code() Code       { return ShapeMismatch }
func (e NewShapeMismatch) getStack() []byte { return e.stack }
func (e NewShapeMismatch) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

// NewIncomparableTypes reports that the engine reached a pairing of type
// shapes outside the legal dispatch table.
type NewIncomparableTypes struct {
	Subtype   fmt.Stringer
	Supertype fmt.Stringer
	History   fmt.Stringer
	stack     []byte
}

func (e NewIncomparableTypes) Error() string {
	return fmt.Sprintf("incomparable types (%s, %s) visitHistory = %s", e.Subtype, e.Supertype, e.History)
}
func (e NewIncomparableTypes) Code() Code       { return IncomparableTypes }
func (e NewIncomparableTypes) getStack() []byte { return e.stack }
func (e NewIncomparableTypes) withStack(stack []byte) Error {
	e.stack = stack
	return e
}

// NewUnresolvedCycle reports that a union or intersection comparison revisited
// a pair already on the visit history while the engine is configured to treat
// such cycles as defects rather than assume they are sound.
type NewUnresolvedCycle struct {
	Subtype   fmt.Stringer
	Supertype fmt.Stringer
	History   fmt.Stringer
	stack     []byte
}

func (e NewUnresolvedCycle) Error() string {
	return fmt.Sprintf("unresolved cycle while comparing (%s, %s) visitHistory = %s", e.Subtype, e.Supertype, e.History)
}
func (e NewUnresolvedCycle) Code() Code       { return UnresolvedCycle }
func (e NewUnresolvedCycle) getStack() []byte { return e.stack }
func (e NewUnresolvedCycle) withStack(stack []byte) Error {
	e.stack = stack
	return e
}
