package qualerr

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// enableDebugErrorPrinting makes errors include their stacktrace when printed
const enableDebugErrorPrinting bool = true
const enableDebugFullStacktrace bool = false

type Code int

const (
	None Code = iota
	ShapeMismatch
	IncomparableTypes
	UnresolvedCycle
)

// Error is a fatal defect in the inputs handed to the subtype engine.
// Every value signals a modeling or programming error in the caller, never
// a type error in checked code: callers must not translate these into
// "A is not a subtype of B" diagnostics.
type Error interface {
	error
	Code() Code

	withStack([]byte) Error
	getStack() []byte
}

func FormatWithCode(e Error) string {
	if enableDebugErrorPrinting && e.getStack() != nil {
		stack := string(e.getStack())
		if !enableDebugFullStacktrace {
			lines := strings.Split(stack, "\n")
			if len(lines) > 6 {
				stack = lines[6]
			}
		}
		return fmt.Sprintf("%s:(Q%03d) %s", stack, e.Code(), e.Error())
	}
	return fmt.Sprintf("(Q%03d) %s", e.Code(), e.Error())
}

func New[E Error](err E) Error {
	return err.withStack(debug.Stack())
}
