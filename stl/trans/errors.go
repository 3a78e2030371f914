package trans

import (
	"fmt"
	"strings"

	"github.com/dekarrin/stlspec/stl/syntax"
)

// File errors.go contains the errors produced by validation and translation.
// Each failure mode is its own type so callers can distinguish them with
// errors.As; when validation finds several problems in one pass they are
// aggregated in an ErrorList.

// UndeclaredVariableError is returned when a formula refers to a signal name
// with no corresponding declaration.
type UndeclaredVariableError struct {
	// Name is the undeclared signal name.
	Name string

	// Line and Pos are the 1-indexed source location of the reference, or 0
	// if unknown.
	Line int
	Pos  int
}

func (e UndeclaredVariableError) Error() string {
	return atLocation(fmt.Sprintf("undeclared variable %q", e.Name), e.Line, e.Pos)
}

// TypeMismatchError is returned when a signal is used in a way its declared
// data type does not allow, such as comparing a bool signal against a
// threshold or using a float signal as a bare predicate.
type TypeMismatchError struct {
	// Name is the signal name that was misused.
	Name string

	// DType is the signal's declared data type.
	DType DType

	// Message describes the misuse.
	Message string

	// Line and Pos are the 1-indexed source location of the use, or 0 if
	// unknown.
	Line int
	Pos  int
}

func (e TypeMismatchError) Error() string {
	return atLocation(fmt.Sprintf("signal %q is declared %s but %s", e.Name, e.DType, e.Message), e.Line, e.Pos)
}

// InvalidIntervalError is returned when a temporal operator carries a time
// window whose bounds are not in increasing order.
type InvalidIntervalError struct {
	// Interval is the offending time window.
	Interval syntax.Interval

	// Line and Pos are the 1-indexed source location of the operator the
	// window is attached to, or 0 if unknown.
	Line int
	Pos  int
}

func (e InvalidIntervalError) Error() string {
	return atLocation(fmt.Sprintf("time window %s does not have increasing bounds", e.Interval), e.Line, e.Pos)
}

// UnsupportedOperatorError is returned when a formula uses an operator the
// selected target has no semantics for.
type UnsupportedOperatorError struct {
	// Op is the canonical spelling of the unsupported operator.
	Op string

	// Target is the target the formula was being compiled for.
	Target Target

	// Line and Pos are the 1-indexed source location of the operator, or 0
	// if unknown.
	Line int
	Pos  int
}

func (e UnsupportedOperatorError) Error() string {
	return atLocation(fmt.Sprintf("operator %q cannot be compiled for the %s target", e.Op, e.Target), e.Line, e.Pos)
}

// ErrorList aggregates multiple validation failures found in a single pass
// over a formula. It unwraps to all of its members, so errors.As finds each
// of them.
type ErrorList []error

func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "no errors"
	}

	msgs := make([]string, len(el))
	for i, err := range el {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (el ErrorList) Unwrap() []error {
	return el
}

func atLocation(msg string, line, pos int) string {
	if line == 0 {
		return msg
	}
	return fmt.Sprintf("around line %d, char %d: %s", line, pos, msg)
}
