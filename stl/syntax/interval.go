package syntax

import (
	"strconv"
	"strings"
)

// Bound is one endpoint of a temporal Interval. It is either a finite number
// or the infinity sentinel; infinity is retained as-is and is never
// substituted with a large finite value.
type Bound struct {
	// Value is the numeric value of the bound. It is meaningless if Infinite
	// is set.
	Value float64

	// Infinite is whether the bound is the 'inf' sentinel.
	Infinite bool
}

func (b Bound) String() string {
	if b.Infinite {
		return "inf"
	}
	// plain decimal only; the lexer does not accept exponent notation
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// Equal returns whether a Bound is equal to another. It will return false if
// anything besides a Bound is passed in.
func (b Bound) Equal(o any) bool {
	other, ok := o.(Bound)
	if !ok {
		otherPtr, ok := o.(*Bound)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if b.Infinite != other.Infinite {
		return false
	}
	if !b.Infinite && b.Value != other.Value {
		return false
	}

	return true
}

// Interval is the time window attached to a temporal operator, limiting its
// quantification to the window. The open/closed state of each end is retained
// from the bracket characters used in the source text because dense-time
// monitors treat open and closed bounds differently for edge-time
// satisfaction.
type Interval struct {
	Lower Bound
	Upper Bound

	// LowerClosed is whether the lower bound was enclosed with '[' rather
	// than '('.
	LowerClosed bool

	// UpperClosed is whether the upper bound was enclosed with ']' rather
	// than ')'.
	UpperClosed bool
}

func (iv Interval) String() string {
	var sb strings.Builder

	if iv.LowerClosed {
		sb.WriteRune('[')
	} else {
		sb.WriteRune('(')
	}
	sb.WriteString(iv.Lower.String())
	sb.WriteRune(',')
	sb.WriteString(iv.Upper.String())
	if iv.UpperClosed {
		sb.WriteRune(']')
	} else {
		sb.WriteRune(')')
	}

	return sb.String()
}

// Equal returns whether an Interval is equal to another. It will return false
// if anything besides an Interval is passed in.
func (iv Interval) Equal(o any) bool {
	other, ok := o.(Interval)
	if !ok {
		otherPtr, ok := o.(*Interval)
		if !ok {
			return false
		} else if otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if !iv.Lower.Equal(other.Lower) {
		return false
	}
	if !iv.Upper.Equal(other.Upper) {
		return false
	}
	if iv.LowerClosed != other.LowerClosed {
		return false
	}
	if iv.UpperClosed != other.UpperClosed {
		return false
	}

	return true
}

// WellOrdered returns whether the interval's bounds are in strictly
// increasing order. An infinite upper bound is always well-ordered; an
// infinite lower bound never is unless the upper bound is also infinite,
// which is itself not well-ordered.
func (iv Interval) WellOrdered() bool {
	if iv.Lower.Infinite {
		return false
	}
	if iv.Upper.Infinite {
		return true
	}
	return iv.Lower.Value < iv.Upper.Value
}

func equalIntervalPtrs(a, b *Interval) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(*b)
}
