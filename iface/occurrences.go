package iface

import "fmt"

// Occurrences constrains how many values may be bound to a field.
type Occurrences uint8

const (
	ZeroOrOne  Occurrences = 0 // [0,1]
	Once       Occurrences = 1 // [1,1]
	ZeroOrMore Occurrences = 2 // [0,∞)
	OnceOrMore Occurrences = 3 // [1,∞)
)

func (o Occurrences) Valid() bool { return o <= OnceOrMore }

// Min is the inclusive lower bound.
func (o Occurrences) Min() int {
	switch o {
	case Once, OnceOrMore:
		return 1
	default:
		return 0
	}
}

// Max is the inclusive upper bound; bounded is false for unbounded kinds.
func (o Occurrences) Max() (n int, bounded bool) {
	switch o {
	case ZeroOrOne, Once:
		return 1, true
	default:
		return 0, false
	}
}

// Allows reports whether n bound values satisfy o.
func (o Occurrences) Allows(n int) bool {
	if !o.Valid() || n < o.Min() {
		return false
	}
	if hi, bounded := o.Max(); bounded && n > hi {
		return false
	}
	return true
}

// Check is Allows with a structured error naming the violated bound.
func (o Occurrences) Check(n int) error {
	if !o.Valid() {
		return newError(KindOccurrence, "IFACE-OCC-001", fmt.Sprintf("invalid occurrences value %d", uint8(o)))
	}
	if n < o.Min() {
		return newError(KindOccurrence, "IFACE-OCC-002", fmt.Sprintf("%d values bound, %s requires at least %d", n, o, o.Min()))
	}
	if hi, bounded := o.Max(); bounded && n > hi {
		return newError(KindOccurrence, "IFACE-OCC-003", fmt.Sprintf("%d values bound, %s allows at most %d", n, o, hi))
	}
	return nil
}

func (o Occurrences) String() string {
	switch o {
	case ZeroOrOne:
		return "ZeroOrOne"
	case Once:
		return "Once"
	case ZeroOrMore:
		return "ZeroOrMore"
	case OnceOrMore:
		return "OnceOrMore"
	default:
		return fmt.Sprintf("Occurrences(%d)", uint8(o))
	}
}
