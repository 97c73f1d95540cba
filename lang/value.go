package lang

import "strconv"

// Value is the result of evaluating a statement: either a [Number] or
// [Unit].
type Value interface {
	String() string
	value()
}

// Number is a 64-bit signed integer value. Arithmetic wraps on overflow.
type Number int64

// Unit is the value of definitions and of the empty block.
type Unit struct{}

func (Number) value() {}
func (Unit) value()   {}

// String returns the decimal representation of n.
func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }

// String returns the empty string; Unit prints nothing.
func (Unit) String() string { return "" }

// IsUnit reports whether v is the Unit value.
func IsUnit(v Value) bool {
	_, ok := v.(Unit)

	return ok
}

// typeName describes v for diagnostics.
func typeName(v Value) string {
	switch v.(type) {
	case Number:
		return "number"
	case Unit:
		return "unit"
	default:
		return "nil"
	}
}
