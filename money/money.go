// Package money provides a fixed-point monetary value type.
//
// A value is stored as a whole-unit count plus a subunit count in
// base 100 (dollars and cents, rupees and paise). Values are always
// held in normalized form: the subunit count stays in [0, 99] and any
// excess is carried into the unit count, so there is exactly one
// representation per monetary value and structural comparison is
// value comparison.
package money

import (
	"fmt"
)

// subunitsPerUnit is the base of the minor unit: one whole unit
// divides into 100 subunits.
const subunitsPerUnit = 100

// DefaultSymbol is the currency symbol used by String.
const DefaultSymbol = "$"

// Money represents a non-negative monetary amount.
//
// Money is a value type: every operation returns a new value and
// leaves its operands untouched, so values are safe to share between
// goroutines without coordination.
type Money struct {
	// whole-unit count.
	units int64

	// subunit count, always in [0, 99].
	subunits int64
}

// New creates a normalized Money from a units and subunits pair.
// Subunits of 100 or more are carried into the unit count:
// New(5, 175) is the same value as New(6, 75).
//
// Negative inputs are rejected with ErrInvalidValue. Truncating
// integer division makes the carry incoherent for negative subunits,
// so instead of silently producing a wrong value the constructor
// fails fast.
func New(units, subunits int64) (Money, error) {
	if units < 0 || subunits < 0 {
		return Money{}, fmt.Errorf(
			"%w: negative amount: %d units, %d subunits",
			ErrInvalidValue,
			units,
			subunits,
		)
	}

	return Money{
		units:    units + subunits/subunitsPerUnit,
		subunits: subunits % subunitsPerUnit,
	}, nil
}

// NewFromSubunits creates a normalized Money from a total subunit
// count: NewFromSubunits(925) is the same value as New(9, 25).
func NewFromSubunits(total int64) (Money, error) {
	if total < 0 {
		return Money{}, fmt.Errorf(
			"%w: negative amount: %d subunits",
			ErrInvalidValue,
			total,
		)
	}

	return New(0, total)
}

// Must returns m if err is nil and panics otherwise.
func Must(m Money, err error) Money {
	if err != nil {
		panic(err)
	}

	return m
}

// Zero returns the zero monetary value.
func Zero() Money {
	return Money{}
}

// Units returns the whole-unit count.
func (m Money) Units() int64 {
	return m.units
}

// Subunits returns the subunit count, always in [0, 99].
func (m Money) Subunits() int64 {
	return m.subunits
}

// TotalSubunits returns the value expressed entirely in subunits.
func (m Money) TotalSubunits() int64 {
	return m.units*subunitsPerUnit + m.subunits
}

// IsZero reports whether m is the zero value.
func (m Money) IsZero() bool {
	return m.units == 0 && m.subunits == 0
}

// Add returns the sum of m and other as a new normalized value.
// Subunit overflow carries into the unit count. Addition over
// non-negative operands is commutative and associative and cannot
// fail.
func (m Money) Add(other Money) Money {
	totalSubunits := m.subunits + other.subunits

	return Money{
		units:    m.units + other.units + totalSubunits/subunitsPerUnit,
		subunits: totalSubunits % subunitsPerUnit,
	}
}

// Sub returns m minus other as a new normalized value.
// The domain is non-negative: if other exceeds m the operation
// fails with ErrNegativeResult.
func (m Money) Sub(other Money) (Money, error) {
	if m.Cmp(other) < 0 {
		return Money{}, fmt.Errorf(
			"%w: %s - %s",
			ErrNegativeResult,
			m,
			other,
		)
	}

	return Must(NewFromSubunits(m.TotalSubunits() - other.TotalSubunits())), nil
}

// Equal reports whether m and other represent the same monetary
// value. Both sides are normalized, so field equality is value
// equality.
func (m Money) Equal(other Money) bool {
	return m.units == other.units && m.subunits == other.subunits
}

// Cmp compares m and other, returning -1 if m < other,
// 0 if m == other and +1 if m > other.
func (m Money) Cmp(other Money) int {
	switch t, o := m.TotalSubunits(), other.TotalSubunits(); {
	case t < o:
		return -1

	case t > o:
		return 1

	default:
		return 0
	}
}

// Format renders the value prefixed with the given currency symbol.
// The subunit count is always rendered with two digits: "5.05",
// never "5.5".
func (m Money) Format(symbol string) string {
	return fmt.Sprintf("%s%d.%02d", symbol, m.units, m.subunits)
}

// String implements fmt.Stringer using the default "$" symbol.
func (m Money) String() string {
	return m.Format(DefaultSymbol)
}
