package money

import (
	"database/sql"
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ensure Money implements valuer and scanner interface.
	_ sql.Scanner   = (*Money)(nil)
	_ driver.Valuer = (*Money)(nil)

	// ensure Money implements text marshaller and unmarshaler interface.
	_ encoding.TextMarshaler   = (*Money)(nil)
	_ encoding.TextUnmarshaler = (*Money)(nil)

	// ensure Money implements json marshaller and unmarshaler interface.
	_ json.Marshaler   = (*Money)(nil)
	_ json.Unmarshaler = (*Money)(nil)
)

// Parse creates a Money from its canonical text form:
// "<units>" or "<units>.<subunits>" with exactly two subunit digits.
// Anything else is rejected with ErrInvalidValue.
func Parse(s string) (Money, error) {
	if s == "" {
		return Money{}, fmt.Errorf("%w: empty string value", ErrInvalidValue)
	}

	// "-0.75" would survive the units parse below, catch signs early.
	if s[0] == '-' || s[0] == '+' {
		return Money{}, fmt.Errorf(
			"%w: string \"%s\" must be an unsigned amount",
			ErrInvalidValue,
			s,
		)
	}

	unitsStr, subunitsStr, found := strings.Cut(s, ".")

	units, err := strconv.ParseInt(unitsStr, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf(
			"%w: string \"%s\" is not valid",
			ErrInvalidValue,
			s,
		)
	}

	if !found {
		return New(units, 0)
	}

	// two digits keep "5.05" and "5.50" unambiguous. ParseInt would
	// also let a sign through ("1.+5"), so only digits are allowed.
	if len(subunitsStr) != 2 ||
		!isDigit(subunitsStr[0]) || !isDigit(subunitsStr[1]) {
		return Money{}, fmt.Errorf(
			"%w: string \"%s\" must have two subunit digits",
			ErrInvalidValue,
			s,
		)
	}

	subunits := int64(subunitsStr[0]-'0')*10 + int64(subunitsStr[1]-'0')

	return New(units, subunits)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// MarshalText implements the encoding.TextMarshaler interface.
// The form is the canonical "<units>.<subunits>" without a symbol.
func (m Money) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d.%02d", m.units, m.subunits)), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (m *Money) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// MarshalJSON implements the json.Marshaler interface.
// The value is encoded as a JSON string in canonical text form.
func (m Money) MarshalJSON() ([]byte, error) {
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}

	return json.Marshal(string(text))
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string

	err := json.Unmarshal(data, &s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidValue, err)
	}

	return m.UnmarshalText([]byte(s))
}

// Value defines how the Money is stored in the database:
// as the total subunit count.
func (m Money) Value() (driver.Value, error) {
	return m.TotalSubunits(), nil
}

// Scan defines how the Money is read from the database.
func (m *Money) Scan(value interface{}) error {
	switch t := value.(type) {
	case int64:
		parsed, err := NewFromSubunits(t)
		if err != nil {
			return err
		}

		*m = parsed

	case []uint8:
		totalSubunits, err := strconv.ParseInt(string(t), 10, 64)
		if err != nil {
			return fmt.Errorf(
				"%w: could not scan \"%s\" into Money",
				ErrInvalidValue,
				string(t),
			)
		}

		parsed, err := NewFromSubunits(totalSubunits)
		if err != nil {
			return err
		}

		*m = parsed

	case nil:
		*m = Money{}

	default:
		return fmt.Errorf(
			"%w: could not scan type %T into Money",
			ErrInvalidValue,
			t,
		)
	}

	return nil
}
