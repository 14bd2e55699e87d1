package money_test

import (
	"encoding/json"
	"testing"

	"github.com/matryer/is"
	"github.com/paykit/go-money/money"
	"github.com/pkg/errors"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		m, err := money.Parse("9.25")
		i.NoErr(err)

		i.True(m.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("BareUnits", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		m, err := money.Parse("9")
		i.NoErr(err)

		i.True(m.Equal(money.Must(money.New(9, 0))))
	})

	t.Run("EmptyString", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := money.Parse("")

		i.True(errors.Is(err, money.ErrInvalidValue))
		i.Equal("invalid value: empty string value", err.Error())
	})

	t.Run("OneSubunitDigit", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := money.Parse("5.5")

		i.True(errors.Is(err, money.ErrInvalidValue))
	})

	t.Run("NotANumber", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := money.Parse("value")

		i.True(errors.Is(err, money.ErrInvalidValue))
	})

	t.Run("Negative", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		_, err := money.Parse("-5.75")

		i.True(errors.Is(err, money.ErrInvalidValue))
	})

	t.Run("SignedSubunits", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		for _, s := range []string{"1.+5", "1.-5", "1.+55"} {
			_, err := money.Parse(s)

			i.True(errors.Is(err, money.ErrInvalidValue))
		}
	})
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	i := is.New(t)

	text, err := money.Must(money.New(5, 5)).MarshalText()
	i.NoErr(err)

	i.Equal("5.05", string(text))

	var m money.Money

	i.NoErr(m.UnmarshalText(text))

	i.True(m.Equal(money.Must(money.New(5, 5))))
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("MarshalsAsString", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		b, err := json.Marshal(money.Must(money.New(9, 25)))
		i.NoErr(err)

		i.Equal(`"9.25"`, string(b))
	})

	t.Run("UnmarshalsFromString", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		var m money.Money

		i.NoErr(json.Unmarshal([]byte(`"9.25"`), &m))

		i.True(m.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("RejectsNonString", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		var m money.Money

		err := json.Unmarshal([]byte(`9.25`), &m)

		i.True(errors.Is(err, money.ErrInvalidValue))
	})
}

func TestSQL(t *testing.T) {
	t.Parallel()

	t.Run("Value", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		v, err := money.Must(money.New(9, 25)).Value()
		i.NoErr(err)

		i.Equal(int64(925), v)
	})

	t.Run("ScanInt64", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		var m money.Money

		i.NoErr(m.Scan(int64(925)))

		i.True(m.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("ScanBytes", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		var m money.Money

		i.NoErr(m.Scan([]uint8("925")))

		i.True(m.Equal(money.Must(money.New(9, 25))))
	})

	t.Run("ScanNil", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		m := money.Must(money.New(9, 25))

		i.NoErr(m.Scan(nil))

		i.True(m.IsZero())
	})

	t.Run("ScanUnsupportedType", func(t *testing.T) {
		t.Parallel()

		i := is.New(t)

		var m money.Money

		err := m.Scan(9.25)

		i.True(errors.Is(err, money.ErrInvalidValue))
	})
}
