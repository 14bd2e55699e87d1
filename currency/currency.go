// Package currency maps currency codes to display information and
// formats money values with the right symbol. No locale handling and
// no exchange rates, just codes and symbols.
package currency

import (
	"errors"
	"fmt"

	"github.com/paykit/go-money/money"
)

// ErrUnknownCurrency is returned when a currency code is not
// present in the registry.
var ErrUnknownCurrency = errors.New("unknown currency")

// Currency is the shorthand code for a currency, e.g. "USD".
type Currency string

// Known currency codes.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	INR Currency = "INR"
	JPY Currency = "JPY"
	TZS Currency = "TZS"
)

type info struct {
	symbol string
	name   string
}

var registry = map[Currency]info{
	USD: {symbol: "$", name: "United States Dollar"},
	EUR: {symbol: "€", name: "Euro"},
	GBP: {symbol: "£", name: "Pound Sterling"},
	INR: {symbol: "₹", name: "Indian Rupee"},
	JPY: {symbol: "¥", name: "Japanese Yen"},
	TZS: {symbol: "TSh", name: "Tanzanian Shilling"},
}

// Parse validates a currency code against the registry.
func Parse(code string) (Currency, error) {
	c := Currency(code)

	if !c.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return c, nil
}

// IsKnown reports whether the currency is present in the registry.
func (c Currency) IsKnown() bool {
	_, ok := registry[c]

	return ok
}

// Symbol returns the display symbol for the currency. Unknown
// currencies fall back to the code followed by a space so that
// formatted amounts stay readable.
func (c Currency) Symbol() string {
	i, ok := registry[c]
	if !ok {
		return string(c) + " "
	}

	return i.symbol
}

// Name returns the English name of the currency, or the code
// itself when unknown.
func (c Currency) Name() string {
	i, ok := registry[c]
	if !ok {
		return string(c)
	}

	return i.name
}

// Format renders a money value with the currency's symbol.
func (c Currency) Format(m money.Money) string {
	return m.Format(c.Symbol())
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}
