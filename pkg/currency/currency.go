// Package currency converts amounts between the base currency, in which all
// arithmetic happens, and the display currency chosen by the analyst.
package currency

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/capex-viability/pkg/constants"
)

// Currency is one of the supported display currencies.
type Currency string

const (
	// BRL is the base currency. Every stored amount is in BRL.
	BRL Currency = "BRL"
	// USD is the alternative display currency.
	USD Currency = "USD"
)

// Base is the canonical currency for all internal amounts.
const Base = BRL

// ErrInvalidRate is returned when an exchange rate is not strictly positive.
var ErrInvalidRate = errors.New("exchange rate must be greater than zero")

// Parse resolves a currency code case-insensitively.
func Parse(code string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(code))) {
	case BRL:
		return BRL, nil
	case USD:
		return USD, nil
	default:
		return "", fmt.Errorf("unsupported currency %q, expected %s or %s", code, BRL, USD)
	}
}

// Lower returns the code in lower case, as used in export file names.
func (c Currency) Lower() string {
	return strings.ToLower(string(c))
}

// ToBase converts a value entered in cur into the base currency.
// The rate is expressed as base units per one unit of cur and must be positive.
func ToBase(value float64, cur Currency, rate float64) float64 {
	if cur == Base {
		return value
	}
	return value * rate
}

// FromBase converts a base currency value into cur.
func FromBase(valueBase float64, cur Currency, rate float64) float64 {
	if cur == Base {
		return valueBase
	}
	return valueBase / rate
}

// Converter binds a display currency to the rate in effect for it.
type Converter struct {
	Display Currency
	Rate    float64
}

// NewConverter validates the rate and returns a Converter.
func NewConverter(display Currency, rate float64) (Converter, error) {
	if display != BRL && display != USD {
		return Converter{}, fmt.Errorf("unsupported currency %q", display)
	}
	if !(rate > 0) {
		return Converter{}, fmt.Errorf("%w: got %v", ErrInvalidRate, rate)
	}
	return Converter{Display: display, Rate: rate}, nil
}

// DefaultConverter displays amounts in the base currency at the default rate.
func DefaultConverter() Converter {
	return Converter{Display: Base, Rate: constants.DefaultExchangeRate}
}

// ToBase converts a display value into the base currency.
func (c Converter) ToBase(value float64) float64 {
	return ToBase(value, c.Display, c.Rate)
}

// FromBase converts a base value into the display currency.
func (c Converter) FromBase(valueBase float64) float64 {
	return FromBase(valueBase, c.Display, c.Rate)
}
