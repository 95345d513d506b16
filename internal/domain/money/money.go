package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// MinorDigits is the number of decimal places kept for every amount (cents).
const MinorDigits = 2

var ErrInvalidAmount = errors.New("money: invalid amount")

// Money is an amount expressed in integer minor units.
type Money int64

// FromDecimal rounds d half away from zero to MinorDigits places.
func FromDecimal(d decimal.Decimal) Money {
	return Money(d.Round(MinorDigits).Shift(MinorDigits).IntPart())
}

// Parse reads a decimal string such as "8.99" without going through float64.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d), nil
}

// MustParse is like Parse but panics on malformed input. Intended for fixtures.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Minor() int64 { return int64(m) }

func (m Money) Decimal() decimal.Decimal { return decimal.New(int64(m), -MinorDigits) }

func (m Money) Add(o Money) Money { return m + o }

func (m Money) Mul(qty int) Money { return m * Money(qty) }

func (m Money) IsNegative() bool { return m < 0 }

// String renders the plain decimal form with exactly two places, e.g. "8.99".
func (m Money) String() string { return m.Decimal().StringFixed(MinorDigits) }

// MarshalJSON emits the amount as a JSON number ("8.99", "0", "1234.5").
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().String()), nil
}

// UnmarshalJSON accepts JSON numbers or quoted decimal strings.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	*m = FromDecimal(d)
	return nil
}
