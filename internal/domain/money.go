package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money amounts are exact scaled-integer values carried by decimal.Decimal.
// Arithmetic results are rounded half-up to ScaleInternal before they are
// compared against any threshold (tier boundaries, limit caps, rule ranges);
// display values round to ScaleDisplay.
const (
	ScaleInternal int32 = 4
	ScaleDisplay  int32 = 2
)

// Money is an amount in a single currency.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney creates Money from a decimal amount.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// NewMoneyFromString parses a decimal string into Money.
func NewMoneyFromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}

	return Money{Amount: d, Currency: currency}, nil
}

// MoneyFromMinorUnits creates Money from an integer count of minor units,
// e.g. MoneyFromMinorUnits(12345, 2, "USD") is 123.45 USD.
func MoneyFromMinorUnits(units int64, exp int32, currency string) Money {
	return Money{Amount: decimal.New(units, -exp), Currency: currency}
}

// Zero returns zero Money in the given currency.
func Zero(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// MulRate multiplies by a dimensionless rate and rounds to the internal scale.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(rate).Round(ScaleInternal), Currency: m.Currency}
}

// Div divides by a dimensionless divisor and rounds to the given scale.
func (m Money) Div(divisor decimal.Decimal, scale int32) Money {
	return Money{Amount: m.Amount.DivRound(divisor, scale), Currency: m.Currency}
}

// Cmp compares two amounts: -1 if m < other, 0 if equal, 1 if m > other.
func (m Money) Cmp(other Money) (int, error) {
	if err := m.sameCurrency(other); err != nil {
		return 0, err
	}
	return m.Amount.Cmp(other.Amount), nil
}

// Round returns m rounded half-up at the given scale.
func (m Money) Round(scale int32) Money {
	return Money{Amount: m.Amount.Round(scale), Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool { return m.Amount.IsZero() }

// IsNegative reports whether the amount is negative.
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

// IsPositive reports whether the amount is strictly positive.
func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

// Display renders the amount at display scale, e.g. "123.45".
func (m Money) Display() string {
	return m.Amount.StringFixed(ScaleDisplay)
}

func (m Money) String() string {
	return m.Amount.String() + " " + m.Currency
}
