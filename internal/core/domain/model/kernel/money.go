package kernel

import (
	"database/sql/driver"
	"fmt"

	"pos/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// centsPlaces is the number of fractional digits every Money value carries.
const centsPlaces = 2

// Money is a non-floating amount of dollars rounded to cents.
//
// Every constructor and arithmetic method rounds half away from zero to two places,
// so two Money values compare exactly once they exist. The zero value is $0.00.
type Money struct {
	d decimal.Decimal
}

// Zero is $0.00.
var Zero = Money{}

// NewMoney rounds d to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{d: d.Round(centsPlaces)}
}

// MoneyFromCents builds an amount from an integral number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{d: decimal.New(cents, -centsPlaces)}
}

// MoneyFromString parses a decimal string such as "8.30".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return NewMoney(d), nil
}

// MustMoney is MoneyFromString for literals known to be valid. It panics otherwise.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return NewMoney(m.d.Add(other.d))
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return NewMoney(m.d.Sub(other.d))
}

// MulInt returns m multiplied by n.
func (m Money) MulInt(n int64) Money {
	return NewMoney(m.d.Mul(decimal.NewFromInt(n)))
}

// MulRate returns m multiplied by rate, rounded half-up to cents. It is used for tax.
func (m Money) MulRate(rate decimal.Decimal) Money {
	return NewMoney(m.d.Mul(rate))
}

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Equal reports whether both amounts are the same number of cents.
func (m Money) Equal(other Money) bool {
	return m.d.Equal(other.d)
}

// IsZero reports whether the amount is $0.00.
func (m Money) IsZero() bool {
	return m.d.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.d.IsNegative()
}

// Cents returns the amount as an integral number of cents.
func (m Money) Cents() int64 {
	return m.d.Shift(centsPlaces).IntPart()
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal {
	return m.d
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.d.StringFixed(centsPlaces)
}

// Format renders the amount as "$9.80" for %v and %s; other verbs fall back to String.
func (m Money) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		if m.d.IsNegative() {
			_, _ = fmt.Fprintf(f, "-$%s", m.d.Neg().StringFixed(centsPlaces))
			return
		}
		_, _ = fmt.Fprintf(f, "$%s", m.String())
	default:
		_, _ = fmt.Fprint(f, m.String())
	}
}

// MarshalJSON writes the amount as a bare JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	*m = NewMoney(d)
	return nil
}

// Value stores the amount in a numeric column.
func (m Money) Value() (driver.Value, error) {
	return m.d.Value()
}

// Scan reads a numeric column.
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
