package money

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Amount is a signed fixed-point monetary value with exactly four
// fractional digits, stored as a scaled int64 (1.0000 == 10_000).
type Amount int64

const (
	// DecimalPrecision is the number of fractional digits carried.
	DecimalPrecision = 4
	// Scale is 10^DecimalPrecision.
	Scale int64 = 10_000

	// MaxAmount and MinAmount bound the representable range.
	MaxAmount Amount = math.MaxInt64
	MinAmount Amount = math.MinInt64
)

var (
	// ErrOverflow is returned when an operation would leave the
	// representable fixed-point range. Arithmetic never wraps.
	ErrOverflow = errors.New("amount overflows fixed-point range")

	// ErrPrecision is returned when a value carries more than four
	// fractional digits.
	ErrPrecision = errors.New("amount exceeds 4 decimal digits")
)

// ParseAmount converts a decimal string into an Amount. It rejects
// unparseable input, values with more than four fractional digits, and
// magnitudes outside the fixed-point range.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return FromDecimal(d)
}

// FromDecimal converts a decimal.Decimal into an Amount under the same
// rules as ParseAmount.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(DecimalPrecision)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s", ErrPrecision, d.String())
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Amount(scaled.IntPart()), nil
}

// Decimal returns the amount as a decimal.Decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -DecimalPrecision)
}

// String renders the amount with exactly four fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(DecimalPrecision)
}

// Add returns a + b, failing with ErrOverflow instead of wrapping.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %s + %s", ErrOverflow, a, b)
	}
	return sum, nil
}

// Sub returns a - b, failing with ErrOverflow instead of wrapping.
func (a Amount) Sub(b Amount) (Amount, error) {
	if b == MinAmount {
		if a >= 0 {
			return 0, fmt.Errorf("%w: %s - %s", ErrOverflow, a, b)
		}
		return a - b, nil
	}
	return a.Add(-b)
}

// Abs returns the magnitude of the amount.
// MinAmount has no positive counterpart; callers never construct it
// because ParseAmount bounds inputs and the engine only sign-flips
// parsed values.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Neg returns the sign-flipped amount.
func (a Amount) Neg() Amount {
	return -a
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}
