// Package domain defines core data structures used throughout the ledger replay.
package domain

import (
	"math"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	// AmountPrecision number of fractional digits kept for monetary values.
	AmountPrecision = 4
	// MinorPerMajor minor units in one major currency unit.
	MinorPerMajor = 10_000
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrAmountOverflow = errors.New("amount out of range")
)

// Amount monetary value in minor units (1/10000 of a major unit).
type Amount int64

// AmountFromFloat converts a major unit value to minor units by multiplying
// by MinorPerMajor and truncating toward zero, never rounding. The product is
// computed in float64, so 2.01 becomes 20099 minor units.
func AmountFromFloat(f float64) (Amount, error) {
	minor := f * MinorPerMajor
	// float64(math.MaxInt64) is 2^63, itself out of range
	if math.IsNaN(minor) || minor >= float64(math.MaxInt64) || minor < float64(math.MinInt64) {
		return 0, errors.Wrapf(ErrAmountOverflow, "%v", f)
	}

	return Amount(int64(minor)), nil
}

// AmountFromDecimal converts a major unit value to minor units, see AmountFromFloat.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	return AmountFromFloat(d.InexactFloat64())
}

// ParseAmount parses a decimal literal given in major units.
// NaN and infinities are rejected as invalid.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidAmount, "%q: %s", s, err)
	}

	return AmountFromDecimal(d)
}

// Decimal returns the exact value in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -AmountPrecision)
}

// String formats the amount in major units with exactly four fractional digits.
func (a Amount) String() string {
	return a.Decimal().StringFixed(AmountPrecision)
}
