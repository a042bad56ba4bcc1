package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how monetary amounts are rounded to a currency's precision.
type RoundingMode string

const (
	RoundHalfEven RoundingMode = "HALF_EVEN"
	RoundHalfUp   RoundingMode = "HALF_UP"
	RoundHalfDown RoundingMode = "HALF_DOWN"
	RoundUp       RoundingMode = "UP"
	RoundDown     RoundingMode = "DOWN"
	RoundCeiling  RoundingMode = "CEILING"
	RoundFloor    RoundingMode = "FLOOR"
)

// ParseRoundingMode converts a configuration value into a RoundingMode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch mode := RoundingMode(strings.ToUpper(strings.TrimSpace(s))); mode {
	case RoundHalfEven, RoundHalfUp, RoundHalfDown, RoundUp, RoundDown, RoundCeiling, RoundFloor:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}

// Apply rounds d to places fractional digits.
func (m RoundingMode) Apply(d decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case RoundHalfUp:
		return d.Round(places)
	case RoundHalfDown:
		// ties go toward zero: mirror of half-up on the magnitude
		truncated := d.Truncate(places)
		half := decimal.New(5, -(places + 1))
		if d.Sub(truncated).Abs().GreaterThan(half) {
			return d.RoundUp(places)
		}
		return truncated
	case RoundUp:
		return d.RoundUp(places)
	case RoundDown:
		return d.RoundDown(places)
	case RoundCeiling:
		return d.RoundCeil(places)
	case RoundFloor:
		return d.RoundFloor(places)
	default:
		return d.RoundBank(places)
	}
}

// Currency represents a supported currency in the domain.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // Primary Key (e.g., "USD")
	Symbol       string `json:"symbol"`       // e.g., "$"
	Name         string `json:"name"`         // e.g., "US Dollar"
	Precision    int    `json:"precision"`    // Number of fractional digits, e.g. 2 for USD
	AuditFields
}

// Round rounds an amount to the currency's precision using mode.
func (c Currency) Round(amount decimal.Decimal, mode RoundingMode) decimal.Decimal {
	return mode.Apply(amount, int32(c.Precision))
}

// Zero returns a zero amount at the currency's precision.
func (c Currency) Zero() decimal.Decimal {
	return decimal.New(0, -int32(c.Precision))
}
