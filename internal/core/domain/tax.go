package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxComponent is one withholding rate in a tax group, effective over a date range.
type TaxComponent struct {
	TaxComponentID string          `json:"taxComponentID"`
	Name           string          `json:"name"`
	Percentage     decimal.Decimal `json:"percentage"` // e.g. 10 means 10%
	StartDate      time.Time       `json:"startDate"`
	EndDate        *time.Time      `json:"endDate,omitempty"`
}

// ActiveOn reports whether the component applies on date.
func (c TaxComponent) ActiveOn(date time.Time) bool {
	if !c.StartDate.IsZero() && date.Before(c.StartDate) {
		return false
	}
	return c.EndDate == nil || !date.After(*c.EndDate)
}

// TaxGroup is a named set of tax components applied together.
type TaxGroup struct {
	TaxGroupID string         `json:"taxGroupID"`
	Name       string         `json:"name"`
	Components []TaxComponent `json:"components"`
	AuditFields
}

// TotalTax sums the amounts of a split.
func TotalTax(splits []TaxSplit) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(s.Amount)
	}
	return total
}

// Split computes the withholding on gross for every component active on date.
// Each component amount is rounded to the currency precision on its own; the
// total withheld is the sum of the rounded amounts.
func (g TaxGroup) Split(gross decimal.Decimal, date time.Time, currency Currency, mode RoundingMode) []TaxSplit {
	var out []TaxSplit
	for _, c := range g.Components {
		if !c.ActiveOn(date) || !c.Percentage.IsPositive() {
			continue
		}
		amount := currency.Round(gross.Mul(c.Percentage).Div(hundred), mode)
		if amount.IsZero() {
			continue
		}
		out = append(out, TaxSplit{
			TaxComponentID: c.TaxComponentID,
			Name:           c.Name,
			Percentage:     c.Percentage,
			Amount:         amount,
		})
	}
	return out
}
