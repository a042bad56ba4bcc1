// Package interest computes and posts compound interest on savings accounts
// from their daily balances, reconciling the result against the ledger.
package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
)

// Policy bundles the global toggles that shape an interest posting run.
// It is passed by value and never mutated.
type Policy struct {
	// PostAtPeriodEnd dates the posting on the last day of the period instead
	// of the first day of the next one.
	PostAtPeriodEnd      bool
	FiscalYearStartMonth time.Month
	// PivotMode recomputes only from the interest-posted-till date forward,
	// trusting the ledger before it.
	PivotMode    bool
	RoundingMode domain.RoundingMode
}

// DefaultPolicy posts at period end with a January fiscal year and banker's rounding.
func DefaultPolicy() Policy {
	return Policy{
		PostAtPeriodEnd:      true,
		FiscalYearStartMonth: time.January,
		RoundingMode:         domain.RoundHalfEven,
	}
}

// PostingDate returns the date of the posting transaction for a period ending on end.
func (p Policy) PostingDate(end time.Time) time.Time {
	if p.PostAtPeriodEnd {
		return end
	}
	return dates.AddDays(end, 1)
}

// PeriodEndFor maps a posting transaction date back to the end of the period it covers.
func (p Policy) PeriodEndFor(postingDate time.Time) time.Time {
	if p.PostAtPeriodEnd {
		return postingDate
	}
	return dates.AddDays(postingDate, -1)
}

func (p Policy) fiscalMonth() time.Month {
	if p.FiscalYearStartMonth < time.January || p.FiscalYearStartMonth > time.December {
		return time.January
	}
	return p.FiscalYearStartMonth
}
