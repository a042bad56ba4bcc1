package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/savings_servicing/internal/utils/dates"
)

// PeriodFrequency is the cadence used for both interest compounding and
// interest posting.
type PeriodFrequency string

const (
	Daily     PeriodFrequency = "DAILY"
	Monthly   PeriodFrequency = "MONTHLY"
	Quarterly PeriodFrequency = "QUARTERLY"
	BiAnnual  PeriodFrequency = "BIANNUAL"
	Annual    PeriodFrequency = "ANNUAL"
)

// months returns the length of a period in months; zero for Daily.
func (f PeriodFrequency) months() (int, error) {
	switch f {
	case Daily:
		return 0, nil
	case Monthly:
		return 1, nil
	case Quarterly:
		return 3, nil
	case BiAnnual:
		return 6, nil
	case Annual:
		return 12, nil
	default:
		return 0, fmt.Errorf("unknown period frequency %q", string(f))
	}
}

// Validate reports an error for values outside the enum.
func (f PeriodFrequency) Validate() error {
	_, err := f.months()
	return err
}

// rank orders frequencies from finest (daily) to coarsest (annual).
func (f PeriodFrequency) rank() int {
	switch f {
	case Daily:
		return 0
	case Monthly:
		return 1
	case Quarterly:
		return 2
	case BiAnnual:
		return 3
	case Annual:
		return 4
	default:
		return -1
	}
}

// CoarserThan reports whether f spans longer periods than other.
func (f PeriodFrequency) CoarserThan(other PeriodFrequency) bool {
	return f.rank() > other.rank()
}

// PeriodEnd returns the last day of the period containing d. Monthly periods
// end on calendar month ends; quarterly, biannual and annual periods are
// blocks of 3, 6 and 12 months counted from the fiscal year start month.
func (f PeriodFrequency) PeriodEnd(d time.Time, fiscalYearStart time.Month) time.Time {
	d = dates.Normalize(d)
	k, err := f.months()
	if err != nil || k == 0 {
		return d
	}
	if fiscalYearStart < time.January || fiscalYearStart > time.December {
		fiscalYearStart = time.January
	}
	fyYear := d.Year()
	if d.Month() < fiscalYearStart {
		fyYear--
	}
	fyStart := dates.Date(fyYear, fiscalYearStart, 1)
	elapsed := (int(d.Month()) - int(fiscalYearStart) + 12) % 12
	return fyStart.AddDate(0, (elapsed/k+1)*k, -1)
}

// InterestCalculationMethod selects how the balance subject to interest is derived.
type InterestCalculationMethod string

const (
	DailyBalance        InterestCalculationMethod = "DAILY_BALANCE"
	AverageDailyBalance InterestCalculationMethod = "AVERAGE_DAILY_BALANCE"
)

// Validate reports an error for values outside the enum.
func (m InterestCalculationMethod) Validate() error {
	switch m {
	case DailyBalance, AverageDailyBalance:
		return nil
	default:
		return fmt.Errorf("unknown interest calculation method %q", string(m))
	}
}

// DaysInYearConvention is the day-count denominator for daily rates.
type DaysInYearConvention string

const (
	Days360    DaysInYearConvention = "360"
	Days365    DaysInYearConvention = "365"
	DaysActual DaysInYearConvention = "ACTUAL"
)

// Validate reports an error for values outside the enum.
func (c DaysInYearConvention) Validate() error {
	switch c {
	case Days360, Days365, DaysActual:
		return nil
	default:
		return fmt.Errorf("unknown days-in-year convention %q", string(c))
	}
}

// DaysInYear returns the denominator to apply to a day falling in year.
func (c DaysInYearConvention) DaysInYear(year int) int {
	switch c {
	case Days360:
		return 360
	case DaysActual:
		return dates.DaysInYear(year)
	default:
		return 365
	}
}
