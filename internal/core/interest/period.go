package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
)

// calcScale is the number of fractional digits kept on intermediate interest.
const calcScale = 9

// BalanceSpan is a run of days over which the end-of-day balance is constant.
type BalanceSpan struct {
	dates.Interval
	Balance decimal.Decimal
}

// CompoundingPeriod is one compounding sub-interval of a posting period.
type CompoundingPeriod struct {
	dates.Interval
	// InterestToCompound is the interest folded into principal before this sub-interval.
	InterestToCompound decimal.Decimal
	Interest           decimal.Decimal
}

// PeriodInput carries everything needed to compute interest for one posting period.
type PeriodInput struct {
	Interval       Interval
	OpeningBalance decimal.Decimal
	// Transactions are the non-reversed, non-interest entries dated inside the interval, in ledger order.
	Transactions        []*domain.Transaction
	Compounding         domain.PeriodFrequency
	Method              domain.InterestCalculationMethod
	AnnualRate          decimal.Decimal // fraction, 0.12 for 12%
	DaysInYear          domain.DaysInYearConvention
	UpToDate            time.Time
	InterestTransfer    bool // interest leaves the account, so it is not carried into the closing balance
	MinBalance          decimal.Decimal
	OverdraftRate       decimal.Decimal // fraction
	MinOverdraftBalance decimal.Decimal
	PostAtPeriodEnd     bool
	FiscalYearStart     time.Month
	Currency            domain.Currency
	Rounding            domain.RoundingMode
}

// PostingPeriod is the computed result for one posting interval. It is never persisted.
type PostingPeriod struct {
	Interval           Interval
	PostingDate        time.Time
	OpeningBalance     decimal.Decimal
	Transactions       []*domain.Transaction
	DailyBalances      []BalanceSpan
	CompoundingPeriods []CompoundingPeriod
	InterestUnrounded  decimal.Decimal
	InterestEarned     decimal.Decimal
	// Withholding is the tax taken on InterestEarned when the period is posted.
	Withholding    decimal.Decimal
	ClosingBalance decimal.Decimal
}

// Postable reports whether the period closes on a real boundary no later than upTo.
func (p PostingPeriod) Postable(upTo time.Time) bool {
	return !p.Interval.Partial && !p.PostingDate.After(upTo)
}

// ComputePeriod walks the daily balances of one posting period and compounds
// interest at each compounding boundary inside it. Per-span interest keeps
// calcScale digits; the period total is rounded once to the currency precision.
func ComputePeriod(in PeriodInput) PostingPeriod {
	iv := in.Interval.Interval
	if !in.UpToDate.IsZero() && iv.End.After(in.UpToDate) {
		iv.End = in.UpToDate
	}

	postingDate := iv.End
	if !in.PostAtPeriodEnd {
		postingDate = dates.AddDays(iv.End, 1)
	}

	spans := dailyBalances(iv, in.OpeningBalance, in.Transactions)
	endOfPeriodBalance := spans[len(spans)-1].Balance

	p := PostingPeriod{
		Interval:          in.Interval,
		PostingDate:       postingDate,
		OpeningBalance:    in.OpeningBalance,
		Transactions:      in.Transactions,
		DailyBalances:     spans,
		InterestUnrounded: decimal.Zero,
		InterestEarned:    in.Currency.Zero(),
		Withholding:       in.Currency.Zero(),
		ClosingBalance:    endOfPeriodBalance,
	}

	if in.AnnualRate.IsZero() && in.OverdraftRate.IsZero() {
		return p
	}

	compounded := decimal.Zero
	for cs := iv.Start; !cs.After(iv.End); {
		ce := dates.Min(in.Compounding.PeriodEnd(cs, in.FiscalYearStart), iv.End)
		sub := dates.Interval{Start: cs, End: ce}

		var earned decimal.Decimal
		switch in.Method {
		case domain.AverageDailyBalance:
			earned = in.averageDailyBalanceInterest(sub, spans, compounded)
		case domain.DailyBalance:
			earned = in.dailyBalanceInterest(sub, spans, compounded)
		default:
			earned = in.dailyBalanceInterest(sub, spans, compounded)
		}

		p.CompoundingPeriods = append(p.CompoundingPeriods, CompoundingPeriod{
			Interval:           sub,
			InterestToCompound: compounded,
			Interest:           earned,
		})
		compounded = compounded.Add(earned)
		cs = dates.AddDays(ce, 1)
	}

	p.InterestUnrounded = compounded
	p.InterestEarned = in.Currency.Round(compounded, in.Rounding)
	if !in.InterestTransfer {
		p.ClosingBalance = endOfPeriodBalance.Add(p.InterestEarned)
	}
	return p
}

// dailyBalances splits iv into spans of constant end-of-day balance. Sign
// changes only happen at transaction boundaries.
func dailyBalances(iv dates.Interval, opening decimal.Decimal, txns []*domain.Transaction) []BalanceSpan {
	spans := make([]BalanceSpan, 0, len(txns)+1)
	balance := opening
	cursor := iv.Start
	for _, t := range txns {
		d := t.TransactionDate
		if d.Before(iv.Start) || d.After(iv.End) {
			continue
		}
		if d.After(cursor) {
			spans = append(spans, BalanceSpan{Interval: dates.Interval{Start: cursor, End: dates.AddDays(d, -1)}, Balance: balance})
			cursor = d
		}
		balance = balance.Add(t.SignedAmount())
	}
	return append(spans, BalanceSpan{Interval: dates.Interval{Start: cursor, End: iv.End}, Balance: balance})
}

func (in PeriodInput) dailyBalanceInterest(sub dates.Interval, spans []BalanceSpan, compounded decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, s := range spans {
		from, to := dates.Max(s.Start, sub.Start), dates.Min(s.End, sub.End)
		if to.Before(from) {
			continue
		}
		total = total.Add(in.interestOn(s.Balance.Add(compounded), dates.Interval{Start: from, End: to}))
	}
	return total
}

func (in PeriodInput) averageDailyBalanceInterest(sub dates.Interval, spans []BalanceSpan, compounded decimal.Decimal) decimal.Decimal {
	weighted := decimal.Zero
	for _, s := range spans {
		from, to := dates.Max(s.Start, sub.Start), dates.Min(s.End, sub.End)
		if to.Before(from) {
			continue
		}
		days := decimal.NewFromInt(int64(dates.DaysInclusive(from, to)))
		weighted = weighted.Add(s.Balance.Add(compounded).Mul(days))
	}
	average := weighted.Div(decimal.NewFromInt(int64(sub.Days())))
	return in.interestOn(average, sub)
}

// interestOn returns the interest a balance earns over span. Negative balances
// accrue overdraft interest as a negative amount.
func (in PeriodInput) interestOn(balance decimal.Decimal, span dates.Interval) decimal.Decimal {
	var rate decimal.Decimal
	switch {
	case balance.IsNegative():
		if in.OverdraftRate.IsZero() || balance.Abs().LessThan(in.MinOverdraftBalance) {
			return decimal.Zero
		}
		rate = in.OverdraftRate
	default:
		if in.AnnualRate.IsZero() || balance.IsZero() || balance.LessThan(in.MinBalance) {
			return decimal.Zero
		}
		rate = in.AnnualRate
	}

	base := balance.Mul(rate)
	total := decimal.Zero
	for from := span.Start; !from.After(span.End); {
		to := span.End
		if in.DaysInYear == domain.DaysActual {
			to = dates.Min(to, dates.EndOfYear(from))
		}
		days := decimal.NewFromInt(int64(dates.DaysInclusive(from, to)))
		diy := decimal.NewFromInt(int64(in.DaysInYear.DaysInYear(from.Year())))
		total = total.Add(base.Mul(days).Div(diy).RoundBank(calcScale))
		from = dates.AddDays(to, 1)
	}
	return total
}
