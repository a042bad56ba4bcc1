package interest

import (
	"fmt"
	"time"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine runs the interest posting pipeline over one account's in-memory
// ledger. It holds no per-account state and is safe for concurrent use on
// different accounts.
type Engine struct {
	policy   Policy
	splitter TaxSplitter
	now      func() time.Time
	newID    func() string
}

// Option customises an Engine.
type Option func(*Engine)

// WithTaxSplitter replaces the default tax group percentage split.
func WithTaxSplitter(s TaxSplitter) Option {
	return func(e *Engine) {
		if s != nil {
			e.splitter = s
		}
	}
}

// WithClock sets the wall clock used for audit timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the generator for new transaction ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an Engine for the given policy.
func NewEngine(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy:   policy,
		splitter: groupSplitter{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the engine's posting policy.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Input is one posting or preview request for a single account.
type Input struct {
	Account  *domain.SavingsAccount
	Ledger   *domain.Ledger
	Currency domain.Currency
	TaxGroup *domain.TaxGroup // required when the account withholds tax
	// UpToDate bounds the run. Periods ending after it are computed but not posted.
	UpToDate time.Time
	// PostAsOn requests an ad hoc posting on that date. It also becomes UpToDate.
	PostAsOn *time.Time
	// Today is the business date; dates after it are rejected.
	Today            time.Time
	InterestTransfer bool
	// RateReduction is subtracted from the nominal rate, in percentage points.
	RateReduction decimal.Decimal
	UserID        string
}

// Result describes a run.
type Result struct {
	Mode      string                `json:"mode"`
	StartDate time.Time             `json:"startDate"`
	UpToDate  time.Time             `json:"upToDate"`
	Periods   []PostingPeriod       `json:"-"`
	Created   []*domain.Transaction `json:"created"`
	Reversed  []*domain.Transaction `json:"reversed"`
	Stats     ReconcileStats        `json:"stats"`
	Summary   domain.AccountSummary `json:"summary"`
}

// Mutated reports whether the run changed the ledger.
func (r *Result) Mutated() bool {
	return len(r.Created) > 0 || len(r.Reversed) > 0
}

const (
	ModeFull  = "full"
	ModePivot = "pivot"
)

// CalculateInterestUsing computes the posting periods up to the requested
// date without touching the ledger.
func (e *Engine) CalculateInterestUsing(in Input) (*Result, error) {
	upTo, err := e.resolveUpTo(in)
	if err != nil {
		return nil, err
	}
	res, _, err := e.calculate(in, upTo)
	if err != nil {
		return nil, err
	}
	res.Summary = Summarize(in.Ledger, res.Periods, upTo)
	return res, nil
}

// PostInterest computes interest up to the requested date, reconciles it
// against the ledger and re-derives running balances when anything changed.
// On return the account carries the new posted-till date and summary; the
// caller persists res.Created, res.Reversed and the account atomically.
func (e *Engine) PostInterest(in Input) (*Result, error) {
	upTo, err := e.resolveUpTo(in)
	if err != nil {
		return nil, err
	}
	res, opening, err := e.calculate(in, upTo)
	if err != nil {
		return nil, err
	}

	acc := in.Account
	r := &reconciler{
		account:  acc,
		ledger:   in.Ledger,
		currency: in.Currency,
		mode:     e.policy.RoundingMode,
		newTxn:   e.txnFactory(in),
	}
	if in.PostAsOn != nil {
		end := e.policy.PeriodEndFor(dates.Normalize(*in.PostAsOn))
		r.manualEnd = &end
	}
	if acc.WithholdTax && in.TaxGroup != nil {
		r.withholding = &withholding{
			group:    in.TaxGroup,
			splitter: e.splitter,
			currency: in.Currency,
			mode:     e.policy.RoundingMode,
			newTxn:   r.newTxn,
		}
	}
	r.reconcile(res.Periods, upTo)

	if !r.changes.empty() {
		from := time.Time{}
		if res.Mode == ModePivot {
			from = *acc.InterestPostedTillDate
		}
		rc := &balanceRecalculator{ledger: in.Ledger, newID: e.newID, now: e.now, changes: &r.changes}
		rc.recalculate(opening.anchor, from, upTo)
	}

	res.Created = r.changes.created
	res.Reversed = r.changes.reversed
	res.Stats = r.stats

	calculated := upTo
	acc.LastInterestCalculationDate = &calculated
	if r.postedTill != nil && (acc.InterestPostedTillDate == nil || r.postedTill.After(*acc.InterestPostedTillDate)) {
		till := *r.postedTill
		acc.InterestPostedTillDate = &till
	}
	res.Summary = Summarize(in.Ledger, res.Periods, upTo)
	acc.Summary = res.Summary
	return res, nil
}

// opening is where a run starts. anchor is the balance the recalculator
// resumes from; balance additionally includes interest posted at start in
// next-period-start mode.
type opening struct {
	date    time.Time
	anchor  decimal.Decimal
	balance decimal.Decimal
}

func (e *Engine) calculate(in Input, upTo time.Time) (*Result, opening, error) {
	acc := in.Account
	if err := acc.ValidateInterestSettings(); err != nil {
		return nil, opening{}, fmt.Errorf("%w: account %s has invalid interest configuration: %v", apperrors.ErrDataIntegrity, acc.AccountID, err)
	}

	res := &Result{Mode: ModeFull, UpToDate: upTo}
	if acc.ActivationDate == nil {
		return res, opening{}, nil
	}

	start, err := e.startingPoint(in)
	if err != nil {
		return nil, opening{}, err
	}
	if e.policy.PivotMode && acc.InterestPostedTillDate != nil {
		res.Mode = ModePivot
	}
	res.StartDate = start.date

	var manualEnds []time.Time
	for _, d := range in.Ledger.UserPostingDates() {
		manualEnds = append(manualEnds, e.policy.PeriodEndFor(d))
	}
	if in.PostAsOn != nil {
		manualEnds = append(manualEnds, e.policy.PeriodEndFor(dates.Normalize(*in.PostAsOn)))
	}

	rate := acc.NominalAnnualInterestRate.Sub(in.RateReduction)
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	rate = rate.Div(decimal.NewFromInt(100))

	intervals := Segment(start.date, upTo, acc.PostingPeriod, e.policy.fiscalMonth(), manualEnds)
	balance := start.balance
	for _, iv := range intervals {
		p := ComputePeriod(PeriodInput{
			Interval:            iv,
			OpeningBalance:      balance,
			Transactions:        in.Ledger.NonInterestBetween(iv.Start, iv.End),
			Compounding:         acc.CompoundingPeriod,
			Method:              acc.CalculationMethod,
			AnnualRate:          rate,
			DaysInYear:          acc.DaysInYear,
			UpToDate:            upTo,
			InterestTransfer:    in.InterestTransfer,
			MinBalance:          acc.MinBalanceForInterest,
			OverdraftRate:       acc.OverdraftRateFraction(),
			MinOverdraftBalance: acc.MinOverdraftForInterest,
			PostAtPeriodEnd:     e.policy.PostAtPeriodEnd,
			FiscalYearStart:     e.policy.fiscalMonth(),
			Currency:            in.Currency,
			Rounding:            e.policy.RoundingMode,
		})
		if p.Postable(upTo) {
			p.Withholding = e.periodWithholding(in, p)
			if !in.InterestTransfer {
				p.ClosingBalance = p.ClosingBalance.Sub(p.Withholding)
			}
		}
		res.Periods = append(res.Periods, p)
		balance = p.ClosingBalance
	}
	return res, start, nil
}

// periodWithholding returns the tax the reconciler leaves in the ledger for
// p: the stored withholding when the stored posting still matches, otherwise
// a fresh split of the computed interest.
func (e *Engine) periodWithholding(in Input, p PostingPeriod) decimal.Decimal {
	zero := in.Currency.Zero()
	if !p.InterestEarned.IsPositive() || !in.Account.WithholdTax || in.TaxGroup == nil {
		return zero
	}
	existing := in.Ledger.ActiveInterestPostingOn(p.PostingDate)
	if existing != nil && existing.Kind == domain.InterestPosting &&
		in.Currency.Round(existing.Amount, e.policy.RoundingMode).Equal(p.InterestEarned) {
		if wh := in.Ledger.ActiveWithholdingOn(p.PostingDate); wh != nil {
			return wh.Amount
		}
		return zero
	}
	return domain.TotalTax(e.splitter.SplitTax(p.InterestEarned, p.PostingDate, *in.TaxGroup, in.Currency, e.policy.RoundingMode))
}

// startingPoint resolves the single parameter pair that distinguishes pivot
// from full replay.
func (e *Engine) startingPoint(in Input) (opening, error) {
	acc := in.Account
	if !e.policy.PivotMode || acc.InterestPostedTillDate == nil {
		return opening{date: dates.Normalize(*acc.ActivationDate), anchor: decimal.Zero, balance: decimal.Zero}, nil
	}

	till := dates.Normalize(*acc.InterestPostedTillDate)
	anchor := in.Ledger.LastActiveOnOrBefore(till)
	if anchor == nil {
		return opening{}, fmt.Errorf("%w: %w: account %s has no transaction on or before %s to establish the opening balance",
			apperrors.ErrValidation, apperrors.ErrDataIntegrity, acc.AccountID, dates.Format(till))
	}

	start := dates.AddDays(till, 1)
	o := opening{date: start, anchor: anchor.RunningBalance, balance: anchor.RunningBalance}
	if !e.policy.PostAtPeriodEnd {
		// interest for the period ending at till, and its withholding, is dated start
		for _, t := range in.Ledger.Entries() {
			if !t.TransactionDate.Equal(start) {
				continue
			}
			if t.IsActiveInterestPosting() || (!t.Reversed && t.Kind == domain.WithholdTax) {
				o.balance = o.balance.Add(t.SignedAmount())
			}
		}
	}
	return o, nil
}

// resolveUpTo validates the requested dates against the account and business date.
func (e *Engine) resolveUpTo(in Input) (time.Time, error) {
	acc := in.Account
	if acc == nil || in.Ledger == nil {
		return time.Time{}, fmt.Errorf("%w: account and ledger are required", apperrors.ErrValidation)
	}

	upTo := dates.Normalize(in.UpToDate)
	if in.PostAsOn != nil {
		upTo = dates.Normalize(*in.PostAsOn)
		if last := in.Ledger.LastActiveDate(); !last.IsZero() && upTo.Before(last) {
			return time.Time{}, fmt.Errorf("%w: interest posting date %s is before the last transaction on %s",
				apperrors.ErrValidation, dates.Format(upTo), dates.Format(last))
		}
	}
	if upTo.IsZero() {
		upTo = dates.Normalize(in.Today)
	}
	if upTo.IsZero() {
		return time.Time{}, fmt.Errorf("%w: an interest posting date is required", apperrors.ErrValidation)
	}
	if acc.ActivationDate != nil && upTo.Before(dates.Normalize(*acc.ActivationDate)) {
		return time.Time{}, fmt.Errorf("%w: interest posting date %s is before account activation on %s",
			apperrors.ErrValidation, dates.Format(upTo), dates.Format(*acc.ActivationDate))
	}
	if !in.Today.IsZero() && upTo.After(dates.Normalize(in.Today)) {
		return time.Time{}, fmt.Errorf("%w: interest posting date %s is in the future", apperrors.ErrValidation, dates.Format(upTo))
	}
	return upTo, nil
}

func (e *Engine) txnFactory(in Input) func(domain.TransactionKind, time.Time, decimal.Decimal) *domain.Transaction {
	return func(kind domain.TransactionKind, date time.Time, amount decimal.Decimal) *domain.Transaction {
		now := e.now()
		submitted := dates.Normalize(in.Today)
		if submitted.IsZero() {
			submitted = date
		}
		return &domain.Transaction{
			TransactionID:   e.newID(),
			AccountID:       in.Account.AccountID,
			Kind:            kind,
			TransactionDate: date,
			SubmittedOnDate: submitted,
			Amount:          amount,
			CurrencyCode:    in.Account.CurrencyCode,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     in.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: in.UserID,
			},
		}
	}
}

// RewindForBackdated moves the account's posted-till date back before a
// transaction dated on date, so that a pivot run recomputes the periods it
// touches. The new value is the end of the latest posted period ending before
// date, or nil when there is none.
func (e *Engine) RewindForBackdated(acc *domain.SavingsAccount, ledger *domain.Ledger, date time.Time) {
	if acc.InterestPostedTillDate == nil || date.After(*acc.InterestPostedTillDate) {
		return
	}
	var till *time.Time
	for _, t := range ledger.Entries() {
		if !t.IsActiveInterestPosting() {
			continue
		}
		end := e.policy.PeriodEndFor(t.TransactionDate)
		if end.Before(date) && (till == nil || end.After(*till)) {
			d := end
			till = &d
		}
	}
	acc.InterestPostedTillDate = till
}

// RecalculateBalances replays the whole ledger from a zero balance, refreshing
// running balances and overdraft tags after a non-interest mutation.
func (e *Engine) RecalculateBalances(ledger *domain.Ledger, upTo time.Time) (created, reversed []*domain.Transaction) {
	changes := &changeSet{}
	rc := &balanceRecalculator{ledger: ledger, newID: e.newID, now: e.now, changes: changes}
	rc.recalculate(decimal.Zero, time.Time{}, dates.Normalize(upTo))
	return changes.created, changes.reversed
}
