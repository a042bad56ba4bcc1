package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReconcileStats counts what a posting run did to each computed period.
type ReconcileStats struct {
	Created     int `json:"created"`
	Corrected   int `json:"corrected"`
	Unchanged   int `json:"unchanged"`
	Withholding int `json:"withholding"`
}

// changeSet collects ledger mutations in the order they were made.
type changeSet struct {
	created  []*domain.Transaction
	reversed []*domain.Transaction
}

func (c *changeSet) empty() bool {
	return len(c.created) == 0 && len(c.reversed) == 0
}

// reconciler brings the ledger's interest postings in line with freshly
// computed posting periods. Existing entries are never edited: a wrong
// posting is reversed and a replacement that points at it is added.
type reconciler struct {
	account  *domain.SavingsAccount
	ledger   *domain.Ledger
	currency domain.Currency
	mode     domain.RoundingMode
	// manualEnd is the end of the interval closed by an ad hoc posting request.
	manualEnd   *time.Time
	withholding *withholding
	newTxn      func(kind domain.TransactionKind, date time.Time, amount decimal.Decimal) *domain.Transaction

	changes changeSet
	stats   ReconcileStats
	// postedTill is the end of the last period that has an active posting.
	postedTill *time.Time
}

func (r *reconciler) reconcile(periods []PostingPeriod, upTo time.Time) {
	for _, p := range periods {
		if !p.Postable(upTo) {
			continue
		}
		r.reconcilePeriod(p)
	}
}

func (r *reconciler) reconcilePeriod(p PostingPeriod) {
	amount := p.InterestEarned
	existing := r.ledger.ActiveInterestPostingOn(p.PostingDate)

	if existing == nil {
		if amount.IsZero() {
			return
		}
		r.post(p, amount, r.account.WithholdTax, "")
		r.stats.Created++
		r.markPosted(p)
		return
	}

	current := r.currency.Round(existing.Amount, r.mode)
	if existing.Kind == domain.OverdraftInterest {
		current = current.Neg()
	}
	if current.Equal(amount) {
		r.stats.Unchanged++
		r.markPosted(p)
		return
	}

	applyTax := r.account.WithholdTax
	r.reverse(existing)
	if wh := r.ledger.ActiveWithholdingOn(p.PostingDate); wh != nil {
		r.reverse(wh)
		applyTax = true
	}
	if !amount.IsZero() {
		r.post(p, amount, applyTax, existing.TransactionID)
		r.markPosted(p)
	}
	r.stats.Corrected++
}

func (r *reconciler) post(p PostingPeriod, amount decimal.Decimal, applyTax bool, replaces string) {
	kind := domain.InterestPosting
	if amount.IsNegative() {
		kind = domain.OverdraftInterest
	}
	t := r.newTxn(kind, p.PostingDate, amount.Abs())
	t.IsUserPosting = p.Interval.UserPosting
	t.IsManual = r.isManual(p)
	t.ReversalOfID = replaces
	r.add(t)

	if !applyTax || kind != domain.InterestPosting {
		return
	}
	if wh := r.withholding.apply(amount, p.PostingDate); wh != nil {
		wh.IsManual = t.IsManual
		r.add(wh)
		r.stats.Withholding++
	}
}

func (r *reconciler) isManual(p PostingPeriod) bool {
	return r.manualEnd != nil && p.Interval.UserPosting && p.Interval.End.Equal(*r.manualEnd)
}

func (r *reconciler) add(t *domain.Transaction) {
	r.ledger.Add(t)
	r.changes.created = append(r.changes.created, t)
}

func (r *reconciler) reverse(t *domain.Transaction) {
	t.Reverse()
	r.changes.reversed = append(r.changes.reversed, t)
}

func (r *reconciler) markPosted(p PostingPeriod) {
	end := p.Interval.End
	if r.postedTill == nil || end.After(*r.postedTill) {
		r.postedTill = &end
	}
}
