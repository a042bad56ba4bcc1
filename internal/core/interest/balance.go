package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
)

// balanceRecalculator re-derives the running balance, overdraft portion and
// balance span annotations of ledger entries after a mutation.
type balanceRecalculator struct {
	ledger *domain.Ledger
	newID  func() string
	now    func() time.Time

	changes *changeSet
}

// recalculate walks entries dated after from (all entries when from is zero)
// starting at opening. A persisted entry whose overdraft portion changes is
// reversed and replaced by a copy carrying the corrected tag.
func (b *balanceRecalculator) recalculate(opening decimal.Decimal, from, upTo time.Time) {
	tail := b.tail(from)

	running := opening
	var replacements []*domain.Transaction
	for _, t := range tail {
		if t.Reversed {
			t.ZeroBalanceFields()
			continue
		}

		overdraft := overdraftPortion(t, running)
		running = running.Add(t.SignedAmount())

		if t.Persisted && !overdraft.Equal(t.OverdraftAmount) {
			r := b.replace(t)
			r.OverdraftAmount = overdraft
			r.RunningBalance = running
			replacements = append(replacements, r)
			continue
		}
		t.OverdraftAmount = overdraft
		t.RunningBalance = running
	}
	for _, r := range replacements {
		b.ledger.Add(r)
		b.changes.created = append(b.changes.created, r)
	}

	b.annotateSpans(b.tail(from), upTo)
}

func (b *balanceRecalculator) tail(from time.Time) []*domain.Transaction {
	entries := b.ledger.Entries()
	if from.IsZero() {
		return entries
	}
	for i, t := range entries {
		if t.TransactionDate.After(from) {
			return entries[i:]
		}
	}
	return nil
}

// overdraftPortion returns how much of t is attributable to the account being
// overdrawn, given the balance before t.
func overdraftPortion(t *domain.Transaction, before decimal.Decimal) decimal.Decimal {
	overdraft := decimal.Zero
	effect, _ := t.Kind.Effect()
	if before.IsNegative() {
		switch {
		case effect == domain.EffectCredit:
			overdraft = decimal.Min(t.Amount, before.Neg())
		case effect == domain.EffectDebit:
			overdraft = t.Amount
		}
	}
	after := before.Add(t.SignedAmount())
	if overdraft.IsZero() && after.IsNegative() && t.Kind != domain.AmountHold {
		overdraft = after.Neg()
	}
	return overdraft
}

// replace reverses t and returns an unpersisted copy that keeps t's position.
func (b *balanceRecalculator) replace(t *domain.Transaction) *domain.Transaction {
	t.Reverse()
	b.changes.reversed = append(b.changes.reversed, t)

	r := &domain.Transaction{
		TransactionID:   b.newID(),
		AccountID:       t.AccountID,
		Kind:            t.Kind,
		TransactionDate: t.TransactionDate,
		SubmittedOnDate: t.SubmittedOnDate,
		Amount:          t.Amount,
		CurrencyCode:    t.CurrencyCode,
		ReversalOfID:    t.TransactionID,
		IsManual:        t.IsManual,
		IsUserPosting:   t.IsUserPosting,
		ChargeID:        t.ChargeID,
		TransferID:      t.TransferID,
		Notes:           t.Notes,
		TaxSplits:       t.TaxSplits,
		AuditFields:     t.AuditFields,
	}
	r.LastUpdatedAt = b.now()
	r.Version = 0
	return r
}

// annotateSpans walks backwards so each entry's balance holds until the day
// before the next entry, the last one until upTo.
func (b *balanceRecalculator) annotateSpans(tail []*domain.Transaction, upTo time.Time) {
	end := upTo
	for i := len(tail) - 1; i >= 0; i-- {
		t := tail[i]
		if t.Reversed || t.Kind.IsInterest() {
			continue
		}
		days := dates.DaysInclusive(t.TransactionDate, end)
		if days < 0 {
			days = 0
		}
		spanEnd := end
		t.BalanceEndDate = &spanEnd
		t.BalanceNumberOfDays = days
		t.CumulativeBalance = t.RunningBalance.Mul(decimal.NewFromInt(int64(days)))
		end = dates.AddDays(t.TransactionDate, -1)
	}
}
