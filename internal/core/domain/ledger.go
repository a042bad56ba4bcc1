package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Ledger is the ordered, in-memory transaction history of one account.
// Entries are never removed; corrections reverse an entry and add a new one.
type Ledger struct {
	AccountID string
	entries   []*Transaction
}

// NewLedger builds a ledger from persisted transactions.
func NewLedger(accountID string, txns []Transaction) *Ledger {
	l := &Ledger{AccountID: accountID, entries: make([]*Transaction, 0, len(txns))}
	for i := range txns {
		t := txns[i]
		l.entries = append(l.entries, &t)
	}
	l.sort()
	return l
}

// less orders entries by transaction date, then creation time, then id.
func less(a, b *Transaction) bool {
	if !a.TransactionDate.Equal(b.TransactionDate) {
		return a.TransactionDate.Before(b.TransactionDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.TransactionID < b.TransactionID
}

func (l *Ledger) sort() {
	sort.SliceStable(l.entries, func(i, j int) bool { return less(l.entries[i], l.entries[j]) })
}

// Entries returns all entries in ledger order, reversed ones included.
func (l *Ledger) Entries() []*Transaction {
	return l.entries
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Add inserts an entry at its ledger position.
func (l *Ledger) Add(t *Transaction) {
	l.entries = append(l.entries, t)
	l.sort()
}

// Find returns the entry with the given id, or nil.
func (l *Ledger) Find(transactionID string) *Transaction {
	for _, t := range l.entries {
		if t.TransactionID == transactionID {
			return t
		}
	}
	return nil
}

// ActiveInterestPostingOn returns the non-reversed interest or overdraft
// interest entry dated exactly on date.
func (l *Ledger) ActiveInterestPostingOn(date time.Time) *Transaction {
	for _, t := range l.entries {
		if t.IsActiveInterestPosting() && t.TransactionDate.Equal(date) {
			return t
		}
	}
	return nil
}

// ActiveWithholdingOn returns the non-reversed withholding entry dated on date.
func (l *Ledger) ActiveWithholdingOn(date time.Time) *Transaction {
	for _, t := range l.entries {
		if !t.Reversed && t.Kind == WithholdTax && t.TransactionDate.Equal(date) {
			return t
		}
	}
	return nil
}

// LastActiveOnOrBefore returns the last non-reversed entry dated on or before date.
func (l *Ledger) LastActiveOnOrBefore(date time.Time) *Transaction {
	var last *Transaction
	for _, t := range l.entries {
		if t.TransactionDate.After(date) {
			break
		}
		if !t.Reversed {
			last = t
		}
	}
	return last
}

// LastActiveDate returns the date of the latest non-reversed entry, or the zero time.
func (l *Ledger) LastActiveDate() time.Time {
	for i := len(l.entries) - 1; i >= 0; i-- {
		if !l.entries[i].Reversed {
			return l.entries[i].TransactionDate
		}
	}
	return time.Time{}
}

// UserPostingDates returns the dates of active interest postings made on ad hoc dates.
func (l *Ledger) UserPostingDates() []time.Time {
	var out []time.Time
	for _, t := range l.entries {
		if t.IsActiveInterestPosting() && t.IsUserPosting {
			out = append(out, t.TransactionDate)
		}
	}
	return out
}

// NonInterestBetween returns non-reversed, balance-moving entries dated within
// [from, to], in ledger order. Interest postings and the withholding taken on
// them are left out; the engine carries both forward itself.
func (l *Ledger) NonInterestBetween(from, to time.Time) []*Transaction {
	var out []*Transaction
	for _, t := range l.entries {
		if t.Reversed || t.Kind.IsInterest() || t.Kind == AccrualInterest || t.Kind == WithholdTax {
			continue
		}
		if t.TransactionDate.Before(from) || t.TransactionDate.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// LowestBalanceFrom returns the lowest running balance from date onwards once
// delta is booked on date after the entries already dated there.
func (l *Ledger) LowestBalanceFrom(date time.Time, delta decimal.Decimal) decimal.Decimal {
	balance := decimal.Zero
	var lowest *decimal.Decimal
	track := func() {
		if lowest == nil || balance.LessThan(*lowest) {
			b := balance
			lowest = &b
		}
	}

	booked := false
	for _, t := range l.entries {
		if !booked && t.TransactionDate.After(date) {
			balance = balance.Add(delta)
			booked = true
			track()
		}
		balance = balance.Add(t.SignedAmount())
		if booked {
			track()
		}
	}
	if !booked {
		balance = balance.Add(delta)
		track()
	}
	return *lowest
}

// Balance sums the signed amounts of all non-reversed entries.
func (l *Ledger) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, t := range l.entries {
		total = total.Add(t.SignedAmount())
	}
	return total
}

// Snapshot returns value copies of all entries in ledger order.
func (l *Ledger) Snapshot() []Transaction {
	out := make([]Transaction, len(l.entries))
	for i, t := range l.entries {
		out[i] = *t
	}
	return out
}
