package interest

import (
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string, kind domain.TransactionKind, date time.Time, amount int64, persisted bool) domain.Transaction {
	return domain.Transaction{
		TransactionID:   id,
		AccountID:       "acc-1",
		Kind:            kind,
		TransactionDate: date,
		Amount:          decimal.NewFromInt(amount),
		Persisted:       persisted,
		AuditFields:     domain.AuditFields{CreatedAt: date},
	}
}

func newTestRecalculator(ledger *domain.Ledger) *balanceRecalculator {
	n := 0
	return &balanceRecalculator{
		ledger:  ledger,
		newID:   func() string { n++; return fmt.Sprintf("new-%d", n) },
		now:     func() time.Time { return dates.Date(2024, 2, 1) },
		changes: &changeSet{},
	}
}

func TestRecalculate_OverdraftTagsAndReplacement(t *testing.T) {
	withdrawal := entry("w1", domain.Withdrawal, dates.Date(2024, 1, 5), 800, true)
	withdrawal.TransferID = "tr-9"
	ledger := domain.NewLedger("acc-1", []domain.Transaction{
		entry("d1", domain.Deposit, dates.Date(2024, 1, 1), 500, true),
		withdrawal,
		entry("d2", domain.Deposit, dates.Date(2024, 1, 10), 1000, false),
	})
	rc := newTestRecalculator(ledger)

	rc.recalculate(decimal.Zero, time.Time{}, dates.Date(2024, 1, 31))

	require.Len(t, rc.changes.reversed, 1)
	require.Len(t, rc.changes.created, 1)
	old := ledger.Find("w1")
	assert.True(t, old.Reversed)
	assert.True(t, old.RunningBalance.IsZero())
	assert.Nil(t, old.BalanceEndDate)

	replacement := rc.changes.created[0]
	assert.Equal(t, "w1", replacement.ReversalOfID)
	assert.Equal(t, "tr-9", replacement.TransferID)
	assert.False(t, replacement.Persisted)
	assert.True(t, replacement.OverdraftAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, replacement.RunningBalance.Equal(decimal.NewFromInt(-300)))

	d2 := ledger.Find("d2")
	assert.True(t, d2.OverdraftAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, d2.RunningBalance.Equal(decimal.NewFromInt(700)))
	assert.Equal(t, 22, d2.BalanceNumberOfDays)
	assert.True(t, d2.CumulativeBalance.Equal(decimal.NewFromInt(15400)))

	assert.Equal(t, 5, replacement.BalanceNumberOfDays)
	assert.Equal(t, dates.Date(2024, 1, 9), *replacement.BalanceEndDate)
	d1 := ledger.Find("d1")
	assert.Equal(t, 4, d1.BalanceNumberOfDays)
	assert.True(t, d1.CumulativeBalance.Equal(decimal.NewFromInt(2000)))
	assert.True(t, d1.OverdraftAmount.IsZero())
}

func TestRecalculate_StableLedgerIsIdempotent(t *testing.T) {
	ledger := domain.NewLedger("acc-1", []domain.Transaction{
		entry("d1", domain.Deposit, dates.Date(2024, 1, 1), 500, false),
		entry("w1", domain.Withdrawal, dates.Date(2024, 1, 5), 800, false),
	})
	rc := newTestRecalculator(ledger)
	rc.recalculate(decimal.Zero, time.Time{}, dates.Date(2024, 1, 31))
	assert.True(t, rc.changes.empty())

	for _, e := range ledger.Entries() {
		e.Persisted = true
	}
	rc.recalculate(decimal.Zero, time.Time{}, dates.Date(2024, 1, 31))
	assert.True(t, rc.changes.empty())
	assert.True(t, ledger.Find("w1").OverdraftAmount.Equal(decimal.NewFromInt(300)))
}

func TestOverdraftPortion(t *testing.T) {
	tests := []struct {
		name   string
		kind   domain.TransactionKind
		amount int64
		before int64
		expect int64
	}{
		{"deposit while positive", domain.Deposit, 100, 50, 0},
		{"deposit repaying part of overdraft", domain.Deposit, 100, -300, 100},
		{"deposit clearing overdraft", domain.Deposit, 500, -300, 300},
		{"withdrawal into overdraft", domain.Withdrawal, 800, 500, 300},
		{"withdrawal while overdrawn", domain.Withdrawal, 50, -10, 50},
		{"hold into negative", domain.AmountHold, 800, 500, 0},
		{"hold while overdrawn", domain.AmountHold, 20, -10, 20},
		{"release while overdrawn", domain.AmountRelease, 20, -10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := entry("x", tt.kind, dates.Date(2024, 1, 1), tt.amount, false)
			got := overdraftPortion(&e, decimal.NewFromInt(tt.before))
			assert.True(t, got.Equal(decimal.NewFromInt(tt.expect)), got.String())
		})
	}
}

func TestRecalculate_PivotTail(t *testing.T) {
	ledger := domain.NewLedger("acc-1", []domain.Transaction{
		entry("d1", domain.Deposit, dates.Date(2024, 1, 1), 500, true),
		entry("d2", domain.Deposit, dates.Date(2024, 2, 3), 100, false),
	})
	ledger.Find("d1").RunningBalance = decimal.NewFromInt(999)
	rc := newTestRecalculator(ledger)

	rc.recalculate(decimal.NewFromInt(500), dates.Date(2024, 1, 31), dates.Date(2024, 2, 29))

	assert.True(t, ledger.Find("d1").RunningBalance.Equal(decimal.NewFromInt(999)), "entries before the pivot are trusted")
	assert.True(t, ledger.Find("d2").RunningBalance.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 27, ledger.Find("d2").BalanceNumberOfDays)
}
