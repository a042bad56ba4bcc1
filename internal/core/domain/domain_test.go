package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodFrequency_PeriodEnd(t *testing.T) {
	tests := []struct {
		name   string
		freq   domain.PeriodFrequency
		fy     time.Month
		date   time.Time
		expect time.Time
	}{
		{"daily", domain.Daily, time.January, dates.Date(2024, 3, 5), dates.Date(2024, 3, 5)},
		{"monthly leap february", domain.Monthly, time.January, dates.Date(2024, 2, 10), dates.Date(2024, 2, 29)},
		{"monthly on month end", domain.Monthly, time.January, dates.Date(2024, 1, 31), dates.Date(2024, 1, 31)},
		{"quarterly calendar", domain.Quarterly, time.January, dates.Date(2024, 2, 10), dates.Date(2024, 3, 31)},
		{"quarterly fiscal april", domain.Quarterly, time.April, dates.Date(2024, 2, 10), dates.Date(2024, 3, 31)},
		{"quarterly fiscal april mid year", domain.Quarterly, time.April, dates.Date(2024, 5, 1), dates.Date(2024, 6, 30)},
		{"biannual calendar", domain.BiAnnual, time.January, dates.Date(2024, 7, 1), dates.Date(2024, 12, 31)},
		{"annual fiscal april before start", domain.Annual, time.April, dates.Date(2024, 2, 10), dates.Date(2024, 3, 31)},
		{"annual fiscal april after start", domain.Annual, time.April, dates.Date(2024, 4, 1), dates.Date(2025, 3, 31)},
		{"annual fiscal july", domain.Annual, time.July, dates.Date(2024, 12, 31), dates.Date(2025, 6, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.freq.PeriodEnd(tt.date, tt.fy))
		})
	}
}

func TestTransactionKind_Effect(t *testing.T) {
	credits := []domain.TransactionKind{domain.Deposit, domain.InterestPosting, domain.TransferIn, domain.AmountRelease}
	debits := []domain.TransactionKind{domain.Withdrawal, domain.OverdraftInterest, domain.WithholdTax, domain.Charge, domain.Fee, domain.TransferOut, domain.AmountHold}

	for _, k := range credits {
		e, err := k.Effect()
		require.NoError(t, err)
		assert.Equal(t, domain.EffectCredit, e, k)
	}
	for _, k := range debits {
		e, err := k.Effect()
		require.NoError(t, err)
		assert.Equal(t, domain.EffectDebit, e, k)
	}
	e, err := domain.AccrualInterest.Effect()
	require.NoError(t, err)
	assert.Equal(t, domain.EffectNone, e)

	_, err = domain.TransactionKind("BOGUS").Effect()
	assert.Error(t, err)
}

func TestTransaction_SignedAmount(t *testing.T) {
	dep := &domain.Transaction{Kind: domain.Deposit, Amount: decimal.NewFromInt(100)}
	wd := &domain.Transaction{Kind: domain.Withdrawal, Amount: decimal.NewFromInt(40)}
	rev := &domain.Transaction{Kind: domain.Deposit, Amount: decimal.NewFromInt(70), Reversed: true}

	assert.True(t, dep.SignedAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, wd.SignedAmount().Equal(decimal.NewFromInt(-40)))
	assert.True(t, rev.SignedAmount().IsZero())
}

func TestTransaction_Reverse(t *testing.T) {
	end := dates.Date(2024, 1, 31)
	txn := &domain.Transaction{
		Kind:              domain.Deposit,
		Amount:            decimal.NewFromInt(10),
		RunningBalance:    decimal.NewFromInt(10),
		CumulativeBalance: decimal.NewFromInt(310),
		BalanceEndDate:    &end,
	}
	txn.Reverse()
	assert.True(t, txn.Reversed)
	assert.True(t, txn.RunningBalance.IsZero())
	assert.Nil(t, txn.BalanceEndDate)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(10)), "amount is never overwritten")
}

func TestLedger_Ordering(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("acc-1", []domain.Transaction{
		{TransactionID: "b", Kind: domain.Deposit, TransactionDate: dates.Date(2024, 1, 15), Amount: decimal.NewFromInt(5), AuditFields: domain.AuditFields{CreatedAt: created}},
		{TransactionID: "a", Kind: domain.Deposit, TransactionDate: dates.Date(2024, 1, 1), Amount: decimal.NewFromInt(1), AuditFields: domain.AuditFields{CreatedAt: created.Add(time.Hour)}},
		{TransactionID: "c", Kind: domain.Withdrawal, TransactionDate: dates.Date(2024, 1, 15), Amount: decimal.NewFromInt(2), AuditFields: domain.AuditFields{CreatedAt: created.Add(-time.Hour)}},
	})

	ids := []string{}
	for _, e := range l.Entries() {
		ids = append(ids, e.TransactionID)
	}
	assert.Equal(t, []string{"a", "c", "b"}, ids)
	assert.True(t, l.Balance().Equal(decimal.NewFromInt(4)))
	assert.Equal(t, dates.Date(2024, 1, 15), l.LastActiveDate())

	l.Add(&domain.Transaction{TransactionID: "d", Kind: domain.InterestPosting, TransactionDate: dates.Date(2024, 1, 31), Amount: decimal.NewFromInt(1), IsUserPosting: true})
	assert.NotNil(t, l.ActiveInterestPostingOn(dates.Date(2024, 1, 31)))
	assert.Len(t, l.UserPostingDates(), 1)
	l.Add(&domain.Transaction{TransactionID: "e", Kind: domain.WithholdTax, TransactionDate: dates.Date(2024, 1, 31), Amount: decimal.RequireFromString("0.1")})
	assert.NotNil(t, l.ActiveWithholdingOn(dates.Date(2024, 1, 31)))
	assert.Len(t, l.NonInterestBetween(dates.Date(2024, 1, 1), dates.Date(2024, 1, 31)), 3)
	assert.Equal(t, "b", l.LastActiveOnOrBefore(dates.Date(2024, 1, 20)).TransactionID)
}

func TestRoundingMode_Apply(t *testing.T) {
	v := decimal.RequireFromString("2.345")
	n := decimal.RequireFromString("-2.345")
	assert.Equal(t, "2.34", domain.RoundHalfEven.Apply(v, 2).String())
	assert.Equal(t, "2.35", domain.RoundHalfUp.Apply(v, 2).String())
	assert.Equal(t, "2.34", domain.RoundHalfDown.Apply(v, 2).String())
	assert.Equal(t, "2.35", domain.RoundUp.Apply(v, 2).String())
	assert.Equal(t, "2.34", domain.RoundDown.Apply(v, 2).String())
	assert.Equal(t, "-2.34", domain.RoundCeiling.Apply(n, 2).String())
	assert.Equal(t, "-2.35", domain.RoundFloor.Apply(n, 2).String())
	assert.Equal(t, "2.35", domain.RoundHalfDown.Apply(decimal.RequireFromString("2.3451"), 2).String())

	_, err := domain.ParseRoundingMode("sideways")
	assert.Error(t, err)
	mode, err := domain.ParseRoundingMode("half_up")
	require.NoError(t, err)
	assert.Equal(t, domain.RoundHalfUp, mode)
}

func TestSavingsAccount_ActivateAndLockin(t *testing.T) {
	acc := &domain.SavingsAccount{
		AccountID:       "acc-1",
		Status:          domain.StatusSubmitted,
		SubmittedOnDate: dates.Date(2024, 1, 1),
		LockinFrequency: 3,
		LockinUnit:      domain.LockinMonths,
	}
	require.NoError(t, acc.Activate(dates.Date(2024, 1, 1)))
	assert.True(t, acc.IsActive())
	require.NotNil(t, acc.LockedInUntil)
	assert.Equal(t, dates.Date(2024, 3, 31), *acc.LockedInUntil)
	assert.True(t, acc.IsLockedIn(dates.Date(2024, 3, 31)))
	assert.False(t, acc.IsLockedIn(dates.Date(2024, 4, 1)))

	assert.Error(t, acc.Activate(dates.Date(2024, 2, 1)), "already active")
}

func TestSavingsAccount_ValidateInterestSettings(t *testing.T) {
	acc := &domain.SavingsAccount{
		NominalAnnualInterestRate: decimal.NewFromInt(5),
		CompoundingPeriod:         domain.Quarterly,
		PostingPeriod:             domain.Monthly,
		CalculationMethod:         domain.DailyBalance,
		DaysInYear:                domain.Days365,
	}
	err := acc.ValidateInterestSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coarser")

	acc.CompoundingPeriod = domain.Daily
	assert.NoError(t, acc.ValidateInterestSettings())

	acc.WithholdTax = true
	assert.Error(t, acc.ValidateInterestSettings())
}

func TestLedger_LowestBalanceFrom(t *testing.T) {
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	l := domain.NewLedger("acc-1", []domain.Transaction{
		{TransactionID: "d1", Kind: domain.Deposit, TransactionDate: dates.Date(2024, 1, 1), Amount: decimal.NewFromInt(1000), AuditFields: domain.AuditFields{CreatedAt: created}},
		{TransactionID: "w1", Kind: domain.Withdrawal, TransactionDate: dates.Date(2024, 1, 20), Amount: decimal.NewFromInt(700), AuditFields: domain.AuditFields{CreatedAt: created}},
		{TransactionID: "d2", Kind: domain.Deposit, TransactionDate: dates.Date(2024, 2, 1), Amount: decimal.NewFromInt(1000), AuditFields: domain.AuditFields{CreatedAt: created}},
	})

	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{name: "before a later debit", date: dates.Date(2024, 1, 10), want: "-100"},
		{name: "after the later debit", date: dates.Date(2024, 1, 25), want: "-100"},
		{name: "after every entry", date: dates.Date(2024, 2, 5), want: "900"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := l.LowestBalanceFrom(tc.date, decimal.NewFromInt(-400))
			assert.Equal(t, tc.want, got.String())
		})
	}
}
