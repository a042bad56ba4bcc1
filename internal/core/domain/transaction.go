package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the economic or informational event a ledger entry records.
type TransactionKind string

const (
	Deposit           TransactionKind = "DEPOSIT"
	Withdrawal        TransactionKind = "WITHDRAWAL"
	InterestPosting   TransactionKind = "INTEREST_POSTING"
	OverdraftInterest TransactionKind = "OVERDRAFT_INTEREST"
	AccrualInterest   TransactionKind = "ACCRUAL_INTEREST"
	WithholdTax       TransactionKind = "WITHHOLD_TAX"
	Charge            TransactionKind = "CHARGE"
	Fee               TransactionKind = "FEE"
	TransferIn        TransactionKind = "TRANSFER_IN"
	TransferOut       TransactionKind = "TRANSFER_OUT"
	AmountHold        TransactionKind = "AMOUNT_HOLD"
	AmountRelease     TransactionKind = "AMOUNT_RELEASE"
)

// Effect describes how a kind moves the running balance.
type Effect int

const (
	EffectNone Effect = iota
	EffectCredit
	EffectDebit
)

// Effect returns the balance direction of the kind. Hold entries reduce the
// balance like debits and releases restore it like credits.
func (k TransactionKind) Effect() (Effect, error) {
	switch k {
	case Deposit, InterestPosting, TransferIn, AmountRelease:
		return EffectCredit, nil
	case Withdrawal, OverdraftInterest, WithholdTax, Charge, Fee, TransferOut, AmountHold:
		return EffectDebit, nil
	case AccrualInterest:
		return EffectNone, nil
	default:
		return EffectNone, fmt.Errorf("unknown transaction kind %q", string(k))
	}
}

// IsInterest reports whether the kind is produced by interest posting.
func (k TransactionKind) IsInterest() bool {
	switch k {
	case InterestPosting, OverdraftInterest:
		return true
	case Deposit, Withdrawal, AccrualInterest, WithholdTax, Charge, Fee, TransferIn, TransferOut, AmountHold, AmountRelease:
		return false
	default:
		return false
	}
}

// IsUserReversible reports whether a user may undo an entry of this kind.
// Engine-generated entries are corrected only through re-posting.
func (k TransactionKind) IsUserReversible() bool {
	switch k {
	case Deposit, Withdrawal, Charge, Fee, AmountHold, AmountRelease:
		return true
	case InterestPosting, OverdraftInterest, AccrualInterest, WithholdTax, TransferIn, TransferOut:
		return false
	default:
		return false
	}
}

// Validate reports an error for values outside the enum.
func (k TransactionKind) Validate() error {
	_, err := k.Effect()
	return err
}

// TaxSplit is the amount withheld for one tax component.
type TaxSplit struct {
	TaxComponentID string          `json:"taxComponentID"`
	Name           string          `json:"name"`
	Percentage     decimal.Decimal `json:"percentage"`
	Amount         decimal.Decimal `json:"amount"`
}

// Transaction is one ledger entry against a savings account. Amount is the
// unsigned magnitude; the sign comes from Kind. Once created only Reversed and
// the derived balance annotations change.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`   // Primary Key (e.g., UUID)
	AccountID       string          `json:"accountID"`       // FK -> savings_accounts.account_id
	Kind            TransactionKind `json:"kind"`            // DEPOSIT, WITHDRAWAL, ...
	TransactionDate time.Time       `json:"transactionDate"` // Value date
	SubmittedOnDate time.Time       `json:"submittedOnDate"` // Business date the entry was captured
	Amount          decimal.Decimal `json:"amount"`          // Positive magnitude
	CurrencyCode    string          `json:"currencyCode"`

	// Derived by the daily balance recalculator.
	RunningBalance      decimal.Decimal `json:"runningBalance"`
	CumulativeBalance   decimal.Decimal `json:"cumulativeBalance"`
	BalanceEndDate      *time.Time      `json:"balanceEndDate,omitempty"`
	BalanceNumberOfDays int             `json:"balanceNumberOfDays"`
	OverdraftAmount     decimal.Decimal `json:"overdraftAmount"`

	Reversed      bool   `json:"reversed"`
	ReversalOfID  string `json:"reversalOfID,omitempty"` // ID of the superseded entry this one replaces
	IsManual      bool   `json:"isManual"`               // user-triggered rather than system-triggered
	IsUserPosting bool   `json:"isUserPosting"`          // posted on an ad hoc posting date

	ChargeID   string     `json:"chargeID,omitempty"`
	TransferID string     `json:"transferID,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	TaxSplits  []TaxSplit `json:"taxSplits,omitempty"`
	Persisted  bool       `json:"-"`
	AuditFields
}

// SignedAmount returns the amount with the balance direction applied.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Reversed {
		return decimal.Zero
	}
	effect, err := t.Kind.Effect()
	if err != nil {
		return decimal.Zero
	}
	switch effect {
	case EffectCredit:
		return t.Amount
	case EffectDebit:
		return t.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// IsActiveInterestPosting reports a non-reversed interest or overdraft-interest entry.
func (t *Transaction) IsActiveInterestPosting() bool {
	return !t.Reversed && t.Kind.IsInterest()
}

// Reverse marks the entry reversed and clears its balance contribution.
func (t *Transaction) Reverse() {
	t.Reversed = true
	t.ZeroBalanceFields()
}

// ZeroBalanceFields clears the derived balance annotations.
func (t *Transaction) ZeroBalanceFields() {
	t.RunningBalance = decimal.Zero
	t.CumulativeBalance = decimal.Zero
	t.BalanceEndDate = nil
	t.BalanceNumberOfDays = 0
	t.OverdraftAmount = decimal.Zero
}

// Validate checks the invariants every entry must hold.
func (t *Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must not be negative for transaction ID %s", t.TransactionID)
	}
	if t.TransactionDate.IsZero() {
		return fmt.Errorf("transaction date is required for transaction ID %s", t.TransactionID)
	}
	return nil
}
