package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsTransaction is the savings_transactions row.
type SavingsTransaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	Kind            string          `db:"kind"`
	TransactionDate time.Time       `db:"transaction_date"`
	SubmittedOnDate time.Time       `db:"submitted_on_date"`
	Amount          decimal.Decimal `db:"amount"`
	CurrencyCode    string          `db:"currency_code"`

	RunningBalance      decimal.Decimal `db:"running_balance"`
	CumulativeBalance   decimal.Decimal `db:"cumulative_balance"`
	BalanceEndDate      *time.Time      `db:"balance_end_date"`
	BalanceNumberOfDays int             `db:"balance_number_of_days"`
	OverdraftAmount     decimal.Decimal `db:"overdraft_amount"`

	Reversed      bool    `db:"is_reversed"`
	ReversalOfID  *string `db:"reversal_of_id"`
	IsManual      bool    `db:"is_manual"`
	IsUserPosting bool    `db:"is_user_posting"`
	ChargeID      *string `db:"charge_id"`
	TransferID    *string `db:"transfer_id"`
	Notes         *string `db:"notes"`

	AuditFields
}

// TaxSplit is the savings_transaction_tax_splits row.
type TaxSplit struct {
	TransactionID  string          `db:"transaction_id"`
	TaxComponentID string          `db:"tax_component_id"`
	Name           string          `db:"name"`
	Percentage     decimal.Decimal `db:"percentage"`
	Amount         decimal.Decimal `db:"amount"`
}
