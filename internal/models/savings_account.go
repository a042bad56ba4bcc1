package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SavingsAccount is the savings_accounts row. Nullable columns use pointers.
type SavingsAccount struct {
	AccountID    string `db:"account_id"`
	AccountNo    string `db:"account_no"`
	ProductType  string `db:"product_type"`
	Status       string `db:"status"`
	CurrencyCode string `db:"currency_code"`

	NominalAnnualInterestRate          decimal.Decimal `db:"nominal_annual_interest_rate"`
	NominalAnnualOverdraftInterestRate decimal.Decimal `db:"nominal_annual_overdraft_interest_rate"`
	CompoundingPeriod                  string          `db:"compounding_period"`
	PostingPeriod                      string          `db:"posting_period"`
	CalculationMethod                  string          `db:"calculation_method"`
	DaysInYear                         string          `db:"days_in_year"`
	MinBalanceForInterest              decimal.Decimal `db:"min_balance_for_interest"`
	MinOverdraftForInterest            decimal.Decimal `db:"min_overdraft_for_interest"`

	AllowOverdraft bool            `db:"allow_overdraft"`
	OverdraftLimit decimal.Decimal `db:"overdraft_limit"`

	LockinFrequency             int             `db:"lockin_frequency"`
	LockinUnit                  *string         `db:"lockin_unit"`
	LockedInUntil               *time.Time      `db:"locked_in_until"`
	PrematureClosurePenaltyRate decimal.Decimal `db:"premature_closure_penalty_rate"`

	WithholdTax bool    `db:"withhold_tax"`
	TaxGroupID  *string `db:"tax_group_id"`

	SubmittedOnDate             time.Time  `db:"submitted_on_date"`
	ActivationDate              *time.Time `db:"activation_date"`
	ClosedOnDate                *time.Time `db:"closed_on_date"`
	LastInterestCalculationDate *time.Time `db:"last_interest_calculation_date"`
	InterestPostedTillDate      *time.Time `db:"interest_posted_till_date"`

	// Summary columns
	TotalDeposits          decimal.Decimal `db:"total_deposits"`
	TotalWithdrawals       decimal.Decimal `db:"total_withdrawals"`
	TotalInterestPosted    decimal.Decimal `db:"total_interest_posted"`
	TotalOverdraftInterest decimal.Decimal `db:"total_overdraft_interest"`
	TotalInterestEarned    decimal.Decimal `db:"total_interest_earned"`
	TotalWithholdTax       decimal.Decimal `db:"total_withhold_tax"`
	TotalCharges           decimal.Decimal `db:"total_charges"`
	TotalFees              decimal.Decimal `db:"total_fees"`
	TotalTransfersIn       decimal.Decimal `db:"total_transfers_in"`
	TotalTransfersOut      decimal.Decimal `db:"total_transfers_out"`
	TotalOnHold            decimal.Decimal `db:"total_on_hold"`
	AccountBalance         decimal.Decimal `db:"account_balance"`

	AuditFields
}
