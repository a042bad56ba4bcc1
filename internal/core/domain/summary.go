package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSummary holds running totals derived from the ledger.
type AccountSummary struct {
	TotalDeposits               decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals            decimal.Decimal `json:"totalWithdrawals"`
	TotalInterestPosted         decimal.Decimal `json:"totalInterestPosted"`
	TotalOverdraftInterest      decimal.Decimal `json:"totalOverdraftInterest"`
	TotalInterestEarned         decimal.Decimal `json:"totalInterestEarned"`
	TotalWithholdTax            decimal.Decimal `json:"totalWithholdTax"`
	TotalCharges                decimal.Decimal `json:"totalCharges"`
	TotalFees                   decimal.Decimal `json:"totalFees"`
	TotalTransfersIn            decimal.Decimal `json:"totalTransfersIn"`
	TotalTransfersOut           decimal.Decimal `json:"totalTransfersOut"`
	TotalOnHold                 decimal.Decimal `json:"totalOnHold"`
	AccountBalance              decimal.Decimal `json:"accountBalance"`
	LastInterestCalculationDate *time.Time      `json:"lastInterestCalculationDate,omitempty"`
}
