package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Summarize derives the account totals from the ledger. Interest earned is the
// net posted interest plus the computed interest of periods that have no
// posting in the ledger yet.
func Summarize(ledger *domain.Ledger, periods []PostingPeriod, upTo time.Time) domain.AccountSummary {
	s := domain.AccountSummary{
		TotalDeposits:          decimal.Zero,
		TotalWithdrawals:       decimal.Zero,
		TotalInterestPosted:    decimal.Zero,
		TotalOverdraftInterest: decimal.Zero,
		TotalInterestEarned:    decimal.Zero,
		TotalWithholdTax:       decimal.Zero,
		TotalCharges:           decimal.Zero,
		TotalFees:              decimal.Zero,
		TotalTransfersIn:       decimal.Zero,
		TotalTransfersOut:      decimal.Zero,
		TotalOnHold:            decimal.Zero,
	}

	for _, t := range ledger.Entries() {
		if t.Reversed {
			continue
		}
		switch t.Kind {
		case domain.Deposit:
			s.TotalDeposits = s.TotalDeposits.Add(t.Amount)
		case domain.Withdrawal:
			s.TotalWithdrawals = s.TotalWithdrawals.Add(t.Amount)
		case domain.InterestPosting:
			s.TotalInterestPosted = s.TotalInterestPosted.Add(t.Amount)
		case domain.OverdraftInterest:
			s.TotalOverdraftInterest = s.TotalOverdraftInterest.Add(t.Amount)
		case domain.WithholdTax:
			s.TotalWithholdTax = s.TotalWithholdTax.Add(t.Amount)
		case domain.Charge:
			s.TotalCharges = s.TotalCharges.Add(t.Amount)
		case domain.Fee:
			s.TotalFees = s.TotalFees.Add(t.Amount)
		case domain.TransferIn:
			s.TotalTransfersIn = s.TotalTransfersIn.Add(t.Amount)
		case domain.TransferOut:
			s.TotalTransfersOut = s.TotalTransfersOut.Add(t.Amount)
		case domain.AmountHold:
			s.TotalOnHold = s.TotalOnHold.Add(t.Amount)
		case domain.AmountRelease:
			s.TotalOnHold = s.TotalOnHold.Sub(t.Amount)
		case domain.AccrualInterest:
			// informational only
		}
	}

	earned := s.TotalInterestPosted.Sub(s.TotalOverdraftInterest)
	for _, p := range periods {
		if ledger.ActiveInterestPostingOn(p.PostingDate) == nil {
			earned = earned.Add(p.InterestEarned)
		}
	}
	s.TotalInterestEarned = earned
	s.AccountBalance = ledger.Balance()
	if !upTo.IsZero() {
		d := upTo
		s.LastInterestCalculationDate = &d
	}
	return s
}
