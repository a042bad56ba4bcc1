package dto

import (
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	"github.com/SscSPs/savings_servicing/internal/utils"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
)

// TaxSplitResponse is one withheld tax component.
type TaxSplitResponse struct {
	TaxComponentID string `json:"taxComponentID"`
	Name           string `json:"name"`
	Percentage     string `json:"percentage"`
	Amount         string `json:"amount"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID   string             `json:"transactionID"`
	Kind            string             `json:"kind"`
	TransactionDate string             `json:"transactionDate"`
	Amount          string             `json:"amount"`
	RunningBalance  string             `json:"runningBalance"`
	OverdraftAmount string             `json:"overdraftAmount,omitempty"`
	Reversed        bool               `json:"reversed"`
	ReversalOfID    string             `json:"reversalOfID,omitempty"`
	IsManual        bool               `json:"isManual,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	TaxSplits       []TaxSplitResponse `json:"taxSplits,omitempty"`
}

// PostingPeriodResponse describes one computed posting period.
type PostingPeriodResponse struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	PostingDate    string `json:"postingDate"`
	Partial        bool   `json:"partial"`
	OpeningBalance string `json:"openingBalance"`
	InterestEarned string `json:"interestEarned"`
	Withholding    string `json:"withholding"`
	ClosingBalance string `json:"closingBalance"`
}

// SummaryResponse holds the account totals.
type SummaryResponse struct {
	AccountBalance         string `json:"accountBalance"`
	TotalDeposits          string `json:"totalDeposits"`
	TotalWithdrawals       string `json:"totalWithdrawals"`
	TotalInterestPosted    string `json:"totalInterestPosted"`
	TotalOverdraftInterest string `json:"totalOverdraftInterest"`
	TotalInterestEarned    string `json:"totalInterestEarned"`
	TotalWithholdTax       string `json:"totalWithholdTax"`
	TotalCharges           string `json:"totalCharges"`
	TotalFees              string `json:"totalFees"`
	TotalTransfersIn       string `json:"totalTransfersIn"`
	TotalTransfersOut      string `json:"totalTransfersOut"`
	TotalOnHold            string `json:"totalOnHold"`
}

// InterestRunResponse is the printable outcome of a posting or preview run.
type InterestRunResponse struct {
	AccountID string                  `json:"accountID"`
	Mode      string                  `json:"mode"`
	StartDate string                  `json:"startDate,omitempty"`
	UpToDate  string                  `json:"upToDate"`
	Periods   []PostingPeriodResponse `json:"periods"`
	Created   []TransactionResponse   `json:"created,omitempty"`
	Reversed  []string                `json:"reversed,omitempty"`
	Stats     interest.ReconcileStats `json:"stats"`
	Summary   SummaryResponse         `json:"summary"`
}

// ToTransactionResponse converts a ledger entry, formatting amounts to the currency precision.
func ToTransactionResponse(t *domain.Transaction, currency domain.Currency) TransactionResponse {
	res := TransactionResponse{
		TransactionID:   t.TransactionID,
		Kind:            string(t.Kind),
		TransactionDate: dates.Format(t.TransactionDate),
		Amount:          utils.FormatWithCurrencyPrecision(t.Amount, currency),
		RunningBalance:  utils.FormatWithCurrencyPrecision(t.RunningBalance, currency),
		Reversed:        t.Reversed,
		ReversalOfID:    t.ReversalOfID,
		IsManual:        t.IsManual,
		Notes:           t.Notes,
	}
	if !t.OverdraftAmount.IsZero() {
		res.OverdraftAmount = utils.FormatWithCurrencyPrecision(t.OverdraftAmount, currency)
	}
	for _, s := range t.TaxSplits {
		res.TaxSplits = append(res.TaxSplits, TaxSplitResponse{
			TaxComponentID: s.TaxComponentID,
			Name:           s.Name,
			Percentage:     s.Percentage.String(),
			Amount:         utils.FormatWithCurrencyPrecision(s.Amount, currency),
		})
	}
	return res
}

// ToSummaryResponse formats the account totals.
func ToSummaryResponse(s domain.AccountSummary, currency domain.Currency) SummaryResponse {
	f := func(d decimal.Decimal) string { return utils.FormatWithCurrencyPrecision(d, currency) }
	return SummaryResponse{
		AccountBalance:         f(s.AccountBalance),
		TotalDeposits:          f(s.TotalDeposits),
		TotalWithdrawals:       f(s.TotalWithdrawals),
		TotalInterestPosted:    f(s.TotalInterestPosted),
		TotalOverdraftInterest: f(s.TotalOverdraftInterest),
		TotalInterestEarned:    f(s.TotalInterestEarned),
		TotalWithholdTax:       f(s.TotalWithholdTax),
		TotalCharges:           f(s.TotalCharges),
		TotalFees:              f(s.TotalFees),
		TotalTransfersIn:       f(s.TotalTransfersIn),
		TotalTransfersOut:      f(s.TotalTransfersOut),
		TotalOnHold:            f(s.TotalOnHold),
	}
}

// ToInterestRunResponse converts an engine result for output.
func ToInterestRunResponse(accountID string, res *interest.Result, currency domain.Currency) InterestRunResponse {
	out := InterestRunResponse{
		AccountID: accountID,
		Mode:      res.Mode,
		UpToDate:  dates.Format(res.UpToDate),
		Periods:   make([]PostingPeriodResponse, 0, len(res.Periods)),
		Stats:     res.Stats,
		Summary:   ToSummaryResponse(res.Summary, currency),
	}
	if !res.StartDate.IsZero() {
		out.StartDate = dates.Format(res.StartDate)
	}
	for _, p := range res.Periods {
		out.Periods = append(out.Periods, PostingPeriodResponse{
			StartDate:      dates.Format(p.Interval.Start),
			EndDate:        dates.Format(p.Interval.End),
			PostingDate:    dates.Format(p.PostingDate),
			Partial:        p.Interval.Partial,
			OpeningBalance: utils.FormatWithCurrencyPrecision(p.OpeningBalance, currency),
			InterestEarned: utils.FormatWithCurrencyPrecision(p.InterestEarned, currency),
			Withholding:    utils.FormatWithCurrencyPrecision(p.Withholding, currency),
			ClosingBalance: utils.FormatWithCurrencyPrecision(p.ClosingBalance, currency),
		})
	}
	for _, t := range res.Created {
		out.Created = append(out.Created, ToTransactionResponse(t, currency))
	}
	for _, t := range res.Reversed {
		out.Reversed = append(out.Reversed, t.TransactionID)
	}
	return out
}
