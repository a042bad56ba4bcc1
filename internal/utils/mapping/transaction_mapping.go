package mapping

import (
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/models"
)

// ToModelSavingsTransaction converts a domain Transaction to its row and tax split rows.
func ToModelSavingsTransaction(d domain.Transaction) (models.SavingsTransaction, []models.TaxSplit) {
	m := models.SavingsTransaction{
		TransactionID:       d.TransactionID,
		AccountID:           d.AccountID,
		Kind:                string(d.Kind),
		TransactionDate:     d.TransactionDate,
		SubmittedOnDate:     d.SubmittedOnDate,
		Amount:              d.Amount,
		CurrencyCode:        d.CurrencyCode,
		RunningBalance:      d.RunningBalance,
		CumulativeBalance:   d.CumulativeBalance,
		BalanceEndDate:      d.BalanceEndDate,
		BalanceNumberOfDays: d.BalanceNumberOfDays,
		OverdraftAmount:     d.OverdraftAmount,
		Reversed:            d.Reversed,
		ReversalOfID:        optionalString(d.ReversalOfID),
		IsManual:            d.IsManual,
		IsUserPosting:       d.IsUserPosting,
		ChargeID:            optionalString(d.ChargeID),
		TransferID:          optionalString(d.TransferID),
		Notes:               optionalString(d.Notes),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
	splits := make([]models.TaxSplit, len(d.TaxSplits))
	for i, s := range d.TaxSplits {
		splits[i] = models.TaxSplit{
			TransactionID:  d.TransactionID,
			TaxComponentID: s.TaxComponentID,
			Name:           s.Name,
			Percentage:     s.Percentage,
			Amount:         s.Amount,
		}
	}
	return m, splits
}

// ToDomainSavingsTransaction converts a row and its tax splits to a persisted domain Transaction.
func ToDomainSavingsTransaction(m models.SavingsTransaction, splits []models.TaxSplit) domain.Transaction {
	d := domain.Transaction{
		TransactionID:       m.TransactionID,
		AccountID:           m.AccountID,
		Kind:                domain.TransactionKind(m.Kind),
		TransactionDate:     m.TransactionDate,
		SubmittedOnDate:     m.SubmittedOnDate,
		Amount:              m.Amount,
		CurrencyCode:        m.CurrencyCode,
		RunningBalance:      m.RunningBalance,
		CumulativeBalance:   m.CumulativeBalance,
		BalanceEndDate:      m.BalanceEndDate,
		BalanceNumberOfDays: m.BalanceNumberOfDays,
		OverdraftAmount:     m.OverdraftAmount,
		Reversed:            m.Reversed,
		ReversalOfID:        stringValue(m.ReversalOfID),
		IsManual:            m.IsManual,
		IsUserPosting:       m.IsUserPosting,
		ChargeID:            stringValue(m.ChargeID),
		TransferID:          stringValue(m.TransferID),
		Notes:               stringValue(m.Notes),
		Persisted:           true,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
	for _, s := range splits {
		d.TaxSplits = append(d.TaxSplits, domain.TaxSplit{
			TaxComponentID: s.TaxComponentID,
			Name:           s.Name,
			Percentage:     s.Percentage,
			Amount:         s.Amount,
		})
	}
	return d
}
