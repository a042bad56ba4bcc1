package mapping

import (
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/models"
)

// ToModelSavingsAccount converts a domain SavingsAccount to its row.
func ToModelSavingsAccount(d domain.SavingsAccount) models.SavingsAccount {
	var lockinUnit *string
	if d.LockinUnit != "" {
		lockinUnit = optionalString(string(d.LockinUnit))
	}
	s := d.Summary
	return models.SavingsAccount{
		AccountID:    d.AccountID,
		AccountNo:    d.AccountNo,
		ProductType:  string(d.ProductType),
		Status:       string(d.Status),
		CurrencyCode: d.CurrencyCode,

		NominalAnnualInterestRate:          d.NominalAnnualInterestRate,
		NominalAnnualOverdraftInterestRate: d.NominalAnnualOverdraftInterestRate,
		CompoundingPeriod:                  string(d.CompoundingPeriod),
		PostingPeriod:                      string(d.PostingPeriod),
		CalculationMethod:                  string(d.CalculationMethod),
		DaysInYear:                         string(d.DaysInYear),
		MinBalanceForInterest:              d.MinBalanceForInterest,
		MinOverdraftForInterest:            d.MinOverdraftForInterest,

		AllowOverdraft: d.AllowOverdraft,
		OverdraftLimit: d.OverdraftLimit,

		LockinFrequency:             d.LockinFrequency,
		LockinUnit:                  lockinUnit,
		LockedInUntil:               d.LockedInUntil,
		PrematureClosurePenaltyRate: d.PrematureClosurePenaltyRate,

		WithholdTax: d.WithholdTax,
		TaxGroupID:  optionalString(d.TaxGroupID),

		SubmittedOnDate:             d.SubmittedOnDate,
		ActivationDate:              d.ActivationDate,
		ClosedOnDate:                d.ClosedOnDate,
		LastInterestCalculationDate: d.LastInterestCalculationDate,
		InterestPostedTillDate:      d.InterestPostedTillDate,

		TotalDeposits:          s.TotalDeposits,
		TotalWithdrawals:       s.TotalWithdrawals,
		TotalInterestPosted:    s.TotalInterestPosted,
		TotalOverdraftInterest: s.TotalOverdraftInterest,
		TotalInterestEarned:    s.TotalInterestEarned,
		TotalWithholdTax:       s.TotalWithholdTax,
		TotalCharges:           s.TotalCharges,
		TotalFees:              s.TotalFees,
		TotalTransfersIn:       s.TotalTransfersIn,
		TotalTransfersOut:      s.TotalTransfersOut,
		TotalOnHold:            s.TotalOnHold,
		AccountBalance:         s.AccountBalance,

		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSavingsAccount converts a savings_accounts row to the domain type.
func ToDomainSavingsAccount(m models.SavingsAccount) domain.SavingsAccount {
	return domain.SavingsAccount{
		AccountID:    m.AccountID,
		AccountNo:    m.AccountNo,
		ProductType:  domain.ProductType(m.ProductType),
		Status:       domain.AccountStatus(m.Status),
		CurrencyCode: m.CurrencyCode,

		NominalAnnualInterestRate:          m.NominalAnnualInterestRate,
		NominalAnnualOverdraftInterestRate: m.NominalAnnualOverdraftInterestRate,
		CompoundingPeriod:                  domain.PeriodFrequency(m.CompoundingPeriod),
		PostingPeriod:                      domain.PeriodFrequency(m.PostingPeriod),
		CalculationMethod:                  domain.InterestCalculationMethod(m.CalculationMethod),
		DaysInYear:                         domain.DaysInYearConvention(m.DaysInYear),
		MinBalanceForInterest:              m.MinBalanceForInterest,
		MinOverdraftForInterest:            m.MinOverdraftForInterest,

		AllowOverdraft: m.AllowOverdraft,
		OverdraftLimit: m.OverdraftLimit,

		LockinFrequency:             m.LockinFrequency,
		LockinUnit:                  domain.LockinUnit(stringValue(m.LockinUnit)),
		LockedInUntil:               m.LockedInUntil,
		PrematureClosurePenaltyRate: m.PrematureClosurePenaltyRate,

		WithholdTax: m.WithholdTax,
		TaxGroupID:  stringValue(m.TaxGroupID),

		SubmittedOnDate:             m.SubmittedOnDate,
		ActivationDate:              m.ActivationDate,
		ClosedOnDate:                m.ClosedOnDate,
		LastInterestCalculationDate: m.LastInterestCalculationDate,
		InterestPostedTillDate:      m.InterestPostedTillDate,

		Summary: domain.AccountSummary{
			TotalDeposits:               m.TotalDeposits,
			TotalWithdrawals:            m.TotalWithdrawals,
			TotalInterestPosted:         m.TotalInterestPosted,
			TotalOverdraftInterest:      m.TotalOverdraftInterest,
			TotalInterestEarned:         m.TotalInterestEarned,
			TotalWithholdTax:            m.TotalWithholdTax,
			TotalCharges:                m.TotalCharges,
			TotalFees:                   m.TotalFees,
			TotalTransfersIn:            m.TotalTransfersIn,
			TotalTransfersOut:           m.TotalTransfersOut,
			TotalOnHold:                 m.TotalOnHold,
			AccountBalance:              m.AccountBalance,
			LastInterestCalculationDate: m.LastInterestCalculationDate,
		},

		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
