package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a savings account.
type AccountStatus string

const (
	StatusSubmitted AccountStatus = "SUBMITTED"
	StatusActive    AccountStatus = "ACTIVE"
	StatusClosed    AccountStatus = "CLOSED"
)

// ProductType distinguishes the interest-bearing deposit products.
type ProductType string

const (
	SavingsProduct          ProductType = "SAVINGS"
	FixedDepositProduct     ProductType = "FIXED_DEPOSIT"
	RecurringDepositProduct ProductType = "RECURRING_DEPOSIT"
)

// LockinUnit is the unit of a lock-in period.
type LockinUnit string

const (
	LockinDays   LockinUnit = "DAYS"
	LockinWeeks  LockinUnit = "WEEKS"
	LockinMonths LockinUnit = "MONTHS"
	LockinYears  LockinUnit = "YEARS"
)

var hundred = decimal.NewFromInt(100)

// SavingsAccount is one interest-bearing deposit account.
type SavingsAccount struct {
	AccountID    string        `json:"accountID"` // Primary Key (e.g., UUID)
	AccountNo    string        `json:"accountNo"` // Customer facing number
	ProductType  ProductType   `json:"productType"`
	Status       AccountStatus `json:"status"`
	CurrencyCode string        `json:"currencyCode"` // FK -> currencies.code

	// Rates are annual percentages, e.g. 12 means 12% p.a.
	NominalAnnualInterestRate          decimal.Decimal           `json:"nominalAnnualInterestRate"`
	NominalAnnualOverdraftInterestRate decimal.Decimal           `json:"nominalAnnualOverdraftInterestRate"`
	CompoundingPeriod                  PeriodFrequency           `json:"compoundingPeriod"`
	PostingPeriod                      PeriodFrequency           `json:"postingPeriod"`
	CalculationMethod                  InterestCalculationMethod `json:"calculationMethod"`
	DaysInYear                         DaysInYearConvention      `json:"daysInYear"`
	MinBalanceForInterest              decimal.Decimal           `json:"minBalanceForInterest"`
	MinOverdraftForInterest            decimal.Decimal           `json:"minOverdraftForInterest"`

	AllowOverdraft bool            `json:"allowOverdraft"`
	OverdraftLimit decimal.Decimal `json:"overdraftLimit"`

	LockinFrequency             int             `json:"lockinFrequency"`
	LockinUnit                  LockinUnit      `json:"lockinUnit"`
	LockedInUntil               *time.Time      `json:"lockedInUntil,omitempty"`
	PrematureClosurePenaltyRate decimal.Decimal `json:"prematureClosurePenaltyRate"`

	WithholdTax bool   `json:"withholdTax"`
	TaxGroupID  string `json:"taxGroupID,omitempty"`

	SubmittedOnDate             time.Time  `json:"submittedOnDate"`
	ActivationDate              *time.Time `json:"activationDate,omitempty"`
	ClosedOnDate                *time.Time `json:"closedOnDate,omitempty"`
	LastInterestCalculationDate *time.Time `json:"lastInterestCalculationDate,omitempty"`
	InterestPostedTillDate      *time.Time `json:"interestPostedTillDate,omitempty"`

	Summary AccountSummary `json:"summary"`
	AuditFields
}

// IsActive reports whether the account accepts transactions.
func (a *SavingsAccount) IsActive() bool {
	return a.Status == StatusActive
}

// InterestRateFraction converts the nominal percentage to a fraction.
func (a *SavingsAccount) InterestRateFraction() decimal.Decimal {
	return a.NominalAnnualInterestRate.Div(hundred)
}

// OverdraftRateFraction converts the overdraft percentage to a fraction.
func (a *SavingsAccount) OverdraftRateFraction() decimal.Decimal {
	return a.NominalAnnualOverdraftInterestRate.Div(hundred)
}

// ValidateInterestSettings checks the rate and period policy configuration.
func (a *SavingsAccount) ValidateInterestSettings() error {
	var errs []error
	if a.NominalAnnualInterestRate.IsNegative() {
		errs = append(errs, fmt.Errorf("nominal annual interest rate must not be negative"))
	}
	if a.NominalAnnualOverdraftInterestRate.IsNegative() {
		errs = append(errs, fmt.Errorf("nominal annual overdraft interest rate must not be negative"))
	}
	if err := a.CompoundingPeriod.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("compounding period: %w", err))
	}
	if err := a.PostingPeriod.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("posting period: %w", err))
	}
	if a.CompoundingPeriod.Validate() == nil && a.PostingPeriod.Validate() == nil &&
		a.CompoundingPeriod.CoarserThan(a.PostingPeriod) {
		errs = append(errs, fmt.Errorf("compounding period %s is coarser than posting period %s", a.CompoundingPeriod, a.PostingPeriod))
	}
	if err := a.CalculationMethod.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := a.DaysInYear.Validate(); err != nil {
		errs = append(errs, err)
	}
	if a.WithholdTax && a.TaxGroupID == "" {
		errs = append(errs, fmt.Errorf("withholding tax enabled without a tax group"))
	}
	return errors.Join(errs...)
}

// lockinEnd computes the last locked-in day for an activation date.
func (a *SavingsAccount) lockinEnd(activation time.Time) *time.Time {
	if a.LockinFrequency <= 0 {
		return nil
	}
	var end time.Time
	switch a.LockinUnit {
	case LockinDays:
		end = activation.AddDate(0, 0, a.LockinFrequency)
	case LockinWeeks:
		end = activation.AddDate(0, 0, 7*a.LockinFrequency)
	case LockinYears:
		end = activation.AddDate(a.LockinFrequency, 0, 0)
	default:
		end = activation.AddDate(0, a.LockinFrequency, 0)
	}
	end = dates.AddDays(end, -1)
	return &end
}

// Activate moves a submitted account to active on the given date.
func (a *SavingsAccount) Activate(on time.Time) error {
	if a.Status != StatusSubmitted {
		return fmt.Errorf("account %s cannot be activated from status %s", a.AccountID, a.Status)
	}
	on = dates.Normalize(on)
	if !a.SubmittedOnDate.IsZero() && on.Before(a.SubmittedOnDate) {
		return fmt.Errorf("activation date %s is before submitted on date %s", dates.Format(on), dates.Format(a.SubmittedOnDate))
	}
	a.Status = StatusActive
	a.ActivationDate = &on
	a.LockedInUntil = a.lockinEnd(on)
	return nil
}

// IsLockedIn reports whether date falls inside the lock-in period.
func (a *SavingsAccount) IsLockedIn(date time.Time) bool {
	return a.LockedInUntil != nil && !date.After(*a.LockedInUntil)
}

// Close marks the account closed.
func (a *SavingsAccount) Close(on time.Time) {
	on = dates.Normalize(on)
	a.Status = StatusClosed
	a.ClosedOnDate = &on
}
