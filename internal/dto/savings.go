package dto

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OpenSavingsAccountRequest defines the data needed to open a savings account.
type OpenSavingsAccountRequest struct {
	AccountNo    string             `json:"accountNo" validate:"required,max=64"`
	ProductType  domain.ProductType `json:"productType" validate:"required,oneof=SAVINGS FIXED_DEPOSIT RECURRING_DEPOSIT"`
	CurrencyCode string             `json:"currencyCode" validate:"required,uppercase,len=3"`

	NominalAnnualInterestRate          decimal.Decimal                  `json:"nominalAnnualInterestRate" validate:"gte=0,lte=100"`
	NominalAnnualOverdraftInterestRate decimal.Decimal                  `json:"nominalAnnualOverdraftInterestRate" validate:"gte=0,lte=100"`
	CompoundingPeriod                  domain.PeriodFrequency           `json:"compoundingPeriod" validate:"required,oneof=DAILY MONTHLY QUARTERLY BIANNUAL ANNUAL"`
	PostingPeriod                      domain.PeriodFrequency           `json:"postingPeriod" validate:"required,oneof=DAILY MONTHLY QUARTERLY BIANNUAL ANNUAL"`
	CalculationMethod                  domain.InterestCalculationMethod `json:"calculationMethod" validate:"required,oneof=DAILY_BALANCE AVERAGE_DAILY_BALANCE"`
	DaysInYear                         domain.DaysInYearConvention      `json:"daysInYear" validate:"required,oneof=360 365 ACTUAL"`
	MinBalanceForInterest              decimal.Decimal                  `json:"minBalanceForInterest" validate:"gte=0"`
	MinOverdraftForInterest            decimal.Decimal                  `json:"minOverdraftForInterest" validate:"gte=0"`

	AllowOverdraft bool            `json:"allowOverdraft"`
	OverdraftLimit decimal.Decimal `json:"overdraftLimit" validate:"gte=0"`

	LockinFrequency             int               `json:"lockinFrequency" validate:"gte=0"`
	LockinUnit                  domain.LockinUnit `json:"lockinUnit" validate:"required_with=LockinFrequency,omitempty,oneof=DAYS WEEKS MONTHS YEARS"`
	PrematureClosurePenaltyRate decimal.Decimal   `json:"prematureClosurePenaltyRate" validate:"gte=0,lte=100"`

	WithholdTax bool   `json:"withholdTax"`
	TaxGroupID  string `json:"taxGroupID" validate:"required_if=WithholdTax true"`

	SubmittedOnDate time.Time `json:"submittedOnDate" validate:"required"`
}

// ActivateAccountRequest defines the data needed to activate an account.
type ActivateAccountRequest struct {
	ActivationDate time.Time `json:"activationDate" validate:"required"`
}

// TransactionRequest defines a deposit or withdrawal.
type TransactionRequest struct {
	TransactionDate time.Time       `json:"transactionDate" validate:"required"`
	Amount          decimal.Decimal `json:"amount" validate:"gt=0"`
	Notes           string          `json:"notes" validate:"max=500"`
}

// ChargeRequest defines a charge or fee applied to an account.
type ChargeRequest struct {
	TransactionRequest
	ChargeID   string                 `json:"chargeID" validate:"max=255"`
	ChargeType domain.TransactionKind `json:"chargeType" validate:"required,oneof=CHARGE FEE"`
}

// TransferRequest defines a transfer between two savings accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" validate:"required"`
	ToAccountID   string          `json:"toAccountID" validate:"required,nefield=FromAccountID"`
	TransferDate  time.Time       `json:"transferDate" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Notes         string          `json:"notes" validate:"max=500"`
}

// CloseAccountRequest defines the data needed to close an account.
type CloseAccountRequest struct {
	ClosedOnDate time.Time `json:"closedOnDate" validate:"required"`
	// Premature allows closing inside the lock-in period at a penalty rate.
	Premature bool   `json:"premature"`
	Notes     string `json:"notes" validate:"max=500"`
}

// PostInterestRequest bounds an interest posting or preview run.
type PostInterestRequest struct {
	// UpToDate defaults to the business date.
	UpToDate *time.Time `json:"upToDate"`
	// PostAsOn requests an ad hoc posting on that date.
	PostAsOn         *time.Time `json:"postAsOn"`
	InterestTransfer bool       `json:"interestTransfer"`
}
