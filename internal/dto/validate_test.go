package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOpenRequest() OpenSavingsAccountRequest {
	return OpenSavingsAccountRequest{
		AccountNo:                 "SAV-0001",
		ProductType:               domain.SavingsProduct,
		CurrencyCode:              "USD",
		NominalAnnualInterestRate: decimal.NewFromInt(10),
		CompoundingPeriod:         domain.Monthly,
		PostingPeriod:             domain.Monthly,
		CalculationMethod:         domain.DailyBalance,
		DaysInYear:                domain.Days365,
		SubmittedOnDate:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidate_OpenSavingsAccountRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *OpenSavingsAccountRequest)
		wantErr string
	}{
		{name: "valid", mutate: func(r *OpenSavingsAccountRequest) {}},
		{name: "negative rate", mutate: func(r *OpenSavingsAccountRequest) { r.NominalAnnualInterestRate = decimal.NewFromInt(-1) }, wantErr: "nominalAnnualInterestRate"},
		{name: "lower case currency", mutate: func(r *OpenSavingsAccountRequest) { r.CurrencyCode = "usd" }, wantErr: "currencyCode"},
		{name: "unknown posting period", mutate: func(r *OpenSavingsAccountRequest) { r.PostingPeriod = "WEEKLY" }, wantErr: "postingPeriod"},
		{name: "lock-in without unit", mutate: func(r *OpenSavingsAccountRequest) { r.LockinFrequency = 6 }, wantErr: "lockinUnit"},
		{name: "lock-in with unit", mutate: func(r *OpenSavingsAccountRequest) {
			r.LockinFrequency = 6
			r.LockinUnit = domain.LockinMonths
		}},
		{name: "withholding without group", mutate: func(r *OpenSavingsAccountRequest) { r.WithholdTax = true }, wantErr: "taxGroupID"},
		{name: "missing submitted date", mutate: func(r *OpenSavingsAccountRequest) { r.SubmittedOnDate = time.Time{} }, wantErr: "submittedOnDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOpenRequest()
			tt.mutate(&req)
			err := Validate(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_TransactionAmounts(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

	assert.NoError(t, Validate(TransactionRequest{TransactionDate: date, Amount: decimal.RequireFromString("0.01")}))
	assert.ErrorIs(t, Validate(TransactionRequest{TransactionDate: date, Amount: decimal.Zero}), apperrors.ErrValidation)
	assert.ErrorIs(t, Validate(TransactionRequest{TransactionDate: date, Amount: decimal.NewFromInt(-5)}), apperrors.ErrValidation)

	charge := ChargeRequest{TransactionRequest: TransactionRequest{TransactionDate: date, Amount: decimal.NewFromInt(5)}, ChargeType: domain.Deposit}
	assert.ErrorIs(t, Validate(charge), apperrors.ErrValidation)
	charge.ChargeType = domain.Fee
	assert.NoError(t, Validate(charge))
}

func TestValidate_TransferToSameAccount(t *testing.T) {
	req := TransferRequest{
		FromAccountID: "a1",
		ToAccountID:   "a1",
		TransferDate:  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Amount:        decimal.NewFromInt(10),
	}
	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "toAccountID")

	req.ToAccountID = "a2"
	assert.NoError(t, Validate(req))
}
