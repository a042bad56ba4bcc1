package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/services"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func taxGroup() *domain.TaxGroup {
	return &domain.TaxGroup{
		TaxGroupID: "tg-1",
		Name:       "resident",
		Components: []domain.TaxComponent{
			{TaxComponentID: "tc-1", Name: "income tax", Percentage: amount("10"), StartDate: dates.Date(2020, 1, 1)},
			{TaxComponentID: "tc-2", Name: "surcharge", Percentage: amount("2.5"), StartDate: dates.Date(2024, 1, 1)},
		},
	}
}

func TestTaxPolicyService_GetTaxGroupIsCached(t *testing.T) {
	repo := new(MockTaxGroupRepository)
	repo.On("FindTaxGroupByID", mock.Anything, "tg-1").Return(taxGroup(), nil).Once()
	svc := services.NewTaxPolicyService(repo)

	for i := 0; i < 3; i++ {
		group, err := svc.GetTaxGroup(context.Background(), "tg-1")
		require.NoError(t, err)
		assert.Len(t, group.Components, 2)
	}
	repo.AssertNumberOfCalls(t, "FindTaxGroupByID", 1)
}

func TestTaxPolicyService_GetTaxGroupNotFound(t *testing.T) {
	repo := new(MockTaxGroupRepository)
	repo.On("FindTaxGroupByID", mock.Anything, "tg-x").Return(nil, apperrors.ErrNotFound).Twice()
	svc := services.NewTaxPolicyService(repo)

	_, err := svc.GetTaxGroup(context.Background(), "tg-x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// failures are not cached
	_, err = svc.GetTaxGroup(context.Background(), "tg-x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestTaxPolicyService_SplitTax(t *testing.T) {
	svc := services.NewTaxPolicyService(new(MockTaxGroupRepository))
	group := *taxGroup()

	testCases := []struct {
		name  string
		gross string
		on    string
		want  map[string]string
	}{
		{"both components active", "101.92", "2024-01-31", map[string]string{"tc-1": "10.19", "tc-2": "2.55"}},
		{"surcharge not yet in force", "101.92", "2023-12-31", map[string]string{"tc-1": "10.19"}},
		{"amount below one cent per component", "0.01", "2024-01-31", map[string]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			on, err := dates.Parse(tc.on)
			require.NoError(t, err)

			splits := svc.SplitTax(amount(tc.gross), on, group, usdCurrency, domain.RoundHalfEven)

			got := map[string]string{}
			for _, sp := range splits {
				got[sp.TaxComponentID] = sp.Amount.StringFixed(2)
			}
			assert.Equal(t, tc.want, got)
			assert.True(t, domain.TotalTax(splits).LessThanOrEqual(amount(tc.gross)))
		})
	}
}

func TestTaxPolicyService_SplitTaxNeverExceedsGross(t *testing.T) {
	svc := services.NewTaxPolicyService(new(MockTaxGroupRepository))
	group := domain.TaxGroup{
		TaxGroupID: "tg-heavy",
		Components: []domain.TaxComponent{
			{TaxComponentID: "a", Percentage: amount("60"), StartDate: dates.Date(2020, 1, 1)},
			{TaxComponentID: "b", Percentage: amount("50"), StartDate: dates.Date(2020, 1, 1)},
		},
	}

	splits := svc.SplitTax(amount("10.00"), dates.Date(2024, 1, 31), group, usdCurrency, domain.RoundHalfEven)

	require.Len(t, splits, 2)
	assert.True(t, domain.TotalTax(splits).Equal(amount("10.00")))
	assert.Equal(t, "6.00", splits[0].Amount.StringFixed(2))
	assert.Equal(t, "4.00", splits[1].Amount.StringFixed(2), "the excess comes off the last component")
}
