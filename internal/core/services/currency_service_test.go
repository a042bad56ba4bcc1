package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyRepository ---
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

type CurrencyServiceTestSuite struct {
	suite.Suite
	repo    *MockCurrencyRepository
	service portssvc.CurrencySvcFacade
}

func (suite *CurrencyServiceTestSuite) SetupTest() {
	suite.repo = new(MockCurrencyRepository)
	suite.service = services.NewCurrencyService(suite.repo)
}

func (suite *CurrencyServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_CachesAfterFirstLoad() {
	ctx := context.Background()
	jpy := domain.Currency{CurrencyCode: "JPY", Symbol: "¥", Name: "Japanese Yen", Precision: 0}
	suite.repo.On("FindCurrencyByCode", ctx, "JPY").Return(&jpy, nil).Once()

	first, err := suite.service.GetCurrencyByCode(ctx, "JPY")
	suite.Require().NoError(err)
	second, err := suite.service.GetCurrencyByCode(ctx, " jpy ")
	suite.Require().NoError(err)

	suite.Equal(0, first.Precision)
	suite.Equal(*first, *second)
	suite.NotSame(first, second)
}

func (suite *CurrencyServiceTestSuite) TestGetCurrencyByCode_Failures() {
	tests := []struct {
		name    string
		code    string
		found   *domain.Currency
		repoErr error
		wantErr error
	}{
		{name: "unknown code", code: "XYZ", repoErr: apperrors.ErrNotFound, wantErr: apperrors.ErrNotFound},
		{name: "repository failure", code: "USD", repoErr: errors.New("connection reset"), wantErr: nil},
		{name: "precision beyond ledger scale", code: "BTC", found: &domain.Currency{CurrencyCode: "BTC", Precision: 8}, wantErr: apperrors.ErrDataIntegrity},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			ctx := context.Background()
			repo := new(MockCurrencyRepository)
			svc := services.NewCurrencyService(repo)
			if tc.found != nil {
				repo.On("FindCurrencyByCode", ctx, tc.code).Return(tc.found, nil).Twice()
			} else {
				repo.On("FindCurrencyByCode", ctx, tc.code).Return(nil, tc.repoErr).Twice()
			}

			for i := 0; i < 2; i++ {
				c, err := svc.GetCurrencyByCode(ctx, tc.code)
				suite.Nil(c)
				suite.Require().Error(err)
				if tc.wantErr != nil {
					suite.ErrorIs(err, tc.wantErr)
				} else {
					suite.ErrorIs(err, tc.repoErr)
				}
			}
			// failures are never cached
			repo.AssertNumberOfCalls(suite.T(), "FindCurrencyByCode", 2)
		})
	}
}

func TestCurrencyService(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
