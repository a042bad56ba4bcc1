package repositories

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
)

// CurrencyReader looks up the currencies accounts are denominated in.
// Currencies are reference data loaded by migrations.
type CurrencyReader interface {
	// FindCurrencyByCode returns apperrors.ErrNotFound for an unknown code.
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
}

// CurrencyRepositoryFacade is what the service layer depends on.
type CurrencyRepositoryFacade interface {
	CurrencyReader
}

// CurrencyRepositoryWithTx extends CurrencyRepositoryFacade with transaction capabilities
type CurrencyRepositoryWithTx interface {
	CurrencyRepositoryFacade
	TransactionManager
}
