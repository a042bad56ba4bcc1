package services

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
)

// CurrencyReaderSvc resolves account currencies and their precision.
type CurrencyReaderSvc interface {
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
}
