package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
)

// maxCurrencyPrecision matches the scale of the ledger amount columns.
const maxCurrencyPrecision = 6

// currencyService resolves account currencies. Every booking and posting run
// needs the precision, so currencies are cached once found.
type currencyService struct {
	BaseService
	currencyRepo portsrepo.CurrencyRepositoryFacade

	mu     sync.RWMutex
	byCode map[string]domain.Currency
}

func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo, byCode: make(map[string]domain.Currency)}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))

	s.mu.RLock()
	c, ok := s.byCode[code]
	s.mu.RUnlock()
	if ok {
		return &c, nil
	}

	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load currency", slog.String("currency_code", code))
		}
		return nil, fmt.Errorf("failed to get currency %s: %w", code, err)
	}
	if currency.Precision < 0 || currency.Precision > maxCurrencyPrecision {
		return nil, fmt.Errorf("%w: currency %s has unsupported precision %d", apperrors.ErrDataIntegrity, code, currency.Precision)
	}

	s.mu.Lock()
	s.byCode[code] = *currency
	s.mu.Unlock()
	return currency, nil
}
