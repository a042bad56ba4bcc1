package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	"github.com/SscSPs/savings_servicing/internal/models"
	"github.com/SscSPs/savings_servicing/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCurrencyRepository struct {
	BaseRepository
}

func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepositoryWithTx {
	return &PgxCurrencyRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.CurrencyRepositoryWithTx = (*PgxCurrencyRepository)(nil)

// FindCurrencyByCode retrieves a currency by its ISO 4217 code.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT currency_code, symbol, name, precision, created_at, created_by, last_updated_at, last_updated_by, version
		FROM currencies
		WHERE currency_code = $1`, currencyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency %s: %w", currencyCode, err)
	}

	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Currency])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan currency %s: %w", currencyCode, err)
	}

	c := mapping.ToDomainCurrency(m)
	return &c, nil
}
