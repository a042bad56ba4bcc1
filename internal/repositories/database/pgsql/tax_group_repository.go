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

type PgxTaxGroupRepository struct {
	BaseRepository
}

func newPgxTaxGroupRepository(pool *pgxpool.Pool) portsrepo.TaxGroupReader {
	return &PgxTaxGroupRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TaxGroupReader = (*PgxTaxGroupRepository)(nil)

// FindTaxGroupByID retrieves a tax group and its components ordered by start date.
func (r *PgxTaxGroupRepository) FindTaxGroupByID(ctx context.Context, taxGroupID string) (*domain.TaxGroup, error) {
	var group models.TaxGroup
	err := r.Pool.QueryRow(ctx, `
		SELECT tax_group_id, name, created_at, created_by, last_updated_at, last_updated_by, version
		FROM tax_groups
		WHERE tax_group_id = $1;`, taxGroupID).Scan(
		&group.TaxGroupID,
		&group.Name,
		&group.CreatedAt,
		&group.CreatedBy,
		&group.LastUpdatedAt,
		&group.LastUpdatedBy,
		&group.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tax group %s: %w", taxGroupID, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT tax_component_id, tax_group_id, name, percentage, start_date, end_date
		FROM tax_components
		WHERE tax_group_id = $1
		ORDER BY start_date, tax_component_id;`, taxGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query components of tax group %s: %w", taxGroupID, err)
	}
	components, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TaxComponent])
	if err != nil {
		return nil, fmt.Errorf("failed to scan components of tax group %s: %w", taxGroupID, err)
	}

	d := mapping.ToDomainTaxGroup(group, components)
	return &d, nil
}
