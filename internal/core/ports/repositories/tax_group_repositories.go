package repositories

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
)

// TaxGroupReader defines read operations for withholding tax configuration
type TaxGroupReader interface {
	// FindTaxGroupByID retrieves a tax group with all of its components.
	FindTaxGroupByID(ctx context.Context, taxGroupID string) (*domain.TaxGroup, error)
}
