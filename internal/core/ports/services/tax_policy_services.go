package services

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
)

// TaxPolicySvc resolves withholding tax configuration and splits gross
// interest into per-component tax amounts.
type TaxPolicySvc interface {
	interest.TaxSplitter

	// GetTaxGroup retrieves a tax group with its components.
	GetTaxGroup(ctx context.Context, taxGroupID string) (*domain.TaxGroup, error)
}
