package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// taxPolicyService loads tax groups once per process and splits withholding
// with each component's own percentage.
type taxPolicyService struct {
	BaseService
	repo portsrepo.TaxGroupReader

	mu     sync.RWMutex
	groups map[string]domain.TaxGroup
}

func NewTaxPolicyService(repo portsrepo.TaxGroupReader) portssvc.TaxPolicySvc {
	return &taxPolicyService{repo: repo, groups: make(map[string]domain.TaxGroup)}
}

var _ portssvc.TaxPolicySvc = (*taxPolicyService)(nil)

func (s *taxPolicyService) GetTaxGroup(ctx context.Context, taxGroupID string) (*domain.TaxGroup, error) {
	s.mu.RLock()
	g, ok := s.groups[taxGroupID]
	s.mu.RUnlock()
	if ok {
		return &g, nil
	}

	group, err := s.repo.FindTaxGroupByID(ctx, taxGroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tax group %s: %w", taxGroupID, err)
	}
	s.LogDebug(ctx, "Tax group loaded",
		slog.String("tax_group_id", taxGroupID),
		slog.Int("components", len(group.Components)))

	s.mu.Lock()
	s.groups[taxGroupID] = *group
	s.mu.Unlock()
	return group, nil
}

// SplitTax never withholds more than gross; when the rounded component amounts
// overshoot, the excess comes off the last components first.
func (s *taxPolicyService) SplitTax(gross decimal.Decimal, on time.Time, group domain.TaxGroup, currency domain.Currency, mode domain.RoundingMode) []domain.TaxSplit {
	splits := group.Split(gross, on, currency, mode)
	excess := domain.TotalTax(splits).Sub(gross)
	for i := len(splits) - 1; i >= 0 && excess.IsPositive(); i-- {
		cut := decimal.Min(excess, splits[i].Amount)
		splits[i].Amount = splits[i].Amount.Sub(cut)
		excess = excess.Sub(cut)
	}

	out := splits[:0]
	for _, sp := range splits {
		if sp.Amount.IsPositive() {
			out = append(out, sp)
		}
	}
	return out
}
