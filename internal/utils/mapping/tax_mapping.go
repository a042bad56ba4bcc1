package mapping

import (
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/models"
)

// ToDomainTaxGroup assembles a tax group from its row and component rows.
func ToDomainTaxGroup(g models.TaxGroup, components []models.TaxComponent) domain.TaxGroup {
	d := domain.TaxGroup{
		TaxGroupID:  g.TaxGroupID,
		Name:        g.Name,
		AuditFields: ToDomainAuditFields(g.AuditFields),
	}
	for _, c := range components {
		d.Components = append(d.Components, domain.TaxComponent{
			TaxComponentID: c.TaxComponentID,
			Name:           c.Name,
			Percentage:     c.Percentage,
			StartDate:      c.StartDate,
			EndDate:        c.EndDate,
		})
	}
	return d
}
