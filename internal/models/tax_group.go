package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxGroup is the tax_groups row.
type TaxGroup struct {
	TaxGroupID string `db:"tax_group_id"`
	Name       string `db:"name"`
	AuditFields
}

// TaxComponent is the tax_components row, joined to its group.
type TaxComponent struct {
	TaxComponentID string          `db:"tax_component_id"`
	TaxGroupID     string          `db:"tax_group_id"`
	Name           string          `db:"name"`
	Percentage     decimal.Decimal `db:"percentage"`
	StartDate      time.Time       `db:"start_date"`
	EndDate        *time.Time      `db:"end_date"`
}
