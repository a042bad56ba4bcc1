package interest

import (
	"time"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TaxSplitter computes per-component withholding on a gross interest amount.
type TaxSplitter interface {
	SplitTax(gross decimal.Decimal, on time.Time, group domain.TaxGroup, currency domain.Currency, mode domain.RoundingMode) []domain.TaxSplit
}

// groupSplitter applies the tax group's own percentages.
type groupSplitter struct{}

func (groupSplitter) SplitTax(gross decimal.Decimal, on time.Time, group domain.TaxGroup, currency domain.Currency, mode domain.RoundingMode) []domain.TaxSplit {
	return group.Split(gross, on, currency, mode)
}

// withholding creates the WITHHOLD_TAX companion of an interest posting.
type withholding struct {
	group    *domain.TaxGroup
	splitter TaxSplitter
	currency domain.Currency
	mode     domain.RoundingMode
	newTxn   func(kind domain.TransactionKind, date time.Time, amount decimal.Decimal) *domain.Transaction
}

// apply returns the withholding entry for gross posted on date, or nil when
// no tax group is configured or the total tax is zero.
func (w *withholding) apply(gross decimal.Decimal, date time.Time) *domain.Transaction {
	if w == nil || w.group == nil || !gross.IsPositive() {
		return nil
	}
	splits := w.splitter.SplitTax(gross, date, *w.group, w.currency, w.mode)
	total := domain.TotalTax(splits)
	if !total.IsPositive() {
		return nil
	}
	t := w.newTxn(domain.WithholdTax, date, total)
	t.TaxSplits = splits
	return t
}
