package services

import (
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/platform/config"
	"github.com/SscSPs/savings_servicing/internal/platform/metrics"
)

// PolicyFromConfig maps the posting toggles of cfg onto an interest policy.
func PolicyFromConfig(cfg *config.Config) interest.Policy {
	policy := interest.DefaultPolicy()
	policy.PostAtPeriodEnd = cfg.InterestPostingAtPeriodEnd
	policy.PivotMode = cfg.BackdatedTxnsPivotMode
	if cfg.FiscalYearStartMonth != 0 {
		policy.FiscalYearStartMonth = cfg.FiscalYearStartMonth
	}
	if cfg.RoundingMode != "" {
		policy.RoundingMode = cfg.RoundingMode
	}
	return policy
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// A nil businessDate uses the wall clock in the configured time zone; m may be nil.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, m *metrics.Metrics, businessDate portssvc.BusinessDateSvc) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	if businessDate == nil {
		businessDate = NewBusinessDateService(cfg.BusinessDateLocation, nil)
	}
	container.BusinessDate = businessDate
	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.TaxPolicy = NewTaxPolicyService(repos.TaxGroupRepo)

	container.SavingsAccount = NewSavingsAccountService(
		repos.SavingsAccountRepo,
		repos.SavingsTransactionRepo,
		container.Currency,
		WithInterestPolicy(PolicyFromConfig(cfg)),
		WithTaxPolicy(container.TaxPolicy),
		WithBusinessDate(container.BusinessDate),
		WithMetrics(m),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.SavingsAccountSvcFacade = (*savingsAccountService)(nil)
	_ portssvc.CurrencySvcFacade       = (*currencyService)(nil)
	_ portssvc.TaxPolicySvc            = (*taxPolicyService)(nil)
)
