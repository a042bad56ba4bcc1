package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used by the command line entry points.
type ServiceContainer struct {
	SavingsAccount SavingsAccountSvcFacade
	Currency       CurrencySvcFacade
	TaxPolicy      TaxPolicySvc
	BusinessDate   BusinessDateSvc
}
