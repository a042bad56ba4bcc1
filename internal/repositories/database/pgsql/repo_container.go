package pgsql

import (
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SavingsAccountRepo:     newPgxSavingsAccountRepository(dbPool),
		SavingsTransactionRepo: newPgxSavingsTransactionRepository(dbPool),
		CurrencyRepo:           newPgxCurrencyRepository(dbPool),
		TaxGroupRepo:           newPgxTaxGroupRepository(dbPool),
	}
}
