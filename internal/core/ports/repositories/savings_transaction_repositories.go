package repositories

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SavingsTransactionReader defines read operations for the account ledger
type SavingsTransactionReader interface {
	// ListTransactionsByAccountID loads the full ledger of an account, reversed entries included.
	ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// ListTransactionsByAccountIDInTx is ListTransactionsByAccountID inside a transaction.
	ListTransactionsByAccountIDInTx(ctx context.Context, tx pgx.Tx, accountID string) ([]domain.Transaction, error)
}

// SavingsTransactionWriter defines write operations for the account ledger
type SavingsTransactionWriter interface {
	// SaveLedgerChangesInTx inserts created entries with their tax splits and
	// rewrites the reversal flag and derived balance columns of updated ones.
	SaveLedgerChangesInTx(ctx context.Context, tx pgx.Tx, created []*domain.Transaction, updated []*domain.Transaction) error
}

// SavingsTransactionRepositoryFacade combines all ledger repository interfaces
type SavingsTransactionRepositoryFacade interface {
	SavingsTransactionReader
	SavingsTransactionWriter
}
