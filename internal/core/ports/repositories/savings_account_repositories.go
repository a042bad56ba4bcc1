package repositories

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// SavingsAccountReader defines read operations for savings account data
type SavingsAccountReader interface {
	// FindSavingsAccountByID retrieves a specific account by its unique identifier.
	FindSavingsAccountByID(ctx context.Context, accountID string) (*domain.SavingsAccount, error)

	// ListActiveAccounts returns a page of active accounts ordered by id, and
	// the token for the next page (nil when there is none).
	ListActiveAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.SavingsAccount, *string, error)
}

// SavingsAccountWriter defines write operations for savings account data
type SavingsAccountWriter interface {
	// SaveSavingsAccount persists a new account.
	SaveSavingsAccount(ctx context.Context, account domain.SavingsAccount) error
}

// SavingsAccountTransactionSupport defines operations that run inside a caller's transaction
type SavingsAccountTransactionSupport interface {
	// FindSavingsAccountsByIDsForUpdate selects accounts and locks them for update within a transaction.
	FindSavingsAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.SavingsAccount, error)

	// UpdateSavingsAccountInTx writes the mutable columns of an account. It
	// fails with ErrDataIntegrity when the stored version no longer matches.
	UpdateSavingsAccountInTx(ctx context.Context, tx pgx.Tx, account domain.SavingsAccount) error
}

// SavingsAccountRepositoryFacade combines all savings account repository interfaces
type SavingsAccountRepositoryFacade interface {
	SavingsAccountReader
	SavingsAccountWriter
	SavingsAccountTransactionSupport
}

// SavingsAccountRepositoryWithTx extends SavingsAccountRepositoryFacade with transaction capabilities
type SavingsAccountRepositoryWithTx interface {
	SavingsAccountRepositoryFacade
	TransactionManager
}
