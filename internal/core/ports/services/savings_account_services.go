package services

import (
	"context"

	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	"github.com/SscSPs/savings_servicing/internal/dto"
)

// SavingsAccountReaderSvc defines read operations for savings accounts
type SavingsAccountReaderSvc interface {
	// GetSavingsAccount retrieves an account by id.
	GetSavingsAccount(ctx context.Context, accountID string) (*domain.SavingsAccount, error)

	// GetTransactions returns the account's ledger in ledger order, reversed entries included.
	GetTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// SavingsAccountLifecycleSvc moves accounts through submitted, active and closed.
type SavingsAccountLifecycleSvc interface {
	// OpenAccount persists a new account in the submitted state.
	OpenAccount(ctx context.Context, req dto.OpenSavingsAccountRequest, userID string) (*domain.SavingsAccount, error)

	// ActivateAccount makes a submitted account active.
	ActivateAccount(ctx context.Context, accountID string, req dto.ActivateAccountRequest, userID string) (*domain.SavingsAccount, error)

	// CloseAccount posts interest through the closing date, pays out the
	// remaining balance and closes the account.
	CloseAccount(ctx context.Context, accountID string, req dto.CloseAccountRequest, userID string) (*AccountClosure, error)
}

// SavingsTransactionSvc records non-interest ledger entries.
type SavingsTransactionSvc interface {
	Deposit(ctx context.Context, accountID string, req dto.TransactionRequest, userID string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, req dto.TransactionRequest, userID string) (*domain.Transaction, error)
	ApplyCharge(ctx context.Context, accountID string, req dto.ChargeRequest, userID string) (*domain.Transaction, error)

	// UndoTransaction reverses a user entry and returns it. Nothing is ever deleted.
	UndoTransaction(ctx context.Context, accountID string, transactionID string, userID string) (*domain.Transaction, error)

	// Transfer moves funds between two accounts atomically and returns the
	// outgoing and incoming entries.
	Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.Transaction, *domain.Transaction, error)
}

// InterestPostingSvc runs the interest engine against stored accounts.
type InterestPostingSvc interface {
	// PostInterest computes, reconciles and persists interest for one account.
	PostInterest(ctx context.Context, accountID string, req dto.PostInterestRequest, userID string) (*interest.Result, error)

	// CalculateInterest previews interest for one account without persisting anything.
	CalculateInterest(ctx context.Context, accountID string, req dto.PostInterestRequest) (*interest.Result, error)

	// PostInterestForActiveAccounts posts interest for every active account.
	// A failing account is recorded and the run continues.
	PostInterestForActiveAccounts(ctx context.Context, req dto.PostInterestRequest, userID string) (*BatchPostingReport, error)
}

// SavingsAccountSvcFacade combines all savings account service interfaces
type SavingsAccountSvcFacade interface {
	SavingsAccountReaderSvc
	SavingsAccountLifecycleSvc
	SavingsTransactionSvc
	InterestPostingSvc
}

// AccountClosure is the outcome of closing an account.
type AccountClosure struct {
	Account  domain.SavingsAccount
	Interest *interest.Result
	Payout   *domain.Transaction // nil when the closing balance was zero
}

// BatchPostingReport summarises a PostInterestForActiveAccounts run.
type BatchPostingReport struct {
	Processed int               `json:"processed"`
	Mutated   int               `json:"mutated"`
	Failed    map[string]string `json:"failed,omitempty"` // account id -> error
}
