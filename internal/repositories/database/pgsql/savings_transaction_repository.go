package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	"github.com/SscSPs/savings_servicing/internal/models"
	"github.com/SscSPs/savings_servicing/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const savingsTransactionColumns = `
	transaction_id, account_id, kind, transaction_date, submitted_on_date, amount, currency_code,
	running_balance, cumulative_balance, balance_end_date, balance_number_of_days, overdraft_amount,
	is_reversed, reversal_of_id, is_manual, is_user_posting, charge_id, transfer_id, notes,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxSavingsTransactionRepository struct {
	BaseRepository
}

// newPgxSavingsTransactionRepository creates a new repository for ledger entries.
func newPgxSavingsTransactionRepository(pool *pgxpool.Pool) portsrepo.SavingsTransactionRepositoryFacade {
	return &PgxSavingsTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SavingsTransactionRepositoryFacade = (*PgxSavingsTransactionRepository)(nil)

// ListTransactionsByAccountID loads the ledger of an account outside a transaction.
func (r *PgxSavingsTransactionRepository) ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	return r.listTransactions(ctx, r.Pool, accountID)
}

// ListTransactionsByAccountIDInTx loads the ledger of an account within tx.
func (r *PgxSavingsTransactionRepository) ListTransactionsByAccountIDInTx(ctx context.Context, tx pgx.Tx, accountID string) ([]domain.Transaction, error) {
	return r.listTransactions(ctx, tx, accountID)
}

func (r *PgxSavingsTransactionRepository) listTransactions(ctx context.Context, q querier, accountID string) ([]domain.Transaction, error) {
	query := `SELECT ` + savingsTransactionColumns + `
		FROM savings_transactions
		WHERE account_id = $1
		ORDER BY transaction_date, created_at, transaction_id;`

	rows, err := q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %s: %w", accountID, err)
	}
	modelTxns, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SavingsTransaction])
	if err != nil {
		return nil, fmt.Errorf("failed to scan transactions for account %s: %w", accountID, err)
	}

	splitQuery := `
		SELECT s.transaction_id, s.tax_component_id, s.name, s.percentage, s.amount
		FROM savings_transaction_tax_splits s
		JOIN savings_transactions t ON t.transaction_id = s.transaction_id
		WHERE t.account_id = $1
		ORDER BY s.transaction_id, s.tax_component_id;`

	splitRows, err := q.Query(ctx, splitQuery, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tax splits for account %s: %w", accountID, err)
	}
	splits, err := pgx.CollectRows(splitRows, pgx.RowToStructByName[models.TaxSplit])
	if err != nil {
		return nil, fmt.Errorf("failed to scan tax splits for account %s: %w", accountID, err)
	}

	byTxn := make(map[string][]models.TaxSplit)
	for _, s := range splits {
		byTxn[s.TransactionID] = append(byTxn[s.TransactionID], s)
	}

	txns := make([]domain.Transaction, len(modelTxns))
	for i, m := range modelTxns {
		txns[i] = mapping.ToDomainSavingsTransaction(m, byTxn[m.TransactionID])
	}
	return txns, nil
}

// SaveLedgerChangesInTx queues every insert and update in one batch.
func (r *PgxSavingsTransactionRepository) SaveLedgerChangesInTx(ctx context.Context, tx pgx.Tx, created []*domain.Transaction, updated []*domain.Transaction) error {
	insertQuery := `INSERT INTO savings_transactions (` + savingsTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
			$20, $21, $22, $23, 1);`
	splitQuery := `
		INSERT INTO savings_transaction_tax_splits (transaction_id, tax_component_id, name, percentage, amount)
		VALUES ($1, $2, $3, $4, $5);`
	updateQuery := `
		UPDATE savings_transactions SET
			is_reversed = $2, running_balance = $3, cumulative_balance = $4,
			balance_end_date = $5, balance_number_of_days = $6, overdraft_amount = $7,
			last_updated_at = $8, last_updated_by = $9, version = version + 1
		WHERE transaction_id = $1;`

	batch := &pgx.Batch{}
	// updates precede inserts: uq_savings_transactions_active_interest allows one live posting per date
	for _, t := range updated {
		m, _ := mapping.ToModelSavingsTransaction(*t)
		batch.Queue(updateQuery,
			m.TransactionID, m.Reversed, m.RunningBalance, m.CumulativeBalance,
			m.BalanceEndDate, m.BalanceNumberOfDays, m.OverdraftAmount,
			m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	for _, t := range created {
		m, splits := mapping.ToModelSavingsTransaction(*t)
		batch.Queue(insertQuery,
			m.TransactionID, m.AccountID, m.Kind, m.TransactionDate, m.SubmittedOnDate, m.Amount, m.CurrencyCode,
			m.RunningBalance, m.CumulativeBalance, m.BalanceEndDate, m.BalanceNumberOfDays, m.OverdraftAmount,
			m.Reversed, m.ReversalOfID, m.IsManual, m.IsUserPosting, m.ChargeID, m.TransferID, m.Notes,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		for _, s := range splits {
			batch.Queue(splitQuery, s.TransactionID, s.TaxComponentID, s.Name, s.Percentage, s.Amount)
		}
	}

	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			if isUniqueViolation(err) {
				batchErr = fmt.Errorf("%w: ledger entry already exists: %v", apperrors.ErrDuplicate, err)
			} else {
				batchErr = fmt.Errorf("failed to write ledger change %d: %w", i, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = apperrors.NewAppError(500, "failed to close ledger batch", err)
	}
	return batchErr
}
