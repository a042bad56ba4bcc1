package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	"github.com/SscSPs/savings_servicing/internal/models"
	"github.com/SscSPs/savings_servicing/internal/utils/mapping"
	"github.com/SscSPs/savings_servicing/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const savingsAccountColumns = `
	account_id, account_no, product_type, status, currency_code,
	nominal_annual_interest_rate, nominal_annual_overdraft_interest_rate,
	compounding_period, posting_period, calculation_method, days_in_year,
	min_balance_for_interest, min_overdraft_for_interest,
	allow_overdraft, overdraft_limit,
	lockin_frequency, lockin_unit, locked_in_until, premature_closure_penalty_rate,
	withhold_tax, tax_group_id,
	submitted_on_date, activation_date, closed_on_date,
	last_interest_calculation_date, interest_posted_till_date,
	total_deposits, total_withdrawals, total_interest_posted, total_overdraft_interest,
	total_interest_earned, total_withhold_tax, total_charges, total_fees,
	total_transfers_in, total_transfers_out, total_on_hold, account_balance,
	created_at, created_by, last_updated_at, last_updated_by, version`

type PgxSavingsAccountRepository struct {
	BaseRepository
}

// newPgxSavingsAccountRepository creates a new repository for savings account data.
func newPgxSavingsAccountRepository(pool *pgxpool.Pool) portsrepo.SavingsAccountRepositoryWithTx {
	return &PgxSavingsAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SavingsAccountRepositoryWithTx = (*PgxSavingsAccountRepository)(nil)

func collectSavingsAccounts(rows pgx.Rows) ([]domain.SavingsAccount, error) {
	modelAccs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.SavingsAccount])
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.SavingsAccount, len(modelAccs))
	for i, m := range modelAccs {
		accounts[i] = mapping.ToDomainSavingsAccount(m)
	}
	return accounts, nil
}

// SaveSavingsAccount inserts a new account.
func (r *PgxSavingsAccountRepository) SaveSavingsAccount(ctx context.Context, account domain.SavingsAccount) error {
	m := mapping.ToModelSavingsAccount(account)

	query := `INSERT INTO savings_accounts (` + savingsAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38,
			$39, $40, $41, $42, 1);`

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.AccountNo, m.ProductType, m.Status, m.CurrencyCode,
		m.NominalAnnualInterestRate, m.NominalAnnualOverdraftInterestRate,
		m.CompoundingPeriod, m.PostingPeriod, m.CalculationMethod, m.DaysInYear,
		m.MinBalanceForInterest, m.MinOverdraftForInterest,
		m.AllowOverdraft, m.OverdraftLimit,
		m.LockinFrequency, m.LockinUnit, m.LockedInUntil, m.PrematureClosurePenaltyRate,
		m.WithholdTax, m.TaxGroupID,
		m.SubmittedOnDate, m.ActivationDate, m.ClosedOnDate,
		m.LastInterestCalculationDate, m.InterestPostedTillDate,
		m.TotalDeposits, m.TotalWithdrawals, m.TotalInterestPosted, m.TotalOverdraftInterest,
		m.TotalInterestEarned, m.TotalWithholdTax, m.TotalCharges, m.TotalFees,
		m.TotalTransfersIn, m.TotalTransfersOut, m.TotalOnHold, m.AccountBalance,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: savings account %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save savings account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindSavingsAccountByID retrieves an account by its ID.
func (r *PgxSavingsAccountRepository) FindSavingsAccountByID(ctx context.Context, accountID string) (*domain.SavingsAccount, error) {
	query := `SELECT ` + savingsAccountColumns + ` FROM savings_accounts WHERE account_id = $1;`

	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find savings account by ID %s: %w", accountID, err)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.SavingsAccount])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan savings account %s: %w", accountID, err)
	}

	acc := mapping.ToDomainSavingsAccount(m)
	return &acc, nil
}

// ListActiveAccounts pages through active accounts in account id order.
func (r *PgxSavingsAccountRepository) ListActiveAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.SavingsAccount, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	after := ""
	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 1 {
			return nil, nil, fmt.Errorf("%w: invalid next token", apperrors.ErrValidation)
		}
		after = fields[0]
	}

	query := `SELECT ` + savingsAccountColumns + `
		FROM savings_accounts
		WHERE status = $1 AND account_id > $2
		ORDER BY account_id
		LIMIT $3;`

	// fetch one extra row to know whether another page exists
	rows, err := r.Pool.Query(ctx, query, string(domain.StatusActive), after, limit+1)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query active savings accounts: %w", err)
	}
	accounts, err := collectSavingsAccounts(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan active savings accounts: %w", err)
	}

	var next *string
	if len(accounts) > limit {
		accounts = accounts[:limit]
		token := pagination.EncodeMultiFieldToken(accounts[limit-1].AccountID)
		next = &token
	}
	return accounts, next, nil
}

// FindSavingsAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxSavingsAccountRepository) FindSavingsAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.SavingsAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.SavingsAccount{}, nil
	}

	// ORDER BY keeps the lock acquisition order stable across callers
	query := `SELECT ` + savingsAccountColumns + `
		FROM savings_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings accounts by IDs for update: %w", err)
	}
	accounts, err := collectSavingsAccounts(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan savings accounts for update: %w", err)
	}

	accountsMap := make(map[string]domain.SavingsAccount, len(accounts))
	for _, acc := range accounts {
		accountsMap[acc.AccountID] = acc
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, ok := accountsMap[id]; !ok {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some savings accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateSavingsAccountInTx writes every mutable column and bumps the version.
func (r *PgxSavingsAccountRepository) UpdateSavingsAccountInTx(ctx context.Context, tx pgx.Tx, account domain.SavingsAccount) error {
	m := mapping.ToModelSavingsAccount(account)

	query := `
		UPDATE savings_accounts SET
			status = $2, activation_date = $3, closed_on_date = $4, locked_in_until = $5,
			last_interest_calculation_date = $6, interest_posted_till_date = $7,
			total_deposits = $8, total_withdrawals = $9, total_interest_posted = $10,
			total_overdraft_interest = $11, total_interest_earned = $12, total_withhold_tax = $13,
			total_charges = $14, total_fees = $15, total_transfers_in = $16, total_transfers_out = $17,
			total_on_hold = $18, account_balance = $19,
			last_updated_at = $20, last_updated_by = $21, version = version + 1
		WHERE account_id = $1 AND version = $22;`

	cmdTag, err := tx.Exec(ctx, query,
		m.AccountID, m.Status, m.ActivationDate, m.ClosedOnDate, m.LockedInUntil,
		m.LastInterestCalculationDate, m.InterestPostedTillDate,
		m.TotalDeposits, m.TotalWithdrawals, m.TotalInterestPosted,
		m.TotalOverdraftInterest, m.TotalInterestEarned, m.TotalWithholdTax,
		m.TotalCharges, m.TotalFees, m.TotalTransfersIn, m.TotalTransfersOut,
		m.TotalOnHold, m.AccountBalance,
		m.LastUpdatedAt, m.LastUpdatedBy, m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update savings account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: savings account %s was modified concurrently (version %d)", apperrors.ErrDataIntegrity, m.AccountID, m.Version)
	}
	return nil
}
