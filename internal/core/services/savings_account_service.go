package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	portsrepo "github.com/SscSPs/savings_servicing/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/dto"
	"github.com/SscSPs/savings_servicing/internal/platform/metrics"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// savingsAccountService implements the SavingsAccountSvcFacade interface
type savingsAccountService struct {
	BaseService
	accountRepo  portsrepo.SavingsAccountRepositoryWithTx
	txnRepo      portsrepo.SavingsTransactionRepositoryFacade
	currencySvc  portssvc.CurrencyReaderSvc
	taxPolicy    portssvc.TaxPolicySvc
	businessDate portssvc.BusinessDateSvc
	policy       interest.Policy
	metrics      *metrics.Metrics
	now          func() time.Time
	newID        func() string
	batchSize    int

	engine *interest.Engine
}

// SavingsServiceOption is a functional option for configuring the savings account service
type SavingsServiceOption func(*savingsAccountService)

// WithInterestPolicy sets the global posting toggles.
func WithInterestPolicy(p interest.Policy) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.policy = p
	}
}

// WithTaxPolicy adds the withholding tax dependency
func WithTaxPolicy(svc portssvc.TaxPolicySvc) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.taxPolicy = svc
	}
}

// WithBusinessDate replaces the wall-clock business date.
func WithBusinessDate(svc portssvc.BusinessDateSvc) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.businessDate = svc
	}
}

// WithMetrics records posting runs on m.
func WithMetrics(m *metrics.Metrics) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.metrics = m
	}
}

// WithServiceClock sets the clock used for audit timestamps and run durations.
func WithServiceClock(now func() time.Time) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.now = now
	}
}

// WithServiceIDGenerator sets the generator for account and transaction ids.
func WithServiceIDGenerator(newID func() string) SavingsServiceOption {
	return func(s *savingsAccountService) {
		s.newID = newID
	}
}

// WithBatchSize sets the page size of PostInterestForActiveAccounts.
func WithBatchSize(n int) SavingsServiceOption {
	return func(s *savingsAccountService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewSavingsAccountService creates a new savings account service with the provided options
func NewSavingsAccountService(
	accountRepo portsrepo.SavingsAccountRepositoryWithTx,
	txnRepo portsrepo.SavingsTransactionRepositoryFacade,
	currencySvc portssvc.CurrencyReaderSvc,
	options ...SavingsServiceOption,
) portssvc.SavingsAccountSvcFacade {
	svc := &savingsAccountService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		currencySvc: currencySvc,
		policy:      interest.DefaultPolicy(),
		now:         time.Now,
		newID:       uuid.NewString,
		batchSize:   100,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}
	if svc.businessDate == nil {
		svc.businessDate = NewBusinessDateService(time.UTC, svc.now)
	}

	engineOpts := []interest.Option{interest.WithClock(svc.now), interest.WithIDGenerator(svc.newID)}
	if svc.taxPolicy != nil {
		engineOpts = append(engineOpts, interest.WithTaxSplitter(svc.taxPolicy))
	}
	svc.engine = interest.NewEngine(svc.policy, engineOpts...)
	return svc
}

// Ensure savingsAccountService implements the SavingsAccountSvcFacade interface
var _ portssvc.SavingsAccountSvcFacade = (*savingsAccountService)(nil)

// accountWork is one locked account and its ledger inside a DB transaction.
type accountWork struct {
	account *domain.SavingsAccount
	ledger  *domain.Ledger
	loaded  map[string]domain.Transaction
}

func newAccountWork(acc *domain.SavingsAccount, txns []domain.Transaction) *accountWork {
	w := &accountWork{
		account: acc,
		ledger:  domain.NewLedger(acc.AccountID, txns),
		loaded:  make(map[string]domain.Transaction, len(txns)),
	}
	for _, t := range txns {
		w.loaded[t.TransactionID] = t
	}
	return w
}

// pending splits the ledger into entries to insert and persisted entries
// whose stored columns changed since they were loaded.
func (w *accountWork) pending() (created, updated []*domain.Transaction) {
	for _, t := range w.ledger.Entries() {
		if !t.Persisted {
			created = append(created, t)
			continue
		}
		if old, ok := w.loaded[t.TransactionID]; !ok || storedColumnsDiffer(old, *t) {
			updated = append(updated, t)
		}
	}
	return created, updated
}

func storedColumnsDiffer(a, b domain.Transaction) bool {
	return a.Reversed != b.Reversed ||
		!a.RunningBalance.Equal(b.RunningBalance) ||
		!a.CumulativeBalance.Equal(b.CumulativeBalance) ||
		!a.OverdraftAmount.Equal(b.OverdraftAmount) ||
		a.BalanceNumberOfDays != b.BalanceNumberOfDays ||
		!sameDate(a.BalanceEndDate, b.BalanceEndDate)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// inAccountTx locks the accounts in id order, loads their ledgers, runs fn and
// persists every ledger and account change in the same DB transaction.
func (s *savingsAccountService) inAccountTx(ctx context.Context, userID string, accountIDs []string, fn func(works map[string]*accountWork) error) error {
	ids := make([]string, 0, len(accountIDs))
	seen := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer func() { _ = s.accountRepo.Rollback(ctx, tx) }()

	locked, err := s.accountRepo.FindSavingsAccountsByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}
	works := make(map[string]*accountWork, len(ids))
	for _, id := range ids {
		acc := locked[id]
		txns, err := s.txnRepo.ListTransactionsByAccountIDInTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to load ledger of account %s: %w", id, err)
		}
		works[id] = newAccountWork(&acc, txns)
	}

	if err := fn(works); err != nil {
		return err
	}

	now := s.now()
	for _, id := range ids {
		w := works[id]
		created, updated := w.pending()
		for _, t := range updated {
			t.LastUpdatedAt = now
			t.LastUpdatedBy = userID
		}
		if err := s.txnRepo.SaveLedgerChangesInTx(ctx, tx, created, updated); err != nil {
			return fmt.Errorf("failed to save ledger changes of account %s: %w", id, err)
		}

		w.account.LastUpdatedAt = now
		w.account.LastUpdatedBy = userID
		if err := s.accountRepo.UpdateSavingsAccountInTx(ctx, tx, *w.account); err != nil {
			return err
		}
		w.account.Version++
		s.LogDebug(ctx, "Account changes staged",
			slog.String("account_id", id),
			slog.Int("created", len(created)),
			slog.Int("updated", len(updated)))
	}

	return s.accountRepo.Commit(ctx, tx)
}

func (s *savingsAccountService) currency(ctx context.Context, code string) (domain.Currency, error) {
	c, err := s.currencySvc.GetCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Currency{}, fmt.Errorf("%w: unknown currency %s", apperrors.ErrValidation, code)
		}
		return domain.Currency{}, err
	}
	return *c, nil
}

// interestInput assembles the engine input for acc. The caller fills in the dates.
func (s *savingsAccountService) interestInput(ctx context.Context, acc *domain.SavingsAccount, ledger *domain.Ledger, today time.Time, userID string) (interest.Input, error) {
	currency, err := s.currency(ctx, acc.CurrencyCode)
	if err != nil {
		return interest.Input{}, err
	}
	in := interest.Input{
		Account:  acc,
		Ledger:   ledger,
		Currency: currency,
		Today:    today,
		UserID:   userID,
	}
	if acc.WithholdTax && acc.TaxGroupID != "" {
		if s.taxPolicy == nil {
			return interest.Input{}, fmt.Errorf("%w: account %s withholds tax but no tax policy is configured", apperrors.ErrDataIntegrity, acc.AccountID)
		}
		group, err := s.taxPolicy.GetTaxGroup(ctx, acc.TaxGroupID)
		if err != nil {
			return interest.Input{}, err
		}
		in.TaxGroup = group
	}
	return in, nil
}

func (s *savingsAccountService) runMode(acc *domain.SavingsAccount) string {
	if s.policy.PivotMode && acc.InterestPostedTillDate != nil {
		return interest.ModePivot
	}
	return interest.ModeFull
}

func (s *savingsAccountService) newTransaction(acc *domain.SavingsAccount, kind domain.TransactionKind, date, today time.Time, amount decimal.Decimal, userID, notes string) *domain.Transaction {
	now := s.now()
	return &domain.Transaction{
		TransactionID:   s.newID(),
		AccountID:       acc.AccountID,
		Kind:            kind,
		TransactionDate: date,
		SubmittedOnDate: today,
		Amount:          amount,
		CurrencyCode:    acc.CurrencyCode,
		Notes:           notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
			Version:       1,
		},
	}
}

func (s *savingsAccountService) GetSavingsAccount(ctx context.Context, accountID string) (*domain.SavingsAccount, error) {
	acc, err := s.accountRepo.FindSavingsAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find savings account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return acc, nil
}

func (s *savingsAccountService) GetTransactions(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	if _, err := s.GetSavingsAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}
	if txns == nil {
		return []domain.Transaction{}, nil
	}
	return txns, nil
}

func (s *savingsAccountService) OpenAccount(ctx context.Context, req dto.OpenSavingsAccountRequest, userID string) (*domain.SavingsAccount, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.currency(ctx, req.CurrencyCode); err != nil {
		s.LogError(ctx, err, "Invalid currency code", slog.String("currency_code", req.CurrencyCode))
		return nil, err
	}

	now := s.now()
	account := domain.SavingsAccount{
		AccountID:    s.newID(),
		AccountNo:    req.AccountNo,
		ProductType:  req.ProductType,
		Status:       domain.StatusSubmitted,
		CurrencyCode: req.CurrencyCode,

		NominalAnnualInterestRate:          req.NominalAnnualInterestRate,
		NominalAnnualOverdraftInterestRate: req.NominalAnnualOverdraftInterestRate,
		CompoundingPeriod:                  req.CompoundingPeriod,
		PostingPeriod:                      req.PostingPeriod,
		CalculationMethod:                  req.CalculationMethod,
		DaysInYear:                         req.DaysInYear,
		MinBalanceForInterest:              req.MinBalanceForInterest,
		MinOverdraftForInterest:            req.MinOverdraftForInterest,

		AllowOverdraft: req.AllowOverdraft,
		OverdraftLimit: req.OverdraftLimit,

		LockinFrequency:             req.LockinFrequency,
		LockinUnit:                  req.LockinUnit,
		PrematureClosurePenaltyRate: req.PrematureClosurePenaltyRate,

		WithholdTax: req.WithholdTax,
		TaxGroupID:  req.TaxGroupID,

		SubmittedOnDate: dates.Normalize(req.SubmittedOnDate),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
			Version:       1,
		},
	}
	if !account.AllowOverdraft {
		account.OverdraftLimit = decimal.Zero
	}

	if err := account.ValidateInterestSettings(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if account.WithholdTax {
		if s.taxPolicy == nil {
			return nil, fmt.Errorf("%w: withholding tax requires a tax policy", apperrors.ErrValidation)
		}
		if _, err := s.taxPolicy.GetTaxGroup(ctx, account.TaxGroupID); err != nil {
			return nil, fmt.Errorf("%w: tax group %s: %v", apperrors.ErrValidation, account.TaxGroupID, err)
		}
	}

	if err := s.accountRepo.SaveSavingsAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save savings account", slog.String("account_no", account.AccountNo))
		return nil, err
	}

	s.LogInfo(ctx, "Savings account opened",
		slog.String("account_id", account.AccountID),
		slog.String("account_no", account.AccountNo))
	return &account, nil
}

func (s *savingsAccountService) ActivateAccount(ctx context.Context, accountID string, req dto.ActivateAccountRequest, userID string) (*domain.SavingsAccount, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var activated domain.SavingsAccount
	err := s.inAccountTx(ctx, userID, []string{accountID}, func(works map[string]*accountWork) error {
		acc := works[accountID].account
		on := dates.Normalize(req.ActivationDate)
		if today := s.businessDate.Today(ctx); on.After(today) {
			return fmt.Errorf("%w: activation date %s is in the future", apperrors.ErrValidation, dates.Format(on))
		}
		if err := acc.Activate(on); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		activated = *acc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to activate savings account", slog.String("account_id", accountID))
		return nil, err
	}

	activated.Version++
	s.LogInfo(ctx, "Savings account activated",
		slog.String("account_id", accountID),
		slog.String("activation_date", dates.Format(*activated.ActivationDate)))
	return &activated, nil
}
