package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	"github.com/SscSPs/savings_servicing/internal/dto"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
	"github.com/shopspring/decimal"
)

// checkTransactionDate rejects entries on inactive accounts, outside the
// active window, or inside an already posted period when running in pivot mode.
func (s *savingsAccountService) checkTransactionDate(acc *domain.SavingsAccount, date, today time.Time) error {
	if !acc.IsActive() {
		return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, acc.AccountID, acc.Status)
	}
	if date.Before(*acc.ActivationDate) {
		return fmt.Errorf("%w: transaction date %s is before activation date %s",
			apperrors.ErrValidation, dates.Format(date), dates.Format(*acc.ActivationDate))
	}
	if date.After(today) {
		return fmt.Errorf("%w: transaction date %s is in the future", apperrors.ErrValidation, dates.Format(date))
	}
	if s.policy.PivotMode && acc.InterestPostedTillDate != nil && !date.After(*acc.InterestPostedTillDate) {
		return fmt.Errorf("%w: transaction date %s falls in a period already posted till %s",
			apperrors.ErrValidation, dates.Format(date), dates.Format(*acc.InterestPostedTillDate))
	}
	return nil
}

func checkAmountPrecision(currency domain.Currency, amount decimal.Decimal) error {
	if !amount.Equal(amount.Truncate(int32(currency.Precision))) {
		return fmt.Errorf("%w: amount %s has more than %d decimal places for %s",
			apperrors.ErrValidation, amount, currency.Precision, currency.CurrencyCode)
	}
	return nil
}

// checkWithdrawal enforces lock-in and the overdraft limit on a debit. The
// limit applies to every balance from date onwards, so a backdated debit
// cannot overdraw the account before a later credit arrives.
func checkWithdrawal(acc *domain.SavingsAccount, ledger *domain.Ledger, date time.Time, amount decimal.Decimal) error {
	if acc.IsLockedIn(date) {
		return fmt.Errorf("%w: account %s is locked in until %s",
			apperrors.ErrValidation, acc.AccountID, dates.Format(*acc.LockedInUntil))
	}
	lowest := ledger.LowestBalanceFrom(date, amount.Neg())
	if !lowest.IsNegative() {
		return nil
	}
	if acc.AllowOverdraft && lowest.Neg().LessThanOrEqual(acc.OverdraftLimit) {
		return nil
	}
	return fmt.Errorf("%w: insufficient funds in account %s, balance after debit would fall to %s",
		apperrors.ErrValidation, acc.AccountID, lowest)
}

// settle refreshes the derived balances after a non-interest mutation dated
// on date. When repost is set the interest already posted is recomputed up to
// the last calculation date.
func (s *savingsAccountService) settle(ctx context.Context, w *accountWork, today time.Time, repost bool, userID string) error {
	acc := w.account
	s.engine.RecalculateBalances(w.ledger, today)
	if !repost || acc.LastInterestCalculationDate == nil {
		acc.Summary = interest.Summarize(w.ledger, nil, derefDate(acc.LastInterestCalculationDate))
		return nil
	}

	in, err := s.interestInput(ctx, acc, w.ledger, today, userID)
	if err != nil {
		return err
	}
	in.UpToDate = *acc.LastInterestCalculationDate
	res, err := s.engine.PostInterest(in)
	if err != nil {
		return err
	}
	s.metrics.ObservePostings(res.Stats.Created, res.Stats.Corrected, res.Stats.Unchanged, res.Stats.Withholding)
	s.LogInfo(ctx, "Interest re-posted after backdated change",
		slog.String("account_id", acc.AccountID),
		slog.String("mode", res.Mode),
		slog.Int("corrected", res.Stats.Corrected),
		slog.Int("created", res.Stats.Created))

	// entries dated after the posting run still need spans up to today
	s.engine.RecalculateBalances(w.ledger, today)
	acc.Summary = interest.Summarize(w.ledger, nil, derefDate(acc.LastInterestCalculationDate))
	return nil
}

func isBackdated(acc *domain.SavingsAccount, date time.Time) bool {
	return acc.InterestPostedTillDate != nil && !date.After(*acc.InterestPostedTillDate)
}

func derefDate(d *time.Time) time.Time {
	if d == nil {
		return time.Time{}
	}
	return *d
}

// applyTransaction books a single user entry against one account.
func (s *savingsAccountService) applyTransaction(ctx context.Context, accountID string, kind domain.TransactionKind, req dto.TransactionRequest, chargeID, userID string) (*domain.Transaction, error) {
	var booked *domain.Transaction
	err := s.inAccountTx(ctx, userID, []string{accountID}, func(works map[string]*accountWork) error {
		w := works[accountID]
		acc := w.account
		today := s.businessDate.Today(ctx)
		date := dates.Normalize(req.TransactionDate)

		if err := s.checkTransactionDate(acc, date, today); err != nil {
			return err
		}
		currency, err := s.currency(ctx, acc.CurrencyCode)
		if err != nil {
			return err
		}
		if err := checkAmountPrecision(currency, req.Amount); err != nil {
			return err
		}
		if kind == domain.Withdrawal {
			if err := checkWithdrawal(acc, w.ledger, date, req.Amount); err != nil {
				return err
			}
		}

		txn := s.newTransaction(acc, kind, date, today, req.Amount, userID, req.Notes)
		txn.IsManual = true
		txn.ChargeID = chargeID
		if err := txn.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		w.ledger.Add(txn)
		booked = txn

		return s.settle(ctx, w, today, isBackdated(acc, date), userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to book transaction",
			slog.String("account_id", accountID),
			slog.String("kind", string(kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction booked",
		slog.String("account_id", accountID),
		slog.String("transaction_id", booked.TransactionID),
		slog.String("kind", string(kind)),
		slog.String("amount", booked.Amount.String()))
	return booked, nil
}

func (s *savingsAccountService) Deposit(ctx context.Context, accountID string, req dto.TransactionRequest, userID string) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.applyTransaction(ctx, accountID, domain.Deposit, req, "", userID)
}

func (s *savingsAccountService) Withdraw(ctx context.Context, accountID string, req dto.TransactionRequest, userID string) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.applyTransaction(ctx, accountID, domain.Withdrawal, req, "", userID)
}

// ApplyCharge books a charge or fee. Charges may take the balance into overdraft.
func (s *savingsAccountService) ApplyCharge(ctx context.Context, accountID string, req dto.ChargeRequest, userID string) (*domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	return s.applyTransaction(ctx, accountID, req.ChargeType, req.TransactionRequest, req.ChargeID, userID)
}

func (s *savingsAccountService) UndoTransaction(ctx context.Context, accountID, transactionID, userID string) (*domain.Transaction, error) {
	var undone *domain.Transaction
	err := s.inAccountTx(ctx, userID, []string{accountID}, func(works map[string]*accountWork) error {
		w := works[accountID]
		acc := w.account
		if !acc.IsActive() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, acc.AccountID, acc.Status)
		}
		txn := w.ledger.Find(transactionID)
		if txn == nil {
			return fmt.Errorf("%w: transaction %s in account %s", apperrors.ErrNotFound, transactionID, accountID)
		}
		if !txn.Kind.IsUserReversible() {
			return fmt.Errorf("%w: %s transactions cannot be undone", apperrors.ErrValidation, txn.Kind)
		}
		if txn.Reversed {
			return fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrValidation, transactionID)
		}

		today := s.businessDate.Today(ctx)
		backdated := isBackdated(acc, txn.TransactionDate)
		txn.Reverse()
		if s.policy.PivotMode {
			s.engine.RewindForBackdated(acc, w.ledger, txn.TransactionDate)
		}
		undone = txn
		return s.settle(ctx, w, today, backdated, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to undo transaction",
			slog.String("account_id", accountID),
			slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction undone",
		slog.String("account_id", accountID),
		slog.String("transaction_id", transactionID))
	return undone, nil
}

func (s *savingsAccountService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.Transaction, *domain.Transaction, error) {
	if err := dto.Validate(req); err != nil {
		return nil, nil, err
	}

	var out, in *domain.Transaction
	err := s.inAccountTx(ctx, userID, []string{req.FromAccountID, req.ToAccountID}, func(works map[string]*accountWork) error {
		from, to := works[req.FromAccountID], works[req.ToAccountID]
		today := s.businessDate.Today(ctx)
		date := dates.Normalize(req.TransferDate)

		if from.account.CurrencyCode != to.account.CurrencyCode {
			return fmt.Errorf("%w: cannot transfer between %s and %s accounts",
				apperrors.ErrValidation, from.account.CurrencyCode, to.account.CurrencyCode)
		}
		for _, w := range []*accountWork{from, to} {
			if err := s.checkTransactionDate(w.account, date, today); err != nil {
				return err
			}
		}
		currency, err := s.currency(ctx, from.account.CurrencyCode)
		if err != nil {
			return err
		}
		if err := checkAmountPrecision(currency, req.Amount); err != nil {
			return err
		}
		if err := checkWithdrawal(from.account, from.ledger, date, req.Amount); err != nil {
			return err
		}

		transferID := s.newID()
		out = s.newTransaction(from.account, domain.TransferOut, date, today, req.Amount, userID, req.Notes)
		in = s.newTransaction(to.account, domain.TransferIn, date, today, req.Amount, userID, req.Notes)
		out.TransferID, in.TransferID = transferID, transferID
		out.IsManual, in.IsManual = true, true
		from.ledger.Add(out)
		to.ledger.Add(in)

		if err := s.settle(ctx, from, today, isBackdated(from.account, date), userID); err != nil {
			return err
		}
		return s.settle(ctx, to, today, isBackdated(to.account, date), userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to transfer between accounts",
			slog.String("from_account_id", req.FromAccountID),
			slog.String("to_account_id", req.ToAccountID))
		return nil, nil, err
	}

	s.LogInfo(ctx, "Transfer booked",
		slog.String("transfer_id", out.TransferID),
		slog.String("from_account_id", req.FromAccountID),
		slog.String("to_account_id", req.ToAccountID),
		slog.String("amount", req.Amount.String()))
	return out, in, nil
}
