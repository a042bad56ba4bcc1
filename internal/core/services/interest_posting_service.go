package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/savings_servicing/internal/apperrors"
	"github.com/SscSPs/savings_servicing/internal/core/domain"
	"github.com/SscSPs/savings_servicing/internal/core/interest"
	portssvc "github.com/SscSPs/savings_servicing/internal/core/ports/services"
	"github.com/SscSPs/savings_servicing/internal/dto"
	"github.com/SscSPs/savings_servicing/internal/platform/logging"
	"github.com/SscSPs/savings_servicing/internal/platform/metrics"
	"github.com/SscSPs/savings_servicing/internal/utils/dates"
)

func applyPostingRequest(in *interest.Input, req dto.PostInterestRequest) {
	if req.UpToDate != nil {
		in.UpToDate = dates.Normalize(*req.UpToDate)
	}
	if req.PostAsOn != nil {
		on := dates.Normalize(*req.PostAsOn)
		in.PostAsOn = &on
	}
	in.InterestTransfer = req.InterestTransfer
}

func (s *savingsAccountService) observe(res *interest.Result) {
	s.metrics.ObservePostings(res.Stats.Created, res.Stats.Corrected, res.Stats.Unchanged, res.Stats.Withholding)
}

func (s *savingsAccountService) PostInterest(ctx context.Context, accountID string, req dto.PostInterestRequest, userID string) (*interest.Result, error) {
	ctx, runID := logging.WithRun(ctx, s.GetLogger(ctx), slog.String("account_id", accountID))
	start := s.now()

	var res *interest.Result
	mode := interest.ModeFull
	err := s.inAccountTx(ctx, userID, []string{accountID}, func(works map[string]*accountWork) error {
		w := works[accountID]
		acc := w.account
		if !acc.IsActive() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, acc.AccountID, acc.Status)
		}
		mode = s.runMode(acc)

		in, err := s.interestInput(ctx, acc, w.ledger, s.businessDate.Today(ctx), userID)
		if err != nil {
			return err
		}
		applyPostingRequest(&in, req)

		res, err = s.engine.PostInterest(in)
		return err
	})

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
	}
	s.metrics.ObserveRun(mode, result, s.now().Sub(start))
	if err != nil {
		s.LogError(ctx, err, "Interest posting failed", slog.String("mode", mode))
		return nil, err
	}
	s.observe(res)

	s.LogInfo(ctx, "Interest posted",
		slog.String("run_id", runID),
		slog.String("mode", res.Mode),
		slog.String("up_to", dates.Format(res.UpToDate)),
		slog.Int("created", res.Stats.Created),
		slog.Int("corrected", res.Stats.Corrected),
		slog.Int("unchanged", res.Stats.Unchanged),
		slog.Int("withholding", res.Stats.Withholding))
	return res, nil
}

func (s *savingsAccountService) CalculateInterest(ctx context.Context, accountID string, req dto.PostInterestRequest) (*interest.Result, error) {
	acc, err := s.GetSavingsAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	txns, err := s.txnRepo.ListTransactionsByAccountID(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		return nil, err
	}

	in, err := s.interestInput(ctx, acc, domain.NewLedger(accountID, txns), s.businessDate.Today(ctx), "")
	if err != nil {
		return nil, err
	}
	applyPostingRequest(&in, req)

	res, err := s.engine.CalculateInterestUsing(in)
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Interest calculated",
		slog.String("account_id", accountID),
		slog.Int("periods", len(res.Periods)))
	return res, nil
}

func (s *savingsAccountService) PostInterestForActiveAccounts(ctx context.Context, req dto.PostInterestRequest, userID string) (*portssvc.BatchPostingReport, error) {
	report := &portssvc.BatchPostingReport{Failed: map[string]string{}}

	var token *string
	for {
		accounts, next, err := s.accountRepo.ListActiveAccounts(ctx, s.batchSize, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to list active accounts")
			return report, err
		}
		for _, acc := range accounts {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			report.Processed++
			res, err := s.PostInterest(ctx, acc.AccountID, req, userID)
			if err != nil {
				report.Failed[acc.AccountID] = err.Error()
				continue
			}
			if res.Mutated() {
				report.Mutated++
			}
		}
		if next == nil {
			break
		}
		token = next
	}

	s.LogInfo(ctx, "Batch interest posting finished",
		slog.Int("processed", report.Processed),
		slog.Int("mutated", report.Mutated),
		slog.Int("failed", len(report.Failed)))
	return report, nil
}

func (s *savingsAccountService) CloseAccount(ctx context.Context, accountID string, req dto.CloseAccountRequest, userID string) (*portssvc.AccountClosure, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	closure := &portssvc.AccountClosure{}
	err := s.inAccountTx(ctx, userID, []string{accountID}, func(works map[string]*accountWork) error {
		w := works[accountID]
		acc := w.account
		today := s.businessDate.Today(ctx)
		closedOn := dates.Normalize(req.ClosedOnDate)

		if !acc.IsActive() {
			return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, acc.AccountID, acc.Status)
		}
		if closedOn.After(today) {
			return fmt.Errorf("%w: closing date %s is in the future", apperrors.ErrValidation, dates.Format(closedOn))
		}
		if last := w.ledger.LastActiveDate(); closedOn.Before(last) {
			return fmt.Errorf("%w: closing date %s is before the last transaction on %s",
				apperrors.ErrValidation, dates.Format(closedOn), dates.Format(last))
		}
		if onHold := interest.Summarize(w.ledger, nil, closedOn).TotalOnHold; onHold.IsPositive() {
			return fmt.Errorf("%w: account %s has %s on hold", apperrors.ErrValidation, acc.AccountID, onHold)
		}

		in, err := s.interestInput(ctx, acc, w.ledger, today, userID)
		if err != nil {
			return err
		}
		in.PostAsOn = &closedOn
		if acc.IsLockedIn(closedOn) {
			if !req.Premature {
				return fmt.Errorf("%w: account %s is locked in until %s",
					apperrors.ErrValidation, acc.AccountID, dates.Format(*acc.LockedInUntil))
			}
			in.RateReduction = acc.PrematureClosurePenaltyRate
		}

		res, err := s.engine.PostInterest(in)
		if err != nil {
			return err
		}
		s.observe(res)
		closure.Interest = res

		balance := w.ledger.Balance()
		if balance.IsNegative() {
			return fmt.Errorf("%w: account %s is overdrawn by %s", apperrors.ErrValidation, acc.AccountID, balance.Neg())
		}
		if balance.IsPositive() {
			notes := req.Notes
			if notes == "" {
				notes = "account closure payout"
			}
			payout := s.newTransaction(acc, domain.Withdrawal, closedOn, today, balance, userID, notes)
			payout.IsManual = true
			w.ledger.Add(payout)
			s.engine.RecalculateBalances(w.ledger, closedOn)
			closure.Payout = payout
		}

		acc.Close(closedOn)
		acc.Summary = interest.Summarize(w.ledger, nil, closedOn)
		closure.Account = *acc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close savings account", slog.String("account_id", accountID))
		return nil, err
	}

	closure.Account.Version++
	s.LogInfo(ctx, "Savings account closed",
		slog.String("account_id", accountID),
		slog.String("closed_on", dates.Format(*closure.Account.ClosedOnDate)),
		slog.Bool("premature", req.Premature))
	return closure, nil
}
