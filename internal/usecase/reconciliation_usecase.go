package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
)

// ReconciliationUseCase independently recovers the limit ledger and the
// general ledger to a consistent state from their own durable records:
// per-account balance recomputation from journal history, the global
// balance invariant, and release of reservations left by crashed movements.
type ReconciliationUseCase struct {
	accountRepo  AccountRepository
	journalRepo  JournalRepository
	movementRepo MovementRepository
	limits       *LimitUseCase
	ledger       *LedgerUseCase
}

// NewReconciliationUseCase creates a new ReconciliationUseCase.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	movementRepo MovementRepository,
	limits *LimitUseCase,
	ledger *LedgerUseCase,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo:  accountRepo,
		journalRepo:  journalRepo,
		movementRepo: movementRepo,
		limits:       limits,
		ledger:       ledger,
	}
}

// ReconciliationResult compares one account's stored running balance with
// the balance recomputed from its full journal history.
type ReconciliationResult struct {
	AccountCode       string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileAccount recomputes an account's balance from journal sums and
// compares it with the stored running balance.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountCode string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByCode(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	debits, credits, err := uc.journalRepo.SumByAccount(ctx, accountCode)
	if err != nil {
		return nil, err
	}

	var calculated decimal.Decimal
	if account.NormalSide == domain.SideDebit {
		calculated = debits.Sub(credits)
	} else {
		calculated = credits.Sub(debits)
	}

	diff := account.CurrentBalance.Sub(calculated)

	return &ReconciliationResult{
		AccountCode:       accountCode,
		RecordedBalance:   account.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       time.Now().UTC(),
	}, nil
}

// ReconciliationReport is a full sweep over every account plus the global
// balance invariant.
type ReconciliationReport struct {
	TotalAccounts      int
	ReconciledAccounts int
	Discrepancies      []*ReconciliationResult
	LedgerConsistent   bool
	CheckedAt          time.Time
}

// GenerateReport reconciles every account and checks the global invariant.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context) (*ReconciliationReport, error) {
	accounts, err := uc.accountRepo.List(ctx, 10000, 0)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		result, err := uc.ReconcileAccount(ctx, account.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile account %s: %w", account.Code, err)
		}

		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	report.LedgerConsistent = uc.ledger.CheckConsistency(ctx) == nil

	return report, nil
}

// ReleaseStaleReservations fails movements stuck in a non-terminal state
// since before the cutoff and releases their limit reservations. Postings
// are reversed when the movement got as far as the ledger. This is the
// crash-recovery path of the orchestrator's compensation contract.
func (uc *ReconciliationUseCase) ReleaseStaleReservations(ctx context.Context, olderThan time.Time) ([]*domain.Movement, error) {
	stale, err := uc.movementRepo.ListInFlight(ctx, olderThan)
	if err != nil {
		return nil, err
	}

	recovered := make([]*domain.Movement, 0, len(stale))
	for _, m := range stale {
		if m.State == domain.MovementStatePosted && m.BatchRef != "" {
			if _, _, err := uc.ledger.Reverse(ctx, m.BatchRef); err != nil {
				return recovered, fmt.Errorf("failed to reverse stale movement %s: %w", m.ID, err)
			}
		}

		if m.State != domain.MovementStateRequested {
			amount := domain.NewMoney(m.Amount, m.Currency)
			if err := uc.limits.Release(ctx, m.UserID, m.Category, amount); err != nil {
				return recovered, fmt.Errorf("failed to release limits for stale movement %s: %w", m.ID, err)
			}
		}

		m.State = domain.MovementStateFailed
		m.FailureReason = "recovered by reconciliation sweep"
		m.UpdatedAt = time.Now().UTC()
		if err := uc.movementRepo.UpdateState(ctx, m); err != nil {
			return recovered, err
		}

		recovered = append(recovered, m)
	}

	return recovered, nil
}
