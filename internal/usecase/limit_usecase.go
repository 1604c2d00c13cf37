package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
)

// LimitUseCase tracks consumption of per-user movement limits. Reservations
// run inside the caller's transaction so that a reservation and its ledger
// posting commit or roll back as one unit; resets run only from the
// scheduled sweep, never as a side effect of a check.
type LimitUseCase struct {
	txManager TransactionManager
	limitRepo LimitRepository
}

// NewLimitUseCase creates a new LimitUseCase.
func NewLimitUseCase(txManager TransactionManager, limitRepo LimitRepository) *LimitUseCase {
	return &LimitUseCase{
		txManager: txManager,
		limitRepo: limitRepo,
	}
}

// ReserveInTx checks amount against every active limit applicable to the
// user and category, under per-(user, type) row locks, and records the
// consumption. A movement is rejected if it would exceed any one of them;
// nothing is recorded in that case.
func (uc *LimitUseCase) ReserveInTx(ctx context.Context, tx Transaction, userID, category string, amount domain.Money) error {
	limits, err := uc.limitRepo.GetByUserForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	applicable := make([]*domain.TransferLimit, 0, len(limits))
	for _, limit := range limits {
		if !limit.AppliesTo(category) || limit.Currency != amount.Currency {
			continue
		}
		if !limit.Allows(amount.Amount) {
			return fmt.Errorf("%w: %s limit, remaining %s, requested %s",
				domain.ErrLimitExceeded, limit.Type, limit.Remaining(), amount.Amount)
		}
		applicable = append(applicable, limit)
	}

	for _, limit := range applicable {
		if !limit.Consumes() {
			continue
		}

		used := limit.Used.Add(amount.Amount)
		if err := uc.limitRepo.UpdateUsed(ctx, tx, userID, limit.Type, limit.Category, used, now); err != nil {
			return err
		}
	}

	return nil
}

// ReleaseInTx returns previously reserved capacity, used when a movement
// fails or is reversed after its reservation committed. Releasing the same
// amount that was reserved restores Used exactly.
func (uc *LimitUseCase) ReleaseInTx(ctx context.Context, tx Transaction, userID, category string, amount domain.Money) error {
	limits, err := uc.limitRepo.GetByUserForUpdate(ctx, tx, userID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	for _, limit := range limits {
		if !limit.AppliesTo(category) || limit.Currency != amount.Currency || !limit.Consumes() {
			continue
		}

		used := limit.Used.Sub(amount.Amount)
		if used.IsNegative() {
			used = decimal.Zero
		}
		if err := uc.limitRepo.UpdateUsed(ctx, tx, userID, limit.Type, limit.Category, used, now); err != nil {
			return err
		}
	}

	return nil
}

// Release releases in its own transaction.
func (uc *LimitUseCase) Release(ctx context.Context, userID, category string, amount domain.Money) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.ReleaseInTx(ctx, tx, userID, category, amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ResetDue finds limits whose reset boundary has passed, zeroes their usage
// and schedules the next boundary. Each limit resets in its own transaction
// so one failure does not hold up the sweep.
func (uc *LimitUseCase) ResetDue(ctx context.Context, now time.Time) ([]*domain.TransferLimit, error) {
	due, err := uc.limitRepo.ListDue(ctx, now)
	if err != nil {
		return nil, err
	}

	reset := make([]*domain.TransferLimit, 0, len(due))
	for _, limit := range due {
		next, err := limit.NextReset(now)
		if err != nil {
			return reset, err
		}

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return reset, err
		}

		if err := uc.limitRepo.Reset(ctx, tx, limit.UserID, limit.Type, limit.Category, next, now.UTC()); err != nil {
			tx.Rollback(ctx)
			return reset, err
		}

		if err := tx.Commit(ctx); err != nil {
			return reset, err
		}

		limit.Used = decimal.Zero
		limit.NextResetAt = next
		reset = append(reset, limit)
	}

	return reset, nil
}

// ListByUser returns a user's limits with current usage.
func (uc *LimitUseCase) ListByUser(ctx context.Context, userID string) ([]*domain.TransferLimit, error) {
	return uc.limitRepo.ListByUser(ctx, userID)
}
