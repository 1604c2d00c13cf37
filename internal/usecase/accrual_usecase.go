package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finkit/corebank/internal/domain"
)

// AccrualUseCase computes and posts tiered interest for savings-style
// accounts. AccrueOneDay is idempotent per (account, calendar day); the
// scheduler that invokes it owns no accrual logic and the engine owns no
// timer.
type AccrualUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	productRepo ProductRepository
	accrualRepo AccrualRepository
	ledger      *LedgerUseCase
	idGen       IDGenerator
}

// NewAccrualUseCase creates a new AccrualUseCase.
func NewAccrualUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	productRepo ProductRepository,
	accrualRepo AccrualRepository,
	ledger *LedgerUseCase,
	idGen IDGenerator,
) *AccrualUseCase {
	return &AccrualUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		productRepo: productRepo,
		accrualRepo: accrualRepo,
		ledger:      ledger,
		idGen:       idGen,
	}
}

// AccrueOneDay accrues one calendar day of interest for one account. The
// balance snapshot, tier walk and resulting posting all happen inside one
// transaction; the unique (account, date) accrual row makes a re-run for an
// already-accrued day fail with domain.ErrAlreadyAccrued before any credit
// is posted twice.
func (uc *AccrualUseCase) AccrueOneDay(ctx context.Context, accountCode string, date time.Time) (*domain.InterestAccrual, error) {
	day := domain.AccrualDay(date)

	// Fast path outside the transaction; the unique index remains the
	// authoritative guard under concurrency.
	if existing, err := uc.accrualRepo.GetByAccountDate(ctx, accountCode, day); err == nil && existing != nil {
		return existing, fmt.Errorf("%w: %s on %s", domain.ErrAlreadyAccrued, accountCode, day.Format("2006-01-02"))
	}

	product, err := uc.productRepo.GetByAccount(ctx, accountCode)
	if err != nil {
		return nil, err
	}
	if err := product.Tiers.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the savings account; accrual for one account never runs
	// concurrently with itself or with a movement touching the balance.
	account, err := uc.accountRepo.GetByCodeForUpdate(ctx, tx, accountCode)
	if err != nil {
		return nil, err
	}

	balance := domain.NewMoney(account.CurrentBalance, account.Currency)
	interest, breakdown := product.Tiers.DailyInterest(balance)
	interest = product.Split.CustomerShare(interest)

	accrual := &domain.InterestAccrual{
		ID:              uc.idGen.Generate(),
		AccountCode:     accountCode,
		Date:            day,
		BalanceSnapshot: balance.Amount,
		Breakdown:       breakdown,
		InterestAmount:  interest.Amount,
		Currency:        account.Currency,
		CreatedAt:       time.Now().UTC(),
	}

	if interest.IsPositive() {
		batchRef := fmt.Sprintf("%s%s:%s", AccrualRefPrefix, accountCode, day.Format("2006-01-02"))
		lines := []domain.BatchLine{
			{AccountCode: product.ExpenseAccountCode, Side: domain.SideDebit, Amount: interest},
			{AccountCode: accountCode, Side: domain.SideCredit, Amount: interest},
		}

		if _, err := uc.ledger.PostBatchInTx(ctx, tx, batchRef, lines); err != nil {
			// A duplicate accrual reference means the day was already
			// posted by a concurrent run.
			if errors.Is(err, domain.ErrDuplicateReference) {
				return nil, fmt.Errorf("%w: %s on %s", domain.ErrAlreadyAccrued, accountCode, day.Format("2006-01-02"))
			}
			return nil, err
		}

		accrual.BatchRef = batchRef
	}

	if err := uc.accrualRepo.Create(ctx, tx, accrual); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return accrual, nil
}

// ListByAccountInput represents input for listing accrual history.
type ListByAccountInput struct {
	AccountCode string
	Limit       int
	Offset      int
}

// ListByAccount lists accrual records for an account, newest first.
func (uc *AccrualUseCase) ListByAccount(ctx context.Context, input ListByAccountInput) ([]*domain.InterestAccrual, error) {
	if input.Limit <= 0 {
		input.Limit = 31
	}
	if input.Limit > 366 {
		input.Limit = 366
	}
	return uc.accrualRepo.ListByAccount(ctx, input.AccountCode, input.Limit, input.Offset)
}
