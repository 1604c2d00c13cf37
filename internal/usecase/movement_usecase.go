package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
)

// MovementConfig carries the orchestrator's wiring to administrative
// configuration: where charges post and where the risk gate sits.
type MovementConfig struct {
	FeeIncomeAccount   string
	VATPayableAccount  string
	LevyPayableAccount string
	// RiskThreshold rejects movements whose externally supplied risk score
	// exceeds it. The score is consumed as an opaque number.
	RiskThreshold decimal.Decimal
}

// MovementUseCase drives one movement through its state machine:
// Requested -> LimitReserved -> Priced -> Posted -> Completed, failing out
// to Failed with compensation (limit release, reversal) from any
// post-reservation state. It is the only component that translates a
// lower-level failure into compensating actions.
type MovementUseCase struct {
	txManager    TransactionManager
	movementRepo MovementRepository
	pricing      *PricingUseCase
	limits       *LimitUseCase
	ledger       *LedgerUseCase
	idGen        IDGenerator
	retrier      Retrier
	cfg          MovementConfig
}

// NewMovementUseCase creates a new MovementUseCase.
func NewMovementUseCase(
	txManager TransactionManager,
	movementRepo MovementRepository,
	pricing *PricingUseCase,
	limits *LimitUseCase,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	retrier Retrier,
	cfg MovementConfig,
) *MovementUseCase {
	return &MovementUseCase{
		txManager:    txManager,
		movementRepo: movementRepo,
		pricing:      pricing,
		limits:       limits,
		ledger:       ledger,
		idGen:        idGen,
		retrier:      retrier,
		cfg:          cfg,
	}
}

// CreateMovementInput represents a requested money movement.
type CreateMovementInput struct {
	IdempotencyKey string
	UserID         string
	FromAccount    string
	ToAccount      string
	Amount         domain.Money
	Category       string
	Direction      domain.Direction
	KYCTier        string
	RiskScore      decimal.Decimal
}

// PostMovement processes one movement end-to-end. A retried request with the
// same idempotency key finds the prior movement and returns it unchanged; it
// never double-posts.
func (uc *MovementUseCase) PostMovement(ctx context.Context, input CreateMovementInput) (*domain.Movement, error) {
	if input.IdempotencyKey != "" {
		existing, err := uc.movementRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		if err != nil && !errors.Is(err, domain.ErrMovementNotFound) {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	now := time.Now().UTC()
	movement := &domain.Movement{
		ID:             uc.idGen.Generate(),
		IdempotencyKey: input.IdempotencyKey,
		UserID:         input.UserID,
		FromAccount:    input.FromAccount,
		ToAccount:      input.ToAccount,
		Amount:         input.Amount.Amount,
		Currency:       input.Amount.Currency,
		Category:       input.Category,
		Direction:      input.Direction,
		KYCTier:        input.KYCTier,
		RiskScore:      input.RiskScore,
		State:          domain.MovementStateRequested,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := movement.Validate(); err != nil {
		return nil, err
	}

	if err := uc.movementRepo.Create(ctx, movement); err != nil {
		// A concurrent request with the same key won the insert race.
		if errors.Is(err, domain.ErrDuplicateReference) && input.IdempotencyKey != "" {
			return uc.movementRepo.GetByIdempotencyKey(ctx, input.IdempotencyKey)
		}
		return nil, err
	}

	if err := uc.process(ctx, movement, input); err != nil {
		return movement, err
	}

	return movement, nil
}

func (uc *MovementUseCase) process(ctx context.Context, m *domain.Movement, input CreateMovementInput) error {
	if !uc.cfg.RiskThreshold.IsZero() && m.RiskScore.GreaterThan(uc.cfg.RiskThreshold) {
		return uc.fail(ctx, m, domain.ErrRiskRejected)
	}

	// 1. Reserve limits in their own transaction. From here on, any failure
	// exit must release the reservation before settling in Failed.
	if err := uc.reserve(ctx, input); err != nil {
		return uc.fail(ctx, m, err)
	}
	uc.transition(ctx, m, domain.MovementStateLimitReserved)

	// 2. Price the movement against the effective rule snapshot.
	charges, err := uc.pricing.Price(ctx, input.Amount, domain.PricingContext{
		Direction: input.Direction,
		KYCTier:   input.KYCTier,
		At:        m.CreatedAt,
	})
	if err != nil {
		return uc.fail(ctx, m, err)
	}
	m.Charges = &charges
	uc.transition(ctx, m, domain.MovementStatePriced)

	// 3. Post the balanced batch: principal plus charge lines, all or
	// nothing, retried on transient store conflicts.
	batchRef := "mov:" + m.ID
	lines := uc.buildBatchLines(input, charges)

	err = uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if _, err := uc.ledger.PostBatchInTx(ctx, tx, batchRef, lines); err != nil {
			return err
		}

		// The posted state and batch reference commit with the batch:
		// a movement whose ledger posting is durable always says so, and
		// a rolled-back posting leaves no posted claim behind.
		posted := *m
		posted.State = domain.MovementStatePosted
		posted.BatchRef = batchRef
		posted.UpdatedAt = time.Now().UTC()
		if err := uc.movementRepo.UpdateStateInTx(ctx, tx, &posted); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err != nil {
		// Nothing committed: m.BatchRef is still empty, so fail releases
		// the reservation without attempting a reversal.
		return uc.fail(ctx, m, err)
	}

	m.State = domain.MovementStatePosted
	m.BatchRef = batchRef

	uc.transition(ctx, m, domain.MovementStateCompleted)
	return nil
}

// buildBatchLines turns the priced movement into one balanced batch: the
// customer account is debited principal plus charges, the counterparty is
// credited the principal, and each charge credits its configured account.
func (uc *MovementUseCase) buildBatchLines(input CreateMovementInput, charges domain.ChargeBreakdown) []domain.BatchLine {
	total := input.Amount.Amount.Add(charges.Total().Amount)

	lines := []domain.BatchLine{
		{AccountCode: input.FromAccount, Side: domain.SideDebit, Amount: domain.NewMoney(total, input.Amount.Currency)},
		{AccountCode: input.ToAccount, Side: domain.SideCredit, Amount: input.Amount},
	}

	for _, charge := range []struct {
		amount  domain.Money
		account string
	}{
		{charges.Fee, uc.cfg.FeeIncomeAccount},
		{charges.VAT, uc.cfg.VATPayableAccount},
		{charges.Levy, uc.cfg.LevyPayableAccount},
	} {
		if charge.amount.IsPositive() {
			lines = append(lines, domain.BatchLine{
				AccountCode: charge.account,
				Side:        domain.SideCredit,
				Amount:      charge.amount,
			})
		}
	}

	return lines
}

func (uc *MovementUseCase) reserve(ctx context.Context, input CreateMovementInput) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.limits.ReserveInTx(ctx, tx, input.UserID, input.Category, input.Amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// fail compensates whatever the movement already applied, then settles it in
// Failed with a stable reason. The ledger and limit ledger never compensate
// themselves; this is the only place compensation happens.
func (uc *MovementUseCase) fail(ctx context.Context, m *domain.Movement, cause error) error {
	if m.BatchRef != "" {
		if _, _, err := uc.ledger.Reverse(ctx, m.BatchRef); err != nil && !errors.Is(err, domain.ErrBatchReversed) {
			return fmt.Errorf("compensating reversal of %s failed: %w (original: %w)", m.BatchRef, err, cause)
		}
	}

	if m.State != domain.MovementStateRequested {
		amount := domain.NewMoney(m.Amount, m.Currency)
		if err := uc.limits.Release(ctx, m.UserID, m.Category, amount); err != nil {
			return fmt.Errorf("compensating limit release failed: %w (original: %w)", err, cause)
		}
	}

	m.FailureReason = cause.Error()
	uc.transition(ctx, m, domain.MovementStateFailed)

	return cause
}

// transition persists a bookkeeping state change. The posted state never
// passes through here: it is written inside the posting transaction. The
// states that do carry no financial effect of their own, so a failed write
// leaves the movement recoverable by the reconciliation sweep.
func (uc *MovementUseCase) transition(ctx context.Context, m *domain.Movement, state domain.MovementState) {
	m.State = state
	m.UpdatedAt = time.Now().UTC()
	_ = uc.movementRepo.UpdateState(ctx, m)
}

// GetMovement retrieves a movement by ID.
func (uc *MovementUseCase) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	return uc.movementRepo.GetByID(ctx, id)
}
