package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeForUpdate(ctx context.Context, tx Transaction, code string) (*domain.Account, error)
	GetByCodesForUpdate(ctx context.Context, tx Transaction, codes []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// JournalRepository defines data access for journal lines.
type JournalRepository interface {
	CreateLine(ctx context.Context, tx Transaction, line *domain.JournalLine) error
	GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.JournalLine, error)
	GetByBatchRefForUpdate(ctx context.Context, tx Transaction, batchRef string) ([]*domain.JournalLine, error)
	// ClaimBatchRef durably claims a batch reference inside the caller's
	// transaction. A reference claimed by any committed posting, or by a
	// concurrent uncommitted one, surfaces as domain.ErrDuplicateReference;
	// the claim is what makes a reference single-use, not a lookup.
	ClaimBatchRef(ctx context.Context, tx Transaction, batchRef string) error
	MarkReversed(ctx context.Context, tx Transaction, batchRef string) error
	GetByAccount(ctx context.Context, accountCode string, from, to time.Time, limit, offset int) ([]*domain.JournalLine, error)
	// SumByAccount returns total posted debits and credits for one account,
	// including reversed lines and their reversals.
	SumByAccount(ctx context.Context, accountCode string) (debits, credits decimal.Decimal, err error)
	// SumAll returns total posted debits and credits over the whole journal.
	SumAll(ctx context.Context) (debits, credits decimal.Decimal, err error)
}

// RuleRepository loads effective-dated charge rule snapshots.
type RuleRepository interface {
	GetActiveRuleSet(ctx context.Context, at time.Time) (*domain.RuleSet, error)
}

// LimitRepository defines data access for transfer limits.
type LimitRepository interface {
	GetByUserForUpdate(ctx context.Context, tx Transaction, userID string) ([]*domain.TransferLimit, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TransferLimit, error)
	UpdateUsed(ctx context.Context, tx Transaction, userID string, limitType domain.LimitType, category string, used decimal.Decimal, updatedAt time.Time) error
	ListDue(ctx context.Context, now time.Time) ([]*domain.TransferLimit, error)
	Reset(ctx context.Context, tx Transaction, userID string, limitType domain.LimitType, category string, nextResetAt *time.Time, at time.Time) error
}

// AccrualRepository defines data access for interest accrual records.
type AccrualRepository interface {
	// Create inserts an accrual row; a (account, date) collision surfaces as
	// domain.ErrAlreadyAccrued.
	Create(ctx context.Context, tx Transaction, accrual *domain.InterestAccrual) error
	GetByAccountDate(ctx context.Context, accountCode string, date time.Time) (*domain.InterestAccrual, error)
	ListByAccount(ctx context.Context, accountCode string, limit, offset int) ([]*domain.InterestAccrual, error)
}

// ProductRepository resolves interest products for savings accounts.
type ProductRepository interface {
	GetByAccount(ctx context.Context, accountCode string) (*domain.InterestProduct, error)
}

// MovementRepository defines data access for movement records.
type MovementRepository interface {
	Create(ctx context.Context, movement *domain.Movement) error
	GetByID(ctx context.Context, id string) (*domain.Movement, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Movement, error)
	UpdateState(ctx context.Context, movement *domain.Movement) error
	// UpdateStateInTx persists the state inside the caller's transaction;
	// the orchestrator uses it so the posted state and the ledger batch
	// commit as one unit.
	UpdateStateInTx(ctx context.Context, tx Transaction, movement *domain.Movement) error
	// ListInFlight returns movements stuck in a non-terminal state since
	// before the cutoff, for the recovery sweep.
	ListInFlight(ctx context.Context, olderThan time.Time) ([]*domain.Movement, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store conflicts.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
