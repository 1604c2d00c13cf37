package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

const movementColumns = `id, idempotency_key, user_id, from_account, to_account, amount, currency, category, direction, kyc_tier, risk_score, state, failure_reason, batch_ref, charges, created_at, updated_at`

// MovementRepository implements usecase.MovementRepository. The unique
// index on idempotency_key makes duplicate submissions race-safe.
type MovementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository creates a new MovementRepository.
func NewMovementRepository(pool *pgxpool.Pool) *MovementRepository {
	return &MovementRepository{pool: pool}
}

// Create inserts a movement in its initial state.
func (r *MovementRepository) Create(ctx context.Context, movement *domain.Movement) error {
	charges, err := marshalCharges(movement.Charges)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO movements (`+movementColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		movement.ID,
		movement.IdempotencyKey,
		movement.UserID,
		movement.FromAccount,
		movement.ToAccount,
		decimalToNumeric(movement.Amount),
		movement.Currency,
		movement.Category,
		string(movement.Direction),
		movement.KYCTier,
		decimalToNumeric(movement.RiskScore),
		string(movement.State),
		movement.FailureReason,
		movement.BatchRef,
		charges,
		timeToPgTimestamptz(movement.CreatedAt),
		timeToPgTimestamptz(movement.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: idempotency key %s", domain.ErrDuplicateReference, movement.IdempotencyKey)
		}
		return err
	}

	return nil
}

// GetByID retrieves a movement by its ID.
func (r *MovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE id = $1`, id)

	return scanMovement(row)
}

// GetByIdempotencyKey retrieves a movement by its idempotency key.
// Returns nil without error when no movement carries the key.
func (r *MovementRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Movement, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE idempotency_key = $1`, key)

	movement, err := scanMovement(row)
	if errors.Is(err, domain.ErrMovementNotFound) {
		return nil, nil
	}

	return movement, err
}

// UpdateState persists the movement's current state, charges and batch
// reference.
func (r *MovementRepository) UpdateState(ctx context.Context, movement *domain.Movement) error {
	return updateMovementState(ctx, r.pool, movement)
}

// UpdateStateInTx persists the state inside the caller's transaction, so a
// posted state commits or rolls back together with its ledger batch.
func (r *MovementRepository) UpdateStateInTx(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	return updateMovementState(ctx, pgxTxFrom(tx), movement)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func updateMovementState(ctx context.Context, db execer, movement *domain.Movement) error {
	charges, err := marshalCharges(movement.Charges)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		UPDATE movements
		SET state = $2, failure_reason = $3, batch_ref = $4, charges = $5, updated_at = $6
		WHERE id = $1`,
		movement.ID,
		string(movement.State),
		movement.FailureReason,
		movement.BatchRef,
		charges,
		timeToPgTimestamptz(movement.UpdatedAt),
	)

	return err
}

// ListInFlight returns movements stuck in a non-terminal state since before
// the cutoff, oldest first.
func (r *MovementRepository) ListInFlight(ctx context.Context, olderThan time.Time) ([]*domain.Movement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM movements
		WHERE state NOT IN ('completed', 'failed') AND updated_at < $1
		ORDER BY updated_at ASC`, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []*domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}

	return movements, rows.Err()
}

func scanMovement(row pgx.Row) (*domain.Movement, error) {
	var (
		m         domain.Movement
		amount    pgtype.Numeric
		riskScore pgtype.Numeric
		direction string
		state     string
		charges   []byte
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(&m.ID, &m.IdempotencyKey, &m.UserID, &m.FromAccount,
		&m.ToAccount, &amount, &m.Currency, &m.Category, &direction,
		&m.KYCTier, &riskScore, &state, &m.FailureReason, &m.BatchRef,
		&charges, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMovementNotFound
		}
		return nil, err
	}

	m.Amount = numericToDecimal(amount)
	m.RiskScore = numericToDecimal(riskScore)
	m.Direction = domain.Direction(direction)
	m.State = domain.MovementState(state)
	m.CreatedAt = createdAt.Time
	m.UpdatedAt = updatedAt.Time

	if len(charges) > 0 {
		var cb domain.ChargeBreakdown
		if err := json.Unmarshal(charges, &cb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal charges: %w", err)
		}
		m.Charges = &cb
	}

	return &m, nil
}

func marshalCharges(charges *domain.ChargeBreakdown) ([]byte, error) {
	if charges == nil {
		return nil, nil
	}
	data, err := json.Marshal(charges)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal charges: %w", err)
	}
	return data, nil
}
