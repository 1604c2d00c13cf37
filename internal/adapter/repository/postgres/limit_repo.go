package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

const limitColumns = `user_id, limit_type, category, cap, used, currency, next_reset_at, updated_at`

// LimitRepository implements usecase.LimitRepository. Usage counters are
// serialized per (user, limit type) by FOR UPDATE locks so concurrent
// movements for the same user cannot both fit inside the last slice of a
// cap.
type LimitRepository struct {
	pool *pgxpool.Pool
}

// NewLimitRepository creates a new LimitRepository.
func NewLimitRepository(pool *pgxpool.Pool) *LimitRepository {
	return &LimitRepository{pool: pool}
}

// GetByUserForUpdate loads all of a user's limits under row locks.
func (r *LimitRepository) GetByUserForUpdate(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.TransferLimit, error) {
	rows, err := pgxTxFrom(tx).Query(ctx, `
		SELECT `+limitColumns+`
		FROM transfer_limits
		WHERE user_id = $1
		ORDER BY limit_type, category
		FOR UPDATE`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLimits(rows)
}

// ListByUser lists a user's limits without locking.
func (r *LimitRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TransferLimit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+limitColumns+`
		FROM transfer_limits
		WHERE user_id = $1
		ORDER BY limit_type, category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLimits(rows)
}

// UpdateUsed writes a limit's consumed amount. The check constraint on the
// table keeps used within [0, cap] even if a caller miscomputes.
func (r *LimitRepository) UpdateUsed(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, used decimal.Decimal, updatedAt time.Time) error {
	_, err := pgxTxFrom(tx).Exec(ctx, `
		UPDATE transfer_limits
		SET used = $4, updated_at = $5
		WHERE user_id = $1 AND limit_type = $2 AND category = $3`,
		userID, string(limitType), category, decimalToNumeric(used), timeToPgTimestamptz(updatedAt))

	return err
}

// ListDue finds limits whose reset boundary has passed.
func (r *LimitRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.TransferLimit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+limitColumns+`
		FROM transfer_limits
		WHERE next_reset_at IS NOT NULL AND next_reset_at <= $1
		ORDER BY next_reset_at`, timeToPgTimestamptz(now.UTC()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLimits(rows)
}

// Reset zeroes a limit's usage and schedules the next boundary.
func (r *LimitRepository) Reset(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, nextResetAt *time.Time, at time.Time) error {
	_, err := pgxTxFrom(tx).Exec(ctx, `
		UPDATE transfer_limits
		SET used = 0, next_reset_at = $4, updated_at = $5
		WHERE user_id = $1 AND limit_type = $2 AND category = $3`,
		userID, string(limitType), category, timePtrToPgTimestamptz(nextResetAt), timeToPgTimestamptz(at))

	return err
}

func scanLimits(rows pgx.Rows) ([]*domain.TransferLimit, error) {
	var limits []*domain.TransferLimit
	for rows.Next() {
		var (
			l           domain.TransferLimit
			limitType   string
			cap         pgtype.Numeric
			used        pgtype.Numeric
			nextResetAt pgtype.Timestamptz
			updatedAt   pgtype.Timestamptz
		)

		err := rows.Scan(&l.UserID, &limitType, &l.Category, &cap, &used,
			&l.Currency, &nextResetAt, &updatedAt)
		if err != nil {
			return nil, err
		}

		l.Type = domain.LimitType(limitType)
		l.Cap = numericToDecimal(cap)
		l.Used = numericToDecimal(used)
		l.NextResetAt = pgTimestamptzToTimePtr(nextResetAt)
		l.UpdatedAt = updatedAt.Time

		limits = append(limits, &l)
	}

	return limits, rows.Err()
}
