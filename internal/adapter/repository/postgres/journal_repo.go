package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

const journalColumns = `id, batch_ref, account_code, debit, credit, currency, status, reversed_of, posted_at`

// JournalRepository implements usecase.JournalRepository. Journal lines are
// append-only; the only permitted update flips status to reversed.
type JournalRepository struct {
	pool *pgxpool.Pool
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(pool *pgxpool.Pool) *JournalRepository {
	return &JournalRepository{pool: pool}
}

// CreateLine appends one journal line inside the caller's transaction.
func (r *JournalRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error {
	var reversedOf any
	if line.ReversedOf != nil {
		reversedOf = *line.ReversedOf
	}

	_, err := pgxTxFrom(tx).Exec(ctx, `
		INSERT INTO journal_lines (`+journalColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		line.ID,
		line.BatchRef,
		line.AccountCode,
		decimalToNumeric(line.Debit),
		decimalToNumeric(line.Credit),
		line.Currency,
		string(line.Status),
		reversedOf,
		timeToPgTimestamptz(line.PostedAt),
	)

	return err
}

// GetByBatchRef returns all lines for a batch reference.
func (r *JournalRepository) GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_lines
		WHERE batch_ref = $1
		ORDER BY id`, batchRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournalLines(rows)
}

// GetByBatchRefForUpdate returns a batch's lines under row locks, used by
// reversal to pin the originals while the flip posts.
func (r *JournalRepository) GetByBatchRefForUpdate(ctx context.Context, tx usecase.Transaction, batchRef string) ([]*domain.JournalLine, error) {
	rows, err := pgxTxFrom(tx).Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_lines
		WHERE batch_ref = $1
		ORDER BY id
		FOR UPDATE`, batchRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournalLines(rows)
}

// ClaimBatchRef inserts the reference into ledger_batches inside the
// caller's transaction. The primary key turns a retried or concurrent
// posting of the same reference into a unique violation, so the guard
// holds even when the racing transaction has not committed yet.
func (r *JournalRepository) ClaimBatchRef(ctx context.Context, tx usecase.Transaction, batchRef string) error {
	_, err := pgxTxFrom(tx).Exec(ctx, `
		INSERT INTO ledger_batches (batch_ref) VALUES ($1)`, batchRef)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, batchRef)
		}
		return err
	}

	return nil
}

// MarkReversed flips a batch's lines to reversed status. Amounts and
// accounts are never touched.
func (r *JournalRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, batchRef string) error {
	_, err := pgxTxFrom(tx).Exec(ctx, `
		UPDATE journal_lines
		SET status = $2
		WHERE batch_ref = $1`,
		batchRef, string(domain.PostingStatusReversed))

	return err
}

// GetByAccount lists an account's lines within a posted_at range.
func (r *JournalRepository) GetByAccount(ctx context.Context, accountCode string, from, to time.Time, limit, offset int) ([]*domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+journalColumns+`
		FROM journal_lines
		WHERE account_code = $1 AND posted_at >= $2 AND posted_at <= $3
		ORDER BY posted_at DESC, id DESC
		LIMIT $4 OFFSET $5`,
		accountCode, timeToPgTimestamptz(from), timeToPgTimestamptz(to), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournalLines(rows)
}

// SumByAccount totals posted debits and credits for one account.
func (r *JournalRepository) SumByAccount(ctx context.Context, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	var debits, credits pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines
		WHERE account_code = $1`, accountCode).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

// SumAll totals posted debits and credits over the whole journal.
func (r *JournalRepository) SumAll(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var debits, credits pgtype.Numeric
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM journal_lines`).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

func scanJournalLines(rows pgx.Rows) ([]*domain.JournalLine, error) {
	var lines []*domain.JournalLine
	for rows.Next() {
		var (
			l          domain.JournalLine
			debit      pgtype.Numeric
			credit     pgtype.Numeric
			status     string
			reversedOf *string
			postedAt   pgtype.Timestamptz
		)

		err := rows.Scan(&l.ID, &l.BatchRef, &l.AccountCode, &debit, &credit,
			&l.Currency, &status, &reversedOf, &postedAt)
		if err != nil {
			return nil, err
		}

		l.Debit = numericToDecimal(debit)
		l.Credit = numericToDecimal(credit)
		l.Status = domain.PostingStatus(status)
		l.ReversedOf = reversedOf
		l.PostedAt = postedAt.Time

		lines = append(lines, &l)
	}

	return lines, rows.Err()
}
