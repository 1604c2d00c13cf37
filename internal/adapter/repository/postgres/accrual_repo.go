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

const pgErrUniqueViolation = "23505"

const accrualColumns = `id, account_code, accrual_date, balance_snapshot, tier_breakdown, interest_amount, currency, batch_ref, created_at`

// AccrualRepository implements usecase.AccrualRepository. The unique index
// on (account_code, accrual_date) is the authoritative idempotency guard
// for the daily job.
type AccrualRepository struct {
	pool *pgxpool.Pool
}

// NewAccrualRepository creates a new AccrualRepository.
func NewAccrualRepository(pool *pgxpool.Pool) *AccrualRepository {
	return &AccrualRepository{pool: pool}
}

// Create inserts an accrual record inside the caller's transaction.
func (r *AccrualRepository) Create(ctx context.Context, tx usecase.Transaction, accrual *domain.InterestAccrual) error {
	breakdown, err := json.Marshal(accrual.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal tier breakdown: %w", err)
	}

	_, err = pgxTxFrom(tx).Exec(ctx, `
		INSERT INTO interest_accruals (`+accrualColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		accrual.ID,
		accrual.AccountCode,
		accrual.Date,
		decimalToNumeric(accrual.BalanceSnapshot),
		breakdown,
		decimalToNumeric(accrual.InterestAmount),
		accrual.Currency,
		accrual.BatchRef,
		timeToPgTimestamptz(accrual.CreatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return fmt.Errorf("%w: %s on %s", domain.ErrAlreadyAccrued,
				accrual.AccountCode, accrual.Date.Format("2006-01-02"))
		}
		return err
	}

	return nil
}

// GetByAccountDate retrieves the accrual record for one account and day.
func (r *AccrualRepository) GetByAccountDate(ctx context.Context, accountCode string, date time.Time) (*domain.InterestAccrual, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accrualColumns+`
		FROM interest_accruals
		WHERE account_code = $1 AND accrual_date = $2`,
		accountCode, domain.AccrualDay(date))

	accrual, err := scanAccrual(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	return accrual, err
}

// ListByAccount lists accrual records newest first.
func (r *AccrualRepository) ListByAccount(ctx context.Context, accountCode string, limit, offset int) ([]*domain.InterestAccrual, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accrualColumns+`
		FROM interest_accruals
		WHERE account_code = $1
		ORDER BY accrual_date DESC
		LIMIT $2 OFFSET $3`, accountCode, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accruals []*domain.InterestAccrual
	for rows.Next() {
		a, err := scanAccrual(rows)
		if err != nil {
			return nil, err
		}
		accruals = append(accruals, a)
	}

	return accruals, rows.Err()
}

func scanAccrual(row pgx.Row) (*domain.InterestAccrual, error) {
	var (
		a         domain.InterestAccrual
		balance   pgtype.Numeric
		breakdown []byte
		interest  pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(&a.ID, &a.AccountCode, &a.Date, &balance, &breakdown,
		&interest, &a.Currency, &a.BatchRef, &createdAt)
	if err != nil {
		return nil, err
	}

	a.BalanceSnapshot = numericToDecimal(balance)
	a.InterestAmount = numericToDecimal(interest)
	a.CreatedAt = createdAt.Time

	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &a.Breakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tier breakdown: %w", err)
		}
	}

	return &a, nil
}

// ProductRepository implements usecase.ProductRepository over the
// interest products configured for savings accounts.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// GetByAccount resolves the interest product for a savings account.
func (r *ProductRepository) GetByAccount(ctx context.Context, accountCode string) (*domain.InterestProduct, error) {
	var (
		product       domain.InterestProduct
		tiers         []byte
		customerRatio pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, `
		SELECT account_code, expense_account_code, tiers, customer_ratio
		FROM interest_products
		WHERE account_code = $1`, accountCode).
		Scan(&product.AccountCode, &product.ExpenseAccountCode, &tiers, &customerRatio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}

	if err := json.Unmarshal(tiers, &product.Tiers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tier table: %w", err)
	}
	product.Split = domain.ProfitSplit{CustomerRatio: numericToDecimal(customerRatio)}

	return &product, nil
}
