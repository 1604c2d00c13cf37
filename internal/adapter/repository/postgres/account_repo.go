package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

const accountColumns = `code, bank_code, name, type, normal_side, currency, current_balance, version, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository over the chart of
// accounts table.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		account.Code,
		account.BankCode,
		account.Name,
		string(account.Type),
		string(account.NormalSide),
		account.Currency,
		decimalToNumeric(account.CurrentBalance),
		account.Version,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByCode retrieves an account by code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code = $1`, code)

	return scanAccount(row)
}

// GetByCodeForUpdate retrieves an account with a FOR UPDATE lock.
func (r *AccountRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	row := pgxTxFrom(tx).QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code = $1
		FOR UPDATE`, code)

	return scanAccount(row)
}

// GetByCodesForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Callers pass codes pre-sorted so all batches acquire locks in the same
// order.
func (r *AccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	rows, err := pgxTxFrom(tx).Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE code = ANY($1)
		ORDER BY code
		FOR UPDATE`, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateBalance updates the running balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	_, err := pgxTxFrom(tx).Exec(ctx, `
		UPDATE accounts
		SET current_balance = $2, version = version + 1, updated_at = $3
		WHERE code = $1`,
		code, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))

	return err
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY code
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAccounts(rows)
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a          domain.Account
		accType    string
		normalSide string
		balance    pgtype.Numeric
		createdAt  pgtype.Timestamptz
		updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(&a.Code, &a.BankCode, &a.Name, &accType, &normalSide,
		&a.Currency, &balance, &a.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnknownAccount
		}
		return nil, err
	}

	a.Type = domain.AccountType(accType)
	a.NormalSide = domain.Side(normalSide)
	a.CurrentBalance = numericToDecimal(balance)
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func scanAccounts(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}
