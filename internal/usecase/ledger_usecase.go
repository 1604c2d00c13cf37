package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/finkit/corebank/internal/domain"
)

// LedgerUseCase owns the journal and the running balances. Account balances
// are mutated exclusively through batch postings here, so the balancing
// invariant is enforced in one place.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	idGen       IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		idGen:       idGen,
	}
}

// PostBatch posts a balanced batch in its own transaction.
func (uc *LedgerUseCase) PostBatch(ctx context.Context, batchRef string, lines []domain.BatchLine) ([]*domain.JournalLine, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	posted, err := uc.PostBatchInTx(ctx, tx, batchRef, lines)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return posted, nil
}

// PostBatchInTx posts a balanced batch inside the caller's transaction, used
// by the orchestrator and the accrual engine so posting shares their atomic
// unit. The whole batch is rejected before any line is written if it does
// not balance, an account is unknown, or the reference was already used.
func (uc *LedgerUseCase) PostBatchInTx(ctx context.Context, tx Transaction, batchRef string, lines []domain.BatchLine) ([]*domain.JournalLine, error) {
	return uc.postInTx(ctx, tx, batchRef, lines, nil)
}

func (uc *LedgerUseCase) postInTx(ctx context.Context, tx Transaction, batchRef string, lines []domain.BatchLine, reversedOf *string) ([]*domain.JournalLine, error) {
	if err := domain.ValidateBatch(lines); err != nil {
		return nil, err
	}

	// The claim rides the posting transaction, so two concurrent postings
	// of the same reference cannot both commit: the loser hits the unique
	// constraint no matter what either transaction has seen.
	if err := uc.journalRepo.ClaimBatchRef(ctx, tx, batchRef); err != nil {
		return nil, err
	}

	// Lock accounts in sorted code order to avoid deadlocks between
	// concurrent batches touching the same accounts.
	codes := collectUniqueAccountCodes(lines)
	sort.Strings(codes)

	accounts, err := uc.accountRepo.GetByCodesForUpdate(ctx, tx, codes)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(codes) {
		return nil, domain.ErrUnknownAccount
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.Code] = a
	}

	currency := lines[0].Amount.Currency
	for _, a := range accounts {
		if a.Currency != currency {
			return nil, fmt.Errorf("%w: account %s is %s, batch is %s",
				domain.ErrCurrencyMismatch, a.Code, a.Currency, currency)
		}
	}

	now := time.Now().UTC()
	posted := make([]*domain.JournalLine, 0, len(lines))

	for _, bl := range lines {
		line := &domain.JournalLine{
			ID:          uc.idGen.Generate(),
			BatchRef:    batchRef,
			AccountCode: bl.AccountCode,
			Currency:    currency,
			Status:      domain.PostingStatusPosted,
			ReversedOf:  reversedOf,
			PostedAt:    now,
		}
		if bl.Side == domain.SideDebit {
			line.Debit = bl.Amount.Amount
		} else {
			line.Credit = bl.Amount.Amount
		}

		if err := line.Validate(); err != nil {
			return nil, err
		}

		if err := uc.journalRepo.CreateLine(ctx, tx, line); err != nil {
			return nil, err
		}

		account := accountMap[bl.AccountCode]
		newBalance := account.Apply(bl.Side, bl.Amount.Amount)
		if err := uc.accountRepo.UpdateBalance(ctx, tx, account.Code, newBalance, now); err != nil {
			return nil, err
		}

		account.CurrentBalance = newBalance
		account.Version++

		posted = append(posted, line)
	}

	return posted, nil
}

// Reverse posts an equal-and-opposite batch for batchRef and marks the
// original lines reversed. Originals are never deleted or mutated beyond
// their status; the audit trail stays complete.
func (uc *LedgerUseCase) Reverse(ctx context.Context, batchRef string) (string, []*domain.JournalLine, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return "", nil, err
	}
	defer tx.Rollback(ctx)

	reversalRef, lines, err := uc.ReverseInTx(ctx, tx, batchRef)
	if err != nil {
		return "", nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", nil, err
	}

	return reversalRef, lines, nil
}

// ReverseInTx reverses a batch inside the caller's transaction.
func (uc *LedgerUseCase) ReverseInTx(ctx context.Context, tx Transaction, batchRef string) (string, []*domain.JournalLine, error) {
	originals, err := uc.journalRepo.GetByBatchRefForUpdate(ctx, tx, batchRef)
	if err != nil {
		return "", nil, err
	}
	if len(originals) == 0 {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchRef)
	}

	flipped := make([]domain.BatchLine, 0, len(originals))
	for _, line := range originals {
		if line.Status == domain.PostingStatusReversed {
			return "", nil, fmt.Errorf("%w: %s", domain.ErrBatchReversed, batchRef)
		}

		side := domain.SideDebit
		if line.Side() == domain.SideDebit {
			side = domain.SideCredit
		}

		flipped = append(flipped, domain.BatchLine{
			AccountCode: line.AccountCode,
			Side:        side,
			Amount:      domain.NewMoney(line.Amount(), line.Currency),
		})
	}

	reversalRef := ReversalRefPrefix + batchRef
	posted, err := uc.postInTx(ctx, tx, reversalRef, flipped, &batchRef)
	if err != nil {
		return "", nil, err
	}

	if err := uc.journalRepo.MarkReversed(ctx, tx, batchRef); err != nil {
		return "", nil, err
	}

	return reversalRef, posted, nil
}

// GetBalance returns an account with its current running balance.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// GetBatch returns all lines posted under a batch reference.
func (uc *LedgerUseCase) GetBatch(ctx context.Context, batchRef string) ([]*domain.JournalLine, error) {
	lines, err := uc.journalRepo.GetByBatchRef(ctx, batchRef)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBatchNotFound, batchRef)
	}
	return lines, nil
}

// JournalByAccountInput represents input for listing journal history.
type JournalByAccountInput struct {
	AccountCode string
	From        time.Time
	To          time.Time
	Limit       int
	Offset      int
}

// JournalByAccount lists an account's journal lines for a date range.
func (uc *LedgerUseCase) JournalByAccount(ctx context.Context, input JournalByAccountInput) ([]*domain.JournalLine, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 1000 {
		input.Limit = 1000
	}
	if input.To.IsZero() {
		input.To = time.Now().UTC()
	}

	return uc.journalRepo.GetByAccount(ctx, input.AccountCode, input.From, input.To, input.Limit, input.Offset)
}

// CheckConsistency verifies the book balances: total posted debits must
// equal total posted credits across the whole journal.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) error {
	debits, credits, err := uc.journalRepo.SumAll(ctx)
	if err != nil {
		return err
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits=%s credits=%s difference=%s",
			domain.ErrUnbalanced, debits, credits, debits.Sub(credits))
	}

	return nil
}

func collectUniqueAccountCodes(lines []domain.BatchLine) []string {
	seen := make(map[string]bool)

	var codes []string
	for _, l := range lines {
		if !seen[l.AccountCode] {
			seen[l.AccountCode] = true
			codes = append(codes, l.AccountCode)
		}
	}

	return codes
}
