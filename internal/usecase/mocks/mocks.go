package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc              func(ctx context.Context, account *domain.Account) error
	GetByCodeFunc           func(ctx context.Context, code string) (*domain.Account, error)
	GetByCodeForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error)
	GetByCodesForUpdateFunc func(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Code] = account
	return nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.accounts[code]; ok {
		return a, nil
	}
	return nil, domain.ErrUnknownAccount
}

func (m *MockAccountRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Account, error) {
	if m.GetByCodeForUpdateFunc != nil {
		return m.GetByCodeForUpdateFunc(ctx, tx, code)
	}
	return m.GetByCode(ctx, code)
}

func (m *MockAccountRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Account, error) {
	if m.GetByCodesForUpdateFunc != nil {
		return m.GetByCodesForUpdateFunc(ctx, tx, codes)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, code := range codes {
		if a, ok := m.accounts[code]; ok {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, code, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.accounts[code]; ok {
		a.CurrentBalance = balance
		a.UpdatedAt = updatedAt
		return nil
	}
	return domain.ErrUnknownAccount
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

// MockJournalRepository is a mock implementation of JournalRepository.
type MockJournalRepository struct {
	mu      sync.RWMutex
	lines   []*domain.JournalLine
	claimed map[string]bool

	CreateLineFunc             func(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error
	GetByBatchRefFunc          func(ctx context.Context, batchRef string) ([]*domain.JournalLine, error)
	GetByBatchRefForUpdateFunc func(ctx context.Context, tx usecase.Transaction, batchRef string) ([]*domain.JournalLine, error)
	ClaimBatchRefFunc          func(ctx context.Context, tx usecase.Transaction, batchRef string) error
	MarkReversedFunc           func(ctx context.Context, tx usecase.Transaction, batchRef string) error
	GetByAccountFunc           func(ctx context.Context, accountCode string, from, to time.Time, limit, offset int) ([]*domain.JournalLine, error)
	SumByAccountFunc           func(ctx context.Context, accountCode string) (decimal.Decimal, decimal.Decimal, error)
	SumAllFunc                 func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{claimed: make(map[string]bool)}
}

func (m *MockJournalRepository) CreateLine(ctx context.Context, tx usecase.Transaction, line *domain.JournalLine) error {
	if m.CreateLineFunc != nil {
		return m.CreateLineFunc(ctx, tx, line)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, line)
	return nil
}

func (m *MockJournalRepository) GetByBatchRef(ctx context.Context, batchRef string) ([]*domain.JournalLine, error) {
	if m.GetByBatchRefFunc != nil {
		return m.GetByBatchRefFunc(ctx, batchRef)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.JournalLine
	for _, l := range m.lines {
		if l.BatchRef == batchRef {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockJournalRepository) GetByBatchRefForUpdate(ctx context.Context, tx usecase.Transaction, batchRef string) ([]*domain.JournalLine, error) {
	if m.GetByBatchRefForUpdateFunc != nil {
		return m.GetByBatchRefForUpdateFunc(ctx, tx, batchRef)
	}
	return m.GetByBatchRef(ctx, batchRef)
}

func (m *MockJournalRepository) ClaimBatchRef(ctx context.Context, tx usecase.Transaction, batchRef string) error {
	if m.ClaimBatchRefFunc != nil {
		return m.ClaimBatchRefFunc(ctx, tx, batchRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed[batchRef] {
		return domain.ErrDuplicateReference
	}
	m.claimed[batchRef] = true
	return nil
}

func (m *MockJournalRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, batchRef string) error {
	if m.MarkReversedFunc != nil {
		return m.MarkReversedFunc(ctx, tx, batchRef)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lines {
		if l.BatchRef == batchRef {
			l.Status = domain.PostingStatusReversed
		}
	}
	return nil
}

func (m *MockJournalRepository) GetByAccount(ctx context.Context, accountCode string, from, to time.Time, limit, offset int) ([]*domain.JournalLine, error) {
	if m.GetByAccountFunc != nil {
		return m.GetByAccountFunc(ctx, accountCode, from, to, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.JournalLine
	for _, l := range m.lines {
		if l.AccountCode == accountCode && !l.PostedAt.Before(from) && !l.PostedAt.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockJournalRepository) SumByAccount(ctx context.Context, accountCode string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumByAccountFunc != nil {
		return m.SumByAccountFunc(ctx, accountCode)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range m.lines {
		if l.AccountCode == accountCode {
			debits = debits.Add(l.Debit)
			credits = credits.Add(l.Credit)
		}
	}
	return debits, credits, nil
}

func (m *MockJournalRepository) SumAll(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumAllFunc != nil {
		return m.SumAllFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range m.lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits, nil
}

// Lines returns everything posted so far.
func (m *MockJournalRepository) Lines() []*domain.JournalLine {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.JournalLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// MockLimitRepository is a mock implementation of LimitRepository.
type MockLimitRepository struct {
	mu     sync.RWMutex
	limits []*domain.TransferLimit

	GetByUserForUpdateFunc func(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.TransferLimit, error)
	ListByUserFunc         func(ctx context.Context, userID string) ([]*domain.TransferLimit, error)
	UpdateUsedFunc         func(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, used decimal.Decimal, updatedAt time.Time) error
	ListDueFunc            func(ctx context.Context, now time.Time) ([]*domain.TransferLimit, error)
	ResetFunc              func(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, nextResetAt *time.Time, at time.Time) error
}

func NewMockLimitRepository(limits ...*domain.TransferLimit) *MockLimitRepository {
	return &MockLimitRepository{limits: limits}
}

func (m *MockLimitRepository) GetByUserForUpdate(ctx context.Context, tx usecase.Transaction, userID string) ([]*domain.TransferLimit, error) {
	if m.GetByUserForUpdateFunc != nil {
		return m.GetByUserForUpdateFunc(ctx, tx, userID)
	}
	return m.ListByUser(ctx, userID)
}

func (m *MockLimitRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TransferLimit, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.TransferLimit
	for _, l := range m.limits {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockLimitRepository) UpdateUsed(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, used decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateUsedFunc != nil {
		return m.UpdateUsedFunc(ctx, tx, userID, limitType, category, used, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.limits {
		if l.UserID == userID && l.Type == limitType && l.Category == category {
			l.Used = used
			l.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrLimitNotFound
}

func (m *MockLimitRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.TransferLimit, error) {
	if m.ListDueFunc != nil {
		return m.ListDueFunc(ctx, now)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.TransferLimit
	for _, l := range m.limits {
		if l.NextResetAt != nil && !l.NextResetAt.After(now) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MockLimitRepository) Reset(ctx context.Context, tx usecase.Transaction, userID string, limitType domain.LimitType, category string, nextResetAt *time.Time, at time.Time) error {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, tx, userID, limitType, category, nextResetAt, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.limits {
		if l.UserID == userID && l.Type == limitType && l.Category == category {
			l.Used = decimal.Zero
			l.NextResetAt = nextResetAt
			l.UpdatedAt = at
			return nil
		}
	}
	return domain.ErrLimitNotFound
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement

	CreateFunc              func(ctx context.Context, movement *domain.Movement) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Movement, error)
	GetByIdempotencyKeyFunc func(ctx context.Context, key string) (*domain.Movement, error)
	UpdateStateFunc         func(ctx context.Context, movement *domain.Movement) error
	UpdateStateInTxFunc     func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	ListInFlightFunc        func(ctx context.Context, olderThan time.Time) ([]*domain.Movement, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{movements: make(map[string]*domain.Movement)}
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if movement.IdempotencyKey != "" {
		for _, existing := range m.movements {
			if existing.IdempotencyKey == movement.IdempotencyKey {
				return domain.ErrDuplicateReference
			}
		}
	}
	m.movements[movement.ID] = movement
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok {
		return mv, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Movement, error) {
	if m.GetByIdempotencyKeyFunc != nil {
		return m.GetByIdempotencyKeyFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mv := range m.movements {
		if mv.IdempotencyKey == key {
			return mv, nil
		}
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) UpdateState(ctx context.Context, movement *domain.Movement) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[movement.ID] = movement
	return nil
}

func (m *MockMovementRepository) UpdateStateInTx(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.UpdateStateInTxFunc != nil {
		return m.UpdateStateInTxFunc(ctx, tx, movement)
	}
	return m.UpdateState(ctx, movement)
}

func (m *MockMovementRepository) ListInFlight(ctx context.Context, olderThan time.Time) ([]*domain.Movement, error) {
	if m.ListInFlightFunc != nil {
		return m.ListInFlightFunc(ctx, olderThan)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Movement
	for _, mv := range m.movements {
		if !mv.State.Terminal() && mv.UpdatedAt.Before(olderThan) {
			out = append(out, mv)
		}
	}
	return out, nil
}

// MockTransaction is a no-op transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	return nil
}

// MockTransactionManager hands out no-op transactions.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + time.Now().Format("150405") + "-" + string(rune('a'+m.counter%26)) + string(rune('0'+m.counter%10))
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockRuleRepository serves a fixed rule set.
type MockRuleRepository struct {
	RuleSet              *domain.RuleSet
	GetActiveRuleSetFunc func(ctx context.Context, at time.Time) (*domain.RuleSet, error)
}

func NewMockRuleRepository(rules ...domain.ChargeRule) *MockRuleRepository {
	return &MockRuleRepository{RuleSet: &domain.RuleSet{Rules: rules}}
}

func (m *MockRuleRepository) GetActiveRuleSet(ctx context.Context, at time.Time) (*domain.RuleSet, error) {
	if m.GetActiveRuleSetFunc != nil {
		return m.GetActiveRuleSetFunc(ctx, at)
	}
	return m.RuleSet, nil
}
