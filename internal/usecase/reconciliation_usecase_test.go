package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
	"github.com/finkit/corebank/internal/usecase/mocks"
)

type reconFixture struct {
	uc           *usecase.ReconciliationUseCase
	ledger       *usecase.LedgerUseCase
	accountRepo  *mocks.MockAccountRepository
	journalRepo  *mocks.MockJournalRepository
	movementRepo *mocks.MockMovementRepository
	limitRepo    *mocks.MockLimitRepository
	limits       []*domain.TransferLimit
}

func newReconFixture(t *testing.T) *reconFixture {
	t.Helper()

	f := &reconFixture{
		accountRepo:  mocks.NewMockAccountRepository(),
		journalRepo:  mocks.NewMockJournalRepository(),
		movementRepo: mocks.NewMockMovementRepository(),
	}
	f.limits = userLimits()
	f.limitRepo = mocks.NewMockLimitRepository(f.limits...)

	txManager := mocks.NewMockTransactionManager()
	f.ledger = usecase.NewLedgerUseCase(txManager, f.accountRepo, f.journalRepo, mocks.NewMockIDGenerator())
	limits := usecase.NewLimitUseCase(txManager, f.limitRepo)
	f.uc = usecase.NewReconciliationUseCase(f.accountRepo, f.journalRepo, f.movementRepo, limits, f.ledger)
	return f
}

func TestReconciliationUseCase_ReconcileAccount(t *testing.T) {
	f := newReconFixture(t)
	seedAccounts(t, f.accountRepo, customerAccount("1001", "0"), customerAccount("1002", "0"))

	if _, err := f.ledger.PostBatch(context.Background(), "mv-1", transferLines("1002", "1001", "750.25")); err != nil {
		t.Fatalf("post: %v", err)
	}

	result, err := f.uc.ReconcileAccount(context.Background(), "1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.IsReconciled {
		t.Errorf("expected reconciled account, difference %s", result.Difference)
	}
	if !result.CalculatedBalance.Equal(dec("750.25")) {
		t.Errorf("expected calculated balance 750.25, got %s", result.CalculatedBalance)
	}
}

func TestReconciliationUseCase_ReconcileAccount_DetectsDrift(t *testing.T) {
	f := newReconFixture(t)
	seedAccounts(t, f.accountRepo, customerAccount("1001", "0"), customerAccount("1002", "0"))

	if _, err := f.ledger.PostBatch(context.Background(), "mv-1", transferLines("1002", "1001", "750.25")); err != nil {
		t.Fatalf("post: %v", err)
	}

	// Corrupt the stored running balance behind the journal's back.
	if err := f.accountRepo.UpdateBalance(context.Background(), nil, "1001", dec("999"), time.Now().UTC()); err != nil {
		t.Fatalf("corrupt balance: %v", err)
	}

	result, err := f.uc.ReconcileAccount(context.Background(), "1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsReconciled {
		t.Error("expected drift to be detected")
	}
	if !result.Difference.Equal(dec("248.75")) {
		t.Errorf("expected difference 248.75, got %s", result.Difference)
	}
}

func TestReconciliationUseCase_GenerateReport(t *testing.T) {
	f := newReconFixture(t)
	seedAccounts(t, f.accountRepo, customerAccount("1001", "0"), customerAccount("1002", "0"))

	if _, err := f.ledger.PostBatch(context.Background(), "mv-1", transferLines("1002", "1001", "100")); err != nil {
		t.Fatalf("post: %v", err)
	}

	report, err := f.uc.GenerateReport(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.TotalAccounts != 2 {
		t.Errorf("expected 2 accounts, got %d", report.TotalAccounts)
	}
	if report.ReconciledAccounts != 2 {
		t.Errorf("expected 2 reconciled, got %d", report.ReconciledAccounts)
	}
	if len(report.Discrepancies) != 0 {
		t.Errorf("expected no discrepancies, got %d", len(report.Discrepancies))
	}
	if !report.LedgerConsistent {
		t.Error("expected consistent ledger")
	}
}

func TestReconciliationUseCase_ReleaseStaleReservations(t *testing.T) {
	f := newReconFixture(t)
	seedAccounts(t, f.accountRepo, customerAccount("1001", "10000"), customerAccount("1002", "0"))

	now := time.Now().UTC()
	stale := &domain.Movement{
		ID:          "mov-stale",
		UserID:      "user-1",
		FromAccount: "1001",
		ToAccount:   "1002",
		Amount:      dec("5000"),
		Currency:    "NGN",
		Category:    "transfer",
		State:       domain.MovementStateLimitReserved,
		CreatedAt:   now.Add(-time.Hour),
		UpdatedAt:   now.Add(-time.Hour),
	}
	if err := f.movementRepo.Create(context.Background(), stale); err != nil {
		t.Fatalf("seed movement: %v", err)
	}

	// Its reservation is still held.
	daily := limitByType(t, f.limits, domain.LimitTypeDaily)
	daily.Used = dec("100000")

	recovered, err := f.uc.ReleaseStaleReservations(context.Background(), now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(recovered) != 1 {
		t.Fatalf("expected 1 movement recovered, got %d", len(recovered))
	}
	if recovered[0].State != domain.MovementStateFailed {
		t.Errorf("expected failed, got %s", recovered[0].State)
	}
	if !daily.Used.Equal(dec("95000")) {
		t.Errorf("expected reservation released, daily used %s", daily.Used)
	}
}

func TestReconciliationUseCase_ReleaseStaleReservations_ReversesPosted(t *testing.T) {
	f := newReconFixture(t)
	seedAccounts(t, f.accountRepo, customerAccount("1001", "10000"), customerAccount("1002", "0"))

	if _, err := f.ledger.PostBatch(context.Background(), "mov:mov-posted", transferLines("1001", "1002", "5000")); err != nil {
		t.Fatalf("post: %v", err)
	}

	now := time.Now().UTC()
	stale := &domain.Movement{
		ID:          "mov-posted",
		UserID:      "user-1",
		FromAccount: "1001",
		ToAccount:   "1002",
		Amount:      dec("5000"),
		Currency:    "NGN",
		Category:    "transfer",
		State:       domain.MovementStatePosted,
		BatchRef:    "mov:mov-posted",
		CreatedAt:   now.Add(-time.Hour),
		UpdatedAt:   now.Add(-time.Hour),
	}
	if err := f.movementRepo.Create(context.Background(), stale); err != nil {
		t.Fatalf("seed movement: %v", err)
	}

	recovered, err := f.uc.ReleaseStaleReservations(context.Background(), now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recovered) != 1 {
		t.Fatalf("expected 1 movement recovered, got %d", len(recovered))
	}

	// The posting was reversed, balances restored.
	from, _ := f.accountRepo.GetByCode(context.Background(), "1001")
	if !from.CurrentBalance.Equal(dec("10000")) {
		t.Errorf("expected source restored to 10000, got %s", from.CurrentBalance)
	}

	originals, _ := f.journalRepo.GetByBatchRef(context.Background(), "mov:mov-posted")
	for _, l := range originals {
		if l.Status != domain.PostingStatusReversed {
			t.Errorf("original line %s not marked reversed", l.ID)
		}
	}
}

func TestReconciliationUseCase_ReleaseStaleReservations_SkipsFresh(t *testing.T) {
	f := newReconFixture(t)

	now := time.Now().UTC()
	fresh := &domain.Movement{
		ID:        "mov-fresh",
		UserID:    "user-1",
		Amount:    dec("100"),
		Currency:  "NGN",
		Category:  "transfer",
		State:     domain.MovementStateLimitReserved,
		UpdatedAt: now.Add(-time.Minute),
	}
	if err := f.movementRepo.Create(context.Background(), fresh); err != nil {
		t.Fatalf("seed movement: %v", err)
	}

	recovered, err := f.uc.ReleaseStaleReservations(context.Background(), now.Add(-15*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recovered) != 0 {
		t.Errorf("expected no movements recovered, got %d", len(recovered))
	}
	if fresh.State != domain.MovementStateLimitReserved {
		t.Errorf("fresh movement mutated to %s", fresh.State)
	}
}
