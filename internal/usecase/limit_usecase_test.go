package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
	"github.com/finkit/corebank/internal/usecase/mocks"
)

func userLimits() []*domain.TransferLimit {
	return []*domain.TransferLimit{
		{
			UserID:   "user-1",
			Type:     domain.LimitTypePerTransaction,
			Cap:      dec("500000"),
			Used:     decimal.Zero,
			Currency: "NGN",
		},
		{
			UserID:   "user-1",
			Type:     domain.LimitTypeDaily,
			Cap:      dec("100000"),
			Used:     dec("95000"),
			Currency: "NGN",
		},
		{
			UserID:   "user-1",
			Type:     domain.LimitTypeMonthly,
			Cap:      dec("2000000"),
			Used:     dec("400000"),
			Currency: "NGN",
		},
	}
}

func limitByType(t testing.TB, limits []*domain.TransferLimit, lt domain.LimitType) *domain.TransferLimit {
	t.Helper()
	for _, l := range limits {
		if l.Type == lt {
			return l
		}
	}
	t.Fatalf("no %s limit in fixture", lt)
	return nil
}

func TestLimitUseCase_ReserveInTx(t *testing.T) {
	tests := []struct {
		name          string
		amount        domain.Money
		expectError   error
		wantDailyUsed string
	}{
		{
			name:          "reservation within every limit",
			amount:        ngn("5000"),
			wantDailyUsed: "100000",
		},
		{
			name:          "daily limit exceeded leaves usage untouched",
			amount:        ngn("10000"),
			expectError:   domain.ErrLimitExceeded,
			wantDailyUsed: "95000",
		},
		{
			name:          "per-transaction cap exceeded even with daily headroom",
			amount:        ngn("600000"),
			expectError:   domain.ErrLimitExceeded,
			wantDailyUsed: "95000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := userLimits()
			repo := mocks.NewMockLimitRepository(limits...)
			uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

			err := uc.ReserveInTx(context.Background(), &mocks.MockTransaction{}, "user-1", "transfer", tt.amount)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			daily := limitByType(t, limits, domain.LimitTypeDaily)
			if !daily.Used.Equal(dec(tt.wantDailyUsed)) {
				t.Errorf("expected daily used %s, got %s", tt.wantDailyUsed, daily.Used)
			}
		})
	}
}

func TestLimitUseCase_ReserveInTx_AllLimitsConsumed(t *testing.T) {
	limits := userLimits()
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	if err := uc.ReserveInTx(context.Background(), &mocks.MockTransaction{}, "user-1", "transfer", ngn("3000")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	daily := limitByType(t, limits, domain.LimitTypeDaily)
	monthly := limitByType(t, limits, domain.LimitTypeMonthly)
	perTx := limitByType(t, limits, domain.LimitTypePerTransaction)

	if !daily.Used.Equal(dec("98000")) {
		t.Errorf("expected daily used 98000, got %s", daily.Used)
	}
	if !monthly.Used.Equal(dec("403000")) {
		t.Errorf("expected monthly used 403000, got %s", monthly.Used)
	}
	// Per-transaction limits gate but never accumulate.
	if !perTx.Used.IsZero() {
		t.Errorf("expected per-transaction used 0, got %s", perTx.Used)
	}
}

func TestLimitUseCase_ReserveInTx_CurrencyAndCategoryScoping(t *testing.T) {
	limits := []*domain.TransferLimit{
		{
			UserID:   "user-1",
			Type:     domain.LimitTypeDaily,
			Category: "billpay",
			Cap:      dec("1000"),
			Used:     dec("1000"),
			Currency: "NGN",
		},
		{
			UserID:   "user-1",
			Type:     domain.LimitTypeDaily,
			Cap:      dec("100"),
			Used:     decimal.Zero,
			Currency: "USD",
		},
	}
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	// A transfer in NGN matches neither the billpay limit nor the USD limit.
	if err := uc.ReserveInTx(context.Background(), &mocks.MockTransaction{}, "user-1", "transfer", ngn("5000")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, l := range limits {
		if l.Type == domain.LimitTypeDaily && l.Category == "billpay" && !l.Used.Equal(dec("1000")) {
			t.Errorf("billpay limit consumed by a transfer: used %s", l.Used)
		}
		if l.Currency == "USD" && !l.Used.IsZero() {
			t.Errorf("USD limit consumed by an NGN movement: used %s", l.Used)
		}
	}
}

func TestLimitUseCase_Release_RoundTrip(t *testing.T) {
	limits := userLimits()
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	amount := ngn("4999.5")

	if err := uc.ReserveInTx(context.Background(), &mocks.MockTransaction{}, "user-1", "transfer", amount); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := uc.Release(context.Background(), "user-1", "transfer", amount); err != nil {
		t.Fatalf("release: %v", err)
	}

	daily := limitByType(t, limits, domain.LimitTypeDaily)
	if !daily.Used.Equal(dec("95000")) {
		t.Errorf("expected daily used restored to 95000, got %s", daily.Used)
	}
}

func TestLimitUseCase_Release_ClampsAtZero(t *testing.T) {
	limits := []*domain.TransferLimit{
		{
			UserID:   "user-1",
			Type:     domain.LimitTypeDaily,
			Cap:      dec("100000"),
			Used:     dec("100"),
			Currency: "NGN",
		},
	}
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	if err := uc.Release(context.Background(), "user-1", "transfer", ngn("500")); err != nil {
		t.Fatalf("release: %v", err)
	}

	if !limits[0].Used.IsZero() {
		t.Errorf("expected used clamped to 0, got %s", limits[0].Used)
	}
}

func TestLimitUseCase_ResetDue(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) // a Sunday
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	limits := []*domain.TransferLimit{
		{
			UserID:      "user-1",
			Type:        domain.LimitTypeDaily,
			Cap:         dec("100000"),
			Used:        dec("95000"),
			Currency:    "NGN",
			NextResetAt: &past,
		},
		{
			UserID:      "user-2",
			Type:        domain.LimitTypeWeekly,
			Cap:         dec("500000"),
			Used:        dec("120000"),
			Currency:    "NGN",
			NextResetAt: &future,
		},
		{
			UserID:   "user-3",
			Type:     domain.LimitTypeCumulative,
			Cap:      dec("5000000"),
			Used:     dec("1000000"),
			Currency: "NGN",
		},
	}
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	reset, err := uc.ResetDue(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(reset) != 1 {
		t.Fatalf("expected 1 limit reset, got %d", len(reset))
	}
	if reset[0].UserID != "user-1" {
		t.Errorf("expected user-1 reset, got %s", reset[0].UserID)
	}
	if !reset[0].Used.IsZero() {
		t.Errorf("expected used zeroed, got %s", reset[0].Used)
	}

	wantNext := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if reset[0].NextResetAt == nil || !reset[0].NextResetAt.Equal(wantNext) {
		t.Errorf("expected next reset %v, got %v", wantNext, reset[0].NextResetAt)
	}

	// Limits not yet due keep their usage.
	if !limits[1].Used.Equal(dec("120000")) {
		t.Errorf("weekly limit reset early: used %s", limits[1].Used)
	}
	if !limits[2].Used.Equal(dec("1000000")) {
		t.Errorf("cumulative limit reset: used %s", limits[2].Used)
	}
}

func TestLimitUseCase_ListByUser(t *testing.T) {
	limits := userLimits()
	repo := mocks.NewMockLimitRepository(limits...)
	uc := usecase.NewLimitUseCase(mocks.NewMockTransactionManager(), repo)

	out, err := uc.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("expected 3 limits, got %d", len(out))
	}
}
