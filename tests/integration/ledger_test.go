package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/domain"
)

func seedLedgerFixtures(ctx context.Context, stack *testStack) {
	stack.db.CreateAccount(ctx, "1001", "Ada Current", domain.AccountTypeLiability, "NGN", d("10000"))
	stack.db.CreateAccount(ctx, "1002", "Grace Current", domain.AccountTypeLiability, "NGN", decimal.Zero)
}

func transferBatch(ref, amount string) dto.PostBatchRequest {
	return dto.PostBatchRequest{
		BatchRef: ref,
		Lines: []dto.BatchLineItem{
			{AccountCode: "1001", Side: "debit", Amount: d(amount), Currency: "NGN"},
			{AccountCode: "1002", Side: "credit", Amount: d(amount), Currency: "NGN"},
		},
	}
}

func postBatch(t *testing.T, router http.Handler, req dto.PostBatchRequest) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/batches", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestLedgerPosting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	stack := newTestStack(t)

	t.Run("posts balanced batch and moves balances", func(t *testing.T) {
		stack.db.TruncateAll(ctx)
		seedLedgerFixtures(ctx, stack)

		w := postBatch(t, stack.router, transferBatch("batch-1", "2500"))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var lines []dto.JournalLineResponse
		if err := json.Unmarshal(w.Body.Bytes(), &lines); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}

		source, _ := stack.accounts.GetByCode(ctx, "1001")
		dest, _ := stack.accounts.GetByCode(ctx, "1002")
		if !source.CurrentBalance.Equal(d("7500")) {
			t.Errorf("expected source balance 7500, got %s", source.CurrentBalance)
		}
		if !dest.CurrentBalance.Equal(d("2500")) {
			t.Errorf("expected dest balance 2500, got %s", dest.CurrentBalance)
		}
	})

	t.Run("duplicate batch reference conflicts without double apply", func(t *testing.T) {
		stack.db.TruncateAll(ctx)
		seedLedgerFixtures(ctx, stack)

		if w := postBatch(t, stack.router, transferBatch("batch-dup", "1000")); w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
		if w := postBatch(t, stack.router, transferBatch("batch-dup", "1000")); w.Code != http.StatusConflict {
			t.Fatalf("expected status %d on duplicate, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}

		source, _ := stack.accounts.GetByCode(ctx, "1001")
		if !source.CurrentBalance.Equal(d("9000")) {
			t.Errorf("expected source debited once, got %s", source.CurrentBalance)
		}
	})

	t.Run("unbalanced batch is rejected untouched", func(t *testing.T) {
		stack.db.TruncateAll(ctx)
		seedLedgerFixtures(ctx, stack)

		req := dto.PostBatchRequest{
			BatchRef: "batch-bad",
			Lines: []dto.BatchLineItem{
				{AccountCode: "1001", Side: "debit", Amount: d("100"), Currency: "NGN"},
				{AccountCode: "1002", Side: "credit", Amount: d("99.9999"), Currency: "NGN"},
			},
		}
		if w := postBatch(t, stack.router, req); w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}

		source, _ := stack.accounts.GetByCode(ctx, "1001")
		if !source.CurrentBalance.Equal(d("10000")) {
			t.Errorf("expected balance untouched, got %s", source.CurrentBalance)
		}
		lines, err := stack.journal.GetByBatchRef(ctx, "batch-bad")
		if err != nil {
			t.Fatalf("failed to query batch: %v", err)
		}
		if len(lines) != 0 {
			t.Errorf("expected no lines persisted, got %d", len(lines))
		}
	})

	t.Run("reversal restores balances and keeps originals intact", func(t *testing.T) {
		stack.db.TruncateAll(ctx)
		seedLedgerFixtures(ctx, stack)

		if w := postBatch(t, stack.router, transferBatch("batch-rev", "4000")); w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		r := httptest.NewRequest(http.MethodPost, "/api/v1/batches/batch-rev/reverse", nil)
		w := httptest.NewRecorder()
		stack.router.ServeHTTP(w, r)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		var resp struct {
			ReversalRef string                    `json:"reversal_ref"`
			Lines       []dto.JournalLineResponse `json:"lines"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.ReversalRef != "rev:batch-rev" {
			t.Errorf("expected reversal ref rev:batch-rev, got %s", resp.ReversalRef)
		}

		source, _ := stack.accounts.GetByCode(ctx, "1001")
		dest, _ := stack.accounts.GetByCode(ctx, "1002")
		if !source.CurrentBalance.Equal(d("10000")) {
			t.Errorf("expected source restored to 10000, got %s", source.CurrentBalance)
		}
		if !dest.CurrentBalance.IsZero() {
			t.Errorf("expected dest restored to zero, got %s", dest.CurrentBalance)
		}

		// Originals stay with their amounts, marked reversed.
		originals, err := stack.journal.GetByBatchRef(ctx, "batch-rev")
		if err != nil {
			t.Fatalf("failed to load originals: %v", err)
		}
		for _, line := range originals {
			if line.Status != domain.PostingStatusReversed {
				t.Errorf("expected original line %s reversed, got %s", line.ID, line.Status)
			}
			if line.Debit.Add(line.Credit).IsZero() {
				t.Errorf("original line %s lost its amount", line.ID)
			}
		}

		// A second reversal is a conflict.
		r = httptest.NewRequest(http.MethodPost, "/api/v1/batches/batch-rev/reverse", nil)
		w = httptest.NewRecorder()
		stack.router.ServeHTTP(w, r)
		if w.Code != http.StatusConflict {
			t.Errorf("expected status %d on second reversal, got %d", http.StatusConflict, w.Code)
		}
	})

	t.Run("consistency check passes over posted history", func(t *testing.T) {
		stack.db.TruncateAll(ctx)
		seedLedgerFixtures(ctx, stack)

		if w := postBatch(t, stack.router, transferBatch("batch-c1", "1200")); w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		r := httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil)
		w := httptest.NewRecorder()
		stack.router.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp struct {
			Consistent bool `json:"consistent"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if !resp.Consistent {
			t.Error("expected a consistent ledger")
		}
	})
}
