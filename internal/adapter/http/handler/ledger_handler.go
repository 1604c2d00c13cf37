package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

// LedgerHandler handles journal and balance HTTP requests.
type LedgerHandler struct {
	ledgerUC *usecase.LedgerUseCase
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC *usecase.LedgerUseCase) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// PostBatch posts a balanced journal batch directly. This is the sanctioned
// entry point for adjustments that do not go through a movement.
func (h *LedgerHandler) PostBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.PostBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.BatchRef == "" {
		writeError(w, http.StatusBadRequest, "missing batch reference", "")
		return
	}

	lines, err := h.ledgerUC.PostBatch(r.Context(), req.BatchRef, req.ToBatchLines())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to post batch", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalLinesFromDomain(lines))
}

// GetBatch retrieves all lines of a journal batch.
func (h *LedgerHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchRef := chi.URLParam(r, "ref")
	if batchRef == "" {
		writeError(w, http.StatusBadRequest, "missing batch reference", "")
		return
	}

	lines, err := h.ledgerUC.GetBatch(r.Context(), batchRef)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get batch", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalLinesFromDomain(lines))
}

// Reverse posts the compensating batch for a posted batch. The original
// lines stay in place and are marked reversed.
func (h *LedgerHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	batchRef := chi.URLParam(r, "ref")
	if batchRef == "" {
		writeError(w, http.StatusBadRequest, "missing batch reference", "")
		return
	}

	reversalRef, lines, err := h.ledgerUC.Reverse(r.Context(), batchRef)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse batch", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"reversal_ref": reversalRef,
		"lines":        dto.JournalLinesFromDomain(lines),
	})
}

// GetBalance retrieves an account's current balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	account, err := h.ledgerUC.GetBalance(r.Context(), code)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Journal lists an account's journal lines for a date range.
func (h *LedgerHandler) Journal(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	lines, err := h.ledgerUC.JournalByAccount(r.Context(), usecase.JournalByAccountInput{
		AccountCode: code,
		From:        parseTimeQuery(r, "from"),
		To:          parseTimeQuery(r, "to"),
		Limit:       parseIntQuery(r, "limit", 50),
		Offset:      parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list journal", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalLinesFromDomain(lines))
}

// CheckConsistency verifies the global balance invariant.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnbalanced) {
			writeJSON(w, http.StatusOK, map[string]any{
				"consistent": false,
				"detail":     err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"consistent": true})
}
