package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/usecase"
)

// AccrualHandler handles interest accrual HTTP requests.
type AccrualHandler struct {
	accrualUC *usecase.AccrualUseCase
}

// NewAccrualHandler creates a new AccrualHandler.
func NewAccrualHandler(accrualUC *usecase.AccrualUseCase) *AccrualHandler {
	return &AccrualHandler{accrualUC: accrualUC}
}

// Accrue posts one day of interest for a savings account. Re-running the
// same day is a conflict, not a double credit.
func (h *AccrualHandler) Accrue(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	var req dto.AccrueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	date, err := req.ParseDate()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	accrual, err := h.accrualUC.AccrueOneDay(r.Context(), code, date)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to accrue interest", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccrualFromDomain(accrual))
}

// List lists an account's accrual history, newest first.
func (h *AccrualHandler) List(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	accruals, err := h.accrualUC.ListByAccount(r.Context(), usecase.ListByAccountInput{
		AccountCode: code,
		Limit:       parseIntQuery(r, "limit", 31),
		Offset:      parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list accruals", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccrualsFromDomain(accruals))
}
