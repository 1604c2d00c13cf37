package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/usecase"
)

// LimitHandler handles transfer limit HTTP requests.
type LimitHandler struct {
	limitUC *usecase.LimitUseCase
}

// NewLimitHandler creates a new LimitHandler.
func NewLimitHandler(limitUC *usecase.LimitUseCase) *LimitHandler {
	return &LimitHandler{limitUC: limitUC}
}

// ListByUser lists a user's limits with current consumption.
func (h *LimitHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user ID", "")
		return
	}

	limits, err := h.limitUC.ListByUser(r.Context(), userID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to list limits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LimitsFromDomain(limits))
}

// ResetDue resets every window limit whose reset time has passed.
func (h *LimitHandler) ResetDue(w http.ResponseWriter, r *http.Request) {
	reset, err := h.limitUC.ResetDue(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset limits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reset_count": len(reset),
		"limits":      dto.LimitsFromDomain(reset),
	})
}
