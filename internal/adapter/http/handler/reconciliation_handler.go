package handler

import (
	"net/http"
	"time"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/usecase"
)

// ReconciliationHandler handles reconciliation HTTP requests.
type ReconciliationHandler struct {
	reconUC  *usecase.ReconciliationUseCase
	staleAge time.Duration
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase, staleAge time.Duration) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, staleAge: staleAge}
}

// Report reconciles every account against its journal history.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconUC.GenerateReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}

// ReleaseStale fails abandoned in-flight movements and releases their
// limit reservations.
func (h *ReconciliationHandler) ReleaseStale(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().UTC().Add(-h.staleAge)

	released, err := h.reconUC.ReleaseStaleReservations(r.Context(), cutoff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to release stale reservations", err.Error())
		return
	}

	movements := make([]*dto.MovementResponse, len(released))
	for i, m := range released {
		movements[i] = dto.MovementFromDomain(m)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"released_count": len(released),
		"movements":      movements,
	})
}
