package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/usecase"
)

// IdempotencyKeyHeader carries the caller-supplied retry key for movements.
const IdempotencyKeyHeader = "Idempotency-Key"

// MovementHandler handles movement-related HTTP requests.
type MovementHandler struct {
	movementUC *usecase.MovementUseCase
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movementUC *usecase.MovementUseCase) *MovementHandler {
	return &MovementHandler{movementUC: movementUC}
}

// Create posts a new movement. A failed movement still returns its record
// so the caller sees the terminal state and failure reason.
func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(r.Header.Get(IdempotencyKeyHeader))

	movement, err := h.movementUC.PostMovement(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		if movement != nil {
			writeJSON(w, status, dto.MovementFromDomain(movement))
			return
		}
		writeError(w, status, "failed to post movement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// Get retrieves a movement by ID.
func (h *MovementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing movement ID", "")
		return
	}

	movement, err := h.movementUC.GetMovement(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MovementFromDomain(movement))
}
