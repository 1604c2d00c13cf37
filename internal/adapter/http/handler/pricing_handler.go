package handler

import (
	"encoding/json"
	"net/http"

	"github.com/finkit/corebank/internal/adapter/http/dto"
	"github.com/finkit/corebank/internal/domain"
	"github.com/finkit/corebank/internal/usecase"
)

// PricingHandler handles charge quote requests.
type PricingHandler struct {
	pricingUC *usecase.PricingUseCase
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(pricingUC *usecase.PricingUseCase) *PricingHandler {
	return &PricingHandler{pricingUC: pricingUC}
}

// Quote computes the charge breakdown for a hypothetical movement without
// posting anything.
func (h *PricingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount := domain.Money{Amount: req.Amount, Currency: req.Currency}
	breakdown, err := h.pricingUC.Price(r.Context(), amount, req.ToPricingContext())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to price movement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.QuoteFromDomain(amount, breakdown))
}
