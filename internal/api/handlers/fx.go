package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/validation"
)

// FXHandler serves exchange rates.
type FXHandler struct {
	currencyService *service.CurrencyService
}

// NewFXHandler creates a new FXHandler.
func NewFXHandler(currencyService *service.CurrencyService) *FXHandler {
	return &FXHandler{
		currencyService: currencyService,
	}
}

// RateResponse is a quote plus the fallback warning, if any.
type RateResponse struct {
	model.FXQuote
	Warning *model.Warning `json:"warning,omitempty"`
}

// Rate returns the rate of a currency in the reporting currency.
//
// Endpoint: GET /api/fx/{currency}
// Error: 400 Bad Request for unknown currency codes
func (h *FXHandler) Rate(w http.ResponseWriter, r *http.Request) {
	currency := strings.ToUpper(chi.URLParam(r, "currency"))
	if err := validation.ValidateCurrency(currency); err != nil {
		response.RespondServiceError(w, "invalid currency", err)
		return
	}

	quote, warning := h.currencyService.Quote(r.Context(), currency)
	response.RespondJSON(w, http.StatusOK, RateResponse{FXQuote: quote, Warning: warning})
}
