package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
)

// maxAppendBody bounds the size of an append request body.
const maxAppendBody = 1 << 20

// SourcesHandler serves source listings, holdings and appends.
type SourcesHandler struct {
	holdingsService *service.HoldingsService
	ledgerService   *service.LedgerService
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(holdingsService *service.HoldingsService, ledgerService *service.LedgerService) *SourcesHandler {
	return &SourcesHandler{
		holdingsService: holdingsService,
		ledgerService:   ledgerService,
	}
}

// Sources lists the configured sources.
//
// Endpoint: GET /api/sources
func (h *SourcesHandler) Sources(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.holdingsService.Sources())
}

// Holdings returns the normalized records of one source. Read problems are
// reported as warnings inside a 200 response.
//
// Endpoint: GET /api/sources/{sourceID}/holdings
// Error: 404 Not Found if the source is not configured
func (h *SourcesHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	ds, err := h.holdingsService.Holdings(r.Context(), chi.URLParam(r, "sourceID"))
	if err != nil {
		response.RespondServiceError(w, "failed to read holdings", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, ds)
}

// AppendRows appends rows to a source's document. The read cache is not
// cleared; call POST /api/cache/refresh to see the new rows before the TTL expires.
//
// Endpoint: POST /api/sources/{sourceID}/rows
// Response: 201 Created with service.AppendResult
// Error: 400 for malformed bodies, 404 for unknown sources, 502 when the transport fails
func (h *SourcesHandler) AppendRows(w http.ResponseWriter, r *http.Request) {
	var req request.AppendRowsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAppendBody)).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.ledgerService.Append(r.Context(), chi.URLParam(r, "sourceID"), req.Sheet, req.Rows)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSourceNotFound), errors.Is(err, apperrors.ErrEmptyRows):
			response.RespondServiceError(w, "failed to append rows", err)
		default:
			response.RespondError(w, http.StatusBadGateway, "failed to append rows", err.Error())
		}
		return
	}
	response.RespondJSON(w, http.StatusCreated, result)
}
