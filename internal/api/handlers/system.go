package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Health checks that the data directory holding the source documents is reachable.
//
// Endpoint: GET /api/system/health
// Response: 200 OK, or 503 Service Unavailable with the reason
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	if err := h.systemService.CheckHealth(); err != nil {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unhealthy",
			Storage: "unavailable",
			Error:   err.Error(),
		})
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Storage: "available",
	})
}

// Version handles GET requests to retrieve version information and feature availability.
//
// Endpoint: GET /api/system/version
// Response: 200 OK with model.VersionInfo
func (h *SystemHandler) Version(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.systemService.CheckVersion())
}

// RefreshResponse reports how many cache entries a refresh dropped.
type RefreshResponse struct {
	Cleared int `json:"cleared"`
}

// RefreshCache clears every cached source read and FX quote.
//
// Endpoint: POST /api/cache/refresh
// Response: 200 OK with RefreshResponse
func (h *SystemHandler) RefreshCache(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, RefreshResponse{Cleared: h.systemService.RefreshCache()})
}
