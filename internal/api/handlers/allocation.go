package handlers

import (
	"net/http"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
)

// AllocationHandler serves the aggregated allocation and the rebalance report.
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler.
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{
		allocationService: allocationService,
	}
}

// Allocation returns category buckets across every source. Degraded sources
// appear as warnings; the response is always 200.
//
// Endpoint: GET /api/allocation
func (h *AllocationHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, http.StatusOK, roundAllocation(h.allocationService.Aggregate(r.Context())))
}

// RebalanceResponse combines the allocation with its reconciliation.
type RebalanceResponse struct {
	Allocation model.Allocation      `json:"allocation"`
	Report     model.RebalanceReport `json:"report"`
}

// Rebalance returns the actual-versus-target table and suggestions.
//
// Endpoint: GET /api/allocation/rebalance
func (h *AllocationHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	alloc, report := h.allocationService.Rebalance(r.Context())
	response.RespondJSON(w, http.StatusOK, RebalanceResponse{
		Allocation: roundAllocation(alloc),
		Report:     roundReport(report),
	})
}
