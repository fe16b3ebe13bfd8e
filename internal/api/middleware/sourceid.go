// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/validation"
)

// ValidateSourceID validates that the sourceID URL parameter is present and well-formed.
// Returns 400 Bad Request otherwise. Whether the source exists is left to the handler.
//
// Example usage in router:
//
//	r.Route("/{sourceID}", func(r chi.Router) {
//	    r.Use(middleware.ValidateSourceID)
//	    r.Get("/holdings", handler.Holdings)
//	})
func ValidateSourceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sourceID := chi.URLParam(r, "sourceID")

		if sourceID == "" {
			response.RespondError(w, http.StatusBadRequest, "source id is required", "")
			return
		}

		if err := validation.ValidateSourceID(sourceID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid source id", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
