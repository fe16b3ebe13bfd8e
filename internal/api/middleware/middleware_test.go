package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

// TestValidateSourceID tests the source id path guard.
//
// WHY: Source ids end up in log lines and metric labels; malformed ids must be
// rejected before any handler runs.
func TestValidateSourceID(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := ValidateSourceID(ok)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"valid id", "tw-broker", http.StatusNoContent},
		{"missing id", "", http.StatusBadRequest},
		{"bad characters", "tw broker\n", http.StatusBadRequest},
		{"leading dash", "-tw", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/sources/x/holdings", map[string]string{"sourceID": tt.id})
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/allocation", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/allocation", entry["path"])
	assert.Equal(t, float64(http.StatusTeapot), entry["status"])
}
