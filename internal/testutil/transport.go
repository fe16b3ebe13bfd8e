package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

// MemoryTransport is an in-memory sheet.Transport. Documents are keyed by
// document name and hold the full cell matrix; the range reference is ignored.
type MemoryTransport struct {
	mu        sync.Mutex
	documents map[string][][]string
	appended  map[string][][]any
	failures  map[string]error
	reads     int
}

// NewMemoryTransport creates an empty in-memory transport.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		documents: make(map[string][][]string),
		appended:  make(map[string][][]any),
		failures:  make(map[string]error),
	}
}

// SetDocument stores the cells of document.
func (m *MemoryTransport) SetDocument(document string, rows [][]string) *MemoryTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[document] = rows
	return m
}

// FailWith makes every operation on document return err.
func (m *MemoryTransport) FailWith(document string, err error) *MemoryTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[document] = err
	return m
}

// Read returns the stored rows of document.
func (m *MemoryTransport) Read(_ context.Context, document, _ string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if err := m.failures[document]; err != nil {
		return nil, err
	}
	rows, ok := m.documents[document]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrRangeNotFound, document)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

// Append records rows against document and sheet.
func (m *MemoryTransport) Append(_ context.Context, document, sheet string, rows [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failures[document]; err != nil {
		return err
	}
	key := document + "!" + sheet
	m.appended[key] = append(m.appended[key], rows...)
	return nil
}

// Appended returns the rows appended to document and sheet.
func (m *MemoryTransport) Appended(document, sheet string) [][]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appended[document+"!"+sheet]
}

// Reads returns how many times Read was called.
func (m *MemoryTransport) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}
