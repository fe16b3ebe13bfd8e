// Package sheet is the spreadsheet transport used to read holdings ranges and
// append ledger rows. Documents live under a data directory, either as xlsx
// workbooks or as CSV exports.
package sheet

import (
	"context"
	"path/filepath"
	"strings"
)

// Transport reads and writes rectangular cell ranges.
type Transport interface {
	// Read returns the cells of rangeRef in document as strings, row-major.
	// Rows may be ragged; callers pad them.
	Read(ctx context.Context, document, rangeRef string) ([][]string, error)
	// Append writes rows after the last used row of sheet. Values are typed by
	// the transport (numbers and dates are detected from strings).
	Append(ctx context.Context, document, sheet string, rows [][]any) error
}

// Registry holds named transports.
type Registry struct {
	transports map[string]Transport
}

// NewRegistry creates an empty transport registry.
func NewRegistry() *Registry {
	return &Registry{transports: make(map[string]Transport)}
}

// Register adds a transport under name. Panics on duplicate names.
func (r *Registry) Register(name string, t Transport) {
	key := strings.ToLower(name)
	if _, ok := r.transports[key]; ok {
		panic("duplicate transport: " + key)
	}
	r.transports[key] = t
}

// Get returns the transport registered under name, or nil.
func (r *Registry) Get(name string) Transport {
	return r.transports[strings.ToLower(name)]
}

// Names returns the registered transport names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.transports))
	for name := range r.transports {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry with the workbook and CSV transports rooted at dataDir.
func DefaultRegistry(dataDir string) *Registry {
	r := NewRegistry()
	r.Register(TransportWorkbook, NewWorkbookTransport(dataDir))
	r.Register(TransportCSV, NewCSVTransport(dataDir))
	return r
}

// Transport names used in source configuration.
const (
	TransportWorkbook = "workbook"
	TransportCSV      = "csv"
)

// resolvePath joins document onto root without letting it escape root.
func resolvePath(root, document string) string {
	return filepath.Join(root, filepath.Clean("/"+document))
}
