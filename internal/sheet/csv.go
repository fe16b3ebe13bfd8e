package sheet

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

// CSVTransport reads and appends CSV exports under a root directory.
// A CSV document has a single sheet, so the sheet part of a range is ignored.
type CSVTransport struct {
	root string
}

// NewCSVTransport creates a transport rooted at root.
func NewCSVTransport(root string) *CSVTransport {
	return &CSVTransport{root: root}
}

// Read returns the cells of rangeRef in the CSV document.
func (t *CSVTransport) Read(ctx context.Context, document, rangeRef string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng, err := ParseRange(rangeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRangeNotFound, err)
	}

	f, err := os.Open(resolvePath(t.root, document))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrRangeNotFound, document)
		}
		return nil, fmt.Errorf("opening %s: %w", document, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV %s: %w", document, err)
	}
	return rng.Slice(records), nil
}

// Append adds rows to the end of the CSV document.
func (t *CSVTransport) Append(ctx context.Context, document, _ string, rows [][]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := resolvePath(t.root, document)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: document %s", apperrors.ErrRangeNotFound, document)
		}
		return fmt.Errorf("opening %s: %w", document, err)
	}
	defer f.Close()

	if err := ensureTrailingNewline(f); err != nil {
		return fmt.Errorf("preparing %s: %w", document, err)
	}

	w := csv.NewWriter(f)
	for _, row := range rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing %s: %w", document, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", document, err)
	}
	return nil
}

// ensureTrailingNewline terminates an unterminated last line so appended
// records start on their own line.
func ensureTrailingNewline(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		return nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return err
	}
	if last[0] == '\n' {
		return nil
	}
	_, err = f.Write([]byte("\n"))
	return err
}
