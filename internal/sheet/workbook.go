package sheet

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

// WorkbookTransport reads and appends ranges of xlsx workbooks under a root directory.
type WorkbookTransport struct {
	root string
}

// NewWorkbookTransport creates a transport rooted at root.
func NewWorkbookTransport(root string) *WorkbookTransport {
	return &WorkbookTransport{root: root}
}

// Read returns the cells of rangeRef. An empty sheet name selects the first sheet.
func (t *WorkbookTransport) Read(ctx context.Context, document, rangeRef string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rng, err := ParseRange(rangeRef)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrRangeNotFound, err)
	}

	f, err := t.open(document)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet, err := resolveSheet(f, rng.Sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s of %s: %w", sheet, document, err)
	}
	return rng.Slice(rows), nil
}

// Append writes rows below the last used row of sheet and saves the workbook.
func (t *WorkbookTransport) Append(ctx context.Context, document, sheet string, rows [][]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := t.open(document)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return err
	}

	existing, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("reading sheet %s of %s: %w", sheet, document, err)
	}

	next := len(existing) + 1
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = DetectType(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("writing row %d of %s: %w", next+i, sheet, err)
		}
	}

	if err := f.Save(); err != nil {
		return fmt.Errorf("saving %s: %w", document, err)
	}
	return nil
}

func (t *WorkbookTransport) open(document string) (*excelize.File, error) {
	f, err := excelize.OpenFile(resolvePath(t.root, document))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: document %s", apperrors.ErrRangeNotFound, document)
		}
		return nil, fmt.Errorf("opening %s: %w", document, err)
	}
	return f, nil
}

// resolveSheet checks that sheet exists, defaulting to the first sheet.
func resolveSheet(f *excelize.File, sheet string) (string, error) {
	if sheet == "" {
		return f.GetSheetName(0), nil
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return "", fmt.Errorf("%w: sheet %s", apperrors.ErrRangeNotFound, sheet)
	}
	return sheet, nil
}
