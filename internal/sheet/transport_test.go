package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

func writeWorkbook(t *testing.T, dir, name, sheet string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
}

// TestWorkbookTransport tests reading and appending xlsx ranges.
//
// WHY: Workbooks are the source of truth for several brokers; the transport must
// return the requested range, report a missing sheet as a range error, and append
// after the last used row with detected types.
func TestWorkbookTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("reads the requested range", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkbook(t, dir, "us.xlsx", "Holdings", [][]any{
			{"Symbol", "Shares", "Value"},
			{"VTI", 10, 2500.5},
			{"BND", 5},
		})

		tr := NewWorkbookTransport(dir)
		rows, err := tr.Read(ctx, "us.xlsx", "Holdings!A1:C3")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"Symbol", "Shares", "Value"}, rows[0])
		assert.Equal(t, "VTI", rows[1][0])
		assert.Equal(t, "2500.5", rows[1][2])
		assert.Equal(t, []string{"BND", "5"}, rows[2])
	})

	t.Run("missing sheet is a range error", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkbook(t, dir, "us.xlsx", "Holdings", [][]any{{"a"}})

		_, err := NewWorkbookTransport(dir).Read(ctx, "us.xlsx", "Nope!A1:B2")
		assert.ErrorIs(t, err, apperrors.ErrRangeNotFound)
	})

	t.Run("missing document is a range error", func(t *testing.T) {
		_, err := NewWorkbookTransport(t.TempDir()).Read(ctx, "absent.xlsx", "Holdings")
		assert.ErrorIs(t, err, apperrors.ErrRangeNotFound)
	})

	t.Run("append writes after the last row", func(t *testing.T) {
		dir := t.TempDir()
		writeWorkbook(t, dir, "dca.xlsx", "Ledger", [][]any{
			{"Date", "Symbol", "Amount"},
			{"2024-01-05", "0050", 3000},
		})

		tr := NewWorkbookTransport(dir)
		err := tr.Append(ctx, "dca.xlsx", "Ledger", [][]any{{"2024-02-05", "0050", "3000"}})
		require.NoError(t, err)

		f, err := excelize.OpenFile(filepath.Join(dir, "dca.xlsx"))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Ledger")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "0050", rows[2][1])
		assert.Equal(t, "3000", rows[2][2])
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewWorkbookTransport(t.TempDir()).Read(cctx, "x.xlsx", "A1:B2")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// TestCSVTransport tests reading and appending CSV exports.
//
// WHY: Ragged rows are valid input from exports and must come back as-is for
// the reader to pad; appends must not merge with an unterminated last line.
func TestCSVTransport(t *testing.T) {
	ctx := context.Background()

	t.Run("reads ragged rows", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.csv"),
			[]byte("Name,Value\nAAPL\nVWRL,\"1,200.50\"\n"), 0o644))

		rows, err := NewCSVTransport(dir).Read(ctx, "uk.csv", "")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Name", "Value"}, {"AAPL"}, {"VWRL", "1,200.50"}}, rows)
	})

	t.Run("applies cell range", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "uk.csv"),
			[]byte("junk,junk\nName,Value\nVWRL,10\n"), 0o644))

		rows, err := NewCSVTransport(dir).Read(ctx, "uk.csv", "A2:B")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"Name", "Value"}, {"VWRL", "10"}}, rows)
	})

	t.Run("append terminates the previous line", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "ledger.csv")
		require.NoError(t, os.WriteFile(path, []byte("Date,Amount\n2024-01-05,100"), 0o644))

		date := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
		err := NewCSVTransport(dir).Append(ctx, "ledger.csv", "", [][]any{{date, 250.5}})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Date,Amount\n2024-01-05,100\n2024-02-05,250.5\n", string(data))
	})

	t.Run("append keeps zero padded codes", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "dca.csv")
		require.NoError(t, os.WriteFile(path, []byte("Date,Symbol,Amount\n"), 0o644))

		err := NewCSVTransport(dir).Append(ctx, "dca.csv", "", [][]any{{"2024-02-05", "0050", "3000", "NaN"}})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Date,Symbol,Amount\n2024-02-05,0050,3000,NaN\n", string(data))
	})

	t.Run("path cannot escape the root", func(t *testing.T) {
		_, err := NewCSVTransport(t.TempDir()).Read(ctx, "../../etc/passwd", "")
		assert.ErrorIs(t, err, apperrors.ErrRangeNotFound)
	})
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(t.TempDir())
	assert.NotNil(t, r.Get("workbook"))
	assert.NotNil(t, r.Get("CSV"))
	assert.Nil(t, r.Get("sheets-api"))
	assert.ElementsMatch(t, []string{"workbook", "csv"}, r.Names())
	assert.Panics(t, func() { r.Register("csv", NewCSVTransport("")) })
}

// TestDetectType tests typing of appended string cells.
//
// WHY: Taiwan listings use zero-padded codes such as "0050". Turning them
// into 50 corrupts the ledger symbol column.
func TestDetectType(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integer", "3000", 3000.0},
		{"decimal", "135.5", 135.5},
		{"zero", "0", 0.0},
		{"fraction below one", "0.25", 0.25},
		{"negative", "-12", -12.0},
		{"date", "2024-02-05", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"ticker", "VTI", "VTI"},
		{"zero padded code", "0050", "0050"},
		{"signed zero padded code", "-007", "-007"},
		{"nan spelling", "NaN", "NaN"},
		{"inf spelling", "Inf", "Inf"},
		{"non string", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectType(tt.in))
		})
	}
}
