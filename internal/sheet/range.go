package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Range is a parsed A1-style range reference. Coordinates are 1-based;
// zero means unbounded on that side.
type Range struct {
	Sheet    string
	StartCol int
	StartRow int
	EndCol   int
	EndRow   int
}

// ParseRange parses references such as "Holdings!A1:H50", "Holdings!B:F",
// "'My Sheet'!A2:D", "A1:C10" or a bare sheet name "Holdings".
func ParseRange(ref string) (Range, error) {
	ref = strings.TrimSpace(ref)
	var rng Range

	cells := ref
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		rng.Sheet = strings.Trim(ref[:i], "'")
		cells = ref[i+1:]
	} else if !strings.Contains(ref, ":") {
		rng.Sheet = strings.Trim(ref, "'")
		return rng, nil
	}

	if cells == "" {
		return rng, nil
	}

	parts := strings.Split(cells, ":")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("invalid range %q", ref)
	}

	var err error
	rng.StartCol, rng.StartRow, err = parseCell(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	if len(parts) == 2 {
		rng.EndCol, rng.EndRow, err = parseCell(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
		}
	}
	if rng.EndCol > 0 && rng.StartCol > rng.EndCol || rng.EndRow > 0 && rng.StartRow > rng.EndRow {
		return Range{}, fmt.Errorf("invalid range %q: start after end", ref)
	}
	return rng, nil
}

// parseCell splits "B12" into (2, 12); either part may be absent ("B", "12").
func parseCell(cell string) (col, row int, err error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), "$", "")
	i := 0
	for i < len(cell) && (cell[i] >= 'A' && cell[i] <= 'Z' || cell[i] >= 'a' && cell[i] <= 'z') {
		i++
	}
	letters, digits := cell[:i], cell[i:]
	if letters == "" && digits == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}
	if letters != "" {
		col, err = excelize.ColumnNameToNumber(letters)
		if err != nil {
			return 0, 0, err
		}
	}
	if digits != "" {
		row, err = strconv.Atoi(digits)
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid row %q", digits)
		}
	}
	return col, row, nil
}

// Slice cuts the range out of a full sheet matrix.
func (r Range) Slice(rows [][]string) [][]string {
	startRow := 0
	if r.StartRow > 0 {
		startRow = r.StartRow - 1
	}
	endRow := len(rows)
	if r.EndRow > 0 && r.EndRow < endRow {
		endRow = r.EndRow
	}
	if startRow >= endRow {
		return [][]string{}
	}

	out := make([][]string, 0, endRow-startRow)
	for _, row := range rows[startRow:endRow] {
		startCol := 0
		if r.StartCol > 0 {
			startCol = r.StartCol - 1
		}
		endCol := len(row)
		if r.EndCol > 0 && r.EndCol < endCol {
			endCol = r.EndCol
		}
		if startCol >= endCol {
			out = append(out, []string{})
			continue
		}
		cut := make([]string, endCol-startCol)
		copy(cut, row[startCol:endCol])
		out = append(out, cut)
	}
	return out
}
