package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColumn converts a column reference to a 0-based index.
// It accepts spreadsheet letters ("A", "f", "AB") or a 0-based number ("5").
func ParseColumn(ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return 0, fmt.Errorf("empty column reference")
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative column index %d", n)
		}
		return n, nil
	}

	idx := 0
	for _, r := range strings.ToUpper(ref) {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column reference %q", ref)
		}
		idx = idx*26 + int(r-'A'+1)
	}
	return idx - 1, nil
}

// RelativeColumn converts a column reference to an index within a range whose
// first column is startCol (1-based, 0 when the range has no column bound).
// Letters name sheet columns and are shifted to the range origin; numbers are
// already offsets within the range. Letters left of the range are rejected.
func RelativeColumn(ref string, startCol int) (int, error) {
	idx, err := ParseColumn(ref)
	if err != nil {
		return 0, err
	}
	if _, numErr := strconv.Atoi(strings.TrimSpace(ref)); numErr == nil || startCol <= 1 {
		return idx, nil
	}
	rel := idx - (startCol - 1)
	if rel < 0 {
		return 0, fmt.Errorf("column %s is left of the range start", strings.ToUpper(strings.TrimSpace(ref)))
	}
	return rel, nil
}
