// Package normalize coerces spreadsheet cell values into numbers.
//
// Source spreadsheets routinely contain blank trailing cells, formula error
// strings and locale formatting. Float never fails: anything that cannot be
// read as a number becomes 0 so a single bad cell cannot abort a report.
package normalize

import (
	"encoding/json"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// quoteRunes are stripped from both ends of a textual value.
const quoteRunes = "\"'`‘’“”"

// Float converts value to a float64.
//
//	Float("$1,234.56") // 1234.56
//	Float("12%")       // 12
//	Float("(50)")      // -50
//	Float("50-")       // -50
//	Float("#N/A")      // 0
//	Float(nil)         // 0
func Float(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case decimal.Decimal:
		return v.InexactFloat64()
	case json.Number:
		return String(v.String())
	case string:
		return String(v)
	case []byte:
		return String(string(v))
	case bool:
		return 0
	}
	return 0
}

// String parses a textual cell. See Float.
func String(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, quoteRunes)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '%' || r == '_':
			return -1
		case unicode.IsSpace(r):
			return -1
		case unicode.Is(unicode.Sc, r):
			return -1
		}
		return r
	}, s)
	// Currency codes and prefixes such as "NT", "US" or a trailing "TWD".
	s = strings.TrimFunc(s, unicode.IsLetter)
	if s == "" {
		return 0
	}
	// Accounting exports write negatives as "50-".
	if len(s) > 1 && strings.HasSuffix(s, "-") && !strings.HasPrefix(s, "-") {
		negative = !negative
		s = s[:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	if negative {
		return -f
	}
	return f
}

// IsBlank reports whether a cell carries no content.
func IsBlank(cell string) bool {
	return strings.TrimSpace(cell) == ""
}
