package model

import "strings"

// ValuationPolicy decides how a source contributes market value to the aggregate.
type ValuationPolicy string

const (
	// PolicyRows sums market value record by record, bucketed by each record's category.
	PolicyRows ValuationPolicy = "rows"
	// PolicyLastPositive takes the last strictly-positive value of the market value
	// column, scanning from the bottom. Used by sheets that keep a running total.
	PolicyLastPositive ValuationPolicy = "last_positive"
	// PolicyPositiveSum sums the market value column, ignoring blank and non-positive cells.
	PolicyPositiveSum ValuationPolicy = "positive_sum"
)

// NoPosition marks a column rule without a positional fallback.
const NoPosition = -1

// ColumnRule locates the column for one role.
// Keywords must all appear (case-insensitive) in the header text; Position is the
// 0-based column used when no header matches or when the source has no header row.
type ColumnRule struct {
	Keywords []string `json:"keywords,omitempty"`
	Position int      `json:"position"`
}

// HasPosition reports whether the rule carries a positional fallback.
func (r ColumnRule) HasPosition() bool {
	return r.Position >= 0
}

// Schema maps column roles to the rule that locates them.
type Schema map[Role]ColumnRule

// SourceConfig is the static descriptor of one spreadsheet range.
// It is built once at startup and never mutated.
type SourceConfig struct {
	ID        string          `json:"id"`
	Transport string          `json:"transport"`
	Document  string          `json:"document"`
	Range     string          `json:"range"`
	Owner     string          `json:"owner"`
	Currency  string          `json:"currency"`
	HasHeader bool            `json:"hasHeader"`
	Policy    ValuationPolicy `json:"policy"`
	// Category, when set, assigns every holding of the source to that category
	// regardless of any category column.
	Category string   `json:"category,omitempty"`
	Hints    []string `json:"hints,omitempty"`
	Schema   Schema   `json:"-"`
}

// Sheet returns the worksheet part of the range reference, if any.
func (s SourceConfig) Sheet() string {
	if i := strings.LastIndex(s.Range, "!"); i >= 0 {
		return strings.Trim(s.Range[:i], "'")
	}
	if strings.ContainsAny(s.Range, ":") {
		return ""
	}
	return strings.Trim(s.Range, "'")
}
