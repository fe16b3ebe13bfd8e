// Package schema locates the economically meaningful columns of a holdings export.
//
// Two strategies exist. The keyword strategy matches header text and is used
// whenever the source has a header row. The positional strategy uses a fixed
// column index and applies to headerless exports, or as the fallback of a rule
// whose keywords matched nothing. Nothing past this package addresses a column
// by position: callers receive role-to-index mappings only.
package schema

import (
	"strings"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// Strategy names which rule part located a column.
type Strategy string

const (
	StrategyKeyword  Strategy = "keyword"
	StrategyPosition Strategy = "position"
)

// Column is a resolved role.
type Column struct {
	Index    int      `json:"index"`
	Strategy Strategy `json:"strategy"`
}

// Resolution is the role-to-column mapping for one dataset.
type Resolution struct {
	Columns map[model.Role]Column
	// Missing lists roles that the schema declares but that could not be located.
	Missing []model.Role
}

// Index returns the column index of role.
func (r Resolution) Index(role model.Role) (int, bool) {
	c, ok := r.Columns[role]
	return c.Index, ok
}

// Has reports whether role was located.
func (r Resolution) Has(role model.Role) bool {
	_, ok := r.Columns[role]
	return ok
}

// Resolve maps each role of sch to a column.
//
// header is the header row, or nil for headerless sources; width is the number
// of columns in the padded dataset. When hints are given, a keyword match whose
// header text also contains one of the hints is preferred (for example "USD"
// picks "Cost (USD)" over "Cost (TWD)"). Otherwise the first match wins.
// A role that cannot be located is reported in Missing, never as an error.
func Resolve(header []string, width int, sch model.Schema, hints []string) Resolution {
	res := Resolution{Columns: make(map[model.Role]Column, len(sch))}
	normalized := normalizeHeader(header)
	lowerHints := lowerAll(hints)

	for _, role := range model.Roles {
		rule, ok := sch[role]
		if !ok {
			continue
		}

		if len(normalized) > 0 && len(rule.Keywords) > 0 {
			if idx := matchKeywords(normalized, lowerAll(rule.Keywords), lowerHints); idx >= 0 {
				res.Columns[role] = Column{Index: idx, Strategy: StrategyKeyword}
				continue
			}
		}

		if rule.HasPosition() && rule.Position < width {
			res.Columns[role] = Column{Index: rule.Position, Strategy: StrategyPosition}
			continue
		}

		res.Missing = append(res.Missing, role)
	}

	return res
}

// matchKeywords returns the first header index containing every keyword,
// preferring columns that also contain a hint. Returns -1 when none match.
func matchKeywords(header, keywords, hints []string) int {
	first := -1
	for i, h := range header {
		if !containsAll(h, keywords) {
			continue
		}
		if len(hints) == 0 {
			return i
		}
		if containsAny(h, hints) {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func normalizeHeader(header []string) []string {
	if len(header) == 0 {
		return nil
	}
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
