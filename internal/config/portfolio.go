package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/schema"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/sheet"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/validation"
)

// DefaultThreshold is the materiality threshold, in percentage points, for rebalance suggestions.
const DefaultThreshold = 2.0

// Portfolio is the validated static configuration: sources, taxonomy and targets.
type Portfolio struct {
	ReportingCurrency string
	Threshold         float64
	Taxonomy          []string
	Aliases           map[string]string
	Targets           []model.AllocationTarget
	FallbackRates     map[string]float64
	DefaultFallback   float64
	Sources           []model.SourceConfig
}

// Source returns the source with id.
func (p *Portfolio) Source(id string) (model.SourceConfig, bool) {
	for _, s := range p.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return model.SourceConfig{}, false
}

// TargetMap indexes the targets by category.
func (p *Portfolio) TargetMap() map[string]model.AllocationTarget {
	out := make(map[string]model.AllocationTarget, len(p.Targets))
	for _, t := range p.Targets {
		out[t.Category] = t
	}
	return out
}

// FallbackRate returns the static rate for a foreign currency.
func (p *Portfolio) FallbackRate(currency string) float64 {
	if rate, ok := p.FallbackRates[currency]; ok && rate > 0 {
		return rate
	}
	return p.DefaultFallback
}

// portfolioFile mirrors the YAML layout of the portfolio file.
type portfolioFile struct {
	ReportingCurrency string             `yaml:"reporting_currency"`
	Threshold         *float64           `yaml:"threshold"`
	Taxonomy          []string           `yaml:"taxonomy"`
	CategoryAliases   map[string]string  `yaml:"category_aliases"`
	Targets           map[string]float64 `yaml:"targets"`
	FX                fxFile             `yaml:"fx"`
	Sources           []sourceFile       `yaml:"sources"`
}

type fxFile struct {
	DefaultFallback float64            `yaml:"default_fallback"`
	FallbackRates   map[string]float64 `yaml:"fallback_rates"`
}

type sourceFile struct {
	ID        string              `yaml:"id"`
	Transport string              `yaml:"transport"`
	Document  string              `yaml:"document"`
	Range     string              `yaml:"range"`
	Owner     string              `yaml:"owner"`
	Currency  string              `yaml:"currency"`
	Header    *bool               `yaml:"header"`
	Policy    string              `yaml:"policy"`
	Category  string              `yaml:"category"`
	Hints     []string            `yaml:"hints"`
	Schema    map[string]ruleFile `yaml:"schema"`
}

type ruleFile struct {
	Keywords []string `yaml:"keywords"`
	Column   string   `yaml:"column"`
}

// LoadPortfolio reads and validates the portfolio file at path.
// defaultFallback is used when the file does not set fx.default_fallback.
func LoadPortfolio(path string, defaultFallback float64) (*Portfolio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading portfolio file: %w", err)
	}
	return ParsePortfolio(data, defaultFallback)
}

// ParsePortfolio decodes and validates a portfolio document.
// Schema rules are checked at load time; a bad rule never reaches a read.
func ParsePortfolio(data []byte, defaultFallback float64) (*Portfolio, error) {
	var file portfolioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing portfolio file: %w", err)
	}

	var verr validation.Error
	p := &Portfolio{
		ReportingCurrency: strings.ToUpper(strings.TrimSpace(file.ReportingCurrency)),
		Threshold:         DefaultThreshold,
		Aliases:           make(map[string]string),
		FallbackRates:     make(map[string]float64),
		DefaultFallback:   defaultFallback,
	}
	if file.Threshold != nil {
		p.Threshold = *file.Threshold
	}
	if p.Threshold < 0 {
		verr.Add("threshold", "must not be negative")
	}
	if err := validation.ValidateCurrency(p.ReportingCurrency); err != nil {
		verr.Add("reporting_currency", err.Error())
	}

	taxonomy := buildTaxonomy(file.Taxonomy, &verr)
	p.Taxonomy = file.Taxonomy

	for alias, category := range file.CategoryAliases {
		if !taxonomy[category] {
			verr.Addf("category_aliases."+alias, "category %q is not in the taxonomy", category)
			continue
		}
		p.Aliases[strings.ToLower(strings.TrimSpace(alias))] = category
	}

	for _, category := range file.Taxonomy {
		if pct, ok := file.Targets[category]; ok {
			p.Targets = append(p.Targets, model.AllocationTarget{Category: category, TargetPercentage: pct})
		}
	}
	for category, pct := range file.Targets {
		if !taxonomy[category] {
			verr.Add("targets."+category, "category is not in the taxonomy")
		}
		if pct < 0 || pct > 100 || math.IsNaN(pct) {
			verr.Addf("targets."+category, "percentage %v out of range", pct)
		}
	}

	if file.FX.DefaultFallback > 0 {
		p.DefaultFallback = file.FX.DefaultFallback
	}
	for currency, rate := range file.FX.FallbackRates {
		code := strings.ToUpper(currency)
		if err := validation.ValidateCurrency(code); err != nil {
			verr.Add("fx.fallback_rates."+currency, err.Error())
		}
		if rate <= 0 {
			verr.Add("fx.fallback_rates."+currency, "must be positive")
		}
		p.FallbackRates[code] = rate
	}

	seen := make(map[string]bool)
	for i, sf := range file.Sources {
		src := buildSource(fmt.Sprintf("sources[%d]", i), sf, p.ReportingCurrency, taxonomy, &verr)
		if seen[src.ID] {
			verr.Addf(fmt.Sprintf("sources[%d].id", i), "duplicate source id %q", src.ID)
		}
		seen[src.ID] = true
		p.Sources = append(p.Sources, src)
	}

	if err := verr.OrNil(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConfiguration, err)
	}
	return p, nil
}

func buildTaxonomy(categories []string, verr *validation.Error) map[string]bool {
	set := make(map[string]bool, len(categories))
	if len(categories) == 0 {
		verr.Add("taxonomy", "at least one category is required")
	}
	for i, c := range categories {
		field := fmt.Sprintf("taxonomy[%d]", i)
		switch {
		case strings.TrimSpace(c) == "":
			verr.Add(field, "category name is empty")
		case strings.EqualFold(c, model.UnclassifiedCategory):
			verr.Addf(field, "%q is reserved", model.UnclassifiedCategory)
		case set[c]:
			verr.Addf(field, "duplicate category %q", c)
		}
		set[c] = true
	}
	return set
}

func buildSource(field string, sf sourceFile, reporting string, taxonomy map[string]bool, verr *validation.Error) model.SourceConfig {
	src := model.SourceConfig{
		ID:        strings.TrimSpace(sf.ID),
		Transport: strings.ToLower(strings.TrimSpace(sf.Transport)),
		Document:  sf.Document,
		Range:     sf.Range,
		Owner:     sf.Owner,
		Currency:  strings.ToUpper(strings.TrimSpace(sf.Currency)),
		HasHeader: sf.Header == nil || *sf.Header,
		Policy:    model.ValuationPolicy(strings.ToLower(strings.TrimSpace(sf.Policy))),
		Category:  sf.Category,
		Hints:     sf.Hints,
		Schema:    make(model.Schema),
	}

	if err := validation.ValidateSourceID(src.ID); err != nil {
		verr.Add(field+".id", err.Error())
	}
	switch src.Transport {
	case sheet.TransportWorkbook, sheet.TransportCSV:
	default:
		verr.Addf(field+".transport", "unknown transport %q", sf.Transport)
	}
	if src.Document == "" {
		verr.Add(field+".document", "is required")
	}
	rng, err := sheet.ParseRange(src.Range)
	if err != nil {
		verr.Add(field+".range", err.Error())
	}
	if src.Currency == "" {
		src.Currency = reporting
	}
	if err := validation.ValidateCurrency(src.Currency); err != nil {
		verr.Add(field+".currency", err.Error())
	}
	if src.Policy == "" {
		src.Policy = model.PolicyRows
	}
	switch src.Policy {
	case model.PolicyRows, model.PolicyLastPositive, model.PolicyPositiveSum:
	default:
		verr.Addf(field+".policy", "unknown valuation policy %q", sf.Policy)
	}
	if src.Category != "" && !taxonomy[src.Category] {
		verr.Addf(field+".category", "category %q is not in the taxonomy", src.Category)
	}

	for name, rf := range sf.Schema {
		role := model.Role(strings.ToLower(strings.TrimSpace(name)))
		ruleField := field + ".schema." + name
		if !role.IsKnown() {
			verr.Addf(ruleField, "unknown column role %q", name)
			continue
		}
		rule := model.ColumnRule{Keywords: rf.Keywords, Position: model.NoPosition}
		if rf.Column != "" {
			pos, err := schema.RelativeColumn(rf.Column, rng.StartCol)
			switch {
			case err != nil:
				verr.Add(ruleField+".column", err.Error())
			case rng.EndCol > 0 && pos > rng.EndCol-max(rng.StartCol, 1):
				verr.Addf(ruleField+".column", "column %s is right of the range end", rf.Column)
			}
			rule.Position = pos
		}
		if len(rule.Keywords) == 0 && !rule.HasPosition() {
			verr.Add(ruleField, "needs keywords or a column")
		}
		if !src.HasHeader && !rule.HasPosition() {
			verr.Add(ruleField, "headerless sources need a column position")
		}
		src.Schema[role] = rule
	}

	if _, ok := src.Schema[model.RoleMarketValue]; !ok {
		verr.Add(field+".schema.market_value", "is required")
	}
	if src.Policy == model.PolicyRows && src.Category == "" {
		if _, ok := src.Schema[model.RoleCategory]; !ok {
			verr.Add(field+".schema.category", "is required unless the source sets a fixed category")
		}
	}
	if src.Policy != model.PolicyRows && src.Category == "" {
		verr.Add(field+".category", "single-total policies need a fixed category")
	}

	return src
}
