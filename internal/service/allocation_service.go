package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// targetSumTolerance is how far target percentages may drift from 100 before it is logged.
const targetSumTolerance = 0.01

// AllocationService aggregates holdings from every source into category buckets
// and reconciles them against the target table.
type AllocationService struct {
	portfolio *config.Portfolio
	reader    *SourceReaderService
	fx        *CurrencyService
	clock     cache.Clock
	logger    zerolog.Logger
}

// NewAllocationService creates a new AllocationService.
func NewAllocationService(portfolio *config.Portfolio, reader *SourceReaderService, fx *CurrencyService, clock cache.Clock, logger zerolog.Logger) *AllocationService {
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &AllocationService{
		portfolio: portfolio,
		reader:    reader,
		fx:        fx,
		clock:     clock,
		logger:    logger.With().Str("component", "allocation").Logger(),
	}
}

// Aggregate buckets every configured source.
func (s *AllocationService) Aggregate(ctx context.Context) model.Allocation {
	return s.AggregateSources(ctx, s.portfolio.Sources)
}

// AggregateSources buckets the market value of sources by category in the
// reporting currency. Every taxonomy category is present in the result, in
// taxonomy order. Value that cannot be classified goes to the Unclassified
// bucket, which is appended only when it holds value.
func (s *AllocationService) AggregateSources(ctx context.Context, sources []model.SourceConfig) model.Allocation {
	totals := make(map[string]float64, len(s.portfolio.Taxonomy)+1)
	for _, category := range s.portfolio.Taxonomy {
		totals[category] = 0
	}

	var warnings []model.Warning
	fxWarned := make(map[string]bool)

	for _, src := range sources {
		ds := s.reader.Read(ctx, src)
		warnings = append(warnings, ds.Warnings...)
		if len(ds.Records) == 0 {
			continue
		}
		if !ds.Valued() {
			s.logger.Warn().Str("source", src.ID).Msg("market value column not found, source skipped")
			continue
		}

		quote, fxWarning := s.fx.Quote(ctx, src.Currency)
		if fxWarning != nil && !fxWarned[src.Currency] {
			fxWarned[src.Currency] = true
			warnings = append(warnings, *fxWarning)
		}

		switch src.Policy {
		case model.PolicyLastPositive:
			totals[src.Category] += Convert(lastPositive(ds.Records), quote.Rate)
		case model.PolicyPositiveSum:
			totals[src.Category] += Convert(positiveSum(ds.Records), quote.Rate)
		default:
			if w := s.accumulateRows(src, ds.Records, quote.Rate, totals); w != nil {
				warnings = append(warnings, *w)
			}
		}
	}

	alloc := model.Allocation{
		ReportingCurrency: s.portfolio.ReportingCurrency,
		Warnings:          warnings,
		ComputedAt:        s.clock.Now(),
	}
	if alloc.Warnings == nil {
		alloc.Warnings = []model.Warning{}
	}

	order := append([]string(nil), s.portfolio.Taxonomy...)
	if totals[model.UnclassifiedCategory] != 0 {
		order = append(order, model.UnclassifiedCategory)
	}
	for _, category := range order {
		alloc.Total += totals[category]
	}
	for _, category := range order {
		bucket := model.CategoryBucket{Category: category, Value: totals[category]}
		if alloc.Total > 0 {
			bucket.Percentage = bucket.Value / alloc.Total * 100
		}
		alloc.Buckets = append(alloc.Buckets, bucket)
	}
	return alloc
}

// accumulateRows adds each record to its category. It returns a warning when
// some value could not be classified.
func (s *AllocationService) accumulateRows(src model.SourceConfig, records []model.HoldingRecord, rate float64, totals map[string]float64) *model.Warning {
	var unclassified float64
	var labels []string
	for _, rec := range records {
		value := Convert(rec.MarketValue, rate)
		category := s.Classify(src, rec.Category)
		if category == model.UnclassifiedCategory && value != 0 {
			unclassified += value
			labels = append(labels, labelOf(rec))
		}
		totals[category] += value
	}
	if len(labels) == 0 {
		return nil
	}

	s.logger.Warn().Str("source", src.ID).Strs("holdings", labels).Float64("value", unclassified).Msg("holdings outside taxonomy")
	w := warn(model.WarningUnclassified, src.ID,
		fmt.Sprintf("%d holding(s) worth %.2f %s have no known category: %s",
			len(labels), unclassified, s.portfolio.ReportingCurrency, strings.Join(labels, ", ")))
	return &w
}

// Classify maps a record's category label onto the taxonomy. A source with a
// fixed category always wins. Labels are matched exactly, then ignoring case
// and surrounding space, then through the alias table.
func (s *AllocationService) Classify(src model.SourceConfig, label string) string {
	if src.Category != "" {
		return src.Category
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return model.UnclassifiedCategory
	}
	for _, category := range s.portfolio.Taxonomy {
		if category == label {
			return category
		}
	}
	for _, category := range s.portfolio.Taxonomy {
		if strings.EqualFold(category, label) {
			return category
		}
	}
	if category, ok := s.portfolio.Aliases[strings.ToLower(label)]; ok {
		return category
	}
	return model.UnclassifiedCategory
}

// Rebalance aggregates every source and reconciles the result against the
// configured targets.
func (s *AllocationService) Rebalance(ctx context.Context) (model.Allocation, model.RebalanceReport) {
	alloc := s.Aggregate(ctx)
	report := Reconcile(alloc.ByCategory(), s.portfolio.TargetMap(), s.portfolio.Threshold)
	if math.Abs(report.UnallocatedPercentage) > targetSumTolerance {
		s.logger.Warn().
			Float64("target_total", report.TargetTotal).
			Float64("unallocated", report.UnallocatedPercentage).
			Msg("targets do not sum to 100")
	}
	return alloc, report
}

// lastPositive scans from the bottom for the last strictly positive market value.
func lastPositive(records []model.HoldingRecord) float64 {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].MarketValue > 0 {
			return records[i].MarketValue
		}
	}
	return 0
}

// positiveSum adds every strictly positive market value.
func positiveSum(records []model.HoldingRecord) float64 {
	var sum float64
	for _, rec := range records {
		if rec.MarketValue > 0 {
			sum += rec.MarketValue
		}
	}
	return sum
}

func labelOf(rec model.HoldingRecord) string {
	switch {
	case rec.Symbol != "":
		return rec.Symbol
	case rec.Name != "":
		return rec.Name
	}
	return "(unnamed)"
}
