package service

import (
	"math"
	"sort"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// deltaEpsilon is the margin by which |delta| must exceed the threshold.
// Percentages are computed in float64, so a delta meant to equal the threshold
// can land a few ulps above it; anything within 1e-9 counts as equal.
const deltaEpsilon = 1e-9

// Reconcile compares actual buckets with targets. Every category present on
// either side gets a row; a missing side counts as zero. A suggestion is made
// only when the absolute delta exceeds threshold by more than deltaEpsilon, so
// a delta of threshold+5e-10 is treated as on the boundary and yields none.
// Targets are used as given: when they do not sum to 100 the difference is
// reported as UnallocatedPercentage and nothing is renormalized.
func Reconcile(actual map[string]model.CategoryBucket, targets map[string]model.AllocationTarget, threshold float64) model.RebalanceReport {
	report := model.RebalanceReport{
		Threshold:   threshold,
		Rows:        []model.AllocationComparison{},
		Suggestions: []model.RebalanceSuggestion{},
	}

	categories := make(map[string]struct{}, len(actual)+len(targets))
	for category, bucket := range actual {
		categories[category] = struct{}{}
		report.Total += bucket.Value
	}
	for category, target := range targets {
		categories[category] = struct{}{}
		report.TargetTotal += target.TargetPercentage
	}
	report.UnallocatedPercentage = 100 - report.TargetTotal

	names := make([]string, 0, len(categories))
	for category := range categories {
		names = append(names, category)
	}
	sort.Strings(names)

	for _, category := range names {
		bucket := actual[category]
		targetPct := targets[category].TargetPercentage

		actualPct := 0.0
		if report.Total > 0 {
			actualPct = bucket.Value / report.Total * 100
		}
		targetValue := report.Total * targetPct / 100
		delta := actualPct - targetPct

		report.Rows = append(report.Rows, model.AllocationComparison{
			Category:         category,
			ActualValue:      bucket.Value,
			ActualPercentage: actualPct,
			TargetValue:      targetValue,
			TargetPercentage: targetPct,
			Delta:            delta,
		})

		if math.Abs(delta)-threshold <= deltaEpsilon {
			continue
		}
		direction := model.DirectionIncrease
		if delta > 0 {
			direction = model.DirectionReduce
		}
		report.Suggestions = append(report.Suggestions, model.RebalanceSuggestion{
			Category:         category,
			ActualPercentage: actualPct,
			TargetPercentage: targetPct,
			Delta:            delta,
			Direction:        direction,
			Adjustment:       targetValue - bucket.Value,
		})
	}
	return report
}
