package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// round2 rounds a value to two decimal places for display.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundAllocation(a model.Allocation) model.Allocation {
	out := a
	out.Total = round2(a.Total)
	out.Buckets = make([]model.CategoryBucket, len(a.Buckets))
	for i, b := range a.Buckets {
		out.Buckets[i] = model.CategoryBucket{
			Category:   b.Category,
			Value:      round2(b.Value),
			Percentage: round2(b.Percentage),
		}
	}
	return out
}

func roundReport(r model.RebalanceReport) model.RebalanceReport {
	out := r
	out.Total = round2(r.Total)
	out.TargetTotal = round2(r.TargetTotal)
	out.UnallocatedPercentage = round2(r.UnallocatedPercentage)
	out.Rows = make([]model.AllocationComparison, len(r.Rows))
	for i, row := range r.Rows {
		out.Rows[i] = model.AllocationComparison{
			Category:         row.Category,
			ActualValue:      round2(row.ActualValue),
			ActualPercentage: round2(row.ActualPercentage),
			TargetValue:      round2(row.TargetValue),
			TargetPercentage: round2(row.TargetPercentage),
			Delta:            round2(row.Delta),
		}
	}
	out.Suggestions = make([]model.RebalanceSuggestion, len(r.Suggestions))
	for i, s := range r.Suggestions {
		out.Suggestions[i] = model.RebalanceSuggestion{
			Category:         s.Category,
			ActualPercentage: round2(s.ActualPercentage),
			TargetPercentage: round2(s.TargetPercentage),
			Delta:            round2(s.Delta),
			Direction:        s.Direction,
			Adjustment:       round2(s.Adjustment),
		}
	}
	return out
}
