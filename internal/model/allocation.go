package model

import "time"

// UnclassifiedCategory collects holdings whose category label is blank or
// outside the taxonomy.
const UnclassifiedCategory = "Unclassified"

// CategoryBucket is the accumulated value of one category in the reporting currency.
type CategoryBucket struct {
	Category   string  `json:"category"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// AllocationTarget is the desired share of total portfolio value for a category.
type AllocationTarget struct {
	Category         string  `json:"category"`
	TargetPercentage float64 `json:"targetPercentage"`
}

// Allocation is the result of aggregating every source.
type Allocation struct {
	ReportingCurrency string           `json:"reportingCurrency"`
	Total             float64          `json:"total"`
	Buckets           []CategoryBucket `json:"buckets"`
	Warnings          []Warning        `json:"warnings"`
	ComputedAt        time.Time        `json:"computedAt"`
}

// ByCategory indexes the buckets by category name.
func (a Allocation) ByCategory() map[string]CategoryBucket {
	out := make(map[string]CategoryBucket, len(a.Buckets))
	for _, b := range a.Buckets {
		out[b.Category] = b
	}
	return out
}

// Direction tells whether a category should shrink or grow.
type Direction string

const (
	DirectionReduce   Direction = "reduce"
	DirectionIncrease Direction = "increase"
)

// RebalanceSuggestion is emitted for a category whose deviation from target is material.
// Adjustment is in the reporting currency: positive means buy, negative means sell.
type RebalanceSuggestion struct {
	Category         string    `json:"category"`
	ActualPercentage float64   `json:"actualPercentage"`
	TargetPercentage float64   `json:"targetPercentage"`
	Delta            float64   `json:"delta"`
	Direction        Direction `json:"direction"`
	Adjustment       float64   `json:"adjustment"`
}

// AllocationComparison is one row of the actual-versus-target table.
type AllocationComparison struct {
	Category         string  `json:"category"`
	ActualValue      float64 `json:"actualValue"`
	ActualPercentage float64 `json:"actualPercentage"`
	TargetValue      float64 `json:"targetValue"`
	TargetPercentage float64 `json:"targetPercentage"`
	Delta            float64 `json:"delta"`
}

// RebalanceReport is the full output of a reconciliation.
// Targets are reported as configured; UnallocatedPercentage is 100 minus their sum
// and is never redistributed across categories.
type RebalanceReport struct {
	Total                 float64                `json:"total"`
	Threshold             float64                `json:"threshold"`
	TargetTotal           float64                `json:"targetTotal"`
	UnallocatedPercentage float64                `json:"unallocatedPercentage"`
	Rows                  []AllocationComparison `json:"rows"`
	Suggestions           []RebalanceSuggestion  `json:"suggestions"`
}
