package normalize

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestFloat covers the textual forms seen in broker exports.
//
// WHY: A single malformed cell must never abort aggregation, so every
// unparseable input has to collapse to zero while real amounts survive
// currency symbols, separators and percent signs.
func TestFloat(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"blank string", "   ", 0},
		{"dollar amount with separators", "$1,234.56", 1234.56},
		{"percent", "12%", 12},
		{"negative percent", "-3.5%", -3.5},
		{"quoted", `"2,000"`, 2000},
		{"single quoted", "'15.5'", 15.5},
		{"pound symbol", "£980.10", 980.10},
		{"currency prefix", "NT$ 31,250", 31250},
		{"trailing code", "1,000 TWD", 1000},
		{"parenthesized negative", "(1,200.50)", -1200.50},
		{"trailing minus", "50-", -50},
		{"trailing minus with code", "1,250.75- TWD", -1250.75},
		{"formula error", "#N/A", 0},
		{"value error", "#VALUE!", 0},
		{"dashes", "--", 0},
		{"words", "n/a", 0},
		{"float passthrough", 42.5, 42.5},
		{"int passthrough", 7, 7},
		{"int64 passthrough", int64(-9), -9},
		{"float32 passthrough", float32(0.5), 0.5},
		{"decimal", decimal.RequireFromString("10.25"), 10.25},
		{"json number", json.Number("3.75"), 3.75},
		{"bool", true, 0},
		{"unsupported type", struct{}{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Float(tt.input), 1e-9)
		})
	}
}

// TestFloat_Idempotent checks that normalization is stable.
//
// WHY: Cached and recomputed reports must agree, so applying the normalizer to
// its own output or to the same malformed input twice must not drift.
func TestFloat_Idempotent(t *testing.T) {
	t.Run("numeric input is passed through unchanged", func(t *testing.T) {
		for _, x := range []float64{0, 1, -1, 1234.5678, 1e12} {
			assert.Equal(t, x, Float(x))
			assert.Equal(t, x, Float(Float(x)))
		}
	})

	t.Run("malformed strings stay zero", func(t *testing.T) {
		for _, s := range []string{"abc", "#REF!", "1.2.3", "$$"} {
			assert.Equal(t, 0.0, Float(s))
			assert.Equal(t, Float(s), Float(s))
		}
	})
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t"))
	assert.False(t, IsBlank("0"))
}
