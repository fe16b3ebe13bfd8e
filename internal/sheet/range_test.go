package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		ref     string
		want    Range
		wantErr bool
	}{
		{"Holdings!A1:H50", Range{Sheet: "Holdings", StartCol: 1, StartRow: 1, EndCol: 8, EndRow: 50}, false},
		{"Holdings!B:F", Range{Sheet: "Holdings", StartCol: 2, EndCol: 6}, false},
		{"'My Sheet'!A2:D", Range{Sheet: "My Sheet", StartCol: 1, StartRow: 2, EndCol: 4}, false},
		{"A1:C10", Range{StartCol: 1, StartRow: 1, EndCol: 3, EndRow: 10}, false},
		{"Holdings", Range{Sheet: "Holdings"}, false},
		{"Holdings!", Range{Sheet: "Holdings"}, false},
		{"$A$1:$B$2", Range{StartCol: 1, StartRow: 1, EndCol: 2, EndRow: 2}, false},
		{"S!C1:A5", Range{}, true},
		{"S!A1:B2:C3", Range{}, true},
		{"S!A0:B2", Range{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := ParseRange(tt.ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRange_Slice(t *testing.T) {
	rows := [][]string{
		{"h1", "h2", "h3", "h4"},
		{"a", "b", "c", "d"},
		{"e"},
		{"f", "g", "h", "i"},
	}

	t.Run("bounded range", func(t *testing.T) {
		rng := Range{StartCol: 2, StartRow: 2, EndCol: 3, EndRow: 3}
		assert.Equal(t, [][]string{{"b", "c"}, {}}, rng.Slice(rows))
	})

	t.Run("unbounded range returns everything", func(t *testing.T) {
		assert.Equal(t, rows, Range{}.Slice(rows))
	})

	t.Run("start past the data is empty", func(t *testing.T) {
		assert.Empty(t, Range{StartRow: 10}.Slice(rows))
	})

	t.Run("slice does not alias input", func(t *testing.T) {
		out := Range{}.Slice(rows)
		out[0][0] = "changed"
		assert.Equal(t, "h1", rows[0][0])
	})
}
