package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

// TestLedgerService_Append tests the write path.
//
// WHY: Appends are fire-and-forget against the source of truth. They must
// report failure as an error and must leave the read cache alone.
func TestLedgerService_Append(t *testing.T) {
	ctx := context.Background()
	rows := [][]any{{"2024-01-02", "0050", 10, "135.5"}}

	t.Run("appends to the source sheet", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)

		result, err := env.Ledger.Append(ctx, "tw-broker", "", rows)

		require.NoError(t, err)
		_, err = uuid.Parse(result.OperationID)
		assert.NoError(t, err)
		assert.Equal(t, "Holdings", result.Sheet)
		assert.Equal(t, 1, result.Rows)
		assert.Equal(t, env.Clock.Now(), result.AppendedAt)
		assert.Equal(t, rows, env.Transport.Appended("tw.xlsx", "Holdings"))
	})

	t.Run("explicit sheet wins", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)

		result, err := env.Ledger.Append(ctx, "tw-broker", "Trades", rows)

		require.NoError(t, err)
		assert.Equal(t, "Trades", result.Sheet)
		assert.Len(t, env.Transport.Appended("tw.xlsx", "Trades"), 1)
	})

	t.Run("does not invalidate cached reads", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		env.Transport.SetDocument("tw.xlsx", twHoldings)
		src := env.Source(t, "tw-broker")
		env.Reader.Read(ctx, src)

		_, err := env.Ledger.Append(ctx, "tw-broker", "", rows)
		require.NoError(t, err)
		env.Reader.Read(ctx, src)

		assert.Equal(t, 1, env.Transport.Reads())
		assert.Equal(t, 1, env.Cache.Len())
	})

	t.Run("rejects bad requests", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)

		_, err := env.Ledger.Append(ctx, "missing", "", rows)
		assert.ErrorIs(t, err, apperrors.ErrSourceNotFound)

		_, err = env.Ledger.Append(ctx, "tw-broker", "", nil)
		assert.ErrorIs(t, err, apperrors.ErrEmptyRows)

		_, err = env.Ledger.Append(ctx, "tw-broker", "", [][]any{{}})
		assert.ErrorIs(t, err, apperrors.ErrEmptyRows)
	})

	t.Run("returns transport errors", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		boom := errors.New("quota exceeded")
		env.Transport.FailWith("us.csv", boom)

		_, err := env.Ledger.Append(ctx, "us-broker", "", rows)
		assert.ErrorIs(t, err, boom)
	})
}
