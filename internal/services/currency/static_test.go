package currency

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticConverter(t *testing.T) {
	c := NewStaticConverter(map[string]float64{"EUR/USD": 1.10})
	ctx := context.Background()

	t.Run("direct pair", func(t *testing.T) {
		got, err := c.Convert(ctx, decimal.NewFromInt(100), "EUR", "USD")
		require.NoError(t, err)
		assert.Equal(t, "110.00", got.StringFixed(2))
	})

	t.Run("inverse pair is derived", func(t *testing.T) {
		got, err := c.Convert(ctx, decimal.NewFromInt(110), "USD", "EUR")
		require.NoError(t, err)
		assert.Equal(t, "100.00", got.StringFixed(2))
	})

	t.Run("same currency is identity", func(t *testing.T) {
		got, err := c.Convert(ctx, decimal.NewFromFloat(42.42), "USD", "USD")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromFloat(42.42)))
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, err := c.Convert(ctx, decimal.NewFromInt(100), "eur", "usd")
		require.NoError(t, err)
		assert.Equal(t, "110.00", got.StringFixed(2))
	})

	t.Run("unknown pair", func(t *testing.T) {
		_, err := c.Convert(ctx, decimal.NewFromInt(100), "EUR", "JPY")
		assert.ErrorIs(t, err, ErrRateUnavailable)
	})

	t.Run("result is rounded to cents", func(t *testing.T) {
		got, err := c.Convert(ctx, decimal.NewFromFloat(33.335), "EUR", "USD")
		require.NoError(t, err)
		// 33.335 × 1.10 = 36.6685
		assert.Equal(t, "36.67", got.StringFixed(2))
	})
}
