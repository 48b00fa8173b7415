package integration

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeLineAmounts(t *testing.T) {
	t.Run("exact decimal subtotal", func(t *testing.T) {
		got := ComputeLineAmounts(decimal.RequireFromString("12.345"), decimal.NewFromInt(3), decimal.Zero)
		assert.Equal(t, "37.035", got.Untaxed.String())
		assert.True(t, got.Tax.IsZero())
		assert.True(t, got.Total.Equal(got.Untaxed))
	})

	t.Run("tax applied on untaxed amount", func(t *testing.T) {
		got := ComputeLineAmounts(decimal.RequireFromString("10.10"), decimal.NewFromInt(3), decimal.RequireFromString("0.13"))
		assert.True(t, got.Untaxed.Equal(decimal.RequireFromString("30.3")))
		assert.True(t, got.Tax.Equal(decimal.RequireFromString("3.939")))
		assert.True(t, got.Total.Equal(decimal.RequireFromString("34.239")))
	})
}

func TestTaxRatePercent(t *testing.T) {
	assert.True(t, TaxRatePercent(decimal.RequireFromString("0.13")).Equal(decimal.NewFromInt(13)))
	assert.True(t, TaxRatePercent(decimal.Zero).IsZero())
}
