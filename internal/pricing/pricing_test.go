package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestLineTotal(t *testing.T) {
	// 3 units at 20.00 with 10% off = 54.00
	total, err := LineTotal(d(20), 3, d(10))
	require.NoError(t, err)
	assert.True(t, total.Equal(d(54)), "got %s", total)
}

func TestLineTotal_NoDiscount(t *testing.T) {
	total, err := LineTotal(d(12.50), 4, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, total.Equal(d(50)), "got %s", total)
}

func TestLineTotal_DiscountOutOfRange(t *testing.T) {
	_, err := LineTotal(d(20), 1, d(-5))
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	_, err = LineTotal(d(20), 1, d(100.01))
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	// Boundary values are valid
	_, err = LineTotal(d(20), 1, d(100))
	assert.NoError(t, err)
	_, err = LineTotal(d(20), 1, decimal.Zero)
	assert.NoError(t, err)
}

func TestUnitCostBasis(t *testing.T) {
	// 5.00 at 10% GST = 5.50
	cost := UnitCostBasis(d(5), d(10))
	assert.True(t, cost.Equal(d(5.5)), "got %s", cost)
}

func TestLineProfit(t *testing.T) {
	// (20*0.9 - 5*1.10) * 3 = (18 - 5.5) * 3 = 37.5
	profit, err := LineProfit(d(20), d(10), d(5), d(10), 3)
	require.NoError(t, err)
	assert.True(t, profit.Equal(d(37.5)), "got %s", profit)
}

func TestLineProfit_UnpricedStockExcluded(t *testing.T) {
	// ptr <= 0 means no cost data — profit is zero, not negative nonsense
	profit, err := LineProfit(d(20), decimal.Zero, decimal.Zero, d(10), 5)
	require.NoError(t, err)
	assert.True(t, profit.IsZero())

	profit, err = LineProfit(d(20), decimal.Zero, d(-1), d(10), 5)
	require.NoError(t, err)
	assert.True(t, profit.IsZero())
}

func TestLineProfit_DiscountOutOfRange(t *testing.T) {
	_, err := LineProfit(d(20), d(101), d(5), d(10), 1)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}
