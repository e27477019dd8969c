// Package pricing holds the pure money arithmetic shared by billing and
// reporting. Every profit figure in the system — live dashboard, period
// reports, per-line snapshots — must come from these functions so the numbers
// can never disagree with the ledger.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidDiscount is returned when a discount percentage falls outside
// [0, 100]. Out-of-range values are rejected, never clamped.
var ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")

var hundred = decimal.NewFromInt(100)

// LineTotal computes mrp * qty * (1 - discount/100).
func LineTotal(mrp decimal.Decimal, qty int, discountPct decimal.Decimal) (decimal.Decimal, error) {
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidDiscount
	}
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	return mrp.Mul(decimal.NewFromInt(int64(qty))).Mul(factor), nil
}

// UnitCostBasis computes the tax-inclusive per-unit cost: ptr * (1 + gst/100).
func UnitCostBasis(ptr, gstPct decimal.Decimal) decimal.Decimal {
	return ptr.Mul(decimal.NewFromInt(1).Add(gstPct.Div(hundred)))
}

// LineProfit computes (discounted unit price - unit cost basis) * qty.
//
// When ptr <= 0 there is no purchase-cost data for the item and the profit is
// defined as zero — every aggregation consumer applies this same exclusion so
// unpriced stock can never skew a report.
func LineProfit(mrp, discountPct, ptr, gstPct decimal.Decimal, qty int) (decimal.Decimal, error) {
	if discountPct.IsNegative() || discountPct.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidDiscount
	}
	if ptr.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, nil
	}
	factor := decimal.NewFromInt(1).Sub(discountPct.Div(hundred))
	unitNet := mrp.Mul(factor)
	return unitNet.Sub(UnitCostBasis(ptr, gstPct)).Mul(decimal.NewFromInt(int64(qty))), nil
}
