// Package pricing holds the money arithmetic shared by cart display totals
// and checkout. Amounts are computed with decimals and rounded to two
// places before they are stored or returned.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Line is a priced quantity of a single product.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []Line) float64 {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.UnitPrice, l.Quantity))
	}
	return round(total)
}

// LineTotal returns unit price times quantity as a decimal.
func LineTotal(unitPrice float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(unitPrice).Mul(decimal.NewFromInt(int64(quantity)))
}

// PercentageDiscount returns subtotal*percent/100, capped at max when max
// is positive.
func PercentageDiscount(subtotal, percent, max float64) float64 {
	discount := decimal.NewFromFloat(subtotal).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100))
	if max > 0 {
		limit := decimal.NewFromFloat(max)
		if discount.GreaterThan(limit) {
			discount = limit
		}
	}
	return round(discount)
}

// FinalAmount returns subtotal minus discount, floored at zero.
func FinalAmount(subtotal, discount float64) float64 {
	final := decimal.NewFromFloat(subtotal).Sub(decimal.NewFromFloat(discount))
	if final.IsNegative() {
		return 0
	}
	return round(final)
}

func round(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}
