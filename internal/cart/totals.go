package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineSubtotal is the undiscounted-for-display price of a line:
// unit price times quantity, unrounded.
func LineSubtotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums every line subtotal. Rounding happens only at the edge
// (responses and receipts), never here.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineSubtotal(l))
	}
	return total
}

// ItemCount is the total number of units across every line, the number
// shown on the cart badge.
func ItemCount(lines []Line) int {
	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// DiscountAmount is the per-unit saving against the original price, zero
// when the product is not discounted.
func DiscountAmount(l Line) decimal.Decimal {
	diff := l.OriginalPrice.Sub(l.UnitPrice)
	if diff.IsNegative() {
		return decimal.Zero
	}
	return diff
}

// DiscountPercent is the whole-number discount percentage relative to the
// original price, rounded half away from zero. Zero when the original price
// is unset or not above the sale price.
func DiscountPercent(l Line) int {
	if !l.OriginalPrice.IsPositive() {
		return 0
	}
	diff := DiscountAmount(l)
	if diff.IsZero() {
		return 0
	}
	pct := diff.Div(l.OriginalPrice).Mul(hundred).Round(0)
	return int(pct.IntPart())
}
