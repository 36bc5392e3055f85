package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Product is the catalog's view of a sellable item. Inventory reflects the
// count at the time of the last stock check, not a reservation.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	ImageURL      string          `json:"image"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	Inventory     int             `json:"inventory"`
}

// Service resolves products and stock counts from the catalog collaborator.
type Service interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	// Inventory returns the known stock for a product. The second return
	// reports whether a count is known at all; callers skip clamping when it
	// is false.
	Inventory(ctx context.Context, id int64) (int, bool)
}

// DiscountPercent is the whole-number discount against the original price,
// rounded half away from zero. Zero when the product is not discounted.
func DiscountPercent(price, originalPrice decimal.Decimal) int {
	if !originalPrice.IsPositive() || !originalPrice.GreaterThan(price) {
		return 0
	}
	pct := originalPrice.Sub(price).Div(originalPrice).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}
