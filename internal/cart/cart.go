package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Line is one product/quantity pairing in a session cart. Carts keep at most
// one line per product id; re-adding a product grows its quantity instead.
type Line struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	ImageURL      string          `json:"image_url"`
	Quantity      int             `json:"quantity"`
}

// Store persists the ordered line list for a session. Implementations must
// preserve insertion order across Replace calls.
type Store interface {
	Lines(ctx context.Context, sessionID string) ([]Line, error)
	Replace(ctx context.Context, sessionID string, lines []Line) error
	Clear(ctx context.Context, sessionID string) error
}

// Service exposes the cart mutations available to a shopper session.
type Service interface {
	Get(ctx context.Context, sessionID string) ([]Line, error)
	AddItem(ctx context.Context, sessionID string, productID int64, quantity int) ([]Line, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) ([]Line, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) ([]Line, error)
	Clear(ctx context.Context, sessionID string) error
}
