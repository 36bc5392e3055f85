package cart

import (
	"context"

	"github.com/sportiva/storefront-api/internal/catalog"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

type service struct {
	store   Store
	catalog catalog.Service
	logg    *logger.Logger
}

// NewService wires the cart mutations over a Store with inventory clamping
// against the catalog.
func NewService(store Store, cat catalog.Service, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service requires a store")
	}
	if cat == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service requires a catalog")
	}
	return &service{store: store, catalog: cat, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) ([]Line, error) {
	return s.store.Lines(ctx, sessionID)
}

// AddItem adds quantity units of a product, merging into an existing line
// when one is already present. Quantities below one leave the cart
// untouched. The resulting quantity is clamped to the known inventory.
func (s *service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) ([]Line, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return lines, nil
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Inventory == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		lines = append(lines, Line{
			ProductID:     product.ID,
			Name:          product.Name,
			UnitPrice:     product.Price,
			OriginalPrice: product.OriginalPrice,
			ImageURL:      product.ImageURL,
		})
		idx = len(lines) - 1
	}
	requested := lines[idx].Quantity + quantity
	lines[idx].Quantity = clamp(requested, product.Inventory, true)
	if lines[idx].Quantity < requested && s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", productID), "requested quantity clamped to inventory")
	}

	if err := s.store.Replace(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateQuantity sets the quantity of an existing line, clamped to
// [1, inventory]. Products not in the cart are a no-op.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, quantity int) ([]Line, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}

	if quantity < 1 {
		quantity = 1
	}
	stock, known := s.catalog.Inventory(ctx, productID)
	lines[idx].Quantity = clamp(quantity, stock, known)

	if err := s.store.Replace(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveItem drops the line for a product. Products not in the cart are a
// no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int64) ([]Line, error) {
	lines, err := s.store.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}
	lines = append(lines[:idx], lines[idx+1:]...)

	if err := s.store.Replace(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Clear(ctx, sessionID)
}

func indexOf(lines []Line, productID int64) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// clamp bounds a requested quantity by the known stock count. Unknown
// inventory (catalog outage) leaves the request untouched rather than
// blocking the cart.
func clamp(quantity, stock int, known bool) int {
	if !known {
		return quantity
	}
	if quantity > stock {
		return stock
	}
	return quantity
}
