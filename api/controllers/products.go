package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/api/validators"
	"github.com/sportiva/storefront-api/internal/catalog"
	"github.com/sportiva/storefront-api/pkg/logger"
)

type productResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	OriginalPrice   string `json:"original_price,omitempty"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	Category        string `json:"category,omitempty"`
	Brand           string `json:"brand,omitempty"`
	Inventory       int    `json:"inventory"`
}

// GetProduct proxies the catalog's product detail with display pricing.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathInt64(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := productResponse{
			ID:        product.ID,
			Name:      product.Name,
			Price:     product.Price.StringFixed(2),
			ImageURL:  product.ImageURL,
			Category:  product.Category,
			Brand:     product.Brand,
			Inventory: product.Inventory,
		}
		if product.OriginalPrice.IsPositive() {
			out.OriginalPrice = product.OriginalPrice.StringFixed(2)
			out.DiscountPercent = catalog.DiscountPercent(product.Price, product.OriginalPrice)
		}
		responses.WriteSuccess(w, out)
	}
}
