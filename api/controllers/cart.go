package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sportiva/storefront-api/api/middleware"
	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/api/validators"
	"github.com/sportiva/storefront-api/internal/cart"
	"github.com/sportiva/storefront-api/pkg/logger"
)

type cartLineResponse struct {
	ProductID       int64  `json:"product_id"`
	Name            string `json:"name"`
	UnitPrice       string `json:"unit_price"`
	OriginalPrice   string `json:"original_price,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
	Quantity        int    `json:"quantity"`
	Subtotal        string `json:"subtotal"`
	DiscountPercent int    `json:"discount_percent,omitempty"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  string             `json:"subtotal"`
}

func newCartResponse(lines []cart.Line) cartResponse {
	items := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		item := cartLineResponse{
			ProductID:       l.ProductID,
			Name:            l.Name,
			UnitPrice:       l.UnitPrice.StringFixed(2),
			ImageURL:        l.ImageURL,
			Quantity:        l.Quantity,
			Subtotal:        cart.LineSubtotal(l).StringFixed(2),
			DiscountPercent: cart.DiscountPercent(l),
		}
		if l.OriginalPrice.IsPositive() {
			item.OriginalPrice = l.OriginalPrice.StringFixed(2)
		}
		items = append(items, item)
	}
	return cartResponse{
		Items:     items,
		ItemCount: cart.ItemCount(lines),
		Subtotal:  cart.Subtotal(lines).StringFixed(2),
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GetCart returns the session's cart with computed totals.
func GetCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines, err := svc.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(lines))
	}
}

// AddCartItem adds a product to the cart, merging quantities for repeat adds.
func AddCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), payload.ProductID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(lines))
	}
}

// UpdateCartItem sets the quantity of a line already in the cart.
func UpdateCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathInt64(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), productID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(lines))
	}
}

// RemoveCartItem drops a line from the cart.
func RemoveCartItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParsePathInt64(chi.URLParam(r, "productID"), "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(lines))
	}
}

// ClearCart empties the session's cart.
func ClearCart(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), middleware.SessionIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(nil))
	}
}
