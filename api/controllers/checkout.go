package controllers

import (
	"net/http"
	"time"

	"github.com/sportiva/storefront-api/api/middleware"
	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/api/validators"
	checkoutsvc "github.com/sportiva/storefront-api/internal/checkout"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
)

const maxNoteLength = 500

type checkoutRequest struct {
	Note string `json:"note" validate:"omitempty,max=500"`
}

type checkoutResponse struct {
	State       string    `json:"state"`
	SaleNumber  string    `json:"sale_number"`
	Total       string    `json:"total"`
	IssuedAt    time.Time `json:"issued_at"`
	ReceiptFile string    `json:"receipt_file,omitempty"`
	RedirectURL string    `json:"redirect_url,omitempty"`
}

// Checkout submits the session's cart for purchase.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		result, err := svc.Submit(ctx, checkoutsvc.Params{
			SessionID: middleware.SessionIDFromContext(ctx),
			BuyerID:   middleware.BuyerIDFromContext(ctx),
			Note:      validators.SanitizeString(payload.Note, maxNoteLength),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			State:       string(result.State),
			SaleNumber:  result.SaleNumber,
			Total:       result.Total.StringFixed(2),
			IssuedAt:    result.IssuedAt,
			ReceiptFile: result.ReceiptFile,
			RedirectURL: result.RedirectURL,
		})
	}
}
