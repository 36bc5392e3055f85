package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sportiva/storefront-api/api/middleware"
	"github.com/sportiva/storefront-api/api/responses"
	"github.com/sportiva/storefront-api/api/validators"
	receiptsvc "github.com/sportiva/storefront-api/internal/receipts"
	"github.com/sportiva/storefront-api/pkg/db/models"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
	"github.com/sportiva/storefront-api/pkg/pagination"
)

type receiptResponse struct {
	SaleNumber string    `json:"sale_number"`
	Total      string    `json:"total"`
	IssuedAt   time.Time `json:"issued_at"`
	Note       string    `json:"note,omitempty"`
	FileName   string    `json:"file_name"`
}

func newReceiptResponse(record models.ReceiptRecord) receiptResponse {
	return receiptResponse{
		SaleNumber: record.SaleNumber,
		Total:      record.Total.StringFixed(2),
		IssuedAt:   record.IssuedAt,
		Note:       record.Note,
		FileName:   record.FileName,
	}
}

type receiptListResponse struct {
	Receipts   []receiptResponse `json:"receipts"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// ListReceipts returns a page of the session's receipts, newest first.
func ListReceipts(svc receiptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		records, next, err := svc.List(r.Context(), middleware.SessionIDFromContext(r.Context()), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := receiptListResponse{Receipts: make([]receiptResponse, 0, len(records)), NextCursor: next}
		for _, record := range records {
			out.Receipts = append(out.Receipts, newReceiptResponse(record))
		}
		responses.WriteSuccess(w, out)
	}
}

// DownloadReceipt streams the PDF artifact for one of the session's sales.
func DownloadReceipt(svc receiptsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleNumber := chi.URLParam(r, "saleNumber")
		if saleNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sale number is required"))
			return
		}

		record, pdfBytes, err := svc.Download(r.Context(), middleware.SessionIDFromContext(r.Context()), saleNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.FileName))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
	}
}
