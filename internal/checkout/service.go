package checkout

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportiva/storefront-api/internal/cart"
	"github.com/sportiva/storefront-api/internal/receipts"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
	"github.com/sportiva/storefront-api/pkg/payment"
	"github.com/sportiva/storefront-api/pkg/sales"
)

// Submitter records a purchase with the sales collaborator.
type Submitter interface {
	SubmitPurchase(ctx context.Context, req sales.PurchaseRequest) (*sales.SaleConfirmation, error)
}

// Params is one checkout trigger for a session.
type Params struct {
	SessionID string
	BuyerID   *string
	Note      string
}

// Result reports a finished submission. RedirectURL is empty when no hosted
// payment page is configured.
type Result struct {
	State       State           `json:"state"`
	SaleNumber  string          `json:"sale_number"`
	Total       decimal.Decimal `json:"total"`
	IssuedAt    time.Time       `json:"issued_at"`
	ReceiptFile string          `json:"receipt_file,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// Service drives a session's checkout from trigger to confirmation.
type Service interface {
	Submit(ctx context.Context, params Params) (*Result, error)
}

type service struct {
	carts      cart.Service
	sales      Submitter
	receipts   receipts.Service
	locker     Locker
	redirector payment.Redirector
	logg       *logger.Logger
}

// NewService wires the checkout orchestration. The redirector is optional;
// everything else is required.
func NewService(carts cart.Service, submitter Submitter, receiptSvc receipts.Service, locker Locker, redirector payment.Redirector, logg *logger.Logger) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a cart service")
	}
	if submitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a sales submitter")
	}
	if receiptSvc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a receipts service")
	}
	if locker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a locker")
	}
	return &service{
		carts:      carts,
		sales:      submitter,
		receipts:   receiptSvc,
		locker:     locker,
		redirector: redirector,
		logg:       logg,
	}, nil
}

// Submit moves the session from Idle through Submitting to a terminal state.
// A concurrent trigger while a submission is in flight is rejected with a
// conflict. An empty cart never reaches the sales service. On failure the
// cart is preserved so the shopper can retry; on success the receipt is
// rendered and the cart cleared.
func (s *service) Submit(ctx context.Context, params Params) (*Result, error) {
	lines, err := s.carts.Get(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty").WithDetails(stateDetail(StateIdle))
	}

	acquired, err := s.locker.Acquire(ctx, params.SessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress").WithDetails(stateDetail(StateSubmitting))
	}
	defer func() {
		if releaseErr := s.locker.Release(context.WithoutCancel(ctx), params.SessionID); releaseErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, params.SessionID), "failed to release checkout lock")
		}
	}()

	req := sales.PurchaseRequest{Note: params.Note, Lines: make([]sales.PurchaseLine, 0, len(lines))}
	names := make(map[int64]string, len(lines))
	for _, l := range lines {
		req.Lines = append(req.Lines, sales.PurchaseLine{ProductID: l.ProductID, Quantity: l.Quantity})
		names[l.ProductID] = l.Name
	}

	conf, err := s.sales.SubmitPurchase(ctx, req)
	if err != nil {
		// the cart stays intact so the shopper can adjust and retry
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed.WithDetails(stateDetail(StateFailed))
		}
		return nil, err
	}

	result := &Result{
		State:      StateSucceeded,
		SaleNumber: conf.SaleNumber,
		Total:      conf.Total.Round(2),
		IssuedAt:   conf.IssuedAt,
	}

	record, err := s.receipts.Record(ctx, params.SessionID, params.BuyerID, conf, names)
	if err != nil {
		// the sale is already recorded upstream; losing the artifact must
		// not fail the checkout
		if s.logg != nil {
			s.logg.Error(s.logg.WithSaleNumber(ctx, conf.SaleNumber), "failed to record receipt", err)
		}
	} else {
		result.ReceiptFile = record.FileName
	}

	if err := s.carts.Clear(ctx, params.SessionID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithSessionID(ctx, params.SessionID), "failed to clear cart after checkout")
	}

	if s.redirector != nil {
		url, err := s.redirector.RedirectURL(ctx, conf.SaleNumber)
		if err != nil {
			if s.logg != nil {
				s.logg.Warn(s.logg.WithSaleNumber(ctx, conf.SaleNumber), "failed to build payment redirect")
			}
		} else {
			result.RedirectURL = url
		}
	}

	return result, nil
}
