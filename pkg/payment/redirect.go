package payment

import (
	"context"
	"net/url"
	"strings"

	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"

	"github.com/sportiva/storefront-api/pkg/config"
)

// Redirector hands a confirmed sale off to the hosted payment page.
type Redirector interface {
	RedirectURL(ctx context.Context, saleNumber string) (string, error)
}

// HostedPage builds redirect URLs for the external hosted-payment provider.
// The provider resolves the sale asynchronously; this side only needs to pass
// the sale reference along.
type HostedPage struct {
	baseURL string
}

func NewHostedPage(cfg config.PaymentConfig) (*HostedPage, error) {
	trimmed := strings.TrimSpace(cfg.RedirectURL)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment redirect url is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid payment redirect url")
	}
	return &HostedPage{baseURL: trimmed}, nil
}

func (h *HostedPage) RedirectURL(ctx context.Context, saleNumber string) (string, error) {
	if h == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "payment redirector not configured")
	}
	if strings.TrimSpace(saleNumber) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "sale number is required")
	}

	u, err := url.Parse(h.baseURL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid payment redirect url")
	}
	q := u.Query()
	q.Set("client_reference_id", saleNumber)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
