package sales

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sportiva/storefront-api/pkg/config"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
)

const (
	submitPath                = "notas-venta/"
	errorBodyReadLimit  int64 = 4096
	fallbackFailMessage       = "purchase could not be processed"
)

var errBaseURLRequired = errors.New("sales service base url is required")

// Service records purchases with the external sales service.
type Service interface {
	SubmitPurchase(ctx context.Context, req PurchaseRequest) (*SaleConfirmation, error)
}

// Client talks to the sales-recording REST service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds a sales client from configuration.
func NewClient(cfg config.SalesConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// SubmitPurchase posts the purchase and decodes the confirmed sale. Service
// rejections come back as coded errors carrying the server's human-readable
// message; transport failures map to the dependency code.
func (c *Client) SubmitPurchase(ctx context.Context, req PurchaseRequest) (*SaleConfirmation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sales client not configured")
	}
	if len(req.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase requires at least one line")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal purchase request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(submitPath), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build purchase request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallbackFailMessage)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.decodeError(resp)
	}

	var confirmation SaleConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode sale confirmation")
	}
	if confirmation.SaleNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sale confirmation missing sale number")
	}

	return &confirmation, nil
}

// errorPayload mirrors the structured rejection body of the sales service.
type errorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
	Error   string `json:"error"`
}

// resolveMessage applies the message precedence: message, then detail, then
// error, then the generic fallback.
func (p errorPayload) resolveMessage() string {
	for _, candidate := range []string{p.Message, p.Detail, p.Error} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return fallbackFailMessage
}

func (c *Client) decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var payload errorPayload
	_ = json.Unmarshal(body, &payload)
	msg := payload.resolveMessage()

	code := pkgerrors.CodeDependency
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		code = pkgerrors.CodeValidation
	}
	return pkgerrors.Wrap(code, fmt.Errorf("sales service status %d", resp.StatusCode), msg)
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}
