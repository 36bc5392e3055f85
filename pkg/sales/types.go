package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseRequest carries the cart contents submitted for recording. Prices are
// deliberately absent: the sales service owns pricing and reports it back on
// the confirmation.
type PurchaseRequest struct {
	Note  string         `json:"observacion"`
	Lines []PurchaseLine `json:"detalles"`
}

// PurchaseLine pairs a product with the requested quantity.
type PurchaseLine struct {
	ProductID int64 `json:"producto"`
	Quantity  int   `json:"cantidad"`
}

// SaleConfirmation is the sales service's record of a completed purchase.
type SaleConfirmation struct {
	SaleID      int64           `json:"id"`
	SaleNumber  string          `json:"numero_venta"`
	IssuedAt    time.Time       `json:"fecha_emision"`
	Note        string          `json:"observacion"`
	Total       decimal.Decimal `json:"total"`
	UserID      *int64          `json:"usuario,omitempty"`
	Status      string          `json:"estado,omitempty"`
	LineDetails []LineDetail    `json:"detalles"`
}

// LineDetail reports the server-priced breakdown of one confirmed line.
type LineDetail struct {
	ProductID int64           `json:"producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}
