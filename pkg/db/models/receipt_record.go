package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReceiptRecord indexes a rendered receipt artifact for a confirmed sale.
type ReceiptRecord struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID        int64           `gorm:"column:sale_id;not null"`
	SaleNumber    string          `gorm:"column:sale_number;uniqueIndex;not null"`
	SessionID     string          `gorm:"column:session_id;index;not null"`
	BuyerID       *string         `gorm:"column:buyer_id;index"`
	Note          string          `gorm:"column:note"`
	Total         decimal.Decimal `gorm:"column:total;type:decimal(12,2);not null"`
	ComputedTotal decimal.Decimal `gorm:"column:computed_total;type:decimal(12,2);not null"`
	// Mismatch flags a reconciliation warning: the sum of confirmed line
	// subtotals disagreed with the server-reported total.
	Mismatch  bool      `gorm:"column:mismatch;not null;default:false"`
	FileName  string    `gorm:"column:file_name;not null"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ReceiptRecord) TableName() string {
	return "receipt_records"
}
