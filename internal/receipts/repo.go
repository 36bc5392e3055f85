package receipts

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sportiva/storefront-api/pkg/db/models"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/pagination"
)

// Repository encapsulates receipt index persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the receipt record.
func (r *Repository) Create(ctx context.Context, record *models.ReceiptRecord) (*models.ReceiptRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to store receipt record")
	}
	return record, nil
}

// ListBySession returns one page of the session's receipts, newest first,
// with a cursor for the next page when more rows remain.
func (r *Repository) ListBySession(ctx context.Context, sessionID string, params pagination.Params) ([]models.ReceiptRecord, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	q := r.db.WithContext(ctx).Where("session_id = ?", sessionID)
	if cursor != nil {
		q = q.Where("issued_at < ? OR (issued_at = ? AND id < ?)", cursor.IssuedAt, cursor.IssuedAt, cursor.ID)
	}

	var records []models.ReceiptRecord
	err = q.Order("issued_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&records).Error
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to list receipts")
	}

	next := ""
	if len(records) > limit {
		records = records[:limit]
		last := records[limit-1]
		next = pagination.EncodeCursor(pagination.Cursor{IssuedAt: last.IssuedAt, ID: last.ID})
	}
	return records, next, nil
}

// FindBySaleNumber returns the receipt indexed under the sale number.
func (r *Repository) FindBySaleNumber(ctx context.Context, saleNumber string) (*models.ReceiptRecord, error) {
	var record models.ReceiptRecord
	err := r.db.WithContext(ctx).
		Where("sale_number = ?", saleNumber).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load receipt")
	}
	return &record, nil
}
