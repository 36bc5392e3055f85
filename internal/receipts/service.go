package receipts

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sportiva/storefront-api/pkg/config"
	"github.com/sportiva/storefront-api/pkg/db/models"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/logger"
	"github.com/sportiva/storefront-api/pkg/pagination"
	"github.com/sportiva/storefront-api/pkg/sales"
)

// Service renders, stores and serves receipt artifacts for confirmed sales.
type Service interface {
	Record(ctx context.Context, sessionID string, buyerID *string, conf *sales.SaleConfirmation, names map[int64]string) (*models.ReceiptRecord, error)
	List(ctx context.Context, sessionID string, params pagination.Params) ([]models.ReceiptRecord, string, error)
	Download(ctx context.Context, sessionID, saleNumber string) (*models.ReceiptRecord, []byte, error)
}

type service struct {
	repo      *Repository
	generator *Generator
	outputDir string
	logg      *logger.Logger
}

func NewService(cfg config.ReceiptsConfig, repo *Repository, generator *Generator, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "receipts service requires a repository")
	}
	if generator == nil {
		generator = NewGenerator()
	}
	if cfg.OutputDir == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "receipts service requires an output directory")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create receipts directory")
	}
	return &service{repo: repo, generator: generator, outputDir: cfg.OutputDir, logg: logg}, nil
}

// Record renders the receipt PDF, writes it to disk and indexes it. The sum
// of confirmed line subtotals is reconciled against the server-reported
// total; a disagreement is flagged and logged but still produces a receipt.
func (s *service) Record(ctx context.Context, sessionID string, buyerID *string, conf *sales.SaleConfirmation, names map[int64]string) (*models.ReceiptRecord, error) {
	if conf == nil || conf.SaleNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "receipt requires a confirmed sale")
	}

	computed := decimal.Zero
	for _, line := range conf.LineDetails {
		computed = computed.Add(line.Subtotal)
	}
	mismatch := !computed.Round(2).Equal(conf.Total.Round(2))
	if mismatch && s.logg != nil {
		s.logg.Warn(s.logg.WithSaleNumber(ctx, conf.SaleNumber), "receipt total does not match sum of line subtotals")
	}

	buyerName := ""
	if buyerID != nil {
		buyerName = *buyerID
	}
	pdfBytes, err := s.generator.Render(conf, buyerName, names)
	if err != nil {
		return nil, err
	}

	fileName := FileName(conf.SaleNumber)
	if err := os.WriteFile(filepath.Join(s.outputDir, fileName), pdfBytes, 0o644); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write receipt file")
	}

	record := &models.ReceiptRecord{
		ID:            uuid.New(),
		SaleID:        conf.SaleID,
		SaleNumber:    conf.SaleNumber,
		SessionID:     sessionID,
		BuyerID:       buyerID,
		Note:          conf.Note,
		Total:         conf.Total.Round(2),
		ComputedTotal: computed.Round(2),
		Mismatch:      mismatch,
		FileName:      fileName,
		IssuedAt:      conf.IssuedAt,
	}
	return s.repo.Create(ctx, record)
}

func (s *service) List(ctx context.Context, sessionID string, params pagination.Params) ([]models.ReceiptRecord, string, error) {
	return s.repo.ListBySession(ctx, sessionID, params)
}

// Download returns the indexed record and the PDF bytes. Receipts are scoped
// to the owning session; other sessions get a not-found.
func (s *service) Download(ctx context.Context, sessionID, saleNumber string) (*models.ReceiptRecord, []byte, error) {
	record, err := s.repo.FindBySaleNumber(ctx, saleNumber)
	if err != nil {
		return nil, nil, err
	}
	if record.SessionID != sessionID {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "receipt not found")
	}

	pdfBytes, err := os.ReadFile(filepath.Join(s.outputDir, record.FileName))
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read receipt file")
	}
	return record, pdfBytes, nil
}
