package receipts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sportiva/storefront-api/pkg/config"
	"github.com/sportiva/storefront-api/pkg/db"
	"github.com/sportiva/storefront-api/pkg/db/models"
	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/pagination"
	"github.com/sportiva/storefront-api/pkg/sales"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T) (Service, string) {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{DSN: "file::memory:"}, true, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&models.ReceiptRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	dir := t.TempDir()
	svc, err := NewService(config.ReceiptsConfig{OutputDir: dir}, NewRepository(client.DB()), NewGenerator(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, dir
}

func confirmedSale() *sales.SaleConfirmation {
	return &sales.SaleConfirmation{
		SaleID:     42,
		SaleNumber: "NV-2026-0042",
		IssuedAt:   time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
		Note:       "entrega en tienda",
		Total:      money("209.97"),
		LineDetails: []sales.LineDetail{
			{ProductID: 1, Quantity: 2, UnitPrice: money("89.99"), Subtotal: money("179.98")},
			{ProductID: 2, Quantity: 1, UnitPrice: money("14.50"), Subtotal: money("14.50")},
			{ProductID: 3, Quantity: 1, UnitPrice: money("15.49"), Subtotal: money("15.49")},
		},
	}
}

func TestRecordWritesArtifactAndIndex(t *testing.T) {
	t.Parallel()

	svc, dir := newTestService(t)
	record, err := svc.Record(context.Background(), "sess-1", nil, confirmedSale(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.SaleNumber != "NV-2026-0042" || record.Mismatch {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.FileName != "nota-venta-NV-2026-0042.pdf" {
		t.Fatalf("unexpected file name %q", record.FileName)
	}
	if record.BuyerID != nil {
		t.Fatalf("expected anonymous buyer, got %v", *record.BuyerID)
	}

	pdfBytes, err := os.ReadFile(filepath.Join(dir, record.FileName))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatal("artifact is not a PDF document")
	}
}

func TestRecordFlagsTotalMismatch(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	conf := confirmedSale()
	conf.Total = money("999.99")

	record, err := svc.Record(context.Background(), "sess-1", nil, conf, nil)
	if err != nil {
		t.Fatalf("mismatch must still produce a receipt, got %v", err)
	}
	if !record.Mismatch {
		t.Fatal("expected mismatch flag")
	}
	if !record.ComputedTotal.Equal(money("209.97")) {
		t.Fatalf("computed total = %s, want 209.97", record.ComputedTotal)
	}
}

func TestRecordRejectsUnconfirmedSale(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Record(context.Background(), "sess-1", nil, &sales.SaleConfirmation{}, nil)
	if err == nil {
		t.Fatal("expected error for missing sale number")
	}
}

func TestListReturnsSessionReceiptsNewestFirst(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	first := confirmedSale()
	second := confirmedSale()
	second.SaleNumber = "NV-2026-0043"
	second.SaleID = 43
	second.IssuedAt = first.IssuedAt.Add(time.Hour)

	if _, err := svc.Record(ctx, "sess-1", nil, first, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Record(ctx, "sess-1", nil, second, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Record(ctx, "sess-other", nil, &sales.SaleConfirmation{SaleID: 44, SaleNumber: "NV-2026-0044", IssuedAt: time.Now()}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, next, err := svc.List(ctx, "sess-1", pagination.Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 receipts, got %d", len(records))
	}
	if records[0].SaleNumber != "NV-2026-0043" {
		t.Fatalf("expected newest first, got %q", records[0].SaleNumber)
	}
	if next != "" {
		t.Fatalf("expected no next cursor for a single page, got %q", next)
	}
}

func TestListPaginatesWithCursor(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	base := confirmedSale()
	for i := 0; i < 3; i++ {
		conf := confirmedSale()
		conf.SaleID = int64(50 + i)
		conf.SaleNumber = fmt.Sprintf("NV-2026-005%d", i)
		conf.IssuedAt = base.IssuedAt.Add(time.Duration(i) * time.Hour)
		if _, err := svc.Record(ctx, "sess-1", nil, conf, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first, next, err := svc.List(ctx, "sess-1", pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 2 || next == "" {
		t.Fatalf("expected full page with cursor, got %d rows next=%q", len(first), next)
	}
	if first[0].SaleNumber != "NV-2026-0052" {
		t.Fatalf("expected newest first, got %q", first[0].SaleNumber)
	}

	rest, next, err := svc.List(ctx, "sess-1", pagination.Params{Limit: 2, Cursor: next})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rest) != 1 || next != "" {
		t.Fatalf("expected final page, got %d rows next=%q", len(rest), next)
	}
	if rest[0].SaleNumber != "NV-2026-0050" {
		t.Fatalf("expected oldest last, got %q", rest[0].SaleNumber)
	}
}

func TestDownloadScopedToOwningSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Record(ctx, "sess-1", nil, confirmedSale(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	record, pdfBytes, err := svc.Download(ctx, "sess-1", "NV-2026-0042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.SaleNumber != "NV-2026-0042" || len(pdfBytes) == 0 {
		t.Fatal("expected record and artifact bytes")
	}

	_, _, err = svc.Download(ctx, "sess-intruder", "NV-2026-0042")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for foreign session, got %v", err)
	}
}
