package receipts

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/sales"
)

// AnonymousBuyer is printed on receipts for sessions without an
// authenticated buyer.
const AnonymousBuyer = "Consumidor final"

// Generator renders sale confirmations into PDF receipts.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// FileName is the canonical artifact name for a sale's receipt.
func FileName(saleNumber string) string {
	return fmt.Sprintf("nota-venta-%s.pdf", saleNumber)
}

// Render produces the receipt PDF for a confirmed sale. The buyer name falls
// back to AnonymousBuyer when empty; names maps product ids to display names
// for the line table.
func (g *Generator) Render(conf *sales.SaleConfirmation, buyerName string, names map[int64]string) ([]byte, error) {
	if conf == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "receipt requires a sale confirmation")
	}
	if buyerName == "" {
		buyerName = AnonymousBuyer
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Nota de Venta %s", conf.SaleNumber), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Nota de Venta", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("N° %s", conf.SaleNumber)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Fecha: %s", conf.IssuedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("Cliente: %s", buyerName)), "", 1, "L", false, 0, "")
	if conf.Note != "" {
		pdf.CellFormat(0, 7, tr(fmt.Sprintf("Observación: %s", conf.Note)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 8, "Producto", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Cantidad", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "P. Unitario", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Subtotal", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range conf.LineDetails {
		name := names[line.ProductID]
		if name == "" {
			name = fmt.Sprintf("Producto %d", line.ProductID)
		}
		pdf.CellFormat(90, 8, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", line.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, line.Subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(150, 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 9, conf.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to render receipt")
	}
	return buf.Bytes(), nil
}
