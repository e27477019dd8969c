package infra

// pdf.go — receipt PDF generation using go-pdf/fpdf.
// Generates an A5 receipt with:
//   - Pharmacy name header
//   - Invoice id, customer and timestamp
//   - Item table (medicine name, quantity, MRP, discount, line total)
//   - Bold grand total and payment mode
//
// The output file is saved to storagePath/receipt_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"pharmapos/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateReceiptPDF renders a committed invoice to a PDF receipt.
// storagePath is the directory where the PDF will be written (created if needed).
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(inv *model.Invoice, pharmacyName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("receipt_%s.pdf", inv.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, pharmacyName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Invoice info ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, "Invoice "+inv.ID.String(), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, inv.BillDate.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if inv.CustomerName != "" {
		pdf.CellFormat(contentW, 4, fmt.Sprintf("%s  (%s)", inv.CustomerName, inv.CustomerPhone), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Items header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.40 // medicine name
	col2 := contentW * 0.12 // qty
	col3 := contentW * 0.17 // mrp
	col4 := contentW * 0.12 // discount
	col5 := contentW * 0.19 // line total

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "MRP", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Disc", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 5, "Total", "B", 1, "R", false, 0, "")

	// ── Item rows ────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, item := range inv.Items {
		name := item.MedicineName
		if len(name) > 28 {
			name = name[:27] + "…"
		}
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, item.MRP.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, item.DiscountPercent.StringFixed(0)+"%", "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 5, item.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 6, "GRAND TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4+col5, 6, inv.GrandTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, "Paid by "+inv.PaymentMode, "", 1, "L", false, 0, "")

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 4, "Get well soon!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
