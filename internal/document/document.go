// Package document renders customer-facing proposal PDFs.
package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/treescore"
)

const fontName = "Helvetica"

// Generator renders proposal PDFs under a company heading.
type Generator struct {
	company string
}

// NewGenerator returns a Generator that prints company in the header.
func NewGenerator(company string) *Generator {
	if company == "" {
		company = "Tree Service Proposal"
	}
	return &Generator{company: company}
}

// Proposal renders p for c. Status is shown as of now, so an expired
// proposal prints as expired.
func (g *Generator) Proposal(p model.Proposal, c model.Customer, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(p.Number, false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(g.company), "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Proposal %s", p.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s, valid until %s", formatDate(p.CreatedAt), formatDate(p.ExpiresAt)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Status: "+string(p.DisplayStatus(now)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(0, 6, "Prepared for", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	for _, line := range []string{c.Name, c.Address, c.Phone, c.Email} {
		if strings.TrimSpace(line) != "" {
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}
	pdf.Ln(4)

	widths := []float64{80, 25, 25, 25, 31}
	drawRow(pdf, []string{"Service", "Score", "Qty", "Rate", "Amount"}, widths, true)
	for _, item := range p.LineItems {
		score := "-"
		if item.AFScore > 0 {
			score = fmt.Sprintf("%d", treescore.DisplayScore(item.AFScore))
		}
		drawRow(pdf, []string{
			tr(describe(item)),
			score,
			formatAmount(item.Quantity),
			formatAmount(item.UnitPrice),
			formatAmount(item.TotalPrice),
		}, widths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, "Subtotal: $"+formatAmount(p.Subtotal), "", 1, "R", false, 0, "")
	if p.Discount > 0 {
		pdf.CellFormat(0, 6, "Discount: -$"+formatAmount(p.Discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Total: $"+formatAmount(p.Total), "", 1, "R", false, 0, "")

	if p.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont(fontName, "", 10)
		pdf.MultiCell(0, 5, tr(p.Notes), "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, "Accepted by: ______________________   Date: ____________", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render proposal %s: %w", p.Number, err)
	}
	return buf.Bytes(), nil
}

func describe(item model.LineItem) string {
	label := strings.ReplaceAll(string(item.ServiceType), "_", " ")
	if item.Description != "" {
		label += ": " + item.Description
	}
	if len(item.AFISSFactors) > 0 {
		label += " (" + strings.Join(item.AFISSFactors, ", ") + ")"
	}
	return label
}

func drawRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
