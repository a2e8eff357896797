// Package export writes accounting estimate imports. The workbook layout
// follows the QuickBooks estimate import columns.
package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/treescore"
)

const (
	estimateSheet = "Estimate"
	linesSheet    = "Lines"
	customSheet   = "CustomFields"
)

var ErrEmptyEstimate = errors.New("estimate has no lines")

// CustomField is a named numeric value carried alongside an estimate, such as TreeScore.
type CustomField struct {
	Name  string
	Value float64
}

// EstimateLine is one priced line of an estimate.
type EstimateLine struct {
	Description  string
	Quantity     float64
	Rate         float64
	Amount       float64
	CustomFields []CustomField
}

// Estimate is the accounting-side shape of a proposal.
type Estimate struct {
	Number   string
	Date     time.Time
	Expires  time.Time
	Customer string
	Email    string
	Address  string
	Discount float64
	Total    float64
	Memo     string
	Lines    []EstimateLine
}

// Exporter sends an estimate to the accounting system and returns the
// created record's identifier. Callers own idempotency.
type Exporter interface {
	Export(ctx context.Context, est Estimate) (string, error)
}

// FromProposal maps a proposal and its customer onto an estimate. TreeScore,
// AFISS multiplier and AF score travel as per-line custom fields.
func FromProposal(p model.Proposal, c model.Customer) Estimate {
	est := Estimate{
		Number:   p.Number,
		Date:     p.CreatedAt,
		Expires:  p.ExpiresAt,
		Customer: c.Name,
		Email:    c.Email,
		Address:  c.Address,
		Discount: p.Discount,
		Total:    p.Total,
		Memo:     p.Notes,
	}
	for _, item := range p.LineItems {
		line := EstimateLine{
			Description: lineDescription(item),
			Quantity:    item.Quantity,
			Rate:        item.UnitPrice,
			Amount:      item.TotalPrice,
		}
		if item.TreeScore > 0 {
			line.CustomFields = append(line.CustomFields,
				CustomField{Name: "TreeScore", Value: float64(treescore.DisplayScore(item.TreeScore))},
				CustomField{Name: "AFISS", Value: item.AFISSMultiplier},
				CustomField{Name: "AFScore", Value: float64(treescore.DisplayScore(item.AFScore))},
			)
		}
		est.Lines = append(est.Lines, line)
	}
	return est
}

func lineDescription(item model.LineItem) string {
	label := strings.ReplaceAll(string(item.ServiceType), "_", " ")
	if item.Description == "" {
		return label
	}
	return label + ": " + item.Description
}

// Workbook writes an estimate into three sheets: the header, its lines and
// the per-line custom fields.
type Workbook struct {
	dir string
}

// NewWorkbook writes workbooks into dir.
func NewWorkbook(dir string) *Workbook {
	return &Workbook{dir: dir}
}

// Export writes <number>-<id>.xlsx into the export directory and returns id.
func (w *Workbook) Export(ctx context.Context, est Estimate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := Render(est)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(w.Path(est.Number, id), body, 0o644); err != nil {
		return "", fmt.Errorf("write estimate workbook: %w", err)
	}
	return id, nil
}

// Path returns where the workbook for number and record id is written.
func (w *Workbook) Path(number, id string) string {
	return filepath.Join(w.dir, number+"-"+id+".xlsx")
}

// Render builds the workbook bytes.
func Render(est Estimate) ([]byte, error) {
	if len(est.Lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyEstimate, est.Number)
	}

	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", estimateSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := file.NewSheet(linesSheet); err != nil {
		return nil, fmt.Errorf("create lines sheet: %w", err)
	}
	if _, err := file.NewSheet(customSheet); err != nil {
		return nil, fmt.Errorf("create custom fields sheet: %w", err)
	}

	if err := writeRows(file, estimateSheet, [][]any{
		{"EstimateNo", "Customer", "Email", "BillAddr", "TxnDate", "ExpirationDate", "Discount", "Total", "Memo"},
		{est.Number, est.Customer, est.Email, est.Address, formatDate(est.Date), formatDate(est.Expires), est.Discount, est.Total, est.Memo},
	}); err != nil {
		return nil, err
	}

	lines := [][]any{{"EstimateNo", "LineNo", "Description", "Qty", "Rate", "Amount"}}
	custom := [][]any{{"EstimateNo", "LineNo", "Name", "Value"}}
	for i, line := range est.Lines {
		lines = append(lines, []any{est.Number, i + 1, line.Description, round(line.Quantity, 4), round(line.Rate, 4), round(line.Amount, 2)})
		for _, f := range line.CustomFields {
			custom = append(custom, []any{est.Number, i + 1, f.Name, f.Value})
		}
	}
	if err := writeRows(file, linesSheet, lines); err != nil {
		return nil, err
	}
	if err := writeRows(file, customSheet, custom); err != nil {
		return nil, err
	}

	_ = file.SetColWidth(estimateSheet, "A", "I", 16)
	_ = file.SetColWidth(linesSheet, "C", "C", 48)
	file.SetActiveSheet(0)

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(file *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("01/02/2006")
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
