// Package xlsxexport writes shipping records to a single-sheet workbook.
package xlsxexport

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"docinsight/internal/domain"
)

// SheetName is the name of the only worksheet in an export.
const SheetName = "Shipping Data"

const filenameLayout = "20060102_150405"

// Writer accumulates rows and renders them as an xlsx workbook.
type Writer struct {
	columns []string
	rows    [][]string
}

// NewWriter creates a Writer with the given header row.
func NewWriter(columns []string) *Writer {
	return &Writer{columns: append([]string(nil), columns...)}
}

// WriteRecords converts records to rows in column order.
func (w *Writer) WriteRecords(records []domain.ShippingRecord) {
	for i := range records {
		w.rows = append(w.rows, records[i].Row(w.columns))
	}
}

// Bytes renders the workbook. Each column is as wide as its longest cell
// plus two characters.
func (w *Writer) Bytes() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &w.columns); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i := range w.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &w.rows[i]); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	for col, width := range w.widths() {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(min(width+2, excelize.MaxColumnWidth))); err != nil {
			return nil, fmt.Errorf("sizing column %s: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *Writer) widths() []int {
	widths := make([]int, len(w.columns))
	for i, c := range w.columns {
		widths[i] = utf8.RuneCountInString(c)
	}
	for _, row := range w.rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); i < len(widths) && n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// Write renders records with the given header in one call.
func Write(records []domain.ShippingRecord, columns []string) ([]byte, error) {
	w := NewWriter(columns)
	w.WriteRecords(records)
	return w.Bytes()
}

// GenerateFilename returns the export name for the current time.
func GenerateFilename() string {
	return FilenameAt(time.Now())
}

// FilenameAt returns shipping_data_YYYYMMDD_HHMMSS.xlsx for t.
func FilenameAt(t time.Time) string {
	return "shipping_data_" + t.Format(filenameLayout) + ".xlsx"
}
