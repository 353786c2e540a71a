package ingest

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/logger"
)

// PDFExtractor renders PDF pages, and any tables found on them, as plain text.
type PDFExtractor struct {
	tempDir string
	log     *zap.Logger
}

// NewPDFExtractor creates an extractor that stages uploads in tempDir
// (the OS default when empty).
func NewPDFExtractor(tempDir string, log *zap.Logger) *PDFExtractor {
	return &PDFExtractor{tempDir: tempDir, log: logger.OrNop(log)}
}

// Extract returns the text of every page, each preceded by a page header.
// Pages with aligned multi-column rows get a pipe-delimited table section.
func (e *PDFExtractor) Extract(ctx context.Context, name string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e.log.Info("extracting text from PDF", zap.String("file", name))

	var text string
	err := withTempCopy(e.tempDir, "upload-*.pdf", body, e.log, func(path string) error {
		var err error
		text, err = extractFile(path)
		return err
	})
	if err != nil {
		e.log.Error("PDF extraction failed", zap.String("file", name), zap.Error(err))
		return "", fmt.Errorf("%w: %s: %v", domain.ErrIngestion, name, err)
	}

	e.log.Info("extracted text from PDF", zap.String("file", name), zap.Int("chars", len(text)))
	return text, nil
}

func extractFile(path string) (text string, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		fmt.Fprintf(&sb, "\n\n--- Page %d ---\n\n%s", i, pageText)

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		tables := findTables(rows)
		if len(tables) == 0 {
			continue
		}
		sb.WriteString("\n\n--- Tables ---\n\n")
		for n, table := range tables {
			fmt.Fprintf(&sb, "\n--- Table %d ---\n", n+1)
			for _, row := range table {
				sb.WriteString(strings.Join(row, " | "))
				sb.WriteString("\n")
			}
		}
	}
	return sb.String(), nil
}

// findTables groups consecutive rows that split into two or more cells.
// A table needs at least two such rows.
func findTables(rows pdf.Rows) [][][]string {
	var tables [][][]string
	var current [][]string
	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}
	for _, row := range rows {
		cells := splitCells(row.Content)
		if len(cells) < 2 {
			flush()
			continue
		}
		current = append(current, cells)
	}
	flush()
	return tables
}

// splitCells starts a new cell wherever the horizontal gap between two
// text runs is wider than the font size of the first.
func splitCells(texts pdf.TextHorizontal) []string {
	if len(texts) == 0 {
		return nil
	}
	sorted := append(pdf.TextHorizontal(nil), texts...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	var cells []string
	var cell strings.Builder
	prev := sorted[0]
	cell.WriteString(prev.S)
	for _, t := range sorted[1:] {
		gap := t.X - (prev.X + prev.W)
		if gap > prev.FontSize && prev.FontSize > 0 {
			cells = appendCell(cells, cell.String())
			cell.Reset()
		}
		cell.WriteString(t.S)
		prev = t
	}
	return appendCell(cells, cell.String())
}

func appendCell(cells []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		cells = append(cells, s)
	}
	return cells
}
