package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"docinsight/internal/app"
	"docinsight/internal/domain"
	"docinsight/internal/service"
)

var (
	extractOut      string
	extractNoExport bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <bill.pdf...>",
	Short: "Extract shipping fields from courier airway-bill PDFs into a spreadsheet",
	Long: `Extracts Order ID, Recipient Name, Recipient Address, Courier Name and
Tracking Number from each PDF. Files are processed one at a time; a file that
cannot be read or extracted is reported and skipped. With more than one file
the workbook gains a File Name column.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

var progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg, zl)
	if err != nil {
		return err
	}

	uploads := make([]service.Upload, len(args))
	for i, path := range args {
		uploads[i] = service.Upload{
			Name: filepath.Base(path),
			Open: func() (io.ReadCloser, error) { return os.Open(path) },
		}
	}

	stderr := cmd.ErrOrStderr()
	result := a.Shipping.ExtractBatch(cmd.Context(), uploads, func(done, total int, name string) {
		fmt.Fprintln(stderr, progressStyle.Render(fmt.Sprintf("[%d/%d] %s", done, total, name)))
	})
	for _, f := range result.Failures {
		fmt.Fprintln(stderr, warnStyle.Render("failed: "+f.Error()))
	}
	if len(result.Records) == 0 {
		return fmt.Errorf("no records extracted from %d file(s)", len(args))
	}

	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		if err := printStructured(out, outputFormat, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, renderRecords(result.Records, len(args) > 1))
	}

	if extractNoExport {
		return nil
	}
	data, filename, err := a.Shipping.Export(result.Records, len(args) > 1)
	if err != nil {
		return err
	}
	if extractOut != "" {
		filename = extractOut
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	fmt.Fprintf(stderr, "wrote %d record(s) to %s\n", len(result.Records), filename)
	return nil
}

func recordRows(records []domain.ShippingRecord, columns []string) [][]string {
	rows := make([][]string, len(records))
	for i := range records {
		rows[i] = records[i].Row(columns)
	}
	return rows
}
