package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"docinsight/internal/chart"
	"docinsight/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// printStructured writes v as indented JSON or as YAML.
func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// renderMarkdown prints an answer as terminal markdown, falling back to
// the raw text when no renderer is available.
func renderMarkdown(w io.Writer, text string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err == nil {
		if rendered, rerr := r.Render(text); rerr == nil {
			_, err = io.WriteString(w, rendered)
			return err
		}
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func renderSeries(s *chart.Series) string {
	t := table.New().Border(lipgloss.NormalBorder())
	if s.Kind == chart.KindPie {
		t = t.Headers("label", "value")
		for i, label := range s.Labels {
			t = t.Row(label, formatNumber(s.Values[i]))
		}
	} else {
		t = t.Headers(s.Columns...)
		for _, row := range s.Data {
			t = t.Row(cast.ToString(row[0]), formatNumber(cast.ToFloat64(row[1])))
		}
	}
	return titleStyle.Render(string(s.Kind)) + "\n" + t.Render()
}

func renderRecords(records []domain.ShippingRecord, withFileName bool) string {
	columns := domain.ShippingColumns(withFileName)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(recordRows(records, columns)...).
		Render()
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintln(w, warnStyle.Render("warning: "+msg))
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
