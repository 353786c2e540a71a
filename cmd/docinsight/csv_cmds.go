package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docinsight/internal/app"
	"docinsight/internal/chart"
	"docinsight/internal/domain"
	"docinsight/internal/frame"
	"docinsight/internal/service"
)

var (
	chartKind      string
	chartColumns   []string
	analysisType   string
	analysisColumn string
)

var askCmd = &cobra.Command{
	Use:   "ask <file.csv> <question...>",
	Short: "Ask a natural-language question about a CSV file",
	Long: `Sends the CSV's schema, statistics and a few sample rows to the LLM together
with the question. Mentioning a chart, plot or graph asks the model to include
chart data, which is validated and printed as tables.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var chartCmd = &cobra.Command{
	Use:   "chart <file.csv>",
	Short: "Build a bar, line or pie chart directly from CSV columns",
	Args:  cobra.ExactArgs(1),
	RunE:  runChart,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Summarize a CSV, describe one column, or correlate numeric columns",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := strings.TrimSpace(strings.Join(args[1:], " "))
	if query == "" {
		return domain.ErrEmptyQuery
	}
	f, err := readFrame(args[0])
	if err != nil {
		return err
	}
	a, err := app.New(cfg, zl)
	if err != nil {
		return err
	}

	answer := a.Insight.Ask(cmd.Context(), f, query)
	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return printStructured(out, outputFormat, answer)
	}
	if err := renderMarkdown(out, answer.Answer); err != nil {
		return err
	}
	for _, s := range answer.Charts {
		fmt.Fprintln(out, renderSeries(s))
	}
	printWarnings(cmd.ErrOrStderr(), answer.Warnings)
	return nil
}

func runChart(cmd *cobra.Command, args []string) error {
	kind, err := chart.ParseKind(chartKind)
	if err != nil {
		return err
	}
	f, err := readFrame(args[0])
	if err != nil {
		return err
	}

	result, err := localInsight().Chart(f, service.ChartRequest{Kind: kind, Columns: chartColumns})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if outputFormat != "text" {
		return printStructured(out, outputFormat, result)
	}
	fmt.Fprintln(out, renderSeries(result.Series))
	printWarnings(cmd.ErrOrStderr(), result.Warnings)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	f, err := readFrame(args[0])
	if err != nil {
		return err
	}
	result, err := localInsight().Analyze(f, domain.AnalysisType(strings.ToLower(analysisType)), analysisColumn)
	if err != nil {
		return err
	}

	format := outputFormat
	if format == "text" {
		format = "yaml"
	}
	return printStructured(cmd.OutOrStdout(), format, result)
}

// localInsight serves chart and analyze, which never call the LLM.
func localInsight() service.InsightService {
	return service.NewInsightService(nil, &cfg.LLM, nil, zl)
}

func readFrame(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	return frame.Read(file)
}
