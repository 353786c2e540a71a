package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/logger"
)

var (
	// Global flags
	outputFormat string
	logLevel     string

	cfg *config.Config
	zl  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "docinsight",
	Short: "Ask questions about CSV files and extract shipping data from airway-bill PDFs",
	Long: `docinsight sends CSV data or PDF text to an LLM and turns the reply into
structured results: answers with optional charts for CSVs, and a fixed set of
shipping fields for courier airway bills.

Credentials are read from the environment (DOCINSIGHT_LLM_API_KEY or
ANTHROPIC_API_KEY) or a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch outputFormat {
		case "text", "json", "yaml":
		default:
			return fmt.Errorf("unsupported --output %q: use text, json or yaml", outputFormat)
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		level := cfg.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		zl = logger.New(level, cfg.Log.Format)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if zl != nil {
			_ = zl.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	chartCmd.Flags().StringVar(&chartKind, "kind", "bar", "Chart kind: bar, line or pie")
	chartCmd.Flags().StringSliceVar(&chartColumns, "columns", nil, "One or two column names")
	_ = chartCmd.MarkFlagRequired("columns")

	analyzeCmd.Flags().StringVar(&analysisType, "type", "summary", "Analysis: summary, statistics or correlation")
	analyzeCmd.Flags().StringVar(&analysisColumn, "column", "", "Column for statistics")

	extractCmd.Flags().StringVar(&extractOut, "out", "", "Write the records to this xlsx file (default: generated name in the current directory)")
	extractCmd.Flags().BoolVar(&extractNoExport, "no-export", false, "Print records without writing a workbook")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
