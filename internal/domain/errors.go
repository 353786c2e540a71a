package domain

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrIngestion           = errors.New("document could not be read")
	ErrEmptyDocument       = errors.New("document contains no data")
	ErrCompletionFailed    = errors.New("completion request failed")
	ErrMissingAPIKey       = errors.New("LLM API key is not configured")
	ErrUnknownColumn       = errors.New("column not found")
	ErrInvalidAnalysis     = errors.New("invalid analysis type or missing parameters")
	ErrNoNumericColumns    = errors.New("no numeric columns available for correlation analysis")
	ErrEmptyQuery          = errors.New("query must not be empty")
	ErrInvalidChartRequest = errors.New("invalid number of columns for chart")
)
