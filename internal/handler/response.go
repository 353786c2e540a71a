package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docinsight/internal/chart"
	"docinsight/internal/domain"
	"docinsight/internal/llm"
	"docinsight/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rlErr *llm.RateLimitError
	switch {
	case errors.As(err, &rlErr):
		return http.StatusTooManyRequests, "RATE_LIMITED", "completion provider is rate limited; retry later"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: csv, pdf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, "EMPTY_DOCUMENT", "document contains no data"
	case errors.Is(err, domain.ErrIngestion):
		return http.StatusUnprocessableEntity, "INGESTION_FAILED", "document could not be read"
	case errors.Is(err, domain.ErrEmptyQuery):
		return http.StatusBadRequest, "EMPTY_QUERY", "query must not be empty"
	case errors.Is(err, domain.ErrUnknownColumn):
		return http.StatusBadRequest, "UNKNOWN_COLUMN", err.Error()
	case errors.Is(err, domain.ErrInvalidAnalysis):
		return http.StatusBadRequest, "INVALID_ANALYSIS", "invalid analysis type or missing parameters"
	case errors.Is(err, domain.ErrNoNumericColumns):
		return http.StatusBadRequest, "NO_NUMERIC_COLUMNS", "no numeric columns available for correlation analysis"
	case errors.Is(err, domain.ErrInvalidChartRequest):
		return http.StatusBadRequest, "INVALID_CHART_REQUEST", err.Error()
	case errors.Is(err, chart.ErrUnknownKind):
		return http.StatusBadRequest, "UNKNOWN_CHART_KIND", "unknown chart kind; allowed: table, bar, line, pie"
	case errors.Is(err, chart.ErrNoValidData):
		return http.StatusUnprocessableEntity, "NO_VALID_DATA", "no rows could be plotted"
	case errors.Is(err, domain.ErrCompletionFailed):
		return http.StatusBadGateway, "COMPLETION_FAILED", "completion request failed"
	case errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "LLM_NOT_CONFIGURED", "LLM API key is not configured"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, log *zap.Logger, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		log.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("code", code),
			zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
