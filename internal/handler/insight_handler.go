package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docinsight/internal/chart"
	"docinsight/internal/domain"
	"docinsight/internal/frame"
	"docinsight/internal/service"
)

// InsightHandler handles the CSV question-answering endpoints.
type InsightHandler struct {
	insightService service.InsightService
	maxBytes       int64
	log            *zap.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, maxBytes int64, log *zap.Logger) *InsightHandler {
	return &InsightHandler{insightService: insightService, maxBytes: maxBytes, log: log}
}

// Ask handles POST /api/v1/csv/ask
// @Summary Ask a question about a CSV file
// @Tags csv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param query formData string true "Natural-language question"
// @Success 200 {object} APIResponse{data=service.Answer}
// @Failure 400 {object} APIResponse "Missing file, empty query or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Router /csv/ask [post]
func (h *InsightHandler) Ask(c *gin.Context) {
	query := strings.TrimSpace(c.PostForm("query"))
	if query == "" {
		HandleError(c, h.log, domain.ErrEmptyQuery)
		return
	}
	f, ok := h.readFrame(c)
	if !ok {
		return
	}

	RespondOK(c, h.insightService.Ask(c.Request.Context(), f, query))
}

// Chart handles POST /api/v1/csv/chart
// @Summary Build a chart from CSV columns without calling the LLM
// @Tags csv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param kind formData string true "bar, line or pie"
// @Param columns formData []string true "One or two column names"
// @Success 200 {object} APIResponse{data=service.ChartResult}
// @Router /csv/chart [post]
func (h *InsightHandler) Chart(c *gin.Context) {
	kind, err := chart.ParseKind(c.PostForm("kind"))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	f, ok := h.readFrame(c)
	if !ok {
		return
	}

	result, err := h.insightService.Chart(f, service.ChartRequest{
		Kind:    kind,
		Columns: formList(c.PostFormArray("columns")),
	})
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

// Analyze handles POST /api/v1/csv/analyze
// @Summary Run a local analysis (summary, statistics, correlation)
// @Tags csv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param type formData string true "summary, statistics or correlation"
// @Param column formData string false "Column for statistics"
// @Router /csv/analyze [post]
func (h *InsightHandler) Analyze(c *gin.Context) {
	f, ok := h.readFrame(c)
	if !ok {
		return
	}

	analysis := domain.AnalysisType(strings.ToLower(strings.TrimSpace(c.PostForm("type"))))
	result, err := h.insightService.Analyze(f, analysis, strings.TrimSpace(c.PostForm("column")))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, result)
}

// readFrame parses the uploaded CSV. On failure the error response has
// already been written.
func (h *InsightHandler) readFrame(c *gin.Context) (*frame.Frame, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, false
	}
	file, err := openUpload(header, domain.FileTypeCSV, h.maxBytes)
	if err != nil {
		HandleError(c, h.log, err)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	f, err := frame.Read(file)
	if err != nil {
		HandleError(c, h.log, err)
		return nil, false
	}
	return f, true
}

// formList accepts repeated fields as well as a single comma-separated value.
func formList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
