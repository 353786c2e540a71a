package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"docinsight/internal/domain"
	"docinsight/internal/middleware"
	"docinsight/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ShippingHandler handles airway-bill extraction and export.
type ShippingHandler struct {
	shippingService service.ShippingService
	maxBytes        int64
	log             *zap.Logger
}

// NewShippingHandler creates a new ShippingHandler.
func NewShippingHandler(shippingService service.ShippingService, maxBytes int64, log *zap.Logger) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService, maxBytes: maxBytes, log: log}
}

// ExportRequest is the body of POST /api/v1/shipping/export.
type ExportRequest struct {
	Records []domain.ShippingRecord `json:"records" binding:"required"`
	Batch   bool                    `json:"batch"`
}

// Extract handles POST /api/v1/shipping/extract
// @Summary Extract shipping fields from one or more airway-bill PDFs
// @Description A single "file" returns one record. Repeated "files" run as a batch
// @Description where per-file failures are reported alongside the records.
// @Tags shipping
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "Single PDF"
// @Param files formData []file false "PDFs for batch mode"
// @Success 200 {object} APIResponse{data=service.BatchResult}
// @Router /shipping/extract [post]
func (h *ShippingHandler) Extract(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart form with file or files is required")
		return
	}

	if headers := form.File["files"]; len(headers) > 0 {
		h.extractBatch(c, headers)
		return
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	file, err := openUpload(headers[0], domain.FileTypePDF, h.maxBytes)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	defer func() { _ = file.Close() }()

	rec, err := h.shippingService.Extract(c.Request.Context(), headers[0].Filename, file)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, rec)
}

func (h *ShippingHandler) extractBatch(c *gin.Context, headers []*multipart.FileHeader) {
	uploads := make([]service.Upload, len(headers))
	for i, fh := range headers {
		uploads[i] = service.Upload{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return openUpload(fh, domain.FileTypePDF, h.maxBytes)
			},
		}
	}

	requestID := middleware.GetRequestID(c)
	result := h.shippingService.ExtractBatch(c.Request.Context(), uploads, func(done, total int, name string) {
		h.log.Debug("batch progress",
			zap.String("request_id", requestID),
			zap.String("file", name),
			zap.String("progress", fmt.Sprintf("%d/%d", done, total)))
	})
	RespondOK(c, result)
}

// Export handles POST /api/v1/shipping/export
// @Summary Download shipping records as an xlsx workbook
// @Tags shipping
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param body body ExportRequest true "Records to export"
// @Router /shipping/export [post]
func (h *ShippingHandler) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	data, filename, err := h.shippingService.Export(req.Records, req.Batch)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
