package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/application/render"
	"github.com/sangkips/quotation-engine/internal/application/service"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

// ExportHandler serves rendered documents.
type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export renders the selected option of a quotation
// @Summary Export Quotation
// @Tags quotations
// @Produce application/pdf,text/html
// @Param id path string true "Quotation ID"
// @Param format query string false "pdf (default), html or xlsx"
// @Success 200 {file} binary
// @Router /quotations/{id}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := render.ParseFormat(c.Query("format"))
	if err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, err.Error()))
		return
	}

	doc, err := h.exportService.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	if format == render.FormatHTML && c.Query("inline") == "true" {
		c.Data(http.StatusOK, doc.ContentType, doc.Data)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Data)
}

// PhotoReport renders site photos as HTML appendix pages.
// @Router /quotations/{id}/photo-report [post]
func (h *ExportHandler) PhotoReport(c *gin.Context) {
	var req request.PhotoReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	doc, err := h.exportService.ExportPhotoReport(c.Request.Context(), c.Param("id"), req.Photos)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.ContentType, doc.Data)
}
