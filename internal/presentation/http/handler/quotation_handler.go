package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/application/service"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
	"github.com/sangkips/quotation-engine/pkg/apperror"
	"github.com/sangkips/quotation-engine/pkg/pagination"
)

// QuotationHandler handles quotation-related HTTP requests
type QuotationHandler struct {
	quotationService *service.QuotationService
}

// NewQuotationHandler creates a new quotation handler
func NewQuotationHandler(quotationService *service.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// List handles listing quotations
// @Summary List Quotations
// @Description Get all quotations with pagination and filtering
// @Tags quotations
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Param search query string false "Search term"
// @Param status query string false "Status key, e.g. draft"
// @Param project_id query string false "Project filter"
// @Param number query string false "Exact quotation number"
// @Success 200 {object} response.APIResponse
// @Router /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	page := 1
	perPage := 20
	if p := c.Query("page"); p != "" {
		if parsed, err := parsePositiveInt(p); err == nil {
			page = parsed
		}
	}
	if pp := c.Query("per_page"); pp != "" {
		if parsed, err := parsePositiveInt(pp); err == nil {
			perPage = parsed
		}
	}

	var status *enum.QuotationStatus
	if s := c.Query("status"); s != "" {
		parsed, err := enum.ParseQuotationStatus(s)
		if err != nil {
			response.BadRequest(c, "Invalid status filter")
			return
		}
		status = &parsed
	}

	result, err := h.quotationService.List(c.Request.Context(), &repository.QuotationFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		Status:     status,
		ProjectID:  c.Query("project_id"),
		Number:     c.Query("number"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Quotations retrieved successfully", result)
}

// Get handles getting a single quotation
// @Summary Get Quotation
// @Tags quotations
// @Produce json
// @Param id path string true "Quotation ID"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	quotation, err := h.quotationService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation retrieved successfully", quotation)
}

// GetByNumber resolves a quotation number.
// @Router /quotations/number/{number} [get]
func (h *QuotationHandler) GetByNumber(c *gin.Context) {
	quotation, err := h.quotationService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation retrieved successfully", quotation)
}

// Create handles creating a quotation
// @Summary Create Quotation
// @Description Create a numbered draft. Honors the Idempotency-Key header.
// @Tags quotations
// @Accept json
// @Produce json
// @Param request body request.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} response.APIResponse
// @Router /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), &service.CreateQuotationInput{
		ProjectID:      strings.TrimSpace(req.ProjectID),
		CustomerID:     req.CustomerID,
		Header:         req.Header,
		Options:        req.Options,
		ShowOptionName: req.ShowOptionName,
		Responsibles:   req.Responsibles,
		Terms:          req.Terms,
		Attachments:    req.Attachments,
		ValidUntil:     validUntil,
		CreatedBy:      req.CreatedBy,
		CreatedByName:  req.CreatedByName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Quotation created successfully", quotation)
}

// Update handles saving the whole document of a draft
// @Summary Update Quotation
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	var req request.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		response.Error(c, err)
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), c.Param("id"), &service.UpdateQuotationInput{
		CustomerID:          req.CustomerID,
		Header:              req.Header,
		Options:             req.Options,
		SelectedOptionIndex: req.SelectedOptionIndex,
		ShowOptionName:      req.ShowOptionName,
		Responsibles:        req.Responsibles,
		Terms:               req.Terms,
		Attachments:         req.Attachments,
		ValidUntil:          validUntil,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Quotation updated successfully", quotation)
}

// Delete handles deleting a quotation
// @Summary Delete Quotation
// @Tags quotations
// @Param id path string true "Quotation ID"
// @Success 204
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	if err := h.quotationService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Copy duplicates a quotation as a new draft with its own number.
// @Router /quotations/{id}/copy [post]
func (h *QuotationHandler) Copy(c *gin.Context) {
	quotation, err := h.quotationService.Copy(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Quotation copied successfully", quotation)
}

// ReassignProject moves a draft to another project and renumbers it.
// @Router /quotations/{id}/project [put]
func (h *QuotationHandler) ReassignProject(c *gin.Context) {
	var req request.ReassignProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.ReassignProject(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ProjectID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation project updated successfully", quotation)
}

// Transition moves a quotation along its lifecycle
// @Summary Change Quotation Status
// @Tags quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID"
// @Param request body request.TransitionRequest true "Target status"
// @Success 200 {object} response.APIResponse
// @Router /quotations/{id}/status [post]
func (h *QuotationHandler) Transition(c *gin.Context) {
	var req request.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	to, err := enum.ParseQuotationStatus(req.Status)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Unknown status "+req.Status))
		return
	}
	quotation, err := h.quotationService.Transition(c.Request.Context(), c.Param("id"), to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation status updated successfully", quotation)
}

// Sign records the customer's signature.
// @Router /quotations/{id}/sign [post]
func (h *QuotationHandler) Sign(c *gin.Context) {
	var req request.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.Sign(c.Request.Context(), c.Param("id"), req.Signature)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation signed successfully", quotation)
}

// Convert marks a quotation as converted into a project.
// @Router /quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *gin.Context) {
	var req request.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.Convert(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.ProjectID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quotation converted successfully", quotation)
}
