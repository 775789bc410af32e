package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
)

// Fine-grained edits of a draft. Indexes in the path are zero-based.

// AddCategory appends a category to an option.
// @Router /quotations/{id}/options/{opt}/categories [post]
func (h *QuotationHandler) AddCategory(c *gin.Context) {
	idx, err := indexParams(c, "opt")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req request.AddCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.AddCategory(c.Request.Context(), c.Param("id"), idx[0], req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Category added successfully", quotation)
}

// AddItem appends an item to a category.
// @Router /quotations/{id}/options/{opt}/categories/{cat}/items [post]
func (h *QuotationHandler) AddItem(c *gin.Context) {
	idx, err := indexParams(c, "opt", "cat")
	if err != nil {
		response.Error(c, err)
		return
	}
	var draft pricing.ItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.AddItem(c.Request.Context(), c.Param("id"), idx[0], idx[1], draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item added successfully", quotation)
}

// UpdateItem changes the fields present in the body.
// @Router /quotations/{id}/options/{opt}/categories/{cat}/items/{item} [patch]
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	idx, err := indexParams(c, "opt", "cat", "item")
	if err != nil {
		response.Error(c, err)
		return
	}
	var patch pricing.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quotation, err := h.quotationService.UpdateItem(c.Request.Context(), c.Param("id"), idx[0], idx[1], idx[2], patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item updated successfully", quotation)
}

// RemoveItem deletes an item and renumbers the rest of its category.
// @Router /quotations/{id}/options/{opt}/categories/{cat}/items/{item} [delete]
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	idx, err := indexParams(c, "opt", "cat", "item")
	if err != nil {
		response.Error(c, err)
		return
	}
	quotation, err := h.quotationService.RemoveItem(c.Request.Context(), c.Param("id"), idx[0], idx[1], idx[2])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Item removed successfully", quotation)
}

// RemoveOption deletes an option. The last option cannot be removed.
// @Router /quotations/{id}/options/{opt} [delete]
func (h *QuotationHandler) RemoveOption(c *gin.Context) {
	idx, err := indexParams(c, "opt")
	if err != nil {
		response.Error(c, err)
		return
	}
	quotation, err := h.quotationService.RemoveOption(c.Request.Context(), c.Param("id"), idx[0])
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Option removed successfully", quotation)
}

// ApplyPreset adds a catalog preset as a new option.
// @Router /quotations/{id}/presets/{preset} [post]
func (h *QuotationHandler) ApplyPreset(c *gin.Context) {
	quotation, err := h.quotationService.ApplyPreset(c.Request.Context(), c.Param("id"), c.Param("preset"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Preset applied successfully", quotation)
}

// ListPresets returns the catalog presets.
// @Router /catalog/presets [get]
func (h *QuotationHandler) ListPresets(c *gin.Context) {
	response.OK(c, "Presets retrieved successfully", h.quotationService.Presets())
}
