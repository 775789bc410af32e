package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/application/service"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/request"
	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
)

type SuggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{suggestionService: suggestionService}
}

// Apply imports the catalog items suggested for a work description into the
// selected option.
// @Router /quotations/{id}/suggestions [post]
func (h *SuggestionHandler) Apply(c *gin.Context) {
	var req request.SuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.suggestionService.Apply(c.Request.Context(), c.Param("id"), req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Suggested items imported successfully", result)
}
