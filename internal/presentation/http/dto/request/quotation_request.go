package request

import (
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
)

// CreateQuotationRequest is the body of POST /quotations. Options may be
// omitted, in which case one empty option is created.
type CreateQuotationRequest struct {
	ProjectID      string                   `json:"projectId"`
	CustomerID     string                   `json:"customerId"`
	Header         entity.Header            `json:"header"`
	Options        []entity.QuotationOption `json:"options"`
	ShowOptionName bool                     `json:"showOptionName"`
	Responsibles   *entity.Responsibles     `json:"responsibles"`
	Terms          *entity.Terms            `json:"terms"`
	Attachments    *entity.Attachments      `json:"attachments"`
	ValidUntil     *string                  `json:"validUntil"`
	CreatedBy      string                   `json:"createdBy"`
	CreatedByName  string                   `json:"createdByName"`
}

// UpdateQuotationRequest replaces the editable content of a draft.
type UpdateQuotationRequest struct {
	CustomerID          string                   `json:"customerId"`
	Header              entity.Header            `json:"header"`
	Options             []entity.QuotationOption `json:"options" binding:"required,min=1"`
	SelectedOptionIndex int                      `json:"selectedOptionIndex"`
	ShowOptionName      bool                     `json:"showOptionName"`
	Responsibles        *entity.Responsibles     `json:"responsibles"`
	Terms               *entity.Terms            `json:"terms"`
	Attachments         *entity.Attachments      `json:"attachments"`
	ValidUntil          *string                  `json:"validUntil"`
}

// ReassignProjectRequest moves a draft to another project. An empty projectId
// unlinks it.
type ReassignProjectRequest struct {
	ProjectID string `json:"projectId"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type SignRequest struct {
	Signature string `json:"signature" binding:"required"`
}

type ConvertRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
}

type AddCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// SuggestionRequest carries the free-text work description sent to the
// suggestion service.
type SuggestionRequest struct {
	Description string `json:"description" binding:"required"`
}

type PhotoReportRequest struct {
	Photos []layout.Photo `json:"photos" binding:"required,min=1,dive"`
}
