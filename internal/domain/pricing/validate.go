package pricing

import (
	"fmt"
	"math"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

// Validate checks the numeric inputs of a quotation before it is recomputed or
// persisted. Negative quantities and prices are accepted; they model credit lines.
func Validate(q *entity.Quotation) []apperror.FieldError {
	var errs []apperror.FieldError
	if len(q.Options) == 0 {
		errs = append(errs, apperror.FieldError{Field: "options", Message: "at least one option is required"})
	} else if q.SelectedOptionIndex < 0 || q.SelectedOptionIndex >= len(q.Options) {
		errs = append(errs, apperror.FieldError{
			Field:   "selectedOptionIndex",
			Message: fmt.Sprintf("must be between 0 and %d", len(q.Options)-1),
		})
	}

	for o, opt := range q.Options {
		prefix := fmt.Sprintf("options[%d]", o)
		before := len(errs)
		for c, cat := range opt.Categories {
			for i, item := range cat.Items {
				path := fmt.Sprintf("%s.categories[%d].items[%d]", prefix, c, i)
				n := len(errs)
				errs = appendIfNotFinite(errs, path+".quantity", item.Quantity)
				errs = appendIfNotFinite(errs, path+".unitPrice", item.UnitPrice)
				if len(errs) == n {
					errs = appendIfNotFinite(errs, path+".amount", item.Quantity*item.UnitPrice)
				}
			}
		}
		errs = appendIfNotFinite(errs, prefix+".summary.managementFeeRate", opt.Summary.ManagementFeeRate)
		errs = appendIfNotFinite(errs, prefix+".summary.taxRate", opt.Summary.TaxRate)
		for d, disc := range opt.Summary.Discounts {
			errs = appendIfNotFinite(errs, fmt.Sprintf("%s.summary.discounts[%d].amount", prefix, d), disc.Amount)
		}
		if len(errs) == before {
			errs = appendIfNotFinite(errs, prefix+".summary.totalAmount", optionTotal(opt))
		}
	}
	return errs
}

// optionTotal derives the option total without touching the caller's items.
func optionTotal(opt entity.QuotationOption) float64 {
	cats := make([]entity.ItemCategory, len(opt.Categories))
	for c, cat := range opt.Categories {
		items := make([]entity.QuotationItem, len(cat.Items))
		for i, item := range cat.Items {
			item.Amount = item.Quantity * item.UnitPrice
			items[i] = item
		}
		cats[c] = entity.ItemCategory{Items: items}
	}
	s := Summarize(cats, opt.Summary)
	if !finite(s.Subtotal) || !finite(s.BeforeTaxAmount) {
		return math.Inf(1)
	}
	return s.TotalAmount
}

func appendIfNotFinite(errs []apperror.FieldError, field string, v float64) []apperror.FieldError {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(errs, apperror.FieldError{Field: field, Message: "must be a finite number"})
	}
	return errs
}
