package render

import (
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

// Filename returns Quote_{number}_{option}.{ext}. The same quotation and option
// always give the same name.
func Filename(q *entity.Quotation, f Format) string {
	name := "Quote_" + q.QuotationNumber
	if opt := q.SelectedOption(); opt != nil && opt.Name != "" {
		name += "_" + opt.Name
	}
	return utils.SanitizeFilename(name) + "." + string(f)
}
