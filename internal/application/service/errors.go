package service

import (
	"errors"
	"net/http"

	"github.com/sangkips/quotation-engine/internal/application/render"
	"github.com/sangkips/quotation-engine/internal/domain/catalog"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
	"github.com/sangkips/quotation-engine/internal/domain/lifecycle"
	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

// domainErrors maps domain sentinels to the HTTP status they are reported with.
var domainErrors = []struct {
	err  error
	code int
}{
	{pricing.ErrLastOption, http.StatusUnprocessableEntity},
	{pricing.ErrNotFinite, http.StatusUnprocessableEntity},
	{pricing.ErrOptionNotFound, http.StatusNotFound},
	{pricing.ErrCategoryNotFound, http.StatusNotFound},
	{pricing.ErrItemNotFound, http.StatusNotFound},
	{pricing.ErrDiscountNotFound, http.StatusNotFound},
	{lifecycle.ErrInvalidTransition, http.StatusConflict},
	{lifecycle.ErrNotEditable, http.StatusConflict},
	{lifecycle.ErrSignatureRequired, http.StatusBadRequest},
	{lifecycle.ErrProjectRequired, http.StatusBadRequest},
	{catalog.ErrPresetNotFound, http.StatusNotFound},
	{layout.ErrNoSelectedOption, http.StatusUnprocessableEntity},
	{render.ErrAssetTimeout, http.StatusGatewayTimeout},
	{render.ErrFontUnavailable, http.StatusServiceUnavailable},
}

// translate turns a domain error into an AppError, keeping the original
// reachable through errors.Is. Unknown errors pass through untouched.
func translate(err error) error {
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return apperror.Wrap(err, d.code, err.Error())
		}
	}
	return err
}
