package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/pkg/apperror"
)

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=Quote_PRJ-01.pdf", ContentDisposition("Quote_PRJ-01.pdf"))

	h := ContentDisposition("Quote_PRJ-01_方案A.pdf")
	assert.Contains(t, h, `filename="Quote_PRJ-01___A.pdf"`)
	assert.Contains(t, h, "filename*=utf-8''Quote_PRJ-01_%E6%96%B9%E6%A1%88A.pdf")
}

func TestError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestError_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, apperror.NewValidationError([]apperror.FieldError{{Field: "options", Message: "required"}}))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"options"`)
}
