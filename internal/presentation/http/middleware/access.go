package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/quotation-engine/internal/presentation/http/dto/response"
)

// AccessModeHeader carries "guest" for viewers that may only read.
const AccessModeHeader = "X-Access-Mode"

// ReadOnlyGuard rejects mutating requests when the deployment is read-only or
// the caller declares guest access.
func ReadOnlyGuard(readOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if readOnly || strings.EqualFold(c.GetHeader(AccessModeHeader), "guest") {
			response.Forbidden(c, "Read-only access: changes are not allowed")
			c.Abort()
			return
		}
		c.Next()
	}
}
