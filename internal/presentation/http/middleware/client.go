package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ClientIDHeader lets a caller identify itself. Without it the client IP is
// used.
const ClientIDHeader = "X-Client-ID"

// ClientKey identifies the caller for rate limiting and idempotency.
func ClientKey(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(ClientIDHeader)); id != "" {
		return "client:" + id
	}
	return "ip:" + c.ClientIP()
}
