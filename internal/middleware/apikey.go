package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/IgnacyBerent/biomed-kb-api/internal/service"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/response"
)

// AuthKeyHeader names the header carrying the read-API key.
const AuthKeyHeader = "Auth-Key"

// APIKey gates the external read API. The key is checked against the stored
// credential hash independently of any session; a missing or wrong key is
// rejected before any data is touched.
func APIKey(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authService.VerifyAPIKey(c.Request.Context(), c.GetHeader(AuthKeyHeader)); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
