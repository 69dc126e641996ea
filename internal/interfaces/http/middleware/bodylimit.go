package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var bodyTooLarge = gin.H{
	"success": false,
	"error": gin.H{
		"code":    "REQUEST_TOO_LARGE",
		"message": "Request body exceeds the maximum allowed size",
	},
}

// BodyLimit rejects requests whose declared Content-Length exceeds
// maxBytes. The body reader is capped too, so chunked uploads without a
// declared length cannot bypass the check.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, bodyTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
