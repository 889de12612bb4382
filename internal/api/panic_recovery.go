package api

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
)

// CustomRecoveryMiddleware recovers from panics in handlers, logs the stack
// trace and answers 500. Production responses carry a generic message.
func CustomRecoveryMiddleware(logger observability.Logger, environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered", map[string]interface{}{
					"error":       fmt.Sprintf("%v", err),
					"path":        c.Request.URL.Path,
					"method":      c.Request.Method,
					"request_id":  c.GetString(requestIDKey),
					"stack":       string(debug.Stack()),
					"environment": environment,
				})

				if environment == "production" {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error": "An internal server error occurred",
					})
					return
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": fmt.Sprintf("Internal server error: %v", err),
					"type":  "panic",
				})
			}
		}()
		c.Next()
	}
}
