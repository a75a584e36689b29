// Package api holds the response envelope shared by all HTTP handlers.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Error writes the structured error envelope. details carries non-sensitive
// diagnostics and is only filled by handlers running in dev mode; pass ""
// otherwise.
func Error(c *gin.Context, status int, message, details string) {
	body := gin.H{
		"success":    false,
		"statusCode": status,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"message":    message,
	}
	if details != "" {
		body["details"] = details
	}
	c.JSON(status, body)
}
