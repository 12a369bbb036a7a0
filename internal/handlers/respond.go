package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// RespondError writes a stable JSON error message with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// LogAndRespondError logs the underlying error and responds with a generic
// message. Internal errors are never serialized into the response.
func LogAndRespondError(c *gin.Context, status int, err error, message string) {
	slog.Error(message,
		"error", err,
		"status", status,
		"path", c.FullPath(),
	)
	RespondError(c, status, message)
}
