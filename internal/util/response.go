package util

import "github.com/gin-gonic/gin"

// Machine-readable error kinds returned in the "error" field.
const (
	KindInvalidArgument = "INVALID_ARGUMENT"
	KindNotFound        = "NOT_FOUND"
	KindConflict        = "CONFLICT"
	KindStorage         = "STORAGE_UNAVAILABLE"
	KindUnauthorized    = "UNAUTHORIZED"
)

// Error writes the structured error object. Handlers never pass raw storage
// error strings as msg.
func Error(c *gin.Context, httpStatus int, kind, msg string) {
	c.JSON(httpStatus, gin.H{
		"error":   kind,
		"message": msg,
	})
}
