package middleware

import (
	"bytes"
	"io"
	"net/http"

	"finance-control/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxLoggedBody = 2000

// AuditMiddleware records mutating requests to the transaction_logs table.
// Reads are not logged.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		var userID *uint
		if user, ok := CurrentUser(c); ok {
			userID = &user.ID
		}

		body := ""
		if len(bodyBytes) > 0 && len(bodyBytes) < maxLoggedBody {
			body = string(bodyBytes)
		}

		entry := models.TransactionLog{
			UserID:    userID,
			RequestID: c.GetString("requestID"),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			Body:      body,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		if err := db.Create(&entry).Error; err != nil {
			logrus.WithError(err).Warn("write audit log")
		}
	}
}
