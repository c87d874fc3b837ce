package handler

import (
	"net/http"
	"strconv"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the audit trail written by AuditMiddleware.
type LogHandler struct {
	DB *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{DB: db}
}

type logResp struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"userId,omitempty"`
	RequestID string    `json:"requestId"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Body      string    `json:"body,omitempty"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"createdAt"`
}

// List handles GET /logs with page/page_size pagination, newest first.
func (h *LogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	var total int64
	if err := h.DB.Model(&models.TransactionLog{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to count logs")
		return
	}

	var logs []models.TransactionLog
	if err := h.DB.Order("id DESC").Limit(size).Offset(offset).Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to list logs")
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		items = append(items, logResp{
			ID:        l.ID,
			UserID:    l.UserID,
			RequestID: l.RequestID,
			Method:    l.Method,
			Path:      l.Path,
			Status:    l.Status,
			Body:      l.Body,
			IP:        l.IP,
			CreatedAt: l.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
