package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler handles transaction categories and their assignments.
// Categories are purely descriptive; nothing here touches balances.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryResp struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCategoryResp(cat *models.Category) categoryResp {
	return categoryResp{ID: cat.ID, Name: cat.Name, CreatedAt: cat.CreatedAt}
}

type categoryReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// Create handles POST /categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "category name is required")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "category name is required")
		return
	}

	var count int64
	if err := h.DB.Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?)", req.Name).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to check category")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "category already exists")
		return
	}

	cat := models.Category{Name: req.Name}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to create category")
		return
	}

	c.JSON(http.StatusOK, toCategoryResp(&cat))
}

// List handles GET /categories.
func (h *CategoryHandler) List(c *gin.Context) {
	var cats []models.Category
	if err := h.DB.Order("id ASC").Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to list categories")
		return
	}

	items := make([]categoryResp, 0, len(cats))
	for i := range cats {
		items = append(items, toCategoryResp(&cats[i]))
	}
	c.JSON(http.StatusOK, items)
}

// Update handles PUT /categories/:id.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid category id")
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "category name is required")
		return
	}
	req.Name = strings.TrimSpace(req.Name)

	var cat models.Category
	if err := h.DB.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load category")
		}
		return
	}

	var count int64
	if err := h.DB.Model(&models.Category{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", req.Name, cat.ID).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to check category")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "category name already in use")
		return
	}

	cat.Name = req.Name
	if err := h.DB.Save(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, toCategoryResp(&cat))
}

// Delete handles DELETE /categories/:id.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid category id")
		return
	}

	res := h.DB.Select("Transactions").Delete(&models.Category{ID: uint(id)})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.KindNotFound, "category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category removed"})
}

type assignReq struct {
	TransactionID uint `json:"transactionId" binding:"required"`
	CategoryID    uint `json:"categoryId" binding:"required"`
}

// Assign handles POST /categories/assign, linking a transaction to a
// category.
func (h *CategoryHandler) Assign(c *gin.Context) {
	var req assignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "transactionId and categoryId are required")
		return
	}

	var trx models.Transaction
	if err := h.DB.First(&trx, req.TransactionID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load transaction")
		}
		return
	}

	var cat models.Category
	if err := h.DB.First(&cat, req.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load category")
		}
		return
	}

	if err := h.DB.Model(&trx).Association("Categories").Append(&cat); err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to assign category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category assigned"})
}
