package handler

import (
	"net/http"
	"strconv"
	"time"

	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountHandler handles account CRUD. Balances are only ever written here at
// account creation; afterwards the ledger owns them.
type AccountHandler struct {
	DB *gorm.DB
}

func NewAccountHandler(db *gorm.DB) *AccountHandler {
	return &AccountHandler{DB: db}
}

type accountResp struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"userId"`
	Institution string    `json:"institution"`
	AccountType string    `json:"accountType"`
	Balance     float64   `json:"balance"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAccountResp(a *models.Account) accountResp {
	return accountResp{
		ID:          a.ID,
		UserID:      a.UserID,
		Institution: a.Institution,
		AccountType: a.AccountType,
		Balance:     util.CentsToFloat(a.BalanceCents),
		CreatedAt:   a.CreatedAt,
	}
}

type createAccountReq struct {
	UserID      uint     `json:"userId" binding:"required"`
	Institution string   `json:"institution" binding:"required,max=128"`
	AccountType string   `json:"accountType" binding:"required,max=64"`
	Balance     *float64 `json:"balance" binding:"required"`
}

// Create handles POST /accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req createAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "incomplete account body")
		return
	}

	balanceCents, err := util.ToCents(decimal.NewFromFloat(*req.Balance))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid initial balance")
		return
	}

	var user models.User
	if err := h.DB.First(&user, req.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load user")
		}
		return
	}

	account := models.Account{
		UserID:       req.UserID,
		Institution:  req.Institution,
		AccountType:  req.AccountType,
		BalanceCents: balanceCents,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to create account")
		return
	}

	c.JSON(http.StatusOK, toAccountResp(&account))
}

// List handles GET /accounts.
func (h *AccountHandler) List(c *gin.Context) {
	q := h.DB.Model(&models.Account{})
	if s := c.Query("userId"); s != "" {
		userID, err := strconv.Atoi(s)
		if err != nil || userID <= 0 {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid user id")
			return
		}
		q = q.Where("user_id = ?", userID)
	}

	var accounts []models.Account
	if err := q.Order("id ASC").Find(&accounts).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to list accounts")
		return
	}

	items := make([]accountResp, 0, len(accounts))
	for i := range accounts {
		items = append(items, toAccountResp(&accounts[i]))
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /accounts/:id.
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
		return
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load account")
		}
		return
	}

	c.JSON(http.StatusOK, toAccountResp(&account))
}

type updateAccountReq struct {
	Institution *string `json:"institution" binding:"omitempty,max=128"`
	AccountType *string `json:"accountType" binding:"omitempty,max=64"`
}

// Update handles PUT /accounts/:id. Only metadata is mutable; the balance
// moves exclusively through ledger operations.
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
		return
	}

	var req updateAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "malformed account body")
		return
	}

	var account models.Account
	if err := h.DB.First(&account, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "account not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load account")
		}
		return
	}

	if req.Institution != nil {
		account.Institution = *req.Institution
	}
	if req.AccountType != nil {
		account.AccountType = *req.AccountType
	}

	if err := h.DB.Save(&account).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to update account")
		return
	}

	c.JSON(http.StatusOK, toAccountResp(&account))
}

// Delete handles DELETE /accounts/:id. Transactions cascade with the account.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid account id")
		return
	}

	res := h.DB.Delete(&models.Account{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to delete account")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.KindNotFound, "account not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account removed"})
}
