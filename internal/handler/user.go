package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finance-control/internal/middleware"
	"finance-control/internal/models"
	"finance-control/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserHandler handles user registration and CRUD.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, bcryptCost int) *UserHandler {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserHandler{DB: db, BcryptCost: bcryptCost}
}

type userResp struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

type registerReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /users.
func (h *UserHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "incomplete user body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !usernameRe.MatchString(req.Username) {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "username must be 3-20 letters, digits or underscores")
		return
	}
	if !emailRe.MatchString(req.Email) {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid email address")
		return
	}
	if len(req.Password) < 8 || len(req.Password) > 72 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "password must be 8-72 characters")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) OR email = ?", req.Username, req.Email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to check user")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "username or email already in use")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to hash password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to create user")
		return
	}

	c.JSON(http.StatusOK, toUserResp(&user))
}

// List handles GET /users.
func (h *UserHandler) List(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to list users")
		return
	}

	items := make([]userResp, 0, len(users))
	for i := range users {
		items = append(items, toUserResp(&users[i]))
	}
	c.JSON(http.StatusOK, items)
}

type updateUserReq struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Update handles PUT /users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid user id")
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "malformed user body")
		return
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.KindNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to load user")
		}
		return
	}

	if req.Username != nil {
		name := strings.TrimSpace(*req.Username)
		if !usernameRe.MatchString(name) {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "username must be 3-20 letters, digits or underscores")
			return
		}
		user.Username = name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailRe.MatchString(email) {
			util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid email address")
			return
		}
		user.Email = email
	}

	if err := h.DB.Save(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, toUserResp(&user))
}

// Delete handles DELETE /users/:id. Accounts and their transactions cascade.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.KindInvalidArgument, "invalid user id")
		return
	}

	res := h.DB.Delete(&models.User{}, id)
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.KindStorage, "failed to delete user")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.KindNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user removed"})
}

// GetMe returns the authenticated user (requires AuthMiddleware).
func GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.KindUnauthorized, "authentication required")
		return
	}
	c.JSON(http.StatusOK, toUserResp(user))
}
