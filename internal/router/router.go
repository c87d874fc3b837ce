package router

import (
	"finance-control/internal/config"
	"finance-control/internal/handler"
	"finance-control/internal/ledger"
	"finance-control/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the gin engine and wires all handlers.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.RequestID(), middleware.AuditMiddleware(db))

	jwtSecret := cfg.JWT.Secret

	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	r.POST("/auth/login", authHandler.Login)

	userHandler := handler.NewUserHandler(db, cfg.Security.BcryptCost)
	r.POST("/users", userHandler.Register)
	r.GET("/users", userHandler.List)
	r.PUT("/users/:id", userHandler.Update)
	r.DELETE("/users/:id", userHandler.Delete)

	accountHandler := handler.NewAccountHandler(db)
	r.POST("/accounts", accountHandler.Create)
	r.GET("/accounts", accountHandler.List)
	r.GET("/accounts/:id", accountHandler.Get)
	r.PUT("/accounts/:id", accountHandler.Update)
	r.DELETE("/accounts/:id", accountHandler.Delete)

	transactionHandler := handler.NewTransactionHandler(ledger.New(db))
	r.POST("/accounts/:id/transactions", transactionHandler.Create)
	r.GET("/transactions", transactionHandler.List)
	r.PUT("/transactions/:id", transactionHandler.Update)
	r.DELETE("/transactions/:id", transactionHandler.Delete)

	categoryHandler := handler.NewCategoryHandler(db)
	r.POST("/categories", categoryHandler.Create)
	r.GET("/categories", categoryHandler.List)
	r.PUT("/categories/:id", categoryHandler.Update)
	r.DELETE("/categories/:id", categoryHandler.Delete)
	r.POST("/categories/assign", categoryHandler.Assign)

	statsHandler := handler.NewStatsHandler(db)
	r.GET("/stats/summary", statsHandler.Summary)
	r.GET("/stats/monthly", statsHandler.Monthly)

	// endpoints that expose history or bulk data require a login
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/me", handler.GetMe)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.CSV)
	protected.GET("/export/xlsx", exportHandler.XLSX)

	logHandler := handler.NewLogHandler(db)
	protected.GET("/logs", logHandler.List)

	return r
}
