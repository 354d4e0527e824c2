package router

import (
	"github.com/Alok-Vaishnav/TrackMint/internal/config"
	"github.com/Alok-Vaishnav/TrackMint/internal/handler"
	"github.com/Alok-Vaishnav/TrackMint/internal/middleware"
	"github.com/Alok-Vaishnav/TrackMint/internal/repository"
	"github.com/Alok-Vaishnav/TrackMint/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/auth/me", handler.GetMe)
	protected.POST("/auth/password", handler.ChangePassword(db))

	expenseRepo := repository.NewExpenseRepository(db)
	expenseHandler := handler.NewExpenseHandler(expenseRepo)
	insightsHandler := handler.NewInsightsHandler(service.NewInsightsService(expenseRepo))

	// insights 路由必须注册在 :id 路由之前
	protected.GET("/expenses/insights/monthly", insightsHandler.GetMonthlySummary)

	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.PUT("/expenses/:id", expenseHandler.UpdateExpense)
	protected.DELETE("/expenses/:id", expenseHandler.DeleteExpense)

	return r
}
