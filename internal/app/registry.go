package app

import (
	"leavedesk/internal/auth"
	"leavedesk/internal/holidays"
	"leavedesk/internal/leaverequest"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRequestRepo := leaverequest.NewRepository(gormDB)

	// --- Services ---
	authService := auth.NewService(authRepo)
	leaveRequestService := leaverequest.NewService(gormDB, leaveRequestRepo)
	holidaysService := holidays.NewService(rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveRequestHandler := leaverequest.NewHandler(leaveRequestService)
	holidaysHandler := holidays.NewHandler(holidaysService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler)
		leaverequest.RegisterRoutes(api, leaveRequestHandler)
		leaverequest.RegisterAdminRoutes(api, leaveRequestHandler)
		holidays.RegisterRoutes(api, holidaysHandler)
	}
}
