package app

import (
	"os"

	"leavedesk/internal/db"
	"leavedesk/internal/middleware"
	"leavedesk/internal/shared/connection"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, applies migrations and wires every
// module onto the router.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	if err := db.RunMigrations(sqlDB, zap.L()); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(cors.Default())
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "leavedesk server is running"})
	})

	registerModules(router, gormDB, redisClient)

	return nil
}
