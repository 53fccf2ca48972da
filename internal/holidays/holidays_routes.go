package holidays

import (
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/holidays")
	group.Use(middleware.AuthMiddleware())
	{
		group.GET("/:year/:countryCode", handler.GetPublicHolidays)
	}
}
