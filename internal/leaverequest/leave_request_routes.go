package leaverequest

import (
	"leavedesk/internal/auth"
	"leavedesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	requests := r.Group("/leave-requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("", handler.Create)
		requests.GET("", handler.GetMine)
		requests.GET("/:id", handler.GetById)
		requests.PUT("/:id", handler.Update)
		requests.DELETE("/:id", handler.Delete)
	}
}

// RegisterAdminRoutes mounts the admin surface. The service itself never
// checks roles; these routes are the only path to GetAll/Approve/Reject.
func RegisterAdminRoutes(r *gin.RouterGroup, handler *Handler) {
	admin := r.Group("/admin/leave-requests")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(auth.RoleAdmin))
	{
		admin.GET("", handler.GetAll)
		admin.PATCH("/:id/approve", handler.Approve)
		admin.PATCH("/:id/reject", handler.Reject)
	}
}
