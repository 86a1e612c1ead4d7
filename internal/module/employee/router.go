package employee

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleEmployee) InitRouter(r *gin.RouterGroup) {
	admin := r.Group("/admin/employees", middleware.Auth(jwt.RoleAdmin))
	admin.GET("", List)
	admin.POST("", Create)
	admin.GET("/:id", Get)
	admin.PUT("/:id", Update)
	admin.DELETE("/:id", Delete)
}
