package payroll

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModulePayroll) InitRouter(r *gin.RouterGroup) {
	admin := r.Group("/admin/payroll", middleware.Auth(jwt.RoleAdmin))
	admin.GET("", List)
	admin.POST("/generate", Generate)
	admin.GET("/export", Export)
	admin.PUT("/:id", Update)
}
