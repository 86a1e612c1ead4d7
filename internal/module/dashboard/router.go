package dashboard

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleDashboard) InitRouter(r *gin.RouterGroup) {
	r.GET("/admin/dashboard", middleware.Auth(jwt.RoleAdmin), Admin)
	r.GET("/employee/dashboard", middleware.Auth(jwt.RoleEmployee), Employee)
}
