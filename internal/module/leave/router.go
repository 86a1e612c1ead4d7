package leave

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleLeave) InitRouter(r *gin.RouterGroup) {
	employee := r.Group("/employee/leave", middleware.Auth(jwt.RoleEmployee))
	employee.GET("", ListMine)
	employee.POST("", Apply)
	employee.GET("/balance", Balance)
	employee.GET("/types", ListTypes)

	admin := r.Group("/admin/leave", middleware.Auth(jwt.RoleAdmin))
	admin.GET("", ListAll)
	admin.PUT("/:id/status", UpdateStatus)
	admin.GET("/types", ListTypes)
	admin.POST("/types", CreateType)
	admin.PUT("/types/:id", UpdateType)
	admin.DELETE("/types/:id", DeleteType)
	admin.POST("/balance", SetBalance)
}
