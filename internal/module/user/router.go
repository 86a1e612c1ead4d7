package user

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	userGroup.POST("/login", Login)
	userGroup.POST("/register", middleware.Auth(jwt.RoleAdmin), Register)
	userGroup.POST("/password", middleware.Auth(jwt.RoleEmployee), ChangePassword)
	userGroup.GET("/me", middleware.Auth(jwt.RoleEmployee), Me)
}
