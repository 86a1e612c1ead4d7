package middleware

import (
	"strings"

	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

// Auth 校验 Bearer token，角色低于 minRoleID 时拒绝
func Auth(minRoleID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		}

		payload, valid := jwt.ParseToken(token)
		switch {
		case !valid:
			response.Fail(c, response.ErrTokenInvalid)
			c.Abort()
			return
		case payload.RoleID < minRoleID:
			response.Fail(c, response.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(jwt.PayloadContextKey, payload)
		c.Next()
	}
}
