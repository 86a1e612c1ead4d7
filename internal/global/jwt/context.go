package jwt

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PayloadContextKey Auth 中间件写入 gin.Context 的键
const PayloadContextKey = "payload"

func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get(PayloadContextKey)
	userPayload, exist = payload.(*Claims)
	return
}

// CurrentEmployee 当前登录用户关联的员工 ID
func CurrentEmployee(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetUserPayload(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.Employee()
}
