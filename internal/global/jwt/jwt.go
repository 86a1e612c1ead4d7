package jwt

import (
	"time"

	"attendance-system/config"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	RoleEmployee = 0
	RoleAdmin    = 1
)

// Payload 写入 token 的用户信息
type Payload struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	EmployeeID string `json:"employee_id,omitempty"` // 管理员可以不关联员工
	RoleID     int    `json:"role_id"`
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

func (c *Claims) IsAdmin() bool {
	return c.RoleID >= RoleAdmin
}

// CreateToken 签发 HS256 token
func CreateToken(payload Payload) (string, error) {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
			Issuer:    "attendance-system",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.AccessSecret))
}

// ParseToken 校验签名和过期时间
func ParseToken(token string) (*Claims, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	return claims, true
}

// Employee 当前用户关联的员工，未关联时返回 false
func (c *Claims) Employee() (uuid.UUID, bool) {
	id, err := uuid.Parse(c.EmployeeID)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
