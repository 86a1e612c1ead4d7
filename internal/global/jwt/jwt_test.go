package jwt

import (
	"testing"

	"attendance-system/config"

	"github.com/stretchr/testify/require"
)

func TestCreateAndParseToken(t *testing.T) {
	c := config.Default()
	c.JWT.AccessSecret = "secret"
	config.Set(c)

	token, err := CreateToken(Payload{UserID: "u1", Username: "alice", EmployeeID: "e1", RoleID: RoleEmployee})
	require.NoError(t, err)

	claims, ok := ParseToken(token)
	require.True(t, ok)
	require.Equal(t, "e1", claims.EmployeeID)
	require.False(t, claims.IsAdmin())

	_, ok = ParseToken(token + "x")
	require.False(t, ok)
}

func TestParseToken_Expired(t *testing.T) {
	c := config.Default()
	c.JWT.AccessSecret = "secret"
	c.JWT.AccessExpire = -10
	config.Set(c)

	token, err := CreateToken(Payload{UserID: "u1"})
	require.NoError(t, err)
	_, ok := ParseToken(token)
	require.False(t, ok)
}
