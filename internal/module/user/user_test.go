package user

import (
	"testing"

	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/test"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	log = logger.Discard()
}

func TestValidatePasswordStrength(t *testing.T) {
	require.Error(t, validatePasswordStrength(""))
	require.Error(t, validatePasswordStrength("12345"))
	require.NoError(t, validatePasswordStrength("123456"))
}

func TestPayloadOf(t *testing.T) {
	empID := uuid.New()
	user := model.User{Username: "alice", RoleID: jwt.RoleEmployee, EmployeeID: &empID}
	user.ID = uuid.New()

	p := payloadOf(&user)
	require.Equal(t, user.ID.String(), p.UserID)
	require.Equal(t, "alice", p.Username)
	require.Equal(t, empID.String(), p.EmployeeID)

	admin := model.User{Username: "root", RoleID: jwt.RoleAdmin}
	require.Empty(t, payloadOf(&admin).EmployeeID)
}

func TestLogin_InvalidRequest(t *testing.T) {
	resp := test.DoRequest(t, Login, map[string]string{"username": "alice"})
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}

func TestRegister_WeakPassword(t *testing.T) {
	resp := test.DoRequest(t, Register, RegisterRequest{Username: "bob", Password: "123"})
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}

func TestMe_NoPayload(t *testing.T) {
	resp := test.DoRequest(t, Me, nil)
	test.ErrorEqual(t, response.ErrTokenInvalid, resp)
}
