package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"

	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, method, path string) (int, response.ResponseBody) {
	t.Helper()
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	var body response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func TestRouter(t *testing.T) {
	log = logger.Discard()

	code, body := serve(t, http.MethodGet, "/api/ping")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, int32(200), body.Code)

	code, body = serve(t, http.MethodGet, "/api/no-such-route")
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, response.ErrNotFound.Code, body.Code)

	code, body = serve(t, http.MethodPost, "/api/employee/attendance/check-in")
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, response.ErrTokenInvalid.Code, body.Code)
}
