package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type requestOptions struct {
	method  string
	target  string
	payload *jwt.Claims
	params  gin.Params
}

type Option func(*requestOptions)

// WithMethod 默认 POST
func WithMethod(method string) Option {
	return func(o *requestOptions) { o.method = method }
}

// WithTarget 请求路径，可以带查询参数
func WithTarget(target string) Option {
	return func(o *requestOptions) { o.target = target }
}

// WithPayload 模拟 Auth 中间件写入的登录信息
func WithPayload(payload jwt.Payload) Option {
	return func(o *requestOptions) { o.payload = &jwt.Claims{Payload: payload} }
}

func WithParam(key, value string) Option {
	return func(o *requestOptions) { o.params = append(o.params, gin.Param{Key: key, Value: value}) }
}

// Do 直接调用 handler，返回原始响应
func Do(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...Option) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	o := requestOptions{method: http.MethodPost, target: "/test"}
	for _, opt := range opts {
		opt(&o)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var body *bytes.Reader
	if request != nil {
		requestBytes, err := json.Marshal(request)
		require.NoError(t, err)
		body = bytes.NewReader(requestBytes)
	} else {
		body = bytes.NewReader(nil)
	}
	c.Request = httptest.NewRequest(o.method, o.target, body)
	if request != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	c.Params = o.params
	if o.payload != nil {
		c.Set(jwt.PayloadContextKey, o.payload)
	}
	handlerFunc(c)
	return w
}

// DoRequest 调用 handler 并解析统一响应体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, request any, opts ...Option) (resp response.ResponseBody) {
	t.Helper()
	w := Do(t, handlerFunc, request, opts...)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// DecodeData 把响应里的 data 解析到 v
func DecodeData(t *testing.T, resp response.ResponseBody, v any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}
