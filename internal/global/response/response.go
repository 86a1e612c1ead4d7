package response

import (
	"errors"
	"fmt"
	"net/http"

	"attendance-system/config"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/sentry"

	"github.com/gin-gonic/gin"
)

const codeSuccess int32 = 200

// ResponseBody 统一响应体
type ResponseBody struct {
	Code   int32  `json:"code"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
	Origin string `json:"origin,omitempty"`
}

// Success 返回成功响应，data 可省略
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{Code: codeSuccess, Msg: "success"}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 返回错误响应；非 *Error 的错误统一视为服务器内部错误
func Fail(c *gin.Context, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = ErrServerInternal.WithOrigin(err)
	}

	body := ResponseBody{Code: e.Code, Msg: e.Message}
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}

	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	sentry.CaptureException(c, e)
	c.JSON(e.HTTPStatus(), body)
}

// Recovery 在 defer 中调用，把 panic 转成 500 响应
func Recovery(c *gin.Context) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	logger.New("Recovery").Error("请求处理发生 panic", "error", err, "path", c.Request.URL.Path)
	Fail(c, ErrServerInternal.WithOrigin(err))
	c.Abort()
}
