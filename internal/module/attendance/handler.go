package attendance

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"log/slog"
	"net/http"

	"attendance-system/internal/attendance/capture"
	"attendance-system/internal/attendance/remote"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"
	"attendance-system/internal/media"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const previewQuality = 80

// PhotoSigner 管理端查看照片时把私有桶地址换成临时链接
type PhotoSigner interface {
	PresignedPhotoURL(ctx context.Context, photoURL string) string
}

type Handler struct {
	registry      *capture.Registry
	client        *remote.Client
	photos        PhotoSigner
	db            *gorm.DB
	maxPhotoBytes int
}

func NewHandler(registry *capture.Registry, client *remote.Client, photos PhotoSigner, db *gorm.DB, maxPhotoBytes int) *Handler {
	return &Handler{
		registry:      registry,
		client:        client,
		photos:        photos,
		db:            db,
		maxPhotoBytes: maxPhotoBytes,
	}
}

// controller 取当前员工的拍照会话，失败时已写好响应
func (h *Handler) controller(c *gin.Context) (*capture.Controller, bool) {
	employeeID, ok := jwt.CurrentEmployee(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("当前账号未关联员工"))
		return nil, false
	}
	ctrl, err := h.registry.Get(c.Request.Context(), employeeID)
	if err != nil {
		requestLog(c).Error("读取今日考勤失败", "error", err)
		response.Fail(c, toResponseError(err))
		return nil, false
	}
	return ctrl, true
}

// requestLog 带请求方 IP 和当前员工的日志
func requestLog(c *gin.Context) *slog.Logger {
	l := logger.Request(log, c)
	if employeeID, ok := jwt.CurrentEmployee(c); ok {
		l = l.With("employee_id", employeeID)
	}
	return l
}

func reply(c *gin.Context, snap capture.Snapshot, err error) {
	if err != nil {
		response.Fail(c, toResponseError(err))
		return
	}
	response.Success(c, snap)
}

// bindConstraints 请求体可省略，省略的字段使用默认值
func bindConstraints(c *gin.Context) (media.Constraints, error) {
	constraints := media.DefaultConstraints()
	if c.Request.ContentLength == 0 {
		return constraints, nil
	}
	err := c.ShouldBindJSON(&constraints)
	return constraints, err
}

// Status 今天的签到状态和拍照流程状态
func (h *Handler) Status(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	response.Success(c, ctrl.Snapshot())
}

func (h *Handler) StartCamera(c *gin.Context) {
	constraints, err := bindConstraints(c)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.StartCamera(c.Request.Context(), constraints)
	if err != nil {
		requestLog(c).Warn("打开摄像头失败", "error", err)
	}
	reply(c, snap, err)
}

func (h *Handler) CapturePhoto(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.CapturePhoto(c.Request.Context())
	reply(c, snap, err)
}

func (h *Handler) CancelCapture(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.CancelCapture()
	reply(c, snap, err)
}

func (h *Handler) Retake(c *gin.Context) {
	constraints, err := bindConstraints(c)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.Retake(c.Request.Context(), constraints)
	reply(c, snap, err)
}

// Preview 摄像头打开期间的当前帧，jpeg
func (h *Handler) Preview(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	img, err := ctrl.Preview().Frame(c.Request.Context())
	switch {
	case errors.Is(err, media.ErrNoStream):
		response.Fail(c, response.ErrInvalidState.WithTips("摄像头未打开"))
		return
	case err != nil:
		response.Fail(c, response.ErrCapture.WithOrigin(err))
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: previewQuality}); err != nil {
		response.Fail(c, response.ErrCapture.WithOrigin(err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

type photoRequest struct {
	Image string `json:"image" binding:"required"` // data URL
}

// AttachPhoto 使用客户端自己拍的照片，代替服务端摄像头抓帧
func (h *Handler) AttachPhoto(c *gin.Context) {
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.AttachPhoto(req.Image, h.maxPhotoBytes)
	reply(c, snap, err)
}

func (h *Handler) QuickCheckIn(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.QuickCheckIn(c.Request.Context())
	if err == nil {
		requestLog(c).Info("快速签到", "time", snap.CheckInTime)
	}
	reply(c, snap, err)
}

func (h *Handler) CheckIn(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.CheckInWithPhoto(c.Request.Context())
	if err == nil {
		requestLog(c).Info("拍照签到", "time", snap.CheckInTime)
	}
	reply(c, snap, err)
}

func (h *Handler) CheckOut(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	snap, err := ctrl.CheckOutWithPhoto(c.Request.Context())
	if err == nil {
		requestLog(c).Info("拍照签退", "time", snap.CheckOutTime)
	}
	reply(c, snap, err)
}

// CloseSession 离开考勤页面时释放摄像头
func (h *Handler) CloseSession(c *gin.Context) {
	employeeID, ok := jwt.CurrentEmployee(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("当前账号未关联员工"))
		return
	}
	response.Success(c, gin.H{"closed": h.registry.Close(employeeID)})
}
