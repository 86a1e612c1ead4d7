package remote

import (
	"errors"
	"fmt"
)

// Kind 考勤流程的错误分类，全部可由用户重试恢复
type Kind string

const (
	KindMediaAccess    Kind = "media_access"
	KindCapture        Kind = "capture"
	KindUpload         Kind = "upload"
	KindPersistence    Kind = "persistence"
	KindNoCheckInFound Kind = "no_check_in_found"
	KindInvalidState   Kind = "invalid_state"
	KindBusy           Kind = "busy"
	KindInvalidPhoto   Kind = "invalid_photo"
)

// UploadCause 上传失败的细分，决定给用户的提示
type UploadCause string

const (
	UploadPermission UploadCause = "permission"
	UploadNetwork    UploadCause = "network"
)

type Error struct {
	Kind    Kind        `json:"kind"`
	Upload  UploadCause `json:"upload,omitempty"`
	Message string      `json:"message"`
	Cause   error       `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is 按 Kind 比较；target 指定了 Upload 时还要求细分一致
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	return t.Upload == "" || e.Upload == t.Upload
}

var (
	ErrMediaAccess      = &Error{Kind: KindMediaAccess, Message: "无法访问摄像头，请检查权限或设备后重试"}
	ErrCapture          = &Error{Kind: KindCapture, Message: "拍照失败，请重新打开摄像头"}
	ErrUploadPermission = &Error{Kind: KindUpload, Upload: UploadPermission, Message: "照片上传被拒绝，请重新登录或联系管理员"}
	ErrUploadNetwork    = &Error{Kind: KindUpload, Upload: UploadNetwork, Message: "照片上传失败，请检查网络后重试"}
	ErrPersistence      = &Error{Kind: KindPersistence, Message: "保存考勤记录失败，请重试"}
	ErrNoCheckInFound   = &Error{Kind: KindNoCheckInFound, Message: "今天还没有签到记录，无法签退"}
	ErrInvalidState     = &Error{Kind: KindInvalidState, Message: "当前状态不允许该操作"}
	ErrBusy             = &Error{Kind: KindBusy, Message: "上一个请求仍在处理中，请稍候"}
	ErrInvalidPhoto     = &Error{Kind: KindInvalidPhoto, Message: "照片格式不正确"}
)

// With 复制一份并挂上原因
func (e *Error) With(cause error) *Error {
	c := *e
	c.Cause = cause
	return &c
}
