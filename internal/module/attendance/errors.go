package attendance

import (
	"errors"

	"attendance-system/internal/attendance/remote"
	"attendance-system/internal/global/response"
)

// toResponseError 把考勤流程的错误分类映射成接口错误码
func toResponseError(err error) *response.Error {
	var re *remote.Error
	if !errors.As(err, &re) {
		return response.ErrServerInternal.WithOrigin(err)
	}

	var base *response.Error
	switch re.Kind {
	case remote.KindMediaAccess:
		base = response.ErrMediaAccess
	case remote.KindCapture:
		base = response.ErrCapture
	case remote.KindUpload:
		if re.Upload == remote.UploadPermission {
			base = response.ErrUploadDenied
		} else {
			base = response.ErrUploadNetwork
		}
	case remote.KindPersistence:
		base = response.ErrDatabase
	case remote.KindNoCheckInFound:
		base = response.ErrNoCheckInFound
	case remote.KindInvalidState:
		base = response.ErrInvalidState
	case remote.KindBusy:
		base = response.ErrBusy
	case remote.KindInvalidPhoto:
		base = response.ErrInvalidRequest.WithTips(re.Message)
	default:
		base = response.ErrServerInternal
	}
	if re.Cause == nil {
		return base
	}
	return base.WithOrigin(re)
}
