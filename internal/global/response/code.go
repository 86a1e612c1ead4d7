package response

var (
	ErrInvalidRequest  = newError(4000, "请求参数错误")
	ErrInvalidPassword = newError(4001, "用户名或密码错误")
	ErrTokenInvalid    = newError(4010, "登录状态无效，请重新登录")
	ErrUnauthorized    = newError(4030, "权限不足")
	ErrForbidden       = newError(4031, "禁止操作")
	ErrNotFound        = newError(4040, "资源不存在")
	ErrAlreadyExists   = newError(4090, "资源已存在")
	ErrInvalidState    = newError(4091, "当前状态不允许该操作")
	ErrBusy            = newError(4092, "上一个请求仍在处理中，请稍候")
	ErrNoCheckInFound  = newError(4093, "今天还没有签到记录，无法签退")
	ErrMediaAccess     = newError(4220, "无法访问摄像头，请检查权限或设备")
	ErrCapture         = newError(4221, "拍照失败，请重新打开摄像头")
	ErrUploadDenied    = newError(4222, "照片上传被拒绝，请重新登录或联系管理员")
	ErrInsufficient    = newError(4223, "假期余额不足")

	ErrServerInternal = newError(5000, "服务器内部错误")
	ErrDatabase       = newError(5001, "数据库错误")
	ErrUploadNetwork  = newError(5020, "照片上传失败，请检查网络后重试")
	ErrStorage        = newError(5021, "存储服务错误")
)
