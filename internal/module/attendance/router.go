package attendance

import (
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleAttendance) InitRouter(r *gin.RouterGroup) {
	h := m.h

	employee := r.Group("/employee/attendance", middleware.Auth(jwt.RoleEmployee))
	employee.GET("/status", h.Status)
	employee.GET("/calendar", h.Calendar)

	camera := employee.Group("/camera")
	camera.POST("/start", h.StartCamera)
	camera.POST("/capture", h.CapturePhoto)
	camera.POST("/cancel", h.CancelCapture)
	camera.POST("/retake", h.Retake)
	camera.GET("/preview", h.Preview)

	employee.POST("/photo", h.AttachPhoto)
	employee.POST("/quick-check-in", h.QuickCheckIn)
	employee.POST("/check-in", h.CheckIn)
	employee.POST("/check-out", h.CheckOut)
	employee.DELETE("/session", h.CloseSession)

	admin := r.Group("/admin/attendance", middleware.Auth(jwt.RoleAdmin))
	admin.GET("", h.List)
	admin.GET("/export", h.Export)
}
