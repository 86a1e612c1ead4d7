package module

import (
	"attendance-system/internal/module/attendance"
	"attendance-system/internal/module/dashboard"
	"attendance-system/internal/module/employee"
	"attendance-system/internal/module/leave"
	"attendance-system/internal/module/payroll"
	"attendance-system/internal/module/ping"
	"attendance-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

// Closer 持有后台资源的模块在退出时释放
type Closer interface {
	Close()
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

// CloseAll 倒序关闭实现了 Closer 的模块
func CloseAll() {
	for i := len(Modules) - 1; i >= 0; i-- {
		if c, ok := Modules[i].(Closer); ok {
			c.Close()
		}
	}
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&employee.ModuleEmployee{},
		&attendance.ModuleAttendance{},
		&leave.ModuleLeave{},
		&payroll.ModulePayroll{},
		&dashboard.ModuleDashboard{},
	})
}
