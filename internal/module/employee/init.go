package employee

import (
	"log/slog"

	"attendance-system/internal/global/logger"
)

var log *slog.Logger

type ModuleEmployee struct{}

func (m *ModuleEmployee) GetName() string {
	return "Employee"
}

func (m *ModuleEmployee) Init() {
	log = logger.New("Employee")
}
