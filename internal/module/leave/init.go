package leave

import (
	"log/slog"

	"attendance-system/internal/global/logger"
)

var log *slog.Logger

type ModuleLeave struct{}

func (m *ModuleLeave) GetName() string {
	return "Leave"
}

func (m *ModuleLeave) Init() {
	log = logger.New("Leave")
}
