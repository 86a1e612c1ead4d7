package payroll

import (
	"log/slog"

	"attendance-system/internal/global/logger"
)

var log *slog.Logger

type ModulePayroll struct{}

func (m *ModulePayroll) GetName() string {
	return "Payroll"
}

func (m *ModulePayroll) Init() {
	log = logger.New("Payroll")
}
