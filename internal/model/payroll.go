package model

import "github.com/google/uuid"

const (
	PayrollDraft = "draft"
	PayrollPaid  = "paid"
)

// Payroll 员工月度工资条，Month 形如 2006-01
type Payroll struct {
	Model
	EmployeeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_employee_month,priority:1" json:"employee_id" excel:"-"`
	Month       string    `gorm:"type:char(7);not null;uniqueIndex:idx_employee_month,priority:2" json:"month" excel:"月份"`
	BaseSalary  float64   `gorm:"type:decimal(12,2)" json:"base_salary" excel:"基本工资"`
	Bonus       float64   `gorm:"type:decimal(12,2)" json:"bonus" excel:"奖金"`
	Deductions  float64   `gorm:"type:decimal(12,2)" json:"deductions" excel:"扣款"`
	NetSalary   float64   `gorm:"type:decimal(12,2)" json:"net_salary" excel:"实发"`
	WorkingDays int       `json:"working_days" excel:"应出勤天数"`
	PresentDays int       `json:"present_days" excel:"出勤天数"`
	LeavesTaken int       `json:"leaves_taken" excel:"请假天数"`
	Status      string    `gorm:"type:varchar(16);default:draft" json:"status" excel:"状态"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty" excel:"-"`
}
