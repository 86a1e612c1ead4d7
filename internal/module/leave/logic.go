package leave

import (
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceView 某类假期当年的额度
type BalanceView struct {
	LeaveTypeID uuid.UUID `json:"leave_type_id"`
	Name        string    `json:"name"`
	TotalDays   int       `json:"total_days"`
	UsedDays    int       `json:"used_days"`
	Remaining   int       `json:"remaining"`
}

// buildBalances 每个假期类型一行，没有额度记录的按类型默认天数
func buildBalances(types []model.LeaveType, balances []model.LeaveBalance) []BalanceView {
	byType := make(map[uuid.UUID]*model.LeaveBalance, len(balances))
	for i := range balances {
		byType[balances[i].LeaveTypeID] = &balances[i]
	}
	views := make([]BalanceView, 0, len(types))
	for _, lt := range types {
		v := BalanceView{LeaveTypeID: lt.ID, Name: lt.Name, TotalDays: lt.DefaultDays}
		if b, ok := byType[lt.ID]; ok {
			v.TotalDays = b.TotalDays
			v.UsedDays = b.UsedDays
		}
		v.Remaining = v.TotalDays - v.UsedDays
		views = append(views, v)
	}
	return views
}

// validateRange 开始不晚于结束，且不早于今天
func validateRange(start, end, today datatypes.Date) *response.Error {
	s, e := model.FormatDate(start), model.FormatDate(end)
	switch {
	case s > e:
		return response.ErrInvalidRequest.WithTips("开始日期不能晚于结束日期")
	case s < model.FormatDate(today):
		return response.ErrInvalidRequest.WithTips("不能为过去的日期请假")
	}
	return nil
}

// validateTransition 只有 pending 可以被审批
func validateTransition(current, next string) *response.Error {
	if next != model.LeaveApproved && next != model.LeaveRejected {
		return response.ErrInvalidRequest.WithTips("状态只能是 approved 或 rejected")
	}
	if current != model.LeavePending {
		return response.ErrInvalidState.WithTips("该申请已处理")
	}
	return nil
}

// deductBalance 批准时从请假开始那一年的额度中扣除天数，额度不足返回 ErrInsufficient
func deductBalance(tx *gorm.DB, leave *model.Leave) error {
	var lt model.LeaveType
	if err := tx.First(&lt, "id = ?", leave.LeaveTypeID).Error; err != nil {
		return err
	}
	year := time.Time(leave.StartDate).Year()

	var balance model.LeaveBalance
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(model.LeaveBalance{EmployeeID: leave.EmployeeID, LeaveTypeID: leave.LeaveTypeID, Year: year}).
		Attrs(model.LeaveBalance{TotalDays: lt.DefaultDays}).
		FirstOrCreate(&balance).Error
	if err != nil {
		return err
	}

	days := leave.Days()
	if balance.Remaining() < days {
		return response.ErrInsufficient.WithTips(lt.Name)
	}
	return tx.Model(&balance).Update("used_days", gorm.Expr("used_days + ?", days)).Error
}

func today() datatypes.Date {
	return model.DateOf(time.Now().In(config.Get().Attendance.Location()))
}
