package dashboard

import (
	"testing"
	"time"

	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/test"

	"github.com/stretchr/testify/require"
)

func init() {
	log = logger.Discard()
}

func TestLastDaysAndChart(t *testing.T) {
	today, err := model.ParseDate("2026-03-02")
	require.NoError(t, err)

	days := lastDays(today, 7)
	require.Len(t, days, 7)
	require.Equal(t, "2026-02-24", model.FormatDate(days[0]))
	require.Equal(t, "2026-03-02", model.FormatDate(days[6]))

	chart := fillChart(days, map[string]int{"2026-02-27": 3, "2026-03-02": 5})
	require.Equal(t, ChartPoint{Date: "2026-02-24", Present: 0}, chart[0])
	require.Equal(t, ChartPoint{Date: "2026-02-27", Present: 3}, chart[3])
	require.Equal(t, ChartPoint{Date: "2026-03-02", Present: 5}, chart[6])
}

func TestToActivities(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 5, 0, 0, time.Local)
	rows := []model.Attendance{
		{Date: model.DateOf(in), CheckInTime: &in, Employee: &model.Employee{Name: "Alice"}},
		{Date: model.DateOf(in)},
	}
	out := toActivities(rows)
	require.Len(t, out, 2)
	require.Equal(t, Activity{EmployeeName: "Alice", Date: "2026-03-02", CheckIn: "09:05"}, out[0])
	require.Empty(t, out[1].EmployeeName)
	require.Empty(t, out[1].CheckIn)
}

func TestEmployee_NoEmployee(t *testing.T) {
	resp := test.DoRequest(t, Employee, nil)
	require.Equal(t, response.ErrForbidden.Code, resp.Code)
}
