package leave

import (
	"testing"

	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/test"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func init() {
	log = logger.Discard()
}

func mustDate(t *testing.T, s string) datatypes.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestBuildBalances(t *testing.T) {
	annual := model.LeaveType{Name: "年假", DefaultDays: 10}
	annual.ID = uuid.New()
	sick := model.LeaveType{Name: "病假", DefaultDays: 5}
	sick.ID = uuid.New()

	views := buildBalances(
		[]model.LeaveType{annual, sick},
		[]model.LeaveBalance{{LeaveTypeID: annual.ID, TotalDays: 12, UsedDays: 4}},
	)
	require.Len(t, views, 2)
	require.Equal(t, BalanceView{LeaveTypeID: annual.ID, Name: "年假", TotalDays: 12, UsedDays: 4, Remaining: 8}, views[0])
	require.Equal(t, BalanceView{LeaveTypeID: sick.ID, Name: "病假", TotalDays: 5, Remaining: 5}, views[1])
}

func TestValidateRange(t *testing.T) {
	today := mustDate(t, "2026-03-04")
	d := func(s string) datatypes.Date { return mustDate(t, s) }

	require.Nil(t, validateRange(d("2026-03-04"), d("2026-03-06"), today))
	require.Nil(t, validateRange(d("2026-03-05"), d("2026-03-05"), today))
	require.ErrorIs(t, validateRange(d("2026-03-06"), d("2026-03-05"), today), response.ErrInvalidRequest)
	require.ErrorIs(t, validateRange(d("2026-03-01"), d("2026-03-05"), today), response.ErrInvalidRequest)
}

func TestValidateTransition(t *testing.T) {
	require.Nil(t, validateTransition(model.LeavePending, model.LeaveApproved))
	require.Nil(t, validateTransition(model.LeavePending, model.LeaveRejected))
	require.ErrorIs(t, validateTransition(model.LeavePending, model.LeavePending), response.ErrInvalidRequest)
	require.ErrorIs(t, validateTransition(model.LeaveApproved, model.LeaveRejected), response.ErrInvalidState)
	require.ErrorIs(t, validateTransition(model.LeaveRejected, model.LeaveApproved), response.ErrInvalidState)
}

func TestApply_Rejections(t *testing.T) {
	resp := test.DoRequest(t, Apply, ApplyRequest{})
	require.Equal(t, response.ErrForbidden.Code, resp.Code)

	as := test.WithPayload(jwt.Payload{EmployeeID: uuid.NewString()})
	resp = test.DoRequest(t, Apply, map[string]any{"start_date": "2026-03-04"}, as)
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)

	resp = test.DoRequest(t, Apply, ApplyRequest{
		LeaveTypeID: uuid.New(),
		StartDate:   "2026/03/04",
		EndDate:     "2026-03-05",
	}, as)
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)

	resp = test.DoRequest(t, Apply, ApplyRequest{
		LeaveTypeID: uuid.New(),
		StartDate:   "2020-03-05",
		EndDate:     "2020-03-04",
	}, as)
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}
