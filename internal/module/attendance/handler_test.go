package attendance

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"testing"
	"time"

	"attendance-system/internal/attendance/capture"
	"attendance-system/internal/attendance/remote"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/response"
	"attendance-system/internal/media"
	"attendance-system/internal/model"
	"attendance-system/internal/store/memory"
	"attendance-system/test"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	log = logger.Discard()
}

type plainPhotos struct{}

func (plainPhotos) PresignedPhotoURL(_ context.Context, u string) string { return u }

type fixture struct {
	h    *Handler
	rows *memory.AttendanceStore
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(2, 2, color.RGBA{G: 255, A: 255})

	f := &fixture{
		rows: memory.NewAttendanceStore(),
		now:  time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
	}
	client := remote.New(f.rows, memory.NewObjectStore("https://photos.example.com"), memory.NewLocker(), remote.Options{
		Policy:   remote.Policy{MaxAttempts: 1},
		Location: time.UTC,
		Now:      func() time.Time { return f.now },
		Logger:   logger.Discard(),
	})
	registry := capture.NewRegistry(client, media.NewStaticDevice(img), capture.Options{Logger: logger.Discard()})
	t.Cleanup(registry.Shutdown)
	f.h = NewHandler(registry, client, plainPhotos{}, nil, 0)
	return f
}

func asEmployee(id uuid.UUID) test.Option {
	return test.WithPayload(jwt.Payload{Username: "alice", EmployeeID: id.String(), RoleID: jwt.RoleEmployee})
}

func snapshotOf(t *testing.T, resp response.ResponseBody) capture.Snapshot {
	t.Helper()
	test.NoError(t, resp)
	var snap capture.Snapshot
	test.DecodeData(t, resp, &snap)
	return snap
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return media.EncodeDataURL(media.MimePNG, buf.Bytes())
}

func TestHandler_PhotoCheckInAndOut(t *testing.T) {
	f := newFixture(t)
	emp := uuid.New()
	as := asEmployee(emp)

	snap := snapshotOf(t, test.DoRequest(t, f.h.Status, nil, test.WithMethod(http.MethodGet), as))
	require.Equal(t, capture.StateIdle, snap.State)
	require.False(t, snap.CheckedIn)

	snap = snapshotOf(t, test.DoRequest(t, f.h.StartCamera, nil, as))
	require.Equal(t, capture.StateCameraActive, snap.State)

	w := test.Do(t, f.h.Preview, nil, test.WithMethod(http.MethodGet), as)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	require.NotZero(t, w.Body.Len())

	snap = snapshotOf(t, test.DoRequest(t, f.h.CapturePhoto, nil, as))
	require.Equal(t, capture.StatePhotoCaptured, snap.State)
	require.True(t, snap.HasImage)

	snap = snapshotOf(t, test.DoRequest(t, f.h.CheckIn, nil, as))
	require.Equal(t, capture.StateIdle, snap.State)
	require.True(t, snap.CheckedIn)
	require.Equal(t, "09:00", snap.CheckInTime)

	rows := f.rows.Rows()
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CheckInPhoto)
	require.Contains(t, *rows[0].CheckInPhoto, "https://photos.example.com/attendance/")

	f.now = f.now.Add(8 * time.Hour)
	snapshotOf(t, test.DoRequest(t, f.h.StartCamera, map[string]any{"facing": "environment"}, as))
	snapshotOf(t, test.DoRequest(t, f.h.CapturePhoto, nil, as))
	snap = snapshotOf(t, test.DoRequest(t, f.h.CheckOut, nil, as))
	require.False(t, snap.CheckedIn)
	require.Equal(t, "17:00", snap.CheckOutTime)
}

func TestHandler_QuickCheckIn(t *testing.T) {
	f := newFixture(t)
	as := asEmployee(uuid.New())

	snap := snapshotOf(t, test.DoRequest(t, f.h.QuickCheckIn, nil, as))
	require.True(t, snap.CheckedIn)
	require.Equal(t, "09:00", snap.CheckInTime)

	rows := f.rows.Rows()
	require.Len(t, rows, 1)
	require.Nil(t, rows[0].CheckInPhoto)
}

func TestHandler_CheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(t)
	as := asEmployee(uuid.New())

	snap := snapshotOf(t, test.DoRequest(t, f.h.AttachPhoto, map[string]string{"image": pngDataURL(t)}, as))
	require.Equal(t, capture.StatePhotoCaptured, snap.State)

	resp := test.DoRequest(t, f.h.CheckOut, nil, as)
	require.Equal(t, response.ErrNoCheckInFound.Code, resp.Code)
	require.Empty(t, f.rows.Rows())

	snap = snapshotOf(t, test.DoRequest(t, f.h.Status, nil, test.WithMethod(http.MethodGet), as))
	require.Equal(t, capture.StatePhotoCaptured, snap.State)
	require.NotNil(t, snap.Error)
	require.Equal(t, remote.KindNoCheckInFound, snap.Error.Kind)
}

func TestHandler_Rejections(t *testing.T) {
	f := newFixture(t)
	as := asEmployee(uuid.New())

	resp := test.DoRequest(t, f.h.Status, nil, test.WithMethod(http.MethodGet))
	require.Equal(t, response.ErrForbidden.Code, resp.Code)

	resp = test.DoRequest(t, f.h.AttachPhoto, map[string]string{"image": "not a data url"}, as)
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)

	resp = test.DoRequest(t, f.h.Preview, nil, test.WithMethod(http.MethodGet), as)
	require.Equal(t, response.ErrInvalidState.Code, resp.Code)

	resp = test.DoRequest(t, f.h.CapturePhoto, nil, as)
	require.Equal(t, response.ErrInvalidState.Code, resp.Code)

	resp = test.DoRequest(t, f.h.CheckIn, nil, as)
	require.Equal(t, response.ErrInvalidState.Code, resp.Code)
}

func TestHandler_CloseSession(t *testing.T) {
	f := newFixture(t)
	emp := uuid.New()
	as := asEmployee(emp)

	snapshotOf(t, test.DoRequest(t, f.h.StartCamera, nil, as))
	resp := test.DoRequest(t, f.h.CloseSession, nil, test.WithMethod(http.MethodDelete), as)
	test.NoError(t, resp)
	var out struct {
		Closed bool `json:"closed"`
	}
	test.DecodeData(t, resp, &out)
	require.True(t, out.Closed)

	snap := snapshotOf(t, test.DoRequest(t, f.h.Status, nil, test.WithMethod(http.MethodGet), as))
	require.Equal(t, capture.StateIdle, snap.State)
}

func TestToResponseError(t *testing.T) {
	cases := []struct {
		err  error
		want *response.Error
	}{
		{remote.ErrMediaAccess, response.ErrMediaAccess},
		{remote.ErrCapture, response.ErrCapture},
		{remote.ErrUploadPermission, response.ErrUploadDenied},
		{remote.ErrUploadNetwork.With(context.DeadlineExceeded), response.ErrUploadNetwork},
		{remote.ErrPersistence, response.ErrDatabase},
		{remote.ErrNoCheckInFound, response.ErrNoCheckInFound},
		{remote.ErrInvalidState, response.ErrInvalidState},
		{remote.ErrBusy, response.ErrBusy},
		{remote.ErrInvalidPhoto, response.ErrInvalidRequest},
		{context.Canceled, response.ErrServerInternal},
	}
	for _, tc := range cases {
		require.ErrorIs(t, toResponseError(tc.err), tc.want, tc.err.Error())
	}
}

func TestBuildCalendar(t *testing.T) {
	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	rows := []model.Attendance{
		{Date: model.DateOf(in), CheckInTime: &in, CheckOutTime: &out},
		{Date: model.DateOf(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))},
	}
	start, _ := model.ParseDate("2026-03-03")
	leaves := []model.Leave{
		{StartDate: start, EndDate: start, Status: model.LeaveApproved},
		{StartDate: start, EndDate: start, Status: model.LeavePending},
	}
	today, _ := model.ParseDate("2026-03-04")
	month, err := parseMonth("2026-03", today)
	require.NoError(t, err)

	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("15:04")
	}
	days := buildCalendar(month, today, rows, leaves, format)
	require.Len(t, days, 31)

	// 2026-03-01 是周日
	require.Equal(t, DayWeekend, days[0].Status)
	require.Equal(t, DayPresent, days[1].Status)
	require.Equal(t, "09:00", days[1].CheckIn)
	require.Equal(t, "18:00", days[1].CheckOut)
	require.Equal(t, DayLeave, days[2].Status)
	require.Equal(t, DayToday, days[3].Status)
	require.Equal(t, DayUpcoming, days[4].Status)
	require.Equal(t, DayWeekend, days[6].Status)
	require.Equal(t, int(time.Saturday), days[6].Weekday)
}

func TestCalendarAbsentBeforeToday(t *testing.T) {
	today, _ := model.ParseDate("2026-03-10")
	month, err := parseMonth("", today)
	require.NoError(t, err)
	require.Equal(t, "2026-03", month.Format(monthLayout))

	days := buildCalendar(month, today, nil, nil, func(*time.Time) string { return "" })
	require.Equal(t, DayAbsent, days[1].Status)
	require.Equal(t, DayToday, days[9].Status)

	_, err = parseMonth("2026/03", today)
	require.Error(t, err)
}
