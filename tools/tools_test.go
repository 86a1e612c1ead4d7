package tools

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestPassword(t *testing.T) {
	hash := PasswordEncrypt("s3cret!pw")
	require.NotEqual(t, "s3cret!pw", hash)
	require.True(t, PasswordCompare("s3cret!pw", hash))
	require.False(t, PasswordCompare("wrong", hash))
}

type base struct {
	ID string `excel:"-"`
}

type row struct {
	base
	Name    string     `excel:"姓名"`
	Days    int        `excel:"天数"`
	Checked *time.Time `excel:"时间"`
	Note    *string
}

func TestExportToExcel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	at := time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC)
	rows := []row{
		{base: base{ID: "x"}, Name: "张三", Days: 3, Checked: &at},
		{Name: "李四", Days: 1},
	}
	require.NoError(t, ExportToExcel(f, "考勤", rows))

	got, err := f.GetRows("考勤")
	require.NoError(t, err)
	require.Equal(t, []string{"姓名", "天数", "时间", "Note"}, got[0])
	require.Equal(t, []string{"张三", "3", "2026-03-02 09:05"}, got[1][:3])
	require.Equal(t, "李四", got[2][0])

	require.Error(t, ExportToExcel(f, "", 42))
}

func TestGetPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query         string
		offset, limit int
	}{
		{"", 0, 30},
		{"?page=3&page_size=10", 20, 10},
		{"?page=0&page_size=1000", 0, 300},
		{"?page=x", 0, 30},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/"+tc.query, nil)
		offset, limit := GetPage(c)
		require.Equal(t, tc.offset, offset, tc.query)
		require.Equal(t, tc.limit, limit, tc.query)
	}
}

func TestSendExcel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	require.NoError(t, SendExcel(c, "考勤.xlsx", "考勤", []row{{Name: "张三"}}))
	require.Equal(t, ExcelContentType, w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	require.Equal(t, []string{"考勤"}, f.GetSheetList())
}
