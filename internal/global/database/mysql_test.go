package database

import (
	"database/sql/driver"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"attendance-system/config"
	"attendance-system/internal/model"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func parsedDSN(t *testing.T) *mysqldriver.Config {
	t.Helper()
	cfg, err := mysqldriver.ParseDSN(dsn(config.Mysql{
		Host: "127.0.0.1", Port: "3306", Username: "root", Password: "secret", DBName: "attendance",
	}))
	require.NoError(t, err)
	return cfg
}

func TestDSN(t *testing.T) {
	cfg := parsedDSN(t)
	require.True(t, cfg.ParseTime)
	require.True(t, cfg.ClientFoundRows)
	require.Equal(t, time.UTC, cfg.Loc)
	require.Equal(t, "attendance", cfg.DBName)
}

// 驱动发送 time.Time 参数前会 In(cfg.Loc)，读回 DATE 列时按 cfg.Loc 解析
func TestDateRoundTripKeepsCalendarDay(t *testing.T) {
	cfg := parsedDSN(t)
	for _, zone := range []string{"America/New_York", "Asia/Shanghai", "Pacific/Kiritimati"} {
		loc, err := time.LoadLocation(zone)
		require.NoError(t, err)

		day := model.DateOf(time.Date(2026, 3, 2, 9, 0, 0, 0, loc))
		v, err := day.Value()
		require.NoError(t, err)
		sent := v.(time.Time).In(cfg.Loc).Format(model.DateLayout)
		require.Equal(t, "2026-03-02", sent, zone)

		stored, err := time.ParseInLocation(model.DateLayout, sent, cfg.Loc)
		require.NoError(t, err)
		var back datatypes.Date
		require.NoError(t, back.Scan(driver.Value(stored)))
		require.True(t, model.SameDate(day, back), zone)
	}
}

func TestIsDuplicateKey(t *testing.T) {
	require.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	require.True(t, IsDuplicateKey(&mysqldriver.MySQLError{Number: 1062}))
	require.False(t, IsDuplicateKey(&mysqldriver.MySQLError{Number: 1213}))
	require.False(t, IsDuplicateKey(errors.New("boom")))
}
