package model

import (
	"time"

	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// DateOf 取 t 在其自身时区下的日历日
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// calendarDay 把 d 的年月日放到 UTC 零点，两天之差恰好是 24 小时的整数倍
func calendarDay(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (datatypes.Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return datatypes.Date{}, err
	}
	return datatypes.Date(t), nil
}

func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// SameDate 只比较年月日
func SameDate(a, b datatypes.Date) bool {
	return FormatDate(a) == FormatDate(b)
}
