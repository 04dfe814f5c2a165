package domain

import (
	"fmt"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays 是一周的固定顺序，周一为第一天
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayOffset = map[Weekday]int{
	Monday:    0,
	Tuesday:   1,
	Wednesday: 2,
	Thursday:  3,
	Friday:    4,
	Saturday:  5,
	Sunday:    6,
}

// Offset 返回该星期几相对于周一的天数偏移
func (d Weekday) Offset() (int, bool) {
	offset, ok := weekdayOffset[d]
	return offset, ok
}

func (d Weekday) Valid() bool {
	_, ok := weekdayOffset[d]
	return ok
}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if !d.Valid() {
		return "", NewValidationError(fmt.Sprintf("无效的星期：%s", s))
	}
	return d, nil
}

// WeekdayOf 返回日期对应的星期几
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday 以周日为 0
	return Weekdays[(int(t.Weekday())+6)%7]
}
