package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ClockTime 表示一天中的某个时刻（精确到分钟），序列化为 24 小时制的 HH:MM
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, NewValidationError(fmt.Sprintf("时间 %q 不是合法的 HH:MM 格式", s))
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return ClockTime(hour*60 + minute), nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value 以 PostgreSQL TIME 列可接受的字符串写入
func (c ClockTime) Value() (driver.Value, error) {
	return c.String() + ":00", nil
}

func (c *ClockTime) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*c = ClockTime(v.Hour()*60 + v.Minute())
		return nil
	default:
		return fmt.Errorf("无法将 %T 转换为 ClockTime", src)
	}
	if len(s) < 5 {
		return fmt.Errorf("无法解析时间 %q", s)
	}
	parsed, err := ParseClockTime(s[:5])
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Date 将日期截断到 UTC 零点
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
