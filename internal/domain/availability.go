package domain

type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "AVAILABLE"
	AvailabilityUnavailable AvailabilityStatus = "UNAVAILABLE"
	AvailabilityPreferred   AvailabilityStatus = "PREFERRED"
)

func (s AvailabilityStatus) Valid() bool {
	switch s {
	case AvailabilityAvailable, AvailabilityUnavailable, AvailabilityPreferred:
		return true
	}
	return false
}

// Availability 是某人某一天的空闲情况。
// IsGeneral 为 true 表示该条目来自用户的通用空闲时间，而不是组织内的设置
type Availability struct {
	DayOfWeek Weekday            `json:"dayOfWeek"`
	Status    AvailabilityStatus `json:"status"`
	StartTime *ClockTime         `json:"startTime"`
	EndTime   *ClockTime         `json:"endTime"`
	IsGeneral bool               `json:"isGeneral,omitempty"`
}

// WeeklyAvailability 以星期几为键，保证每天最多一条记录
type WeeklyAvailability map[Weekday]Availability

// Covers 判断该条目的时间窗口是否覆盖 [start, end)。
// end 为空表示开放式的班次，此时只有同样开放式的窗口才能覆盖
func (a *Availability) Covers(start ClockTime, end *ClockTime) bool {
	if a.StartTime == nil || *a.StartTime > start {
		return false
	}
	if a.EndTime == nil {
		return true
	}
	if end == nil {
		return false
	}
	return *a.EndTime >= *end
}
