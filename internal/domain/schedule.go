package domain

import "time"

type ScheduleType string

const (
	ScheduleTypeDraft     ScheduleType = "DRAFT"
	ScheduleTypeTemplate  ScheduleType = "TEMPLATE"
	ScheduleTypePublished ScheduleType = "PUBLISHED"
)

type Shift struct {
	ID            int64      `json:"id"`
	ScheduleDayID int64      `json:"scheduleDayID"`
	RoleID        int64      `json:"roleID"`
	StartTime     ClockTime  `json:"startTime"`
	EndTime       *ClockTime `json:"endTime"` // 为空表示营业到打烊的班次
	EmployeeID    *int64     `json:"employeeID"`
	IsOnCall      bool       `json:"isOnCall"`
}

type ScheduleDay struct {
	ID         int64     `json:"id"`
	ScheduleID int64     `json:"scheduleID"`
	Date       time.Time `json:"date"`
	Shifts     []Shift   `json:"shifts"`
}

// Weekday 模板中的日期只有星期几是有意义的
func (d *ScheduleDay) Weekday() Weekday {
	return WeekdayOf(d.Date)
}

type Schedule struct {
	ID                   int64         `json:"id"`
	OrganizationID       int64         `json:"organizationID"`
	Type                 ScheduleType  `json:"type"`
	Name                 string        `json:"name"`
	TemplateName         *string       `json:"templateName"`
	WeekStartDate        *time.Time    `json:"weekStartDate"`
	AvailabilityDeadline *time.Time    `json:"availabilityDeadline"`
	IsPublished          bool          `json:"isPublished"`
	PublishedAt          *time.Time    `json:"publishedAt"`
	Days                 []ScheduleDay `json:"days"`
	CreatedAt            time.Time     `json:"createdAt"`
	Version              int32         `json:"-"`
}

// DayByDate 按日期查找班表中的某一天
func (s *Schedule) DayByDate(date time.Time) *ScheduleDay {
	date = Date(date)
	for i := range s.Days {
		if Date(s.Days[i].Date).Equal(date) {
			return &s.Days[i]
		}
	}
	return nil
}

func (s *Schedule) DayByID(id int64) *ScheduleDay {
	for i := range s.Days {
		if s.Days[i].ID == id {
			return &s.Days[i]
		}
	}
	return nil
}

// ShiftByID 返回班次以及它所在的那一天
func (s *Schedule) ShiftByID(id int64) (*Shift, *ScheduleDay) {
	for i := range s.Days {
		for j := range s.Days[i].Shifts {
			if s.Days[i].Shifts[j].ID == id {
				return &s.Days[i].Shifts[j], &s.Days[i]
			}
		}
	}
	return nil, nil
}

// AssignedShiftCount 统计每个员工在该班表中被分配的班次数
func (s *Schedule) AssignedShiftCount() map[int64]int {
	counts := make(map[int64]int)
	for _, day := range s.Days {
		for _, shift := range day.Shifts {
			if shift.EmployeeID != nil {
				counts[*shift.EmployeeID]++
			}
		}
	}
	return counts
}
