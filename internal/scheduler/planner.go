package scheduler

import (
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// ComputeWeekDates 以 weekStartDate 为周一计算每个星期几对应的日期。
// weekStartDate 不会被校验是否真的是周一
func ComputeWeekDates(weekStartDate time.Time, weekdays []domain.Weekday) []time.Time {
	anchor := domain.Date(weekStartDate)
	dates := make([]time.Time, 0, len(weekdays))
	for _, day := range weekdays {
		offset, ok := day.Offset()
		if !ok {
			continue
		}
		dates = append(dates, anchor.AddDate(0, 0, offset))
	}
	return dates
}

// DayShiftCount 是删除日期失败时返回给调用方的信息
type DayShiftCount struct {
	Date       string `json:"date"`
	ShiftCount int    `json:"shiftCount"`
}

func (s *Scheduler) AddDays(org OrganizationContext, scheduleID int64, weekdays []domain.Weekday) ([]domain.ScheduleDay, error) {
	schedule, err := s.loadMutableSchedule(org, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.WeekStartDate == nil {
		return nil, domain.NewStateConflictError("模板没有具体日期，请先从模板创建草稿", nil)
	}

	dates := ComputeWeekDates(*schedule.WeekStartDate, weekdays)

	// 所有重复的日期一起返回，方便调用方修正
	duplicates := make([]string, 0)
	for _, date := range dates {
		if schedule.DayByDate(date) != nil {
			duplicates = append(duplicates, date.Format(time.DateOnly))
		}
	}
	if len(duplicates) > 0 {
		return nil, domain.NewStateConflictError("班表中已存在这些日期", map[string][]string{"duplicates": duplicates})
	}

	return s.store.InsertScheduleDays(schedule.ID, dates)
}

func (s *Scheduler) RemoveDays(org OrganizationContext, scheduleID int64, weekdays []domain.Weekday) error {
	schedule, err := s.loadMutableSchedule(org, scheduleID)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(weekdays))
	occupied := make([]DayShiftCount, 0)
	for _, day := range targetDays(schedule, weekdays) {
		if len(day.Shifts) > 0 {
			occupied = append(occupied, DayShiftCount{
				Date:       day.Date.Format(time.DateOnly),
				ShiftCount: len(day.Shifts),
			})
			continue
		}
		ids = append(ids, day.ID)
	}

	if len(occupied) > 0 {
		return domain.NewStateConflictError("请先删除这些日期中的班次", map[string][]DayShiftCount{"days": occupied})
	}

	if len(ids) == 0 {
		return domain.NewNotFoundError("班表中不存在指定的日期")
	}

	return s.store.DeleteScheduleDays(ids)
}

// targetDays 找出星期名称对应的日期。有周起始日期时与 AddDays 一样按偏移计算，
// 模板没有具体日期，按日期本身的星期几匹配
func targetDays(schedule *domain.Schedule, weekdays []domain.Weekday) []*domain.ScheduleDay {
	days := make([]*domain.ScheduleDay, 0, len(weekdays))

	if schedule.WeekStartDate != nil {
		for _, date := range ComputeWeekDates(*schedule.WeekStartDate, weekdays) {
			if day := schedule.DayByDate(date); day != nil {
				days = append(days, day)
			}
		}
		return days
	}

	targets := make(map[domain.Weekday]bool, len(weekdays))
	for _, day := range weekdays {
		targets[day] = true
	}
	for i := range schedule.Days {
		if targets[schedule.Days[i].Weekday()] {
			days = append(days, &schedule.Days[i])
		}
	}
	return days
}
