package utils

import (
	"fmt"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// ParseShiftTime 解析班次的开始与结束时间，结束时间可以为空
func ParseShiftTime(startTime string, endTime *string) (domain.ClockTime, *domain.ClockTime, error) {
	start, err := domain.ParseClockTime(startTime)
	if err != nil {
		return 0, nil, err
	}

	if endTime == nil {
		return start, nil, nil
	}

	end, err := domain.ParseClockTime(*endTime)
	if err != nil {
		return 0, nil, err
	}

	if err := ValidateTimeRange(start, &end); err != nil {
		return 0, nil, err
	}

	return start, &end, nil
}

// ValidateTimeRange 检查结束时间是否晚于开始时间
func ValidateTimeRange(start domain.ClockTime, end *domain.ClockTime) error {
	if end != nil && *end <= start {
		return domain.NewValidationError(fmt.Sprintf("结束时间 %s 必须晚于开始时间 %s", end, start))
	}
	return nil
}

// ValidateScheduleDates 检查班表的周起始日期和空闲时间提交截止日期。
// 两者要么同时为空（仅模板），要么同时存在且截止日期早于周起始日期
func ValidateScheduleDates(scheduleType domain.ScheduleType, weekStartDate, availabilityDeadline *time.Time) error {
	if weekStartDate == nil && availabilityDeadline == nil {
		if scheduleType != domain.ScheduleTypeTemplate {
			return domain.NewValidationError("非模板班表必须指定周起始日期和提交截止日期")
		}
		return nil
	}

	if weekStartDate == nil || availabilityDeadline == nil {
		return domain.NewValidationError("周起始日期和提交截止日期必须同时指定")
	}

	if !availabilityDeadline.Before(*weekStartDate) {
		return domain.NewValidationError("提交截止日期必须早于周起始日期")
	}

	return nil
}

// ValidateAvailability 检查空闲时间条目，不可用的条目会被去掉时间窗口
func ValidateAvailability(a *domain.Availability) error {
	if !a.DayOfWeek.Valid() {
		return domain.NewValidationError(fmt.Sprintf("无效的星期：%s", a.DayOfWeek))
	}
	if !a.Status.Valid() {
		return domain.NewValidationError(fmt.Sprintf("无效的空闲状态：%s", a.Status))
	}

	if a.Status == domain.AvailabilityUnavailable {
		a.StartTime = nil
		a.EndTime = nil
		return nil
	}

	if a.StartTime == nil {
		return domain.NewValidationError("可用或偏好的空闲时间必须指定开始时间")
	}

	return ValidateTimeRange(*a.StartTime, a.EndTime)
}

// ParseWeekdays 解析星期名称列表，并拒绝重复的星期
func ParseWeekdays(names []string) ([]domain.Weekday, error) {
	if len(names) == 0 {
		return nil, domain.NewValidationError("至少需要指定一天")
	}

	weekdays := make([]domain.Weekday, 0, len(names))
	seen := make(map[domain.Weekday]bool)
	for _, name := range names {
		d, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		if seen[d] {
			return nil, domain.NewValidationError(fmt.Sprintf("重复的星期：%s", d))
		}
		seen[d] = true
		weekdays = append(weekdays, d)
	}

	return weekdays, nil
}
