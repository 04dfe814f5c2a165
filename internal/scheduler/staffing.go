package scheduler

import (
	"sort"

	"github.com/tavernshift/backend/internal/domain"
)

// Candidates 是某个班次的候选员工。
// Available 保持员工列表原有的顺序，Fallback 按当前已排班次数从少到多排列
type Candidates struct {
	Available []*domain.Employee `json:"available"`
	Fallback  []*domain.Employee `json:"fallback"`
}

// IsFree 判断合并后的空闲时间是否允许员工上这个班次。
// 当天没有任何记录时视为没有限制
func IsFree(availability []domain.Availability, weekday domain.Weekday, shift *domain.Shift) bool {
	for i := range availability {
		if availability[i].DayOfWeek != weekday {
			continue
		}
		switch availability[i].Status {
		case domain.AvailabilityAvailable, domain.AvailabilityPreferred:
			return availability[i].Covers(shift.StartTime, shift.EndTime)
		default:
			return false
		}
	}
	return true
}

// SuggestCandidates 先筛选出已通过审核且拥有该岗位的员工，
// 再根据空闲时间分为 Available 和 Fallback 两组
func SuggestCandidates(
	shift *domain.Shift,
	weekday domain.Weekday,
	employees []*domain.Employee,
	availability map[int64][]domain.Availability,
	load map[int64]int,
) Candidates {
	candidates := Candidates{
		Available: make([]*domain.Employee, 0),
		Fallback:  make([]*domain.Employee, 0),
	}

	for _, employee := range employees {
		if !employee.IsApproved() || !IsQualified(employee, shift.RoleID) {
			continue
		}

		if IsFree(availability[employee.ID], weekday, shift) {
			candidates.Available = append(candidates.Available, employee)
		} else {
			candidates.Fallback = append(candidates.Fallback, employee)
		}
	}

	sort.SliceStable(candidates.Fallback, func(i, j int) bool {
		return load[candidates.Fallback[i].ID] < load[candidates.Fallback[j].ID]
	})

	return candidates
}

func (s *Scheduler) GetCandidates(org OrganizationContext, shiftID int64) (*Candidates, error) {
	scheduleID, err := s.store.GetScheduleIDByShiftID(shiftID)
	if err != nil {
		return nil, notFound(err, "班次不存在")
	}

	schedule, err := s.loadSchedule(org, scheduleID)
	if err != nil {
		return nil, err
	}

	shift, day := schedule.ShiftByID(shiftID)
	if shift == nil {
		return nil, domain.NewNotFoundError("班次不存在")
	}

	employees, err := s.store.GetEmployeesByOrganizationID(org.OrganizationID)
	if err != nil {
		return nil, err
	}

	availability := make(map[int64][]domain.Availability, len(employees))
	for _, employee := range employees {
		if !employee.IsApproved() || !IsQualified(employee, shift.RoleID) {
			continue
		}
		resolved, err := s.ResolveAvailability(employee.ID, employee.UserID)
		if err != nil {
			return nil, err
		}
		availability[employee.ID] = resolved
	}

	candidates := SuggestCandidates(shift, day.Weekday(), employees, availability, schedule.AssignedShiftCount())
	return &candidates, nil
}
