package scheduler

import (
	"fmt"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/utils"
)

type ShiftInput struct {
	ScheduleDayID int64
	RoleID        int64
	StartTime     string
	EndTime       *string
	EmployeeID    *int64
	IsOnCall      bool
}

// ShiftPatch 中为 nil 的字段保持不变；
// ClearEndTime 和 ClearEmployee 用于显式清空可空字段
type ShiftPatch struct {
	RoleID        *int64
	StartTime     *string
	EndTime       *string
	ClearEndTime  bool
	EmployeeID    *int64
	ClearEmployee bool
	IsOnCall      *bool
}

func (s *Scheduler) CreateShift(org OrganizationContext, input ShiftInput) (*domain.Shift, error) {
	scheduleID, err := s.store.GetScheduleIDByDayID(input.ScheduleDayID)
	if err != nil {
		return nil, notFound(err, "班表中的日期不存在")
	}

	if _, err := s.loadMutableSchedule(org, scheduleID); err != nil {
		return nil, err
	}

	start, end, err := utils.ParseShiftTime(input.StartTime, input.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkRole(org, input.RoleID); err != nil {
		return nil, err
	}

	if input.EmployeeID != nil {
		if err := s.checkAssignable(org, *input.EmployeeID, input.RoleID); err != nil {
			return nil, err
		}
	}

	shift := &domain.Shift{
		ScheduleDayID: input.ScheduleDayID,
		RoleID:        input.RoleID,
		StartTime:     start,
		EndTime:       end,
		EmployeeID:    input.EmployeeID,
		IsOnCall:      input.IsOnCall,
	}

	if err := s.store.InsertShift(shift); err != nil {
		return nil, err
	}

	return shift, nil
}

func (s *Scheduler) UpdateShift(org OrganizationContext, shiftID int64, patch ShiftPatch) (*domain.Shift, error) {
	scheduleID, err := s.store.GetScheduleIDByShiftID(shiftID)
	if err != nil {
		return nil, notFound(err, "班次不存在")
	}

	schedule, err := s.loadMutableSchedule(org, scheduleID)
	if err != nil {
		return nil, err
	}

	existing, _ := schedule.ShiftByID(shiftID)
	if existing == nil {
		return nil, domain.NewNotFoundError("班次不存在")
	}

	// 在合并后的班次上重新执行与创建时相同的校验
	merged := *existing

	if patch.RoleID != nil {
		merged.RoleID = *patch.RoleID
	}
	if patch.StartTime != nil {
		start, err := domain.ParseClockTime(*patch.StartTime)
		if err != nil {
			return nil, err
		}
		merged.StartTime = start
	}
	switch {
	case patch.ClearEndTime:
		merged.EndTime = nil
	case patch.EndTime != nil:
		end, err := domain.ParseClockTime(*patch.EndTime)
		if err != nil {
			return nil, err
		}
		merged.EndTime = &end
	}
	switch {
	case patch.ClearEmployee:
		merged.EmployeeID = nil
	case patch.EmployeeID != nil:
		merged.EmployeeID = patch.EmployeeID
	}
	if patch.IsOnCall != nil {
		merged.IsOnCall = *patch.IsOnCall
	}

	if err := utils.ValidateTimeRange(merged.StartTime, merged.EndTime); err != nil {
		return nil, err
	}

	if err := s.checkRole(org, merged.RoleID); err != nil {
		return nil, err
	}

	if merged.EmployeeID != nil {
		if err := s.checkAssignable(org, *merged.EmployeeID, merged.RoleID); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateShift(&merged); err != nil {
		return nil, err
	}

	return &merged, nil
}

func (s *Scheduler) DeleteShift(org OrganizationContext, shiftID int64) error {
	scheduleID, err := s.store.GetScheduleIDByShiftID(shiftID)
	if err != nil {
		return notFound(err, "班次不存在")
	}

	if _, err := s.loadMutableSchedule(org, scheduleID); err != nil {
		return err
	}

	return s.store.DeleteShift(shiftID)
}

// BulkReplaceShifts 在一个事务中删除 deleteIDs 并创建 creates，用于一次性保存整周的修改。
// 这里只校验时间格式和归属关系，员工只需属于本组织，不重新校验岗位资格
func (s *Scheduler) BulkReplaceShifts(org OrganizationContext, scheduleID int64, deleteIDs []int64, creates []ShiftInput) ([]*domain.Shift, error) {
	schedule, err := s.loadMutableSchedule(org, scheduleID)
	if err != nil {
		return nil, err
	}

	for _, id := range deleteIDs {
		if shift, _ := schedule.ShiftByID(id); shift == nil {
			return nil, domain.NewNotFoundError(fmt.Sprintf("班次 %d 不属于该班表", id))
		}
	}

	checkedRoles := make(map[int64]bool)
	checkedEmployees := make(map[int64]bool)
	shifts := make([]*domain.Shift, 0, len(creates))
	for i, input := range creates {
		if schedule.DayByID(input.ScheduleDayID) == nil {
			return nil, domain.NewNotFoundError(fmt.Sprintf("第 %d 个班次所在的日期不属于该班表", i+1))
		}

		start, end, err := utils.ParseShiftTime(input.StartTime, input.EndTime)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("第 %d 个班次：%s", i+1, err.Error()))
		}

		if !checkedRoles[input.RoleID] {
			if err := s.checkRole(org, input.RoleID); err != nil {
				return nil, err
			}
			checkedRoles[input.RoleID] = true
		}

		if input.EmployeeID != nil && !checkedEmployees[*input.EmployeeID] {
			if _, err := s.loadEmployee(org, *input.EmployeeID); err != nil {
				return nil, err
			}
			checkedEmployees[*input.EmployeeID] = true
		}

		shifts = append(shifts, &domain.Shift{
			ScheduleDayID: input.ScheduleDayID,
			RoleID:        input.RoleID,
			StartTime:     start,
			EndTime:       end,
			EmployeeID:    input.EmployeeID,
			IsOnCall:      input.IsOnCall,
		})
	}

	if err := s.store.ReplaceShifts(deleteIDs, shifts); err != nil {
		return nil, err
	}

	return shifts, nil
}
