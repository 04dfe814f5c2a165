package scheduler

import (
	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/utils"
)

// ResolveAvailability 合并组织内的空闲时间与用户的通用空闲时间。
// 某天存在组织内的记录时原样使用，否则使用通用记录并标记 IsGeneral；
// 两边都没有记录的日子不会出现在结果中。结果按周一到周日排列
func ResolveAvailability(orgSpecific, general domain.WeeklyAvailability) []domain.Availability {
	resolved := make([]domain.Availability, 0, len(domain.Weekdays))

	for _, day := range domain.Weekdays {
		if a, ok := orgSpecific[day]; ok {
			a.DayOfWeek = day
			a.IsGeneral = false
			resolved = append(resolved, a)
			continue
		}

		if a, ok := general[day]; ok {
			a.DayOfWeek = day
			a.IsGeneral = true
			resolved = append(resolved, a)
		}
	}

	return resolved
}

func (s *Scheduler) ResolveAvailability(employeeID, userID int64) ([]domain.Availability, error) {
	orgSpecific, err := s.store.GetAvailability(employeeID)
	if err != nil {
		return nil, err
	}

	general, err := s.store.GetGeneralAvailability(userID)
	if err != nil {
		return nil, err
	}

	return ResolveAvailability(orgSpecific, general), nil
}

// GetEmployeeAvailability 返回组织内某员工合并后的空闲时间
func (s *Scheduler) GetEmployeeAvailability(org OrganizationContext, employeeID int64) ([]domain.Availability, error) {
	employee, err := s.loadEmployee(org, employeeID)
	if err != nil {
		return nil, err
	}

	return s.ResolveAvailability(employee.ID, employee.UserID)
}

// UpsertAvailability 按 (员工, 星期几) 写入组织内的空闲时间，员工本人或管理员可以修改
func (s *Scheduler) UpsertAvailability(org OrganizationContext, employeeID int64, availability *domain.Availability) error {
	if !org.IsAdmin && org.EmployeeID != employeeID {
		return domain.NewAuthorizationError("只能修改自己的空闲时间")
	}

	if _, err := s.loadEmployee(org, employeeID); err != nil {
		return err
	}

	if err := utils.ValidateAvailability(availability); err != nil {
		return err
	}
	availability.IsGeneral = false

	return s.store.UpsertAvailability(employeeID, availability)
}

// UpsertGeneralAvailability 按 (用户, 星期几) 写入跨组织的通用空闲时间
func (s *Scheduler) UpsertGeneralAvailability(userID int64, availability *domain.Availability) error {
	if err := utils.ValidateAvailability(availability); err != nil {
		return err
	}
	availability.IsGeneral = true

	return s.store.UpsertGeneralAvailability(userID, availability)
}

func (s *Scheduler) GetGeneralAvailability(userID int64) ([]domain.Availability, error) {
	general, err := s.store.GetGeneralAvailability(userID)
	if err != nil {
		return nil, err
	}

	return ResolveAvailability(nil, general), nil
}

func (s *Scheduler) loadEmployee(org OrganizationContext, employeeID int64) (*domain.Employee, error) {
	employee, err := s.store.GetEmployeeByID(employeeID)
	if err != nil {
		return nil, notFound(err, "员工不存在")
	}
	if employee.OrganizationID != org.OrganizationID {
		return nil, domain.NewNotFoundError("员工不存在")
	}
	return employee, nil
}
