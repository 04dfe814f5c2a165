package scheduler

import (
	"fmt"

	"github.com/tavernshift/backend/internal/domain"
)

// IsQualified 判断员工是否被分配了该岗位
func IsQualified(employee *domain.Employee, roleID int64) bool {
	return employee.HasRole(roleID)
}

func (s *Scheduler) IsQualified(employeeID, roleID int64) (bool, error) {
	return s.store.ExistsRoleAssignment(employeeID, roleID)
}

// checkAssignable 检查员工能否被排进某岗位的班次：
// 必须是本组织已通过审核的员工，并且拥有该岗位
func (s *Scheduler) checkAssignable(org OrganizationContext, employeeID, roleID int64) error {
	employee, err := s.loadEmployee(org, employeeID)
	if err != nil {
		return err
	}

	if !employee.IsApproved() {
		return domain.NewValidationError(fmt.Sprintf("员工 %d 尚未通过审核，无法排班", employeeID))
	}

	qualified, err := s.IsQualified(employeeID, roleID)
	if err != nil {
		return err
	}
	if !qualified {
		return domain.NewQualificationError(
			fmt.Sprintf("员工 %d 没有岗位 %d，请先为该员工分配岗位", employeeID, roleID),
			map[string]int64{"employeeID": employeeID, "roleID": roleID},
		)
	}

	return nil
}

// checkRole 检查岗位是否属于当前组织
func (s *Scheduler) checkRole(org OrganizationContext, roleID int64) error {
	role, err := s.store.GetRoleByID(roleID)
	if err != nil {
		return notFound(err, "岗位不存在")
	}
	if role.OrganizationID != org.OrganizationID {
		return domain.NewNotFoundError("岗位不存在")
	}
	return nil
}
