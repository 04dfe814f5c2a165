package scheduler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tavernshift/backend/internal/domain"
	"github.com/tavernshift/backend/internal/utils"
)

type CreateScheduleInput struct {
	Name                 string
	WeekStartDate        time.Time
	AvailabilityDeadline time.Time
	Weekdays             []domain.Weekday // 可选，创建时一并添加的日期
}

type SchedulePatch struct {
	Name                 *string
	WeekStartDate        *time.Time
	AvailabilityDeadline *time.Time
}

func (s *Scheduler) CreateSchedule(org OrganizationContext, input CreateScheduleInput) (*domain.Schedule, error) {
	weekStart := domain.Date(input.WeekStartDate)
	deadline := domain.Date(input.AvailabilityDeadline)
	if err := utils.ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, &deadline); err != nil {
		return nil, err
	}

	schedule := &domain.Schedule{
		OrganizationID:       org.OrganizationID,
		Type:                 domain.ScheduleTypeDraft,
		Name:                 input.Name,
		WeekStartDate:        &weekStart,
		AvailabilityDeadline: &deadline,
		Days:                 make([]domain.ScheduleDay, 0, len(input.Weekdays)),
	}
	for _, date := range ComputeWeekDates(weekStart, input.Weekdays) {
		schedule.Days = append(schedule.Days, domain.ScheduleDay{Date: date, Shifts: []domain.Shift{}})
	}

	if err := s.store.CreateSchedule(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *Scheduler) GetSchedule(org OrganizationContext, id int64) (*domain.Schedule, error) {
	schedule, err := s.loadSchedule(org, id)
	if err != nil {
		return nil, err
	}

	// 草稿和模板只对管理员可见
	if !org.IsAdmin && !schedule.IsPublished {
		return nil, domain.NewNotFoundError("班表不存在")
	}

	return schedule, nil
}

func (s *Scheduler) ListSchedules(org OrganizationContext) ([]*domain.Schedule, error) {
	schedules, err := s.store.GetSchedulesByOrganizationID(org.OrganizationID)
	if err != nil {
		return nil, err
	}

	if org.IsAdmin {
		return schedules, nil
	}

	visible := make([]*domain.Schedule, 0, len(schedules))
	for _, schedule := range schedules {
		if schedule.IsPublished {
			visible = append(visible, schedule)
		}
	}
	return visible, nil
}

func (s *Scheduler) UpdateSchedule(org OrganizationContext, id int64, patch SchedulePatch) (*domain.Schedule, error) {
	schedule, err := s.loadMutableSchedule(org, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		schedule.Name = *patch.Name
	}

	if patch.WeekStartDate != nil || patch.AvailabilityDeadline != nil {
		if schedule.Type == domain.ScheduleTypeTemplate {
			return nil, domain.NewStateConflictError("模板没有具体日期", nil)
		}
		if patch.WeekStartDate != nil {
			if len(schedule.Days) > 0 && !domain.Date(*patch.WeekStartDate).Equal(*schedule.WeekStartDate) {
				return nil, domain.NewStateConflictError("班表中已有日期，无法修改周起始日期", nil)
			}
			weekStart := domain.Date(*patch.WeekStartDate)
			schedule.WeekStartDate = &weekStart
		}
		if patch.AvailabilityDeadline != nil {
			deadline := domain.Date(*patch.AvailabilityDeadline)
			schedule.AvailabilityDeadline = &deadline
		}
		if err := utils.ValidateScheduleDates(schedule.Type, schedule.WeekStartDate, schedule.AvailabilityDeadline); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// DeleteSchedule 在任何状态下都可以删除班表，包括已发布的班表
func (s *Scheduler) DeleteSchedule(org OrganizationContext, id int64) error {
	if _, err := s.loadSchedule(org, id); err != nil {
		return err
	}

	return s.store.DeleteSchedule(id)
}

// Publish 将草稿发布，发布后班表及其日期、班次都不可再修改。
// 通知在写入成功后由后台投递，投递失败不会影响发布结果
func (s *Scheduler) Publish(org OrganizationContext, id int64) (*domain.Schedule, error) {
	schedule, err := s.loadSchedule(org, id)
	if err != nil {
		return nil, err
	}

	if schedule.Type != domain.ScheduleTypeDraft || schedule.IsPublished {
		return nil, domain.NewStateConflictError(fmt.Sprintf("只有草稿可以发布，当前状态为 %s", schedule.Type), nil)
	}

	publishedAt := s.now().UTC()
	schedule.Type = domain.ScheduleTypePublished
	schedule.IsPublished = true
	schedule.PublishedAt = &publishedAt

	if err := s.store.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	employees, err := s.store.GetEmployeesByOrganizationID(org.OrganizationID)
	if err != nil {
		// 发布已经成功，通知失败只记录日志
		slog.Error("获取待通知的员工失败", "scheduleID", schedule.ID, "error", err)
		return schedule, nil
	}

	s.dispatch(publishNotifications(schedule, employees))

	return schedule, nil
}

func publishNotifications(schedule *domain.Schedule, employees []*domain.Employee) []domain.Notification {
	week := ""
	if schedule.WeekStartDate != nil {
		week = schedule.WeekStartDate.Format(time.DateOnly)
	}

	notifications := make([]domain.Notification, 0, len(employees))
	for _, employee := range employees {
		if !employee.IsApproved() || !employee.NotificationsEnabled || employee.Email == "" {
			continue
		}
		notifications = append(notifications, domain.Notification{
			Type:   domain.NotificationTypeSchedulePublished,
			Target: employee.Email,
			Title:  "班表已发布",
			Body:   fmt.Sprintf("%s，%s 开始的一周班表已发布", employee.FullName, week),
			Data: map[string]any{
				"organizationID": schedule.OrganizationID,
				"scheduleID":     schedule.ID,
				"weekStartDate":  week,
			},
		})
	}
	return notifications
}

// SaveAsTemplate 将草稿转为模板。日期与班次原样保留，
// 模板中日期只有星期几是有意义的
func (s *Scheduler) SaveAsTemplate(org OrganizationContext, id int64, templateName string) (*domain.Schedule, error) {
	templateName = strings.TrimSpace(templateName)
	if templateName == "" {
		return nil, domain.NewValidationError("模板名称不能为空")
	}

	schedule, err := s.loadMutableSchedule(org, id)
	if err != nil {
		return nil, err
	}

	if schedule.Type != domain.ScheduleTypeDraft {
		return nil, domain.NewStateConflictError(fmt.Sprintf("只有草稿可以保存为模板，当前状态为 %s", schedule.Type), nil)
	}

	schedule.Type = domain.ScheduleTypeTemplate
	schedule.TemplateName = &templateName
	schedule.WeekStartDate = nil
	schedule.AvailabilityDeadline = nil

	if err := s.store.UpdateSchedule(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// CreateDraftFromTemplate 根据模板创建指定周的草稿。
// 模板中的每一天按星期几映射到新的一周，复制出的班次不保留员工分配
func (s *Scheduler) CreateDraftFromTemplate(org OrganizationContext, templateID int64, input CreateScheduleInput) (*domain.Schedule, error) {
	template, err := s.loadSchedule(org, templateID)
	if err != nil {
		return nil, err
	}

	if template.Type != domain.ScheduleTypeTemplate {
		return nil, domain.NewStateConflictError(fmt.Sprintf("只能从模板创建草稿，当前状态为 %s", template.Type), nil)
	}

	weekStart := domain.Date(input.WeekStartDate)
	deadline := domain.Date(input.AvailabilityDeadline)
	if err := utils.ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, &deadline); err != nil {
		return nil, err
	}

	name := input.Name
	if name == "" && template.TemplateName != nil {
		name = *template.TemplateName
	}

	draft := &domain.Schedule{
		OrganizationID:       org.OrganizationID,
		Type:                 domain.ScheduleTypeDraft,
		Name:                 name,
		WeekStartDate:        &weekStart,
		AvailabilityDeadline: &deadline,
		Days:                 make([]domain.ScheduleDay, 0, len(template.Days)),
	}

	anchorOffset, _ := domain.WeekdayOf(weekStart).Offset()
	for _, day := range template.Days {
		dayOffset, _ := day.Weekday().Offset()
		offset := ((dayOffset-anchorOffset)%7 + 7) % 7

		shifts := make([]domain.Shift, 0, len(day.Shifts))
		for _, shift := range day.Shifts {
			shifts = append(shifts, domain.Shift{
				RoleID:    shift.RoleID,
				StartTime: shift.StartTime,
				EndTime:   shift.EndTime,
				IsOnCall:  shift.IsOnCall,
			})
		}

		draft.Days = append(draft.Days, domain.ScheduleDay{
			Date:   weekStart.AddDate(0, 0, offset),
			Shifts: shifts,
		})
	}

	if err := s.store.CreateSchedule(draft); err != nil {
		return nil, err
	}

	return draft, nil
}
