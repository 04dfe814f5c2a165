package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// Store 是排班引擎所依赖的持久化操作。
// 查询不到记录时返回 sql.ErrNoRows；多语句的写操作必须在同一事务中完成
type Store interface {
	GetScheduleByID(id int64) (*domain.Schedule, error)
	GetSchedulesByOrganizationID(organizationID int64) ([]*domain.Schedule, error)
	GetScheduleIDByDayID(dayID int64) (int64, error)
	GetScheduleIDByShiftID(shiftID int64) (int64, error)
	CreateSchedule(schedule *domain.Schedule) error
	UpdateSchedule(schedule *domain.Schedule) error
	DeleteSchedule(id int64) error

	InsertScheduleDays(scheduleID int64, dates []time.Time) ([]domain.ScheduleDay, error)
	DeleteScheduleDays(ids []int64) error

	InsertShift(shift *domain.Shift) error
	UpdateShift(shift *domain.Shift) error
	DeleteShift(id int64) error
	ReplaceShifts(deleteIDs []int64, creates []*domain.Shift) error

	GetRoleByID(id int64) (*domain.Role, error)
	GetEmployeeByID(id int64) (*domain.Employee, error)
	GetEmployeesByOrganizationID(organizationID int64) ([]*domain.Employee, error)
	ExistsRoleAssignment(employeeID int64, roleID int64) (bool, error)

	GetAvailability(employeeID int64) (domain.WeeklyAvailability, error)
	GetGeneralAvailability(userID int64) (domain.WeeklyAvailability, error)
	UpsertAvailability(employeeID int64, availability *domain.Availability) error
	UpsertGeneralAvailability(userID int64, availability *domain.Availability) error
}

// Dispatcher 负责投递通知，发布班表后由后台 goroutine 调用
type Dispatcher interface {
	SendBulk(ctx context.Context, notifications []domain.Notification) error
}

// OrganizationContext 是调用方在某个组织中的身份，由 handler 在进入排班引擎之前解析
type OrganizationContext struct {
	OrganizationID int64
	UserID         int64
	EmployeeID     int64
	IsAdmin        bool
}

type Scheduler struct {
	store           Store
	dispatcher      Dispatcher
	dispatchTimeout time.Duration
	now             func() time.Time
	wg              sync.WaitGroup
}

type Option func(*Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

func WithDispatchTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.dispatchTimeout = d
	}
}

func New(store Store, dispatcher Dispatcher, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:           store,
		dispatcher:      dispatcher,
		dispatchTimeout: 30 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Wait 等待所有后台投递的通知完成，用于优雅退出
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// loadSchedule 获取班表并确认它属于当前组织
func (s *Scheduler) loadSchedule(org OrganizationContext, id int64) (*domain.Schedule, error) {
	schedule, err := s.store.GetScheduleByID(id)
	if err != nil {
		return nil, notFound(err, "班表不存在")
	}
	if schedule.OrganizationID != org.OrganizationID {
		return nil, domain.NewNotFoundError("班表不存在")
	}
	return schedule, nil
}

// loadMutableSchedule 在 loadSchedule 的基础上拒绝已发布的班表
func (s *Scheduler) loadMutableSchedule(org OrganizationContext, id int64) (*domain.Schedule, error) {
	schedule, err := s.loadSchedule(org, id)
	if err != nil {
		return nil, err
	}
	if schedule.IsPublished {
		return nil, domain.NewStateConflictError("班表已发布，无法修改", nil)
	}
	return schedule, nil
}

func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(msg)
	}
	return err
}

func (s *Scheduler) dispatch(notifications []domain.Notification) {
	if s.dispatcher == nil || len(notifications) == 0 {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
		defer cancel()

		if err := s.dispatcher.SendBulk(ctx, notifications); err != nil {
			slog.Error("投递通知失败", "count", len(notifications), "error", err)
		}
	}()
}
