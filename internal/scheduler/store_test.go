package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/tavernshift/backend/internal/domain"
)

// memStore 是测试用的内存 Store，ReplaceShifts 在 failReplace 为 true 时不做任何修改
type memStore struct {
	schedules    map[int64]*domain.Schedule
	roles        map[int64]*domain.Role
	employees    map[int64]*domain.Employee
	availability map[int64]domain.WeeklyAvailability
	general      map[int64]domain.WeeklyAvailability
	nextID       int64
	failReplace  bool
}

func newMemStore() *memStore {
	return &memStore{
		schedules:    make(map[int64]*domain.Schedule),
		roles:        make(map[int64]*domain.Role),
		employees:    make(map[int64]*domain.Employee),
		availability: make(map[int64]domain.WeeklyAvailability),
		general:      make(map[int64]domain.WeeklyAvailability),
		nextID:       1000,
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// clone 返回深拷贝，避免调用方直接修改存储中的数据
func clone(s *domain.Schedule) *domain.Schedule {
	c := *s
	c.Days = make([]domain.ScheduleDay, len(s.Days))
	for i, day := range s.Days {
		c.Days[i] = day
		c.Days[i].Shifts = slices.Clone(day.Shifts)
	}
	return &c
}

func (m *memStore) GetScheduleByID(id int64) (*domain.Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return clone(s), nil
}

func (m *memStore) GetSchedulesByOrganizationID(organizationID int64) ([]*domain.Schedule, error) {
	res := make([]*domain.Schedule, 0)
	for _, s := range m.schedules {
		if s.OrganizationID == organizationID {
			res = append(res, clone(s))
		}
	}
	return res, nil
}

func (m *memStore) GetScheduleIDByDayID(dayID int64) (int64, error) {
	for _, s := range m.schedules {
		if s.DayByID(dayID) != nil {
			return s.ID, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (m *memStore) GetScheduleIDByShiftID(shiftID int64) (int64, error) {
	for _, s := range m.schedules {
		if shift, _ := s.ShiftByID(shiftID); shift != nil {
			return s.ID, nil
		}
	}
	return 0, sql.ErrNoRows
}

func (m *memStore) CreateSchedule(schedule *domain.Schedule) error {
	schedule.ID = m.id()
	for i := range schedule.Days {
		schedule.Days[i].ID = m.id()
		schedule.Days[i].ScheduleID = schedule.ID
		for j := range schedule.Days[i].Shifts {
			schedule.Days[i].Shifts[j].ID = m.id()
			schedule.Days[i].Shifts[j].ScheduleDayID = schedule.Days[i].ID
		}
	}
	m.schedules[schedule.ID] = clone(schedule)
	return nil
}

func (m *memStore) UpdateSchedule(schedule *domain.Schedule) error {
	stored, ok := m.schedules[schedule.ID]
	if !ok {
		return sql.ErrNoRows
	}
	updated := clone(schedule)
	updated.Days = stored.Days
	m.schedules[schedule.ID] = updated
	return nil
}

func (m *memStore) DeleteSchedule(id int64) error {
	delete(m.schedules, id)
	return nil
}

func (m *memStore) InsertScheduleDays(scheduleID int64, dates []time.Time) ([]domain.ScheduleDay, error) {
	s := m.schedules[scheduleID]
	days := make([]domain.ScheduleDay, 0, len(dates))
	for _, date := range dates {
		day := domain.ScheduleDay{ID: m.id(), ScheduleID: scheduleID, Date: date, Shifts: []domain.Shift{}}
		s.Days = append(s.Days, day)
		days = append(days, day)
	}
	return days, nil
}

func (m *memStore) DeleteScheduleDays(ids []int64) error {
	for _, s := range m.schedules {
		s.Days = slices.DeleteFunc(s.Days, func(d domain.ScheduleDay) bool {
			return slices.Contains(ids, d.ID)
		})
	}
	return nil
}

func (m *memStore) InsertShift(shift *domain.Shift) error {
	for _, s := range m.schedules {
		if day := s.DayByID(shift.ScheduleDayID); day != nil {
			shift.ID = m.id()
			day.Shifts = append(day.Shifts, *shift)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) UpdateShift(shift *domain.Shift) error {
	for _, s := range m.schedules {
		if existing, _ := s.ShiftByID(shift.ID); existing != nil {
			*existing = *shift
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memStore) DeleteShift(id int64) error {
	for _, s := range m.schedules {
		for i := range s.Days {
			s.Days[i].Shifts = slices.DeleteFunc(s.Days[i].Shifts, func(sh domain.Shift) bool {
				return sh.ID == id
			})
		}
	}
	return nil
}

func (m *memStore) ReplaceShifts(deleteIDs []int64, creates []*domain.Shift) error {
	if m.failReplace {
		return errors.New("事务失败")
	}
	for _, id := range deleteIDs {
		_ = m.DeleteShift(id)
	}
	for _, shift := range creates {
		if err := m.InsertShift(shift); err != nil {
			return err
		}
	}
	return nil
}

func (m *memStore) GetRoleByID(id int64) (*domain.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *memStore) GetEmployeeByID(id int64) (*domain.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *e
	return &c, nil
}

func (m *memStore) GetEmployeesByOrganizationID(organizationID int64) ([]*domain.Employee, error) {
	ids := make([]int64, 0)
	for id, e := range m.employees {
		if e.OrganizationID == organizationID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	res := make([]*domain.Employee, 0, len(ids))
	for _, id := range ids {
		c := *m.employees[id]
		res = append(res, &c)
	}
	return res, nil
}

func (m *memStore) ExistsRoleAssignment(employeeID int64, roleID int64) (bool, error) {
	e, ok := m.employees[employeeID]
	if !ok {
		return false, nil
	}
	return e.HasRole(roleID), nil
}

func (m *memStore) GetAvailability(employeeID int64) (domain.WeeklyAvailability, error) {
	return m.availability[employeeID], nil
}

func (m *memStore) GetGeneralAvailability(userID int64) (domain.WeeklyAvailability, error) {
	return m.general[userID], nil
}

func (m *memStore) UpsertAvailability(employeeID int64, a *domain.Availability) error {
	if m.availability[employeeID] == nil {
		m.availability[employeeID] = make(domain.WeeklyAvailability)
	}
	m.availability[employeeID][a.DayOfWeek] = *a
	return nil
}

func (m *memStore) UpsertGeneralAvailability(userID int64, a *domain.Availability) error {
	if m.general[userID] == nil {
		m.general[userID] = make(domain.WeeklyAvailability)
	}
	m.general[userID][a.DayOfWeek] = *a
	return nil
}

func (m *memStore) shiftCount() int {
	n := 0
	for _, s := range m.schedules {
		for _, d := range s.Days {
			n += len(d.Shifts)
		}
	}
	return n
}

func (m *memStore) dayCount() int {
	n := 0
	for _, s := range m.schedules {
		n += len(s.Days)
	}
	return n
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls [][]domain.Notification
	err   error
}

func (d *recordingDispatcher) SendBulk(_ context.Context, notifications []domain.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, notifications)
	return d.err
}

// fixture 构造一个组织：岗位 bartender，员工 alice（拥有该岗位）和 bob（没有岗位）
type fixture struct {
	store      *memStore
	dispatcher *recordingDispatcher
	scheduler  *Scheduler
	org        OrganizationContext
	bartender  int64
	alice      int64
	bob        int64
}

const testOrgID int64 = 1

func newFixture() *fixture {
	store := newMemStore()
	store.roles[10] = &domain.Role{ID: 10, OrganizationID: testOrgID, Name: "调酒师"}
	store.roles[11] = &domain.Role{ID: 11, OrganizationID: 2, Name: "其他组织的岗位"}
	store.employees[100] = &domain.Employee{
		ID: 100, OrganizationID: testOrgID, UserID: 500, Status: domain.EmployeeStatusApproved,
		SystemRole: domain.SystemRoleEmployee, RoleIDs: []int64{10},
		FullName: "Alice", Email: "alice@example.com", NotificationsEnabled: true,
	}
	store.employees[101] = &domain.Employee{
		ID: 101, OrganizationID: testOrgID, UserID: 501, Status: domain.EmployeeStatusApproved,
		SystemRole: domain.SystemRoleEmployee, RoleIDs: []int64{},
		FullName: "Bob", Email: "bob@example.com",
	}

	dispatcher := &recordingDispatcher{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	return &fixture{
		store:      store,
		dispatcher: dispatcher,
		scheduler:  New(store, dispatcher, WithClock(func() time.Time { return now })),
		org:        OrganizationContext{OrganizationID: testOrgID, UserID: 1, EmployeeID: 1, IsAdmin: true},
		bartender:  10,
		alice:      100,
		bob:        101,
	}
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func int64Ptr(i int64) *int64 { return &i }

func clockPtr(s string) *domain.ClockTime {
	c, err := domain.ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return &c
}

// draftWithDays 创建 2024-01-01 开始的一周草稿并添加指定的日期
func (f *fixture) draftWithDays(weekdays ...domain.Weekday) *domain.Schedule {
	s, err := f.scheduler.CreateSchedule(f.org, CreateScheduleInput{
		Name:                 "第一周",
		WeekStartDate:        date("2024-01-01"),
		AvailabilityDeadline: date("2023-12-28"),
		Weekdays:             weekdays,
	})
	if err != nil {
		panic(err)
	}
	return s
}
