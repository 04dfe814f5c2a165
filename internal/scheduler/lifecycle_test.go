package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
)

func TestCreateSchedule_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.scheduler.CreateSchedule(f.org, CreateScheduleInput{
		Name:                 "第一周",
		WeekStartDate:        date("2024-01-01"),
		AvailabilityDeadline: date("2024-01-01"),
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.store.schedules)
}

func TestPublish(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Friday)

	published, err := f.scheduler.Publish(f.org, s.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	assert.Equal(t, domain.ScheduleTypePublished, published.Type)
	assert.True(t, published.IsPublished)
	require.NotNil(t, published.PublishedAt)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), *published.PublishedAt)

	stored, err := f.store.GetScheduleByID(s.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)

	// 只有开启通知的 alice 会收到
	require.Len(t, f.dispatcher.calls, 1)
	require.Len(t, f.dispatcher.calls[0], 1)
	notification := f.dispatcher.calls[0][0]
	assert.Equal(t, domain.NotificationTypeSchedulePublished, notification.Type)
	assert.Equal(t, "alice@example.com", notification.Target)
	assert.Equal(t, s.ID, notification.Data["scheduleID"])
	assert.Equal(t, "2024-01-01", notification.Data["weekStartDate"])
}

func TestPublish_DispatchFailureDoesNotFail(t *testing.T) {
	f := newFixture()
	f.dispatcher.err = errors.New("队列不可用")
	s := f.draftWithDays(domain.Friday)

	published, err := f.scheduler.Publish(f.org, s.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	assert.True(t, published.IsPublished)
	assert.Len(t, f.dispatcher.calls, 1)
}

func TestPublish_OnlyFromDraft(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Friday)

	_, err := f.scheduler.Publish(f.org, s.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	_, err = f.scheduler.Publish(f.org, s.ID)
	require.ErrorIs(t, err, domain.ErrStateConflict)

	template := f.draftWithDays(domain.Friday)
	_, err = f.scheduler.SaveAsTemplate(f.org, template.ID, "标准周")
	require.NoError(t, err)

	_, err = f.scheduler.Publish(f.org, template.ID)
	require.ErrorIs(t, err, domain.ErrStateConflict)

	assert.Len(t, f.dispatcher.calls, 1)
}

func TestSaveAsTemplate(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)
	_, err := f.scheduler.CreateShift(f.org, ShiftInput{ScheduleDayID: s.Days[0].ID, RoleID: f.bartender, StartTime: "18:00"})
	require.NoError(t, err)

	_, err = f.scheduler.SaveAsTemplate(f.org, s.ID, "   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	template, err := f.scheduler.SaveAsTemplate(f.org, s.ID, " 标准周 ")
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleTypeTemplate, template.Type)
	assert.Equal(t, "标准周", *template.TemplateName)
	assert.Nil(t, template.WeekStartDate)
	assert.Nil(t, template.AvailabilityDeadline)

	stored, err := f.store.GetScheduleByID(s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.Len(t, stored.Days[0].Shifts, 1)

	_, err = f.scheduler.SaveAsTemplate(f.org, s.ID, "再来一次")
	require.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestCreateDraftFromTemplate(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Friday)
	_, err := f.scheduler.CreateShift(f.org, ShiftInput{
		ScheduleDayID: s.Days[1].ID,
		RoleID:        f.bartender,
		StartTime:     "18:00",
		EndTime:       strPtr("23:00"),
		EmployeeID:    int64Ptr(f.alice),
		IsOnCall:      true,
	})
	require.NoError(t, err)
	template, err := f.scheduler.SaveAsTemplate(f.org, s.ID, "标准周")
	require.NoError(t, err)

	draft, err := f.scheduler.CreateDraftFromTemplate(f.org, template.ID, CreateScheduleInput{
		WeekStartDate:        date("2024-01-08"),
		AvailabilityDeadline: date("2024-01-04"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ScheduleTypeDraft, draft.Type)
	assert.Equal(t, "标准周", draft.Name)
	require.Len(t, draft.Days, 2)
	assert.Equal(t, "2024-01-08", draft.Days[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2024-01-12", draft.Days[1].Date.Format(time.DateOnly))

	require.Len(t, draft.Days[1].Shifts, 1)
	copied := draft.Days[1].Shifts[0]
	assert.Nil(t, copied.EmployeeID)
	assert.Equal(t, f.bartender, copied.RoleID)
	assert.Equal(t, "18:00", copied.StartTime.String())
	assert.Equal(t, "23:00", copied.EndTime.String())
	assert.True(t, copied.IsOnCall)

	// 模板本身保持不变
	stored, err := f.store.GetScheduleByID(template.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Days[1].Shifts[0].EmployeeID)
}

func TestCreateDraftFromTemplate_NonMondayAnchor(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Friday)
	template, err := f.scheduler.SaveAsTemplate(f.org, s.ID, "标准周")
	require.NoError(t, err)

	// 2024-01-10 是周三，日期按实际星期几映射到之后的七天内
	draft, err := f.scheduler.CreateDraftFromTemplate(f.org, template.ID, CreateScheduleInput{
		Name:                 "从周三开始",
		WeekStartDate:        date("2024-01-10"),
		AvailabilityDeadline: date("2024-01-05"),
	})
	require.NoError(t, err)

	require.Len(t, draft.Days, 2)
	assert.Equal(t, "2024-01-15", draft.Days[0].Date.Format(time.DateOnly))
	assert.Equal(t, domain.Monday, draft.Days[0].Weekday())
	assert.Equal(t, "2024-01-12", draft.Days[1].Date.Format(time.DateOnly))
	assert.Equal(t, domain.Friday, draft.Days[1].Weekday())
}

func TestCreateDraftFromTemplate_RequiresTemplate(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)

	_, err := f.scheduler.CreateDraftFromTemplate(f.org, s.ID, CreateScheduleInput{
		WeekStartDate:        date("2024-01-08"),
		AvailabilityDeadline: date("2024-01-04"),
	})
	require.ErrorIs(t, err, domain.ErrStateConflict)
}

func TestScheduleVisibility(t *testing.T) {
	f := newFixture()
	draft := f.draftWithDays(domain.Monday)
	published := f.draftWithDays(domain.Tuesday)
	_, err := f.scheduler.Publish(f.org, published.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	member := OrganizationContext{OrganizationID: testOrgID, UserID: 500, EmployeeID: f.alice}

	_, err = f.scheduler.GetSchedule(member, draft.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.scheduler.GetSchedule(member, published.ID)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)

	list, err := f.scheduler.ListSchedules(member)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, published.ID, list[0].ID)

	list, err = f.scheduler.ListSchedules(f.org)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestUpdateSchedule(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)

	name := "改名"
	updated, err := f.scheduler.UpdateSchedule(f.org, s.ID, SchedulePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "改名", updated.Name)

	weekStart := date("2024-01-08")
	_, err = f.scheduler.UpdateSchedule(f.org, s.ID, SchedulePatch{WeekStartDate: &weekStart})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	deadline := date("2024-01-02")
	_, err = f.scheduler.UpdateSchedule(f.org, s.ID, SchedulePatch{AvailabilityDeadline: &deadline})
	require.ErrorIs(t, err, domain.ErrValidation)

	empty := f.draftWithDays()
	moved, err := f.scheduler.UpdateSchedule(f.org, empty.ID, SchedulePatch{WeekStartDate: &weekStart})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", moved.WeekStartDate.Format(time.DateOnly))
}

func TestDeleteSchedule_AnyState(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)
	_, err := f.scheduler.Publish(f.org, s.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	require.NoError(t, f.scheduler.DeleteSchedule(f.org, s.ID))
	assert.Empty(t, f.store.schedules)

	err = f.scheduler.DeleteSchedule(f.org, s.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
