package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
)

func TestComputeWeekDates(t *testing.T) {
	dates := ComputeWeekDates(date("2024-01-01"), []domain.Weekday{domain.Friday, domain.Monday, domain.Sunday})

	require.Len(t, dates, 3)
	assert.Equal(t, "2024-01-05", dates[0].Format(time.DateOnly))
	assert.Equal(t, "2024-01-01", dates[1].Format(time.DateOnly))
	assert.Equal(t, "2024-01-07", dates[2].Format(time.DateOnly))
}

func TestComputeWeekDates_TrustsAnchor(t *testing.T) {
	// 2024-01-03 是周三，但仍被当作周一
	dates := ComputeWeekDates(date("2024-01-03"), []domain.Weekday{domain.Tuesday})

	require.Len(t, dates, 1)
	assert.Equal(t, "2024-01-04", dates[0].Format(time.DateOnly))
}

func TestAddDays(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays()

	days, err := f.scheduler.AddDays(f.org, s.ID, []domain.Weekday{domain.Friday})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "2024-01-05", days[0].Date.Format(time.DateOnly))
	assert.Equal(t, domain.Friday, days[0].Weekday())
}

func TestAddDays_Duplicates(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Friday)

	_, err := f.scheduler.AddDays(f.org, s.ID, []domain.Weekday{domain.Friday, domain.Saturday, domain.Monday})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, map[string][]string{"duplicates": {"2024-01-05", "2024-01-01"}}, domainErr.Details)
	assert.Equal(t, 2, f.store.dayCount())
}

func TestAddDays_RejectsTemplateAndPublished(t *testing.T) {
	f := newFixture()

	template := f.draftWithDays(domain.Monday)
	_, err := f.scheduler.SaveAsTemplate(f.org, template.ID, "标准周")
	require.NoError(t, err)

	_, err = f.scheduler.AddDays(f.org, template.ID, []domain.Weekday{domain.Tuesday})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	published := f.draftWithDays(domain.Monday)
	_, err = f.scheduler.Publish(f.org, published.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	_, err = f.scheduler.AddDays(f.org, published.ID, []domain.Weekday{domain.Tuesday})
	require.ErrorIs(t, err, domain.ErrStateConflict)
	assert.Equal(t, 2, f.store.dayCount())
}

func TestRemoveDays(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Tuesday, domain.Wednesday)

	require.NoError(t, f.scheduler.RemoveDays(f.org, s.ID, []domain.Weekday{domain.Monday, domain.Wednesday}))

	stored, err := f.store.GetScheduleByID(s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.Equal(t, domain.Tuesday, stored.Days[0].Weekday())
}

func TestRemoveDays_NonMondayAnchor(t *testing.T) {
	f := newFixture()

	// 2024-01-03 是周三，但被当作这一周的周一
	s, err := f.scheduler.CreateSchedule(f.org, CreateScheduleInput{
		Name:                 "周三开始",
		WeekStartDate:        date("2024-01-03"),
		AvailabilityDeadline: date("2024-01-01"),
	})
	require.NoError(t, err)

	days, err := f.scheduler.AddDays(f.org, s.ID, []domain.Weekday{domain.Monday, domain.Wednesday})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-01-03", days[0].Date.Format(time.DateOnly))
	assert.Equal(t, "2024-01-05", days[1].Date.Format(time.DateOnly))

	require.NoError(t, f.scheduler.RemoveDays(f.org, s.ID, []domain.Weekday{domain.Monday}))

	stored, err := f.store.GetScheduleByID(s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.Equal(t, "2024-01-05", stored.Days[0].Date.Format(time.DateOnly))
}

func TestRemoveDays_Template(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Friday)
	_, err := f.scheduler.SaveAsTemplate(f.org, s.ID, "标准周")
	require.NoError(t, err)

	require.NoError(t, f.scheduler.RemoveDays(f.org, s.ID, []domain.Weekday{domain.Friday}))

	stored, err := f.store.GetScheduleByID(s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Days, 1)
	assert.Equal(t, domain.Monday, stored.Days[0].Weekday())
}

func TestRemoveDays_WithShiftsIsAllOrNothing(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday, domain.Tuesday)

	_, err := f.scheduler.CreateShift(f.org, ShiftInput{
		ScheduleDayID: s.Days[1].ID,
		RoleID:        f.bartender,
		StartTime:     "18:00",
	})
	require.NoError(t, err)

	err = f.scheduler.RemoveDays(f.org, s.ID, []domain.Weekday{domain.Monday, domain.Tuesday})
	require.ErrorIs(t, err, domain.ErrStateConflict)

	var domainErr *domain.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, map[string][]DayShiftCount{"days": {{Date: "2024-01-02", ShiftCount: 1}}}, domainErr.Details)

	assert.Equal(t, 2, f.store.dayCount())
	assert.Equal(t, 1, f.store.shiftCount())
}

func TestRemoveDays_Published(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)
	_, err := f.scheduler.Publish(f.org, s.ID)
	require.NoError(t, err)
	f.scheduler.Wait()

	err = f.scheduler.RemoveDays(f.org, s.ID, []domain.Weekday{domain.Monday})
	require.ErrorIs(t, err, domain.ErrStateConflict)
	assert.Equal(t, 1, f.store.dayCount())
}

func TestRemoveDays_OtherOrganization(t *testing.T) {
	f := newFixture()
	s := f.draftWithDays(domain.Monday)

	other := OrganizationContext{OrganizationID: 2, IsAdmin: true}
	err := f.scheduler.RemoveDays(other, s.ID, []domain.Weekday{domain.Monday})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
