package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
)

func TestParseShiftTime(t *testing.T) {
	end := "23:00"
	start, parsedEnd, err := ParseShiftTime("18:00", &end)
	require.NoError(t, err)
	assert.Equal(t, "18:00", start.String())
	assert.Equal(t, "23:00", parsedEnd.String())

	_, parsedEnd, err = ParseShiftTime("18:00", nil)
	require.NoError(t, err)
	assert.Nil(t, parsedEnd)

	early := "17:00"
	_, _, err = ParseShiftTime("18:00", &early)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateScheduleDates(t *testing.T) {
	weekStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	before := weekStart.AddDate(0, 0, -3)
	after := weekStart.AddDate(0, 0, 1)

	assert.NoError(t, ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, &before))
	assert.NoError(t, ValidateScheduleDates(domain.ScheduleTypeTemplate, nil, nil))
	assert.ErrorIs(t, ValidateScheduleDates(domain.ScheduleTypeDraft, nil, nil), domain.ErrValidation)
	assert.ErrorIs(t, ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, nil), domain.ErrValidation)
	assert.ErrorIs(t, ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, &weekStart), domain.ErrValidation)
	assert.ErrorIs(t, ValidateScheduleDates(domain.ScheduleTypeDraft, &weekStart, &after), domain.ErrValidation)
}

func TestValidateAvailability(t *testing.T) {
	start, _ := domain.ParseClockTime("10:00")
	end, _ := domain.ParseClockTime("14:00")

	unavailable := &domain.Availability{DayOfWeek: domain.Monday, Status: domain.AvailabilityUnavailable, StartTime: &start, EndTime: &end}
	require.NoError(t, ValidateAvailability(unavailable))
	assert.Nil(t, unavailable.StartTime)
	assert.Nil(t, unavailable.EndTime)

	missingStart := &domain.Availability{DayOfWeek: domain.Monday, Status: domain.AvailabilityAvailable}
	assert.ErrorIs(t, ValidateAvailability(missingStart), domain.ErrValidation)

	badDay := &domain.Availability{DayOfWeek: "Funday", Status: domain.AvailabilityAvailable, StartTime: &start}
	assert.ErrorIs(t, ValidateAvailability(badDay), domain.ErrValidation)

	badStatus := &domain.Availability{DayOfWeek: domain.Monday, Status: "MAYBE", StartTime: &start}
	assert.ErrorIs(t, ValidateAvailability(badStatus), domain.ErrValidation)

	preferred := &domain.Availability{DayOfWeek: domain.Monday, Status: domain.AvailabilityPreferred, StartTime: &start, EndTime: &end}
	assert.NoError(t, ValidateAvailability(preferred))
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays([]string{"Friday", "Saturday"})
	require.NoError(t, err)
	assert.Equal(t, []domain.Weekday{domain.Friday, domain.Saturday}, days)

	_, err = ParseWeekdays(nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseWeekdays([]string{"Friday", "Friday"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ParseWeekdays([]string{"Caturday"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
