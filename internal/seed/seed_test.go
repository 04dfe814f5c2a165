package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tavernshift/backend/internal/domain"
)

func TestParseAvailabilityCell(t *testing.T) {
	tests := []struct {
		name   string
		cell   string
		status domain.AvailabilityStatus
		start  string
		end    string
	}{
		{"时间段", "18:00-23:00", domain.AvailabilityAvailable, "18:00", "23:00"},
		{"直到打烊", "18:00-", domain.AvailabilityAvailable, "18:00", ""},
		{"偏好", "*16:00-", domain.AvailabilityPreferred, "16:00", ""},
		{"休息", "休息", domain.AvailabilityUnavailable, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAvailabilityCell(domain.Friday, tt.cell)
			require.NoError(t, err)
			require.NotNil(t, a)
			assert.Equal(t, domain.Friday, a.DayOfWeek)
			assert.Equal(t, tt.status, a.Status)

			if tt.start == "" {
				assert.Nil(t, a.StartTime)
			} else {
				assert.Equal(t, tt.start, a.StartTime.String())
			}
			if tt.end == "" {
				assert.Nil(t, a.EndTime)
			} else {
				assert.Equal(t, tt.end, a.EndTime.String())
			}
		})
	}
}

func TestParseAvailabilityCell_Blank(t *testing.T) {
	a, err := ParseAvailabilityCell(domain.Monday, "  ")
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestParseAvailabilityCell_Invalid(t *testing.T) {
	for _, cell := range []string{"18:00", "23:00-18:00", "6pm-"} {
		_, err := ParseAvailabilityCell(domain.Monday, cell)
		assert.Error(t, err, cell)
	}
}

func TestNextMonday(t *testing.T) {
	tests := []struct {
		now  string
		want string
	}{
		{"2024-01-01", "2024-01-08"}, // 周一
		{"2024-01-03", "2024-01-08"}, // 周三
		{"2024-01-07", "2024-01-08"}, // 周日
	}

	for _, tt := range tests {
		now, err := time.Parse(time.DateOnly, tt.now)
		require.NoError(t, err)
		assert.Equal(t, tt.want, NextMonday(now.Add(15*time.Hour)).Format(time.DateOnly))
	}
}
