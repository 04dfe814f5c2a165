package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		input   string
		want    ClockTime
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:05", 9*60 + 5, false},
		{"23:59", 23*60 + 59, false},
		{"24:00", 0, true},
		{"9:05", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"18:00:00", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClockTime(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestClockTimeJSON(t *testing.T) {
	var shift struct {
		Start ClockTime  `json:"start"`
		End   *ClockTime `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"18:30","end":null}`), &shift))
	assert.Equal(t, ClockTime(18*60+30), shift.Start)
	assert.Nil(t, shift.End)

	data, err := json.Marshal(shift)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"18:30","end":null}`, string(data))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"6pm"}`), &shift))
}

func TestClockTimeScan(t *testing.T) {
	var c ClockTime

	require.NoError(t, c.Scan("18:30:00"))
	assert.Equal(t, "18:30", c.String())

	require.NoError(t, c.Scan([]byte("07:15:00")))
	assert.Equal(t, "07:15", c.String())

	require.NoError(t, c.Scan(time.Date(0, 1, 1, 22, 45, 0, 0, time.UTC)))
	assert.Equal(t, "22:45", c.String())

	assert.Error(t, c.Scan(42))

	v, err := ClockTime(9 * 60).Value()
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", v)
}

func TestWeekdayOf(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		assert.Equal(t, want, WeekdayOf(start.AddDate(0, 0, i)))
	}
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Friday")
	require.NoError(t, err)
	offset, ok := d.Offset()
	assert.True(t, ok)
	assert.Equal(t, 4, offset)

	_, err = ParseWeekday("friday")
	require.ErrorIs(t, err, ErrValidation)
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := NewStateConflictError("班表已发布", map[string]int{"n": 1})

	assert.ErrorIs(t, err, ErrStateConflict)
	assert.NotErrorIs(t, err, ErrValidation)
}
