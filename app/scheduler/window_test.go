package scheduler

import (
	"testing"
	"time"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustTime parses "2006-01-02 15:04" in UTC; 2024-07-15 is a Monday
func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return ts
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"20:30", 1230, false},
		{"23:59", 1439, false},
		{"9am", 0, true},
		{"25:00", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseClock(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}

func TestEvaluateWindow_NilSchedule(t *testing.T) {
	outcome, err := EvaluateWindow(nil, mustTime(t, "2024-07-15 12:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoSchedule, outcome)
}

func TestEvaluateWindow_BoundsAreInclusive(t *testing.T) {
	schedule := &models.Schedule{StartTime: "09:00", EndTime: "20:30"}

	tests := []struct {
		now  string
		want TickOutcome
	}{
		{"2024-07-15 08:59", OutcomeOutsideWindow},
		{"2024-07-15 09:00", OutcomeNone},
		{"2024-07-15 12:00", OutcomeNone},
		{"2024-07-15 20:30", OutcomeNone},
		{"2024-07-15 20:31", OutcomeOutsideWindow},
	}

	for _, tt := range tests {
		outcome, err := EvaluateWindow(schedule, mustTime(t, tt.now))
		require.NoError(t, err, "now %s", tt.now)
		assert.Equal(t, tt.want, outcome, "now %s", tt.now)
	}
}

func TestEvaluateWindow_DisabledDay(t *testing.T) {
	schedule := &models.Schedule{
		StartTime: "09:00",
		EndTime:   "20:30",
		DaysOfWeek: map[string]bool{
			models.DayMonday:  false,
			models.DayTuesday: true,
		},
	}

	outcome, err := EvaluateWindow(schedule, mustTime(t, "2024-07-15 12:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOutsideWindow, outcome, "Monday is disabled")

	outcome, err = EvaluateWindow(schedule, mustTime(t, "2024-07-16 12:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, outcome, "Tuesday is enabled")

	// Wednesday is absent from the map, which means disabled
	outcome, err = EvaluateWindow(schedule, mustTime(t, "2024-07-17 12:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOutsideWindow, outcome)
}

func TestEvaluateWindow_AbsentDaysAllowsEveryDay(t *testing.T) {
	schedule := &models.Schedule{StartTime: "00:00", EndTime: "23:59"}

	for day := 15; day <= 21; day++ {
		now := time.Date(2024, 7, day, 12, 0, 0, 0, time.UTC)
		outcome, err := EvaluateWindow(schedule, now)
		require.NoError(t, err)
		assert.Equal(t, OutcomeNone, outcome, "weekday %s", now.Weekday())
	}
}

func TestEvaluateWindow_EmptyDaysAllowsNoDay(t *testing.T) {
	schedule := &models.Schedule{
		StartTime:  "09:00",
		EndTime:    "20:30",
		DaysOfWeek: map[string]bool{},
	}

	// Tuesday noon, well inside the time bounds. A day map with no enabled
	// entries still rejects every weekday.
	outcome, err := EvaluateWindow(schedule, mustTime(t, "2024-07-16 12:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOutsideWindow, outcome)
}

func TestEvaluateWindow_MalformedTimes(t *testing.T) {
	outcome, err := EvaluateWindow(&models.Schedule{StartTime: "9am", EndTime: "20:30"}, mustTime(t, "2024-07-15 12:00"))
	assert.Equal(t, OutcomeBadCampaign, outcome)
	var malformed *ErrMalformedSchedule
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "startTime", malformed.Field)
	assert.Equal(t, "9am", malformed.Value)

	outcome, err = EvaluateWindow(&models.Schedule{StartTime: "09:00", EndTime: "24:30"}, mustTime(t, "2024-07-15 12:00"))
	assert.Equal(t, OutcomeBadCampaign, outcome)
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "endTime", malformed.Field)
}

func TestEvaluateWindow_Timezone(t *testing.T) {
	schedule := &models.Schedule{
		StartTime: "09:00",
		EndTime:   "17:00",
		Timezone:  "America/New_York",
	}

	// 14:00 UTC in July is 10:00 in New York, inside the window
	outcome, err := EvaluateWindow(schedule, mustTime(t, "2024-07-15 14:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, outcome)

	// 23:00 UTC is 19:00 in New York, outside the window
	outcome, err = EvaluateWindow(schedule, mustTime(t, "2024-07-15 23:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOutsideWindow, outcome)
}

func TestEvaluateWindow_UnknownTimezoneFallsBack(t *testing.T) {
	schedule := &models.Schedule{
		StartTime: "09:00",
		EndTime:   "17:00",
		Timezone:  "Mars/Olympus",
	}

	// The instant's own wall clock (UTC here) is used when the location
	// cannot be loaded.
	outcome, err := EvaluateWindow(schedule, mustTime(t, "2024-07-15 10:00"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeNone, outcome)
}
