package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleDayEnabled(t *testing.T) {
	t.Run("NilScheduleAllowsNothing", func(t *testing.T) {
		var s *Schedule
		assert.False(t, s.DayEnabled(DayMonday))
	})

	t.Run("NilMapAllowsEveryDay", func(t *testing.T) {
		s := &Schedule{StartTime: "09:00", EndTime: "17:00"}
		assert.True(t, s.DayEnabled(DayMonday))
		assert.True(t, s.DayEnabled(DaySunday))
	})

	t.Run("EmptyMapAllowsNoDay", func(t *testing.T) {
		s := &Schedule{StartTime: "09:00", EndTime: "17:00", DaysOfWeek: map[string]bool{}}
		assert.False(t, s.DayEnabled(DayMonday))
		assert.False(t, s.DayEnabled(DaySunday))
	})

	t.Run("AbsentDayIsDisabled", func(t *testing.T) {
		s := &Schedule{DaysOfWeek: map[string]bool{DayMonday: true, DayTuesday: false}}
		assert.True(t, s.DayEnabled(DayMonday))
		assert.False(t, s.DayEnabled(DayTuesday))
		assert.False(t, s.DayEnabled(DayWednesday))
	})
}

func TestSenderAccountUsageOn(t *testing.T) {
	account := SenderAccount{
		Email:      "sender.a@example.com",
		DailyLimit: 50,
		UsageToday: 37,
		UsageDate:  "2024-07-15",
	}

	assert.Equal(t, 37, account.UsageOn("2024-07-15"))
	assert.Equal(t, 0, account.UsageOn("2024-07-16"))
}

func TestCampaignContentDefaults(t *testing.T) {
	t.Run("FallsBackToDefaults", func(t *testing.T) {
		c := &Campaign{Name: "spring-launch"}
		assert.Equal(t, "Hello from my campaign", c.Subject())
		assert.Equal(t, "Hello Dana Reed!", c.Body("Dana Reed"))
	})

	t.Run("CustomContentWins", func(t *testing.T) {
		c := &Campaign{EmailSubject: "Big news", EmailBody: "Read this"}
		assert.Equal(t, "Big news", c.Subject())
		assert.Equal(t, "Read this", c.Body("Dana Reed"))
	})
}

func TestLeadEnrolledIn(t *testing.T) {
	lead := &Lead{Campaigns: []string{"spring-launch", "autumn-launch"}}

	assert.True(t, lead.EnrolledIn("spring-launch"))
	assert.False(t, lead.EnrolledIn("winter-launch"))
}

func TestIsWeekdayName(t *testing.T) {
	assert.True(t, IsWeekdayName(DayMonday))
	assert.True(t, IsWeekdayName(DaySaturday))
	assert.False(t, IsWeekdayName("monday"))
	assert.False(t, IsWeekdayName("Funday"))
}
