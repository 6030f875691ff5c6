// Package scheduler implements the campaign dispatch scheduler: the periodic
// decision procedure that picks one campaign, one sender account and one lead
// per tick, sends a single email and commits the bookkeeping atomically.
package scheduler

import (
	"fmt"
	"time"

	"github.com/mkarimzade/Simorgh/models"
)

// ErrMalformedSchedule marks schedule data that cannot be parsed. It is a
// programmer/data error, not a transient condition: the offending campaign is
// skipped loudly instead of retried quietly.
type ErrMalformedSchedule struct {
	Field string
	Value string
	Err   error
}

func (e *ErrMalformedSchedule) Error() string {
	return fmt.Sprintf("malformed schedule %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ErrMalformedSchedule) Unwrap() error { return e.Err }

// ParseClock converts an "HH:MM" wall-clock string to a minute-of-day value
// (0-1439).
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// EvaluateWindow validates an instant against a campaign schedule and returns
// the terminal outcome when the gate rejects the tick, or OutcomeNone when it
// passes. Window bounds are inclusive on both ends. When the schedule names a
// loadable timezone, now is converted into it before the minute-of-day and
// weekday computations; otherwise the instant's own wall clock is used.
func EvaluateWindow(schedule *models.Schedule, now time.Time) (TickOutcome, error) {
	if schedule == nil {
		return OutcomeNoSchedule, nil
	}

	if schedule.Timezone != "" {
		if loc, err := time.LoadLocation(schedule.Timezone); err == nil {
			now = now.In(loc)
		}
	}

	start, err := ParseClock(schedule.StartTime)
	if err != nil {
		return OutcomeBadCampaign, &ErrMalformedSchedule{Field: "startTime", Value: schedule.StartTime, Err: err}
	}
	end, err := ParseClock(schedule.EndTime)
	if err != nil {
		return OutcomeBadCampaign, &ErrMalformedSchedule{Field: "endTime", Value: schedule.EndTime, Err: err}
	}

	nowMinutes := now.Hour()*60 + now.Minute()
	if nowMinutes < start || nowMinutes > end {
		return OutcomeOutsideWindow, nil
	}

	if !schedule.DayEnabled(now.Weekday().String()) {
		return OutcomeOutsideWindow, nil
	}

	return OutcomeNone, nil
}
