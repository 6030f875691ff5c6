package utils

import (
	"time"
)

// Dispatch timing constants
const (
	// DefaultTickInterval is the default period between dispatch ticks (2 minutes)
	DefaultTickInterval = 2 * time.Minute

	// DefaultSendTimeout bounds one external mail send
	DefaultSendTimeout = 30 * time.Second

	// DefaultStoreTimeout bounds one store read or commit
	DefaultStoreTimeout = 10 * time.Second
)

// Default email content used when a campaign does not set its own
const (
	DefaultEmailSubject = "Hello from my campaign"

	// DefaultEmailBodyFormat is applied with the lead's full name
	DefaultEmailBodyFormat = "Hello %s!"
)

// ScheduleTimeLayout is the wall-clock layout campaigns store their window in
const ScheduleTimeLayout = "15:04"
