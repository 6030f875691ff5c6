package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkarimzade/Simorgh/utils"
	"gorm.io/gorm"
)

// Weekday names used as keys in Schedule.DaysOfWeek
const (
	DaySunday    = "Sunday"
	DayMonday    = "Monday"
	DayTuesday   = "Tuesday"
	DayWednesday = "Wednesday"
	DayThursday  = "Thursday"
	DayFriday    = "Friday"
	DaySaturday  = "Saturday"
)

// IsWeekdayName reports whether day is one of the weekday name constants
func IsWeekdayName(day string) bool {
	switch day {
	case DaySunday, DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday:
		return true
	}
	return false
}

// Schedule describes the daily sending window of a campaign.
// StartTime and EndTime are wall-clock values in "HH:MM" form; DaysOfWeek maps
// weekday names to enabled flags. An absent (nil) map allows every day, while
// a present map only allows the days it flags true. Timezone optionally names
// an IANA location the window is evaluated in.
type Schedule struct {
	StartTime  string          `json:"startTime"`
	EndTime    string          `json:"endTime"`
	DaysOfWeek map[string]bool `json:"daysOfWeek"`
	Timezone   string          `json:"timezone,omitempty"`
}

// Value implements the driver.Valuer interface for Schedule
func (s Schedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface for Schedule
func (s *Schedule) Scan(value any) error {
	if value == nil {
		*s = Schedule{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Schedule", value)
	}

	return json.Unmarshal(bytes, s)
}

// DayEnabled reports whether sending is allowed on the given weekday name.
// An absent DaysOfWeek map allows every day; a present map allows only the
// days it flags true, so an empty map allows none.
func (s *Schedule) DayEnabled(day string) bool {
	if s == nil {
		return false
	}
	if s.DaysOfWeek == nil {
		return true
	}
	return s.DaysOfWeek[day]
}

// SenderAccount is one sending identity embedded in a campaign. UsageToday
// counts sends on the UsageDate calendar day; NextSendTime is the earliest
// instant the account may send again.
type SenderAccount struct {
	Email        string     `json:"email"`
	DailyLimit   int        `json:"dailyLimit"`
	UsageToday   int        `json:"usageToday"`
	UsageDate    string     `json:"usageDate,omitempty"`
	NextSendTime *time.Time `json:"nextSendTime,omitempty"`
}

// UsageOn returns the usage counter valid for the given calendar-day key.
// A rolled-over day means the counter starts fresh at zero.
func (a *SenderAccount) UsageOn(dayKey string) int {
	if a.UsageDate != dayKey {
		return 0
	}
	return a.UsageToday
}

// SenderAccounts is the ordered account list stored as a JSONB array
type SenderAccounts []SenderAccount

// Value implements the driver.Valuer interface for SenderAccounts
func (a SenderAccounts) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(SenderAccounts{})
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface for SenderAccounts
func (a *SenderAccounts) Scan(value any) error {
	if value == nil {
		*a = SenderAccounts{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SenderAccounts", value)
	}

	return json.Unmarshal(bytes, a)
}

// Campaign represents an email campaign in the database. Version guards the
// read-modify-write cycle of the dispatcher: every commit checks and bumps it.
type Campaign struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UUID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	Name             string         `gorm:"size:120;not null;uniqueIndex:uk_campaigns_name" json:"name"`
	Active           bool           `gorm:"not null;default:false;index:idx_campaigns_active" json:"active"`
	EmailSubject     string         `gorm:"type:text" json:"email_subject"`
	EmailBody        string         `gorm:"type:text" json:"email_body"`
	Schedule         *Schedule      `gorm:"type:jsonb" json:"schedule,omitempty"`
	Accounts         SenderAccounts `gorm:"type:jsonb;not null;default:'[]'" json:"accounts"`
	LastAccountIndex int            `gorm:"not null;default:0" json:"last_account_index"`
	Version          int            `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt        *time.Time     `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	if c.Version == 0 {
		c.Version = 1
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// Subject returns the subject line to send, falling back to the default
func (c *Campaign) Subject() string {
	if c.EmailSubject != "" {
		return c.EmailSubject
	}
	return utils.DefaultEmailSubject
}

// Body returns the body to send for the given lead name, falling back to the
// default greeting
func (c *Campaign) Body(leadName string) string {
	if c.EmailBody != "" {
		return c.EmailBody
	}
	return fmt.Sprintf(utils.DefaultEmailBodyFormat, leadName)
}

// CampaignFilter represents filter criteria for campaigns
type CampaignFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Name          *string    `json:"name,omitempty"`
	Active        *bool      `json:"active,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
