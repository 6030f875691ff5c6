package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mkarimzade/Simorgh/utils"
	"gorm.io/gorm"
)

// Lead represents one recipient contact. Campaigns lists the campaign names
// the lead is enrolled in. EmailedAt is set exactly once by the dispatcher; a
// null value marks the lead eligible for sending.
type Lead struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uk_leads_uuid" json:"uuid"`
	Email     string         `gorm:"size:255;not null;index:idx_leads_email" json:"email"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Campaigns pq.StringArray `gorm:"type:text[];not null;default:'{}';index:idx_leads_campaigns,type:gin" json:"campaigns"`
	EmailedAt *time.Time     `gorm:"index:idx_leads_emailed_at" json:"emailed_at,omitempty"`
	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_created_at" json:"created_at"`
}

// TableName returns the table name for the model
func (Lead) TableName() string {
	return "leads"
}

// BeforeCreate is called before creating a new record
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// EnrolledIn reports whether the lead is enrolled in the named campaign
func (l *Lead) EnrolledIn(campaignName string) bool {
	for _, name := range l.Campaigns {
		if name == campaignName {
			return true
		}
	}
	return false
}

// LeadFilter represents filter criteria for leads
type LeadFilter struct {
	ID            *uint      `json:"id,omitempty"`
	UUID          *uuid.UUID `json:"uuid,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Campaign      *string    `json:"campaign,omitempty"`
	Emailed       *bool      `json:"emailed,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
