package models

import "time"

// SentEmail records a single delivered email under a campaign. Rows are
// written in the same transaction as the dispatch commit, so the table is an
// exact audit trail of what the scheduler sent.
type SentEmail struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CampaignID  uint      `gorm:"not null;index:idx_sent_emails_campaign_id" json:"campaign_id"`
	LeadID      uint      `gorm:"not null;index:idx_sent_emails_lead_id" json:"lead_id"`
	SenderEmail string    `gorm:"size:255;not null;index:idx_sent_emails_sender_email" json:"sender_email"`
	Recipient   string    `gorm:"size:255;not null" json:"recipient"`
	Subject     string    `gorm:"type:text" json:"subject"`
	TrackingID  string    `gorm:"size:64;not null;index:idx_sent_emails_tracking_id" json:"tracking_id"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sent_emails_created_at" json:"created_at"`
}

func (SentEmail) TableName() string { return "sent_emails" }

// SentEmailFilter provides filter fields for repository queries
type SentEmailFilter struct {
	ID            *uint
	CampaignID    *uint
	LeadID        *uint
	SenderEmail   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
