package models

import "time"

// DispatchInconsistency records a send that reached the mail provider but
// whose bookkeeping commit was rejected, e.g. a concurrent tick bumped the
// campaign version first. Rows here need operational reconciliation; the
// dispatcher never resolves them on its own.
type DispatchInconsistency struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CampaignID  uint       `gorm:"not null;index:idx_dispatch_inconsistencies_campaign_id" json:"campaign_id"`
	LeadID      uint       `gorm:"not null;index:idx_dispatch_inconsistencies_lead_id" json:"lead_id"`
	SenderEmail string     `gorm:"size:255;not null" json:"sender_email"`
	Detail      string     `gorm:"type:text;not null" json:"detail"`
	Resolved    bool       `gorm:"not null;default:false;index:idx_dispatch_inconsistencies_resolved" json:"resolved"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
}

func (DispatchInconsistency) TableName() string { return "dispatch_inconsistencies" }

// DispatchInconsistencyFilter provides filter fields for repository queries
type DispatchInconsistencyFilter struct {
	ID         *uint
	CampaignID *uint
	LeadID     *uint
	Resolved   *bool
}
