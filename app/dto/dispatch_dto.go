package dto

// TriggerDispatchResponse reports the outcome of a manually triggered tick
type TriggerDispatchResponse struct {
	Outcome      string `json:"outcome"`
	CampaignID   uint   `json:"campaign_id,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	LeadID       uint   `json:"lead_id,omitempty"`
	AccountEmail string `json:"account_email,omitempty"`
	Inconsistent bool   `json:"inconsistent,omitempty"`
	Error        string `json:"error,omitempty"`
}

// SentEmailDTO is the wire form of one audit trail row
type SentEmailDTO struct {
	ID          uint   `json:"id"`
	CampaignID  uint   `json:"campaign_id"`
	LeadID      uint   `json:"lead_id"`
	SenderEmail string `json:"sender_email"`
	Recipient   string `json:"recipient"`
	Subject     string `json:"subject"`
	TrackingID  string `json:"tracking_id"`
	CreatedAt   string `json:"created_at"`
}

// ListSentEmailsRequest represents the sent email list query
type ListSentEmailsRequest struct {
	Page         int    `json:"page" validate:"omitempty,gte=1"`
	PageSize     int    `json:"page_size" validate:"omitempty,gte=1,lte=100"`
	CampaignUUID string `json:"campaign_uuid"`
}

// ListSentEmailsResponse represents the sent email list response
type ListSentEmailsResponse struct {
	SentEmails []SentEmailDTO `json:"sent_emails"`
	Pagination Pagination     `json:"pagination"`
}

// InconsistencyDTO is the wire form of one recorded commit failure
type InconsistencyDTO struct {
	ID          uint   `json:"id"`
	CampaignID  uint   `json:"campaign_id"`
	LeadID      uint   `json:"lead_id"`
	SenderEmail string `json:"sender_email"`
	Detail      string `json:"detail"`
	Resolved    bool   `json:"resolved"`
	CreatedAt   string `json:"created_at"`
	ResolvedAt  string `json:"resolved_at,omitempty"`
}

// ListInconsistenciesRequest represents the inconsistency list query
type ListInconsistenciesRequest struct {
	Page     int  `json:"page" validate:"omitempty,gte=1"`
	PageSize int  `json:"page_size" validate:"omitempty,gte=1,lte=100"`
	All      bool `json:"all"`
}

// ListInconsistenciesResponse represents the inconsistency list response
type ListInconsistenciesResponse struct {
	Inconsistencies []InconsistencyDTO `json:"inconsistencies"`
	Pagination      Pagination         `json:"pagination"`
}

// ResolveInconsistencyResponse acknowledges a resolved inconsistency
type ResolveInconsistencyResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}
