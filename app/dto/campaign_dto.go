package dto

import "time"

// ScheduleDTO is the wire form of a campaign sending window
type ScheduleDTO struct {
	StartTime  string          `json:"start_time" validate:"required"`
	EndTime    string          `json:"end_time" validate:"required"`
	DaysOfWeek map[string]bool `json:"days_of_week,omitempty"`
	Timezone   string          `json:"timezone,omitempty"`
}

// SenderAccountDTO is the wire form of a sending identity
type SenderAccountDTO struct {
	Email        string     `json:"email" validate:"required,email"`
	DailyLimit   int        `json:"daily_limit" validate:"gte=0"`
	UsageToday   int        `json:"usage_today,omitempty"`
	UsageDate    string     `json:"usage_date,omitempty"`
	NextSendTime *time.Time `json:"next_send_time,omitempty"`
}

// CampaignDTO is the full campaign representation returned by the API
type CampaignDTO struct {
	ID               uint               `json:"id"`
	UUID             string             `json:"uuid"`
	Name             string             `json:"name"`
	Active           bool               `json:"active"`
	EmailSubject     string             `json:"email_subject,omitempty"`
	EmailBody        string             `json:"email_body,omitempty"`
	Schedule         *ScheduleDTO       `json:"schedule,omitempty"`
	Accounts         []SenderAccountDTO `json:"accounts"`
	LastAccountIndex int                `json:"last_account_index"`
	Version          int                `json:"version"`
	CreatedAt        string             `json:"created_at"`
}

// CreateCampaignRequest represents the campaign creation request
type CreateCampaignRequest struct {
	Name         string             `json:"name" validate:"required,min=1,max=120"`
	Active       bool               `json:"active"`
	EmailSubject string             `json:"email_subject" validate:"omitempty,max=500"`
	EmailBody    string             `json:"email_body"`
	Schedule     *ScheduleDTO       `json:"schedule" validate:"omitempty"`
	Accounts     []SenderAccountDTO `json:"accounts" validate:"omitempty,dive"`
}

// CreateCampaignResponse represents the campaign creation response
type CreateCampaignResponse struct {
	Message  string      `json:"message"`
	Campaign CampaignDTO `json:"campaign"`
}

// UpdateCampaignRequest represents a partial campaign update; nil fields keep
// their current values
type UpdateCampaignRequest struct {
	UUID         string              `json:"-"`
	Name         *string             `json:"name" validate:"omitempty,min=1,max=120"`
	Active       *bool               `json:"active"`
	EmailSubject *string             `json:"email_subject" validate:"omitempty,max=500"`
	EmailBody    *string             `json:"email_body"`
	Schedule     *ScheduleDTO        `json:"schedule" validate:"omitempty"`
	Accounts     *[]SenderAccountDTO `json:"accounts" validate:"omitempty,dive"`
}

// UpdateCampaignResponse represents the campaign update response
type UpdateCampaignResponse struct {
	Message  string      `json:"message"`
	Campaign CampaignDTO `json:"campaign"`
}

// AddSenderAccountRequest attaches one more sending identity to a campaign
type AddSenderAccountRequest struct {
	UUID    string           `json:"-"`
	Account SenderAccountDTO `json:"account" validate:"required"`
}

// AddSenderAccountResponse represents the account addition response
type AddSenderAccountResponse struct {
	Message  string      `json:"message"`
	Campaign CampaignDTO `json:"campaign"`
}

// ListCampaignsRequest represents the campaign list query
type ListCampaignsRequest struct {
	Page     int   `json:"page" validate:"omitempty,gte=1"`
	PageSize int   `json:"page_size" validate:"omitempty,gte=1,lte=100"`
	Active   *bool `json:"active"`
}

// ListCampaignsResponse represents the campaign list response
type ListCampaignsResponse struct {
	Campaigns  []CampaignDTO `json:"campaigns"`
	Pagination Pagination    `json:"pagination"`
}

// CampaignStatsResponse reports lead progress and account usage for one campaign
type CampaignStatsResponse struct {
	UUID           string             `json:"uuid"`
	Name           string             `json:"name"`
	TotalLeads     int64              `json:"total_leads"`
	EmailedLeads   int64              `json:"emailed_leads"`
	RemainingLeads int64              `json:"remaining_leads"`
	Accounts       []SenderAccountDTO `json:"accounts"`
}
