// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/mkarimzade/Simorgh/app/dto"
	"github.com/mkarimzade/Simorgh/models"
)

const RequestIDKey = "X-Request-ID"

// Pagination bounds shared by all list operations
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClientMetadata holds client-related information for request tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// normalizePagination validates page/page size and returns limit and offset
func normalizePagination(page, pageSize int) (limit, offset int, err error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return 0, 0, ErrInvalidPageSize
	}
	return pageSize, (page - 1) * pageSize, nil
}

// ToScheduleDTO converts a schedule model to its transport form
func ToScheduleDTO(schedule *models.Schedule) *dto.ScheduleDTO {
	if schedule == nil {
		return nil
	}
	return &dto.ScheduleDTO{
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
		DaysOfWeek: schedule.DaysOfWeek,
		Timezone:   schedule.Timezone,
	}
}

// ToSenderAccountDTOs converts a campaign's account list to its transport form
func ToSenderAccountDTOs(accounts models.SenderAccounts) []dto.SenderAccountDTO {
	out := make([]dto.SenderAccountDTO, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, dto.SenderAccountDTO{
			Email:        a.Email,
			DailyLimit:   a.DailyLimit,
			UsageToday:   a.UsageToday,
			UsageDate:    a.UsageDate,
			NextSendTime: a.NextSendTime,
		})
	}
	return out
}

// ToCampaignDTO converts a campaign model to its transport form
func ToCampaignDTO(campaign *models.Campaign) dto.CampaignDTO {
	return dto.CampaignDTO{
		ID:               campaign.ID,
		UUID:             campaign.UUID.String(),
		Name:             campaign.Name,
		Active:           campaign.Active,
		EmailSubject:     campaign.EmailSubject,
		EmailBody:        campaign.EmailBody,
		Schedule:         ToScheduleDTO(campaign.Schedule),
		Accounts:         ToSenderAccountDTOs(campaign.Accounts),
		LastAccountIndex: campaign.LastAccountIndex,
		Version:          campaign.Version,
		CreatedAt:        campaign.CreatedAt.Format(time.RFC3339),
	}
}

// ToLeadDTO converts a lead model to its transport form
func ToLeadDTO(lead *models.Lead) dto.LeadDTO {
	out := dto.LeadDTO{
		ID:        lead.ID,
		UUID:      lead.UUID.String(),
		Email:     lead.Email,
		FullName:  lead.FullName,
		Campaigns: lead.Campaigns,
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
	}
	if lead.EmailedAt != nil {
		out.EmailedAt = lead.EmailedAt.Format(time.RFC3339)
	}
	return out
}
