// Package businessflow contains the core business logic and use cases for campaign workflows
package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mkarimzade/Simorgh/app/dto"
	"github.com/mkarimzade/Simorgh/config"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	"github.com/mkarimzade/Simorgh/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CampaignFlow handles the campaign business logic
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error)
	UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error)
	GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error)
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error)
	AddSenderAccount(ctx context.Context, req *dto.AddSenderAccountRequest, metadata *ClientMetadata) (*dto.AddSenderAccountResponse, error)
	SetCampaignActive(ctx context.Context, uuid string, active bool, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	DeleteCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error
	GetCampaignStats(ctx context.Context, uuid string) (*dto.CampaignStatsResponse, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	leadRepo     repository.LeadRepository
	cacheConfig  *config.CacheConfig
	rc           *redis.Client
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	leadRepo repository.LeadRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		leadRepo:     leadRepo,
		cacheConfig:  cacheConfig,
		rc:           rc,
		db:           db,
	}
}

// CreateCampaign handles the complete campaign creation process
func (s *CampaignFlowImpl) CreateCampaign(ctx context.Context, req *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CreateCampaignResponse, error) {
	if err := s.validateCreateCampaignRequest(req); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	existing, err := s.campaignRepo.ByName(ctx, req.Name)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to check campaign name", err)
	}
	if existing != nil {
		return nil, NewBusinessError("CAMPAIGN_NAME_TAKEN", "Campaign name is already taken", ErrCampaignNameTaken)
	}

	campaign := &models.Campaign{
		Name:         req.Name,
		Active:       req.Active,
		EmailSubject: req.EmailSubject,
		EmailBody:    req.EmailBody,
		Schedule:     scheduleFromDTO(req.Schedule),
		Accounts:     accountsFromDTO(req.Accounts),
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Save(txCtx, campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Campaign creation failed", err)
	}

	return &dto.CreateCampaignResponse{
		Message:  "Campaign created successfully",
		Campaign: ToCampaignDTO(campaign),
	}, nil
}

// UpdateCampaign handles the campaign update process
func (s *CampaignFlowImpl) UpdateCampaign(ctx context.Context, req *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.UpdateCampaignResponse, error) {
	if req.UUID == "" {
		return nil, NewBusinessError("CAMPAIGN_UUID_REQUIRED", "Campaign UUID is required", ErrCampaignUUIDRequired)
	}
	if req.Name == nil && req.Active == nil && req.EmailSubject == nil &&
		req.EmailBody == nil && req.Schedule == nil && req.Accounts == nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_REQUIRED", "At least one field must be provided", ErrCampaignUpdateRequired)
	}
	if req.Schedule != nil {
		if err := validateSchedule(req.Schedule); err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
	}
	if req.Accounts != nil {
		if err := validateAccounts(*req.Accounts); err != nil {
			return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
		}
	}

	campaign, err := s.getCampaign(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != campaign.Name {
		if *req.Name == "" {
			return nil, NewBusinessError("CAMPAIGN_NAME_REQUIRED", "Campaign name is required", ErrCampaignNameRequired)
		}
		other, err := s.campaignRepo.ByName(ctx, *req.Name)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to check campaign name", err)
		}
		if other != nil {
			return nil, NewBusinessError("CAMPAIGN_NAME_TAKEN", "Campaign name is already taken", ErrCampaignNameTaken)
		}
		campaign.Name = *req.Name
	}
	if req.Active != nil {
		campaign.Active = *req.Active
	}
	if req.EmailSubject != nil {
		campaign.EmailSubject = *req.EmailSubject
	}
	if req.EmailBody != nil {
		campaign.EmailBody = *req.EmailBody
	}
	if req.Schedule != nil {
		campaign.Schedule = scheduleFromDTO(req.Schedule)
	}
	if req.Accounts != nil {
		// Replacing the account list invalidates the rotation cursor
		campaign.Accounts = accountsFromDTO(*req.Accounts)
		campaign.LastAccountIndex = 0
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}
	campaign.Version++

	s.invalidateStatsCache(ctx, campaign.UUID.String())

	return &dto.UpdateCampaignResponse{
		Message:  "Campaign updated successfully",
		Campaign: ToCampaignDTO(campaign),
	}, nil
}

// GetCampaign returns a single campaign by UUID
func (s *CampaignFlowImpl) GetCampaign(ctx context.Context, uuid string) (*dto.CampaignDTO, error) {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}
	out := ToCampaignDTO(campaign)
	return &out, nil
}

// ListCampaigns returns a page of campaigns, newest first
func (s *CampaignFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest) (*dto.ListCampaignsResponse, error) {
	limit, offset, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	filter := models.CampaignFilter{Active: req.Active}
	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}
	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_COUNT_FAILED", "Failed to count campaigns", err)
	}

	out := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		out = append(out, ToCampaignDTO(campaign))
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	return &dto.ListCampaignsResponse{
		Campaigns: out,
		Pagination: dto.Pagination{
			Page:     page,
			PageSize: limit,
			Total:    total,
		},
	}, nil
}

// AddSenderAccount appends one sending identity to the campaign's rotation.
// The existing accounts and the rotation cursor are left untouched.
func (s *CampaignFlowImpl) AddSenderAccount(ctx context.Context, req *dto.AddSenderAccountRequest, metadata *ClientMetadata) (*dto.AddSenderAccountResponse, error) {
	if err := validateAccounts([]dto.SenderAccountDTO{req.Account}); err != nil {
		return nil, NewBusinessError("CAMPAIGN_VALIDATION_FAILED", "Campaign validation failed", err)
	}

	campaign, err := s.getCampaign(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	for _, account := range campaign.Accounts {
		if account.Email == req.Account.Email {
			return nil, NewBusinessError("ACCOUNT_EMAIL_TAKEN", "Sender account already exists on this campaign", ErrAccountEmailTaken)
		}
	}

	campaign.Accounts = append(campaign.Accounts, models.SenderAccount{
		Email:      req.Account.Email,
		DailyLimit: req.Account.DailyLimit,
	})

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.campaignRepo.Update(txCtx, *campaign)
	})
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Campaign update failed", err)
	}
	campaign.Version++

	s.invalidateStatsCache(ctx, campaign.UUID.String())

	return &dto.AddSenderAccountResponse{
		Message:  "Sender account added successfully",
		Campaign: ToCampaignDTO(campaign),
	}, nil
}

// SetCampaignActive flips the campaign's eligibility for dispatch
func (s *CampaignFlowImpl) SetCampaignActive(ctx context.Context, uuid string, active bool, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	if err := s.campaignRepo.SetActive(ctx, campaign.ID, active); err != nil {
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Failed to change campaign state", err)
	}
	campaign.Active = active
	campaign.Version++

	out := ToCampaignDTO(campaign)
	return &out, nil
}

// DeleteCampaign removes a campaign; its leads and audit rows remain
func (s *CampaignFlowImpl) DeleteCampaign(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return err
	}

	if err := s.campaignRepo.Delete(ctx, campaign.ID); err != nil {
		return NewBusinessError("CAMPAIGN_DELETE_FAILED", "Campaign deletion failed", err)
	}

	s.invalidateStatsCache(ctx, uuid)
	return nil
}

// GetCampaignStats reports lead progress, served from a short-lived cache
func (s *CampaignFlowImpl) GetCampaignStats(ctx context.Context, uuid string) (*dto.CampaignStatsResponse, error) {
	campaign, err := s.getCampaign(ctx, uuid)
	if err != nil {
		return nil, err
	}

	cacheKey := statsCacheKey(campaign.UUID.String())
	if s.rc != nil {
		if bs, err := s.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached dto.CampaignStatsResponse
			if err := json.Unmarshal(bs, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	total, emailed, err := s.leadRepo.CampaignCounts(ctx, campaign.Name)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_STATS_FAILED", "Failed to compute campaign stats", err)
	}

	stats := &dto.CampaignStatsResponse{
		UUID:           campaign.UUID.String(),
		Name:           campaign.Name,
		TotalLeads:     total,
		EmailedLeads:   emailed,
		RemainingLeads: total - emailed,
		Accounts:       ToSenderAccountDTOs(campaign.Accounts),
	}

	if s.rc != nil {
		ttl := 30 * time.Second
		if s.cacheConfig != nil && s.cacheConfig.StatsTTL > 0 {
			ttl = s.cacheConfig.StatsTTL
		}
		if bs, err := json.Marshal(stats); err == nil {
			_ = s.rc.Set(ctx, cacheKey, bs, ttl).Err()
		}
	}

	return stats, nil
}

func (s *CampaignFlowImpl) getCampaign(ctx context.Context, uuid string) (*models.Campaign, error) {
	if uuid == "" {
		return nil, NewBusinessError("CAMPAIGN_UUID_REQUIRED", "Campaign UUID is required", ErrCampaignUUIDRequired)
	}
	campaign, err := s.campaignRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
	}
	if campaign == nil {
		return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
	}
	return campaign, nil
}

func (s *CampaignFlowImpl) invalidateStatsCache(ctx context.Context, uuid string) {
	if s.rc == nil {
		return
	}
	_ = s.rc.Del(ctx, statsCacheKey(uuid)).Err()
}

func statsCacheKey(uuid string) string {
	return fmt.Sprintf("simorgh:campaign:stats:%s", uuid)
}

func (s *CampaignFlowImpl) validateCreateCampaignRequest(req *dto.CreateCampaignRequest) error {
	if req.Name == "" {
		return ErrCampaignNameRequired
	}
	if req.Schedule != nil {
		if err := validateSchedule(req.Schedule); err != nil {
			return err
		}
	}
	return validateAccounts(req.Accounts)
}

func validateSchedule(schedule *dto.ScheduleDTO) error {
	start, err := time.Parse(utils.ScheduleTimeLayout, schedule.StartTime)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrScheduleTimeInvalid, schedule.StartTime)
	}
	end, err := time.Parse(utils.ScheduleTimeLayout, schedule.EndTime)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrScheduleTimeInvalid, schedule.EndTime)
	}
	if end.Before(start) {
		return ErrScheduleWindowInverted
	}

	for day := range schedule.DaysOfWeek {
		if !models.IsWeekdayName(day) {
			return fmt.Errorf("%w: %q", ErrScheduleDayInvalid, day)
		}
	}

	if schedule.Timezone != "" {
		if _, err := time.LoadLocation(schedule.Timezone); err != nil {
			return fmt.Errorf("%w: %q", ErrScheduleTimezoneInvalid, schedule.Timezone)
		}
	}
	return nil
}

func validateAccounts(accounts []dto.SenderAccountDTO) error {
	for _, account := range accounts {
		if account.Email == "" {
			return ErrAccountEmailRequired
		}
		if account.DailyLimit < 0 {
			return ErrAccountDailyLimitInvalid
		}
	}
	return nil
}

func scheduleFromDTO(schedule *dto.ScheduleDTO) *models.Schedule {
	if schedule == nil {
		return nil
	}
	return &models.Schedule{
		StartTime:  schedule.StartTime,
		EndTime:    schedule.EndTime,
		DaysOfWeek: schedule.DaysOfWeek,
		Timezone:   schedule.Timezone,
	}
}

func accountsFromDTO(accounts []dto.SenderAccountDTO) models.SenderAccounts {
	out := make(models.SenderAccounts, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, models.SenderAccount{
			Email:      a.Email,
			DailyLimit: a.DailyLimit,
		})
	}
	return out
}
