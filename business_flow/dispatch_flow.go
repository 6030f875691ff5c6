// Package businessflow contains the core business logic and use cases for dispatch operations
package businessflow

import (
	"context"
	"time"

	"github.com/mkarimzade/Simorgh/app/dto"
	"github.com/mkarimzade/Simorgh/app/scheduler"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	"github.com/mkarimzade/Simorgh/utils"
)

// TickRunner executes one dispatch tick on demand
type TickRunner interface {
	RunTick(ctx context.Context) scheduler.TickResult
}

// DispatchFlow handles manual dispatch triggering and dispatch bookkeeping queries
type DispatchFlow interface {
	TriggerDispatch(ctx context.Context, metadata *ClientMetadata) (*dto.TriggerDispatchResponse, error)
	ListSentEmails(ctx context.Context, req *dto.ListSentEmailsRequest) (*dto.ListSentEmailsResponse, error)
	ListInconsistencies(ctx context.Context, req *dto.ListInconsistenciesRequest) (*dto.ListInconsistenciesResponse, error)
	ResolveInconsistency(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.ResolveInconsistencyResponse, error)
}

// DispatchFlowImpl implements the dispatch business flow
type DispatchFlowImpl struct {
	runner            TickRunner
	campaignRepo      repository.CampaignRepository
	sentRepo          repository.SentEmailRepository
	inconsistencyRepo repository.DispatchInconsistencyRepository
}

// NewDispatchFlow creates a new dispatch flow instance
func NewDispatchFlow(
	runner TickRunner,
	campaignRepo repository.CampaignRepository,
	sentRepo repository.SentEmailRepository,
	inconsistencyRepo repository.DispatchInconsistencyRepository,
) DispatchFlow {
	return &DispatchFlowImpl{
		runner:            runner,
		campaignRepo:      campaignRepo,
		sentRepo:          sentRepo,
		inconsistencyRepo: inconsistencyRepo,
	}
}

// TriggerDispatch runs one tick immediately, outside the schedule
func (s *DispatchFlowImpl) TriggerDispatch(ctx context.Context, metadata *ClientMetadata) (*dto.TriggerDispatchResponse, error) {
	result := s.runner.RunTick(ctx)

	resp := &dto.TriggerDispatchResponse{
		Outcome:      string(result.Outcome),
		CampaignID:   result.CampaignID,
		CampaignName: result.CampaignName,
		LeadID:       result.LeadID,
		AccountEmail: result.AccountEmail,
		Inconsistent: result.Inconsistent,
	}
	if result.Err != nil {
		resp.Error = result.Err.Error()
	}
	return resp, nil
}

// ListSentEmails returns a page of the dispatch audit trail, newest first
func (s *DispatchFlowImpl) ListSentEmails(ctx context.Context, req *dto.ListSentEmailsRequest) (*dto.ListSentEmailsResponse, error) {
	limit, offset, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	filter := models.SentEmailFilter{}
	if req.CampaignUUID != "" {
		campaign, err := s.campaignRepo.ByUUID(ctx, req.CampaignUUID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to lookup campaign", err)
		}
		if campaign == nil {
			return nil, NewBusinessError("CAMPAIGN_NOT_FOUND", "Campaign not found", ErrCampaignNotFound)
		}
		filter.CampaignID = utils.ToPtr(campaign.ID)
	}

	var rows []*models.SentEmail
	if filter.CampaignID != nil {
		rows, err = s.sentRepo.ListByCampaign(ctx, *filter.CampaignID, limit, offset)
	} else {
		rows, err = s.sentRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
	}
	if err != nil {
		return nil, NewBusinessError("SENT_EMAIL_LIST_FAILED", "Failed to list sent emails", err)
	}
	total, err := s.sentRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SENT_EMAIL_COUNT_FAILED", "Failed to count sent emails", err)
	}

	out := make([]dto.SentEmailDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SentEmailDTO{
			ID:          row.ID,
			CampaignID:  row.CampaignID,
			LeadID:      row.LeadID,
			SenderEmail: row.SenderEmail,
			Recipient:   row.Recipient,
			Subject:     row.Subject,
			TrackingID:  row.TrackingID,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
		})
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	return &dto.ListSentEmailsResponse{
		SentEmails: out,
		Pagination: dto.Pagination{
			Page:     page,
			PageSize: limit,
			Total:    total,
		},
	}, nil
}

// ListInconsistencies returns recorded commit failures, unresolved first
func (s *DispatchFlowImpl) ListInconsistencies(ctx context.Context, req *dto.ListInconsistenciesRequest) (*dto.ListInconsistenciesResponse, error) {
	limit, offset, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	filter := models.DispatchInconsistencyFilter{}
	if !req.All {
		filter.Resolved = utils.ToPtr(false)
	}

	rows, err := s.inconsistencyRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("INCONSISTENCY_LIST_FAILED", "Failed to list inconsistencies", err)
	}
	total, err := s.inconsistencyRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("INCONSISTENCY_COUNT_FAILED", "Failed to count inconsistencies", err)
	}

	out := make([]dto.InconsistencyDTO, 0, len(rows))
	for _, row := range rows {
		item := dto.InconsistencyDTO{
			ID:          row.ID,
			CampaignID:  row.CampaignID,
			LeadID:      row.LeadID,
			SenderEmail: row.SenderEmail,
			Detail:      row.Detail,
			Resolved:    row.Resolved,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
		}
		if row.ResolvedAt != nil {
			item.ResolvedAt = row.ResolvedAt.Format(time.RFC3339)
		}
		out = append(out, item)
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	return &dto.ListInconsistenciesResponse{
		Inconsistencies: out,
		Pagination: dto.Pagination{
			Page:     page,
			PageSize: limit,
			Total:    total,
		},
	}, nil
}

// ResolveInconsistency marks a recorded commit failure as handled
func (s *DispatchFlowImpl) ResolveInconsistency(ctx context.Context, id uint, metadata *ClientMetadata) (*dto.ResolveInconsistencyResponse, error) {
	row, err := s.inconsistencyRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("INCONSISTENCY_LOOKUP_FAILED", "Failed to lookup inconsistency", err)
	}
	if row == nil {
		return nil, NewBusinessError("INCONSISTENCY_NOT_FOUND", "Inconsistency not found", ErrInconsistencyNotFound)
	}

	if err := s.inconsistencyRepo.Resolve(ctx, id); err != nil {
		return nil, NewBusinessError("INCONSISTENCY_RESOLVE_FAILED", "Failed to resolve inconsistency", err)
	}

	return &dto.ResolveInconsistencyResponse{
		Message: "Inconsistency resolved",
		ID:      id,
	}, nil
}
