// Package businessflow contains the core business logic and use cases for lead workflows
package businessflow

import (
	"context"

	"github.com/mkarimzade/Simorgh/app/dto"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	"gorm.io/gorm"
)

// LeadFlow handles the lead business logic
type LeadFlow interface {
	CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.CreateLeadResponse, error)
	ImportLeads(ctx context.Context, req *dto.ImportLeadsRequest, metadata *ClientMetadata) (*dto.ImportLeadsResponse, error)
	UpdateLead(ctx context.Context, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.UpdateLeadResponse, error)
	GetLead(ctx context.Context, uuid string) (*dto.LeadDTO, error)
	ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
	DeleteLead(ctx context.Context, uuid string, metadata *ClientMetadata) error
}

// LeadFlowImpl implements the lead business flow
type LeadFlowImpl struct {
	leadRepo repository.LeadRepository
	db       *gorm.DB
}

// NewLeadFlow creates a new lead flow instance
func NewLeadFlow(leadRepo repository.LeadRepository, db *gorm.DB) LeadFlow {
	return &LeadFlowImpl{
		leadRepo: leadRepo,
		db:       db,
	}
}

// CreateLead stores a single lead
func (s *LeadFlowImpl) CreateLead(ctx context.Context, req *dto.CreateLeadRequest, metadata *ClientMetadata) (*dto.CreateLeadResponse, error) {
	if req.Email == "" {
		return nil, NewBusinessError("LEAD_VALIDATION_FAILED", "Lead validation failed", ErrLeadEmailRequired)
	}

	lead := &models.Lead{
		Email:     req.Email,
		FullName:  req.FullName,
		Campaigns: req.Campaigns,
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.Save(txCtx, lead)
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_CREATION_FAILED", "Lead creation failed", err)
	}

	return &dto.CreateLeadResponse{
		Message: "Lead created successfully",
		Lead:    ToLeadDTO(lead),
	}, nil
}

// ImportLeads stores a batch of leads in one transaction
func (s *LeadFlowImpl) ImportLeads(ctx context.Context, req *dto.ImportLeadsRequest, metadata *ClientMetadata) (*dto.ImportLeadsResponse, error) {
	if len(req.Leads) == 0 {
		return nil, NewBusinessError("LEAD_IMPORT_EMPTY", "No leads to import", ErrNoLeadsToImport)
	}

	leads := make([]*models.Lead, 0, len(req.Leads))
	for _, item := range req.Leads {
		if item.Email == "" {
			return nil, NewBusinessError("LEAD_VALIDATION_FAILED", "Lead validation failed", ErrLeadEmailRequired)
		}
		leads = append(leads, &models.Lead{
			Email:     item.Email,
			FullName:  item.FullName,
			Campaigns: item.Campaigns,
		})
	}

	err := repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.SaveBatch(txCtx, leads)
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_IMPORT_FAILED", "Lead import failed", err)
	}

	return &dto.ImportLeadsResponse{
		Message:  "Leads imported successfully",
		Imported: len(leads),
	}, nil
}

// UpdateLead applies a partial update to a lead
func (s *LeadFlowImpl) UpdateLead(ctx context.Context, req *dto.UpdateLeadRequest, metadata *ClientMetadata) (*dto.UpdateLeadResponse, error) {
	lead, err := s.getLead(ctx, req.UUID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if *req.Email == "" {
			return nil, NewBusinessError("LEAD_VALIDATION_FAILED", "Lead validation failed", ErrLeadEmailRequired)
		}
		lead.Email = *req.Email
	}
	if req.FullName != nil {
		lead.FullName = *req.FullName
	}
	if req.Campaigns != nil {
		lead.Campaigns = *req.Campaigns
	}

	err = repository.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		return s.leadRepo.Save(txCtx, lead)
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_UPDATE_FAILED", "Lead update failed", err)
	}

	return &dto.UpdateLeadResponse{
		Message: "Lead updated successfully",
		Lead:    ToLeadDTO(lead),
	}, nil
}

// GetLead returns a single lead by UUID
func (s *LeadFlowImpl) GetLead(ctx context.Context, uuid string) (*dto.LeadDTO, error) {
	lead, err := s.getLead(ctx, uuid)
	if err != nil {
		return nil, err
	}
	out := ToLeadDTO(lead)
	return &out, nil
}

// ListLeads returns a page of leads, newest first
func (s *LeadFlowImpl) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	limit, offset, err := normalizePagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("INVALID_PAGINATION", "Invalid pagination parameters", err)
	}

	filter := models.LeadFilter{Emailed: req.Emailed}
	if req.Campaign != "" {
		filter.Campaign = &req.Campaign
	}

	leads, err := s.leadRepo.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LEAD_LIST_FAILED", "Failed to list leads", err)
	}
	total, err := s.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LEAD_COUNT_FAILED", "Failed to count leads", err)
	}

	out := make([]dto.LeadDTO, 0, len(leads))
	for _, lead := range leads {
		out = append(out, ToLeadDTO(lead))
	}

	page := req.Page
	if page == 0 {
		page = 1
	}
	return &dto.ListLeadsResponse{
		Leads: out,
		Pagination: dto.Pagination{
			Page:     page,
			PageSize: limit,
			Total:    total,
		},
	}, nil
}

// DeleteLead removes a lead
func (s *LeadFlowImpl) DeleteLead(ctx context.Context, uuid string, metadata *ClientMetadata) error {
	lead, err := s.getLead(ctx, uuid)
	if err != nil {
		return err
	}

	if err := s.leadRepo.Delete(ctx, lead.ID); err != nil {
		return NewBusinessError("LEAD_DELETE_FAILED", "Lead deletion failed", err)
	}
	return nil
}

func (s *LeadFlowImpl) getLead(ctx context.Context, uuid string) (*models.Lead, error) {
	if uuid == "" {
		return nil, NewBusinessError("LEAD_UUID_REQUIRED", "Lead UUID is required", ErrLeadUUIDRequired)
	}
	lead, err := s.leadRepo.ByUUID(ctx, uuid)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, NewBusinessError("LEAD_NOT_FOUND", "Lead not found", ErrLeadNotFound)
	}
	return lead, nil
}
