// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mkarimzade/Simorgh/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// Conflict errors returned by conditional writes. Both mean the record changed
// between read and commit and the caller must retry with fresh state.
var (
	ErrCampaignVersionConflict = errors.New("campaign version conflict")
	ErrLeadAlreadyEmailed      = errors.New("lead already emailed")
)

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ByName(ctx context.Context, name string) (*models.Campaign, error)
	// FirstActive returns the oldest-created active campaign, or nil when no
	// campaign is active.
	FirstActive(ctx context.Context) (*models.Campaign, error)
	Update(ctx context.Context, campaign models.Campaign) error
	SetActive(ctx context.Context, id uint, active bool) error
	Delete(ctx context.Context, id uint) error
	// CommitDispatch writes the campaign's accounts, rotation cursor and bumped
	// version, failing with ErrCampaignVersionConflict when the stored version
	// no longer matches expectedVersion.
	CommitDispatch(ctx context.Context, campaign *models.Campaign, expectedVersion int) error
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Lead, error)
	// NextEligible returns the oldest-created lead enrolled in the named
	// campaign that has not been emailed, or nil when none remain.
	NextEligible(ctx context.Context, campaignName string) (*models.Lead, error)
	// MarkEmailed stamps the lead, failing with ErrLeadAlreadyEmailed when a
	// concurrent tick already did.
	MarkEmailed(ctx context.Context, leadID uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	// CampaignCounts returns total and emailed lead counts for a campaign name.
	CampaignCounts(ctx context.Context, campaignName string) (total, emailed int64, err error)
}

// SentEmailRepository defines operations for the dispatch audit trail
type SentEmailRepository interface {
	Repository[models.SentEmail, models.SentEmailFilter]
	// ListByCampaign pages one campaign's audit rows, newest first.
	ListByCampaign(ctx context.Context, campaignID uint, limit, offset int) ([]*models.SentEmail, error)
}

// DispatchInconsistencyRepository defines operations for recorded commit failures
type DispatchInconsistencyRepository interface {
	Repository[models.DispatchInconsistency, models.DispatchInconsistencyFilter]
	ListUnresolved(ctx context.Context, limit, offset int) ([]*models.DispatchInconsistency, error)
	Resolve(ctx context.Context, id uint) error
}
