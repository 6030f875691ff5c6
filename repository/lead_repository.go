package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/utils"
	"gorm.io/gorm"
)

// LeadRepositoryImpl implements the LeadRepository interface
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Lead, models.LeadFilter](db),
	}
}

// ByUUID retrieves a lead by UUID
func (r *LeadRepositoryImpl) ByUUID(ctx context.Context, id string) (*models.Lead, error) {
	parsed, err := utils.ParseUUID(id)
	if err != nil {
		return nil, err
	}

	filter := models.LeadFilter{UUID: &parsed}
	leads, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, nil
	}
	return leads[0], nil
}

// NextEligible returns the oldest-created lead enrolled in the named campaign
// with no send recorded. Oldest-first keeps lead selection deterministic
// across ticks.
func (r *LeadRepositoryImpl) NextEligible(ctx context.Context, campaignName string) (*models.Lead, error) {
	db := r.getDB(ctx)

	var lead models.Lead
	err := db.Where("campaigns @> ?", pq.StringArray{campaignName}).
		Where("emailed_at IS NULL").
		Order("created_at ASC, id ASC").
		First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// MarkEmailed stamps the lead's emailed_at. The conditional WHERE makes the
// null-to-timestamp transition happen at most once: a concurrent tick that
// already stamped the lead causes ErrLeadAlreadyEmailed.
func (r *LeadRepositoryImpl) MarkEmailed(ctx context.Context, leadID uint, at time.Time) error {
	db := r.getDB(ctx)

	res := db.Model(&models.Lead{}).
		Where("id = ? AND emailed_at IS NULL", leadID).
		Update("emailed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLeadAlreadyEmailed
	}
	return nil
}

// Delete removes a lead
func (r *LeadRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Lead{}, id).Error
}

// CampaignCounts returns total and emailed lead counts for a campaign name
func (r *LeadRepositoryImpl) CampaignCounts(ctx context.Context, campaignName string) (int64, int64, error) {
	db := r.getDB(ctx)

	var total, emailed int64
	if err := db.Model(&models.Lead{}).
		Where("campaigns @> ?", pq.StringArray{campaignName}).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := db.Model(&models.Lead{}).
		Where("campaigns @> ?", pq.StringArray{campaignName}).
		Where("emailed_at IS NOT NULL").
		Count(&emailed).Error; err != nil {
		return 0, 0, err
	}
	return total, emailed, nil
}

func (r *LeadRepositoryImpl) applyFilter(db *gorm.DB, f models.LeadFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Campaign != nil {
		db = db.Where("campaigns @> ?", pq.StringArray{*f.Campaign})
	}
	if f.Emailed != nil {
		if *f.Emailed {
			db = db.Where("emailed_at IS NOT NULL")
		} else {
			db = db.Where("emailed_at IS NULL")
		}
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves leads based on filter criteria
func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var leads []*models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// Count returns the number of leads matching the filter
func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
