package repository

import (
	"context"

	"github.com/mkarimzade/Simorgh/models"
	"gorm.io/gorm"
)

// SentEmailRepositoryImpl implements SentEmailRepository
type SentEmailRepositoryImpl struct {
	*BaseRepository[models.SentEmail, models.SentEmailFilter]
}

func NewSentEmailRepository(db *gorm.DB) SentEmailRepository {
	return &SentEmailRepositoryImpl{BaseRepository: NewBaseRepository[models.SentEmail, models.SentEmailFilter](db)}
}

func (r *SentEmailRepositoryImpl) ListByCampaign(ctx context.Context, campaignID uint, limit, offset int) ([]*models.SentEmail, error) {
	filter := models.SentEmailFilter{CampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}

func (r *SentEmailRepositoryImpl) applyFilter(db *gorm.DB, f models.SentEmailFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.LeadID != nil {
		db = db.Where("lead_id = ?", *f.LeadID)
	}
	if f.SenderEmail != nil {
		db = db.Where("sender_email = ?", *f.SenderEmail)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *SentEmailRepositoryImpl) ByFilter(ctx context.Context, filter models.SentEmailFilter, orderBy string, limit, offset int) ([]*models.SentEmail, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.SentEmail{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.SentEmail
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SentEmailRepositoryImpl) Count(ctx context.Context, filter models.SentEmailFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	query := r.applyFilter(db.Model(&models.SentEmail{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
