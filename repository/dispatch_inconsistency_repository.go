package repository

import (
	"context"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/utils"
	"gorm.io/gorm"
)

// DispatchInconsistencyRepositoryImpl implements DispatchInconsistencyRepository
type DispatchInconsistencyRepositoryImpl struct {
	*BaseRepository[models.DispatchInconsistency, models.DispatchInconsistencyFilter]
}

func NewDispatchInconsistencyRepository(db *gorm.DB) DispatchInconsistencyRepository {
	return &DispatchInconsistencyRepositoryImpl{
		BaseRepository: NewBaseRepository[models.DispatchInconsistency, models.DispatchInconsistencyFilter](db),
	}
}

func (r *DispatchInconsistencyRepositoryImpl) ListUnresolved(ctx context.Context, limit, offset int) ([]*models.DispatchInconsistency, error) {
	resolved := false
	filter := models.DispatchInconsistencyFilter{Resolved: &resolved}
	return r.ByFilter(ctx, filter, "id ASC", limit, offset)
}

// Resolve marks an inconsistency as reconciled
func (r *DispatchInconsistencyRepositoryImpl) Resolve(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.DispatchInconsistency{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"resolved":    true,
			"resolved_at": utils.UTCNow(),
		}).Error
}

func (r *DispatchInconsistencyRepositoryImpl) applyFilter(db *gorm.DB, f models.DispatchInconsistencyFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.LeadID != nil {
		db = db.Where("lead_id = ?", *f.LeadID)
	}
	if f.Resolved != nil {
		db = db.Where("resolved = ?", *f.Resolved)
	}
	return db
}

func (r *DispatchInconsistencyRepositoryImpl) ByFilter(ctx context.Context, filter models.DispatchInconsistencyFilter, orderBy string, limit, offset int) ([]*models.DispatchInconsistency, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.DispatchInconsistency{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.DispatchInconsistency
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DispatchInconsistencyRepositoryImpl) Count(ctx context.Context, filter models.DispatchInconsistencyFilter) (int64, error) {
	db := r.getDB(ctx)
	var count int64
	query := r.applyFilter(db.Model(&models.DispatchInconsistency{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
