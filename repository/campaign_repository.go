package repository

import (
	"context"
	"errors"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/utils"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements the CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByUUID retrieves a campaign by UUID
func (r *CampaignRepositoryImpl) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	parsed, err := utils.ParseUUID(id)
	if err != nil {
		return nil, err
	}

	filter := models.CampaignFilter{UUID: &parsed}
	campaigns, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(campaigns) == 0 {
		return nil, nil
	}
	return campaigns[0], nil
}

// ByName retrieves a campaign by its unique name
func (r *CampaignRepositoryImpl) ByName(ctx context.Context, name string) (*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaign models.Campaign
	err := db.Where("name = ?", name).Last(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// FirstActive returns the oldest-created active campaign. The ordering makes
// campaign selection deterministic when several are active at once.
func (r *CampaignRepositoryImpl) FirstActive(ctx context.Context) (*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaign models.Campaign
	err := db.Where("active = ?", true).Order("created_at ASC, id ASC").First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &campaign, nil
}

// Update persists a management edit of a campaign. Every edit bumps the
// version column so an in-flight dispatch commit that read the older version
// fails its concurrency check instead of overwriting the edit.
func (r *CampaignRepositoryImpl) Update(ctx context.Context, campaign models.Campaign) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		Updates(map[string]any{
			"name":               campaign.Name,
			"active":             campaign.Active,
			"email_subject":      campaign.EmailSubject,
			"email_body":         campaign.EmailBody,
			"schedule":           campaign.Schedule,
			"accounts":           campaign.Accounts,
			"last_account_index": campaign.LastAccountIndex,
			"version":            gorm.Expr("version + 1"),
			"updated_at":         utils.UTCNow(),
		}).Error
	if err != nil {
		return err
	}

	return nil
}

// SetActive flips the eligibility gate of a campaign. Like Update, it bumps
// the version column so pending dispatch commits observe the change.
func (r *CampaignRepositoryImpl) SetActive(ctx context.Context, id uint, active bool) error {
	db := r.getDB(ctx)
	return db.Model(&models.Campaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":     active,
			"version":    gorm.Expr("version + 1"),
			"updated_at": utils.UTCNow(),
		}).Error
}

// Delete removes a campaign
func (r *CampaignRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Campaign{}, id).Error
}

// CommitDispatch persists the dispatcher's campaign patch (accounts, rotation
// cursor) under an optimistic-concurrency check. The write takes effect only
// when the stored version still equals expectedVersion; otherwise no row is
// touched and ErrCampaignVersionConflict is returned.
func (r *CampaignRepositoryImpl) CommitDispatch(ctx context.Context, campaign *models.Campaign, expectedVersion int) error {
	db := r.getDB(ctx)

	res := db.Model(&models.Campaign{}).
		Where("id = ? AND version = ?", campaign.ID, expectedVersion).
		Updates(map[string]any{
			"accounts":           campaign.Accounts,
			"last_account_index": campaign.LastAccountIndex,
			"version":            expectedVersion + 1,
			"updated_at":         utils.UTCNow(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCampaignVersionConflict
	}

	campaign.Version = expectedVersion + 1
	return nil
}

func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, f models.CampaignFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Name != nil {
		db = db.Where("name = ?", *f.Name)
	}
	if f.Active != nil {
		db = db.Where("active = ?", *f.Active)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

// ByFilter retrieves campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)

	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var campaigns []*models.Campaign
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// Count returns the number of campaigns matching the filter
func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
