package testing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCampaign creates an active campaign with an all-day schedule and
// a single sender account
func (f *TestFixtures) CreateTestCampaign(name string) (*models.Campaign, error) {
	campaign := &models.Campaign{
		UUID:   uuid.New(),
		Name:   name,
		Active: true,
		Schedule: &models.Schedule{
			StartTime: "00:00",
			EndTime:   "23:59",
		},
		Accounts: models.SenderAccounts{
			{Email: fmt.Sprintf("sender.%s@example.com", name), DailyLimit: 100},
		},
		Version:   1,
		CreatedAt: utils.UTCNow(),
	}

	if err := f.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestCampaignAt creates an active campaign with an explicit creation
// time, useful for ordering assertions
func (f *TestFixtures) CreateTestCampaignAt(name string, createdAt time.Time) (*models.Campaign, error) {
	campaign, err := f.CreateTestCampaign(name)
	if err != nil {
		return nil, err
	}

	if err := f.DB.DB.Model(&models.Campaign{}).
		Where("id = ?", campaign.ID).
		Update("created_at", createdAt.UTC()).Error; err != nil {
		return nil, fmt.Errorf("failed to backdate test campaign: %w", err)
	}
	campaign.CreatedAt = createdAt.UTC()

	return campaign, nil
}

// CreateTestLead creates an unsent lead enrolled in the given campaigns
func (f *TestFixtures) CreateTestLead(email string, campaigns ...string) (*models.Lead, error) {
	lead := &models.Lead{
		UUID:      uuid.New(),
		Email:     email,
		FullName:  "Test Lead",
		Campaigns: pq.StringArray(campaigns),
		CreatedAt: utils.UTCNow(),
	}

	if err := f.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateEmailedTestLead creates a lead that has already been sent to
func (f *TestFixtures) CreateEmailedTestLead(email string, emailedAt time.Time, campaigns ...string) (*models.Lead, error) {
	lead, err := f.CreateTestLead(email, campaigns...)
	if err != nil {
		return nil, err
	}

	at := emailedAt.UTC()
	if err := f.DB.DB.Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Update("emailed_at", at).Error; err != nil {
		return nil, fmt.Errorf("failed to mark test lead emailed: %w", err)
	}
	lead.EmailedAt = &at

	return lead, nil
}

// CreateTestSentEmail creates a sent email audit row for the given campaign
// and lead
func (f *TestFixtures) CreateTestSentEmail(campaign *models.Campaign, lead *models.Lead) (*models.SentEmail, error) {
	sent := &models.SentEmail{
		CampaignID:  campaign.ID,
		LeadID:      lead.ID,
		SenderEmail: fmt.Sprintf("sender.%s@example.com", campaign.Name),
		Recipient:   lead.Email,
		Subject:     campaign.Subject(),
		TrackingID:  uuid.New().String(),
		CreatedAt:   utils.UTCNow(),
	}

	if err := f.DB.DB.Create(sent).Error; err != nil {
		return nil, fmt.Errorf("failed to create test sent email: %w", err)
	}

	return sent, nil
}

// CreateTestInconsistency creates an unresolved dispatch inconsistency row
func (f *TestFixtures) CreateTestInconsistency(campaign *models.Campaign, lead *models.Lead, detail string) (*models.DispatchInconsistency, error) {
	row := &models.DispatchInconsistency{
		CampaignID:  campaign.ID,
		LeadID:      lead.ID,
		SenderEmail: fmt.Sprintf("sender.%s@example.com", campaign.Name),
		Detail:      detail,
		CreatedAt:   utils.UTCNow(),
	}

	if err := f.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test inconsistency: %w", err)
	}

	return row, nil
}
