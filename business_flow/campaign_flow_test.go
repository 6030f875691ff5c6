package businessflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarimzade/Simorgh/app/dto"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
	"github.com/mkarimzade/Simorgh/config"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	testingutil "github.com/mkarimzade/Simorgh/testing"
	"github.com/mkarimzade/Simorgh/utils"
)

func setupFlowDB(t *testing.T) *testingutil.TestDB {
	t.Helper()

	testDB, err := testingutil.SetupTestDB()
	if err != nil {
		t.Skipf("test database unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testDB.TeardownTestDB(); err != nil {
			t.Logf("failed to teardown test database: %v", err)
		}
	})

	return testDB
}

func newCampaignFlow(testDB *testingutil.TestDB) businessflow.CampaignFlow {
	campaignRepo := repository.NewCampaignRepository(testDB.DB)
	leadRepo := repository.NewLeadRepository(testDB.DB)
	return businessflow.NewCampaignFlow(campaignRepo, leadRepo, testDB.DB, nil, &config.CacheConfig{})
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestCampaignFlow_CreateCampaign(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	ctx := testingutil.CreateTestContext()

	t.Run("Success", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name:         "spring-launch",
			Active:       true,
			EmailSubject: "Big news",
			Schedule: &dto.ScheduleDTO{
				StartTime:  "09:00",
				EndTime:    "17:00",
				DaysOfWeek: map[string]bool{models.DayMonday: true, models.DayTuesday: true},
				Timezone:   "America/New_York",
			},
			Accounts: []dto.SenderAccountDTO{
				{Email: "sender.a@example.com", DailyLimit: 50},
			},
		}

		resp, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.NoError(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, "spring-launch", resp.Campaign.Name)
		assert.True(t, resp.Campaign.Active)
		assert.Equal(t, 1, resp.Campaign.Version)
		assert.NotEmpty(t, resp.Campaign.UUID)
		require.Len(t, resp.Campaign.Accounts, 1)
		assert.Equal(t, "sender.a@example.com", resp.Campaign.Accounts[0].Email)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{Name: "spring-launch"}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsCampaignNameTaken(err))
	})

	t.Run("InvertedScheduleWindow", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name:     "inverted",
			Schedule: &dto.ScheduleDTO{StartTime: "17:00", EndTime: "09:00"},
		}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsScheduleWindowInverted(err))
	})

	t.Run("MalformedScheduleTime", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name:     "malformed",
			Schedule: &dto.ScheduleDTO{StartTime: "9am", EndTime: "17:00"},
		}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsScheduleTimeInvalid(err))
	})

	t.Run("UnknownDayName", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name: "bad-day",
			Schedule: &dto.ScheduleDTO{
				StartTime:  "09:00",
				EndTime:    "17:00",
				DaysOfWeek: map[string]bool{"Funday": true},
			},
		}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsScheduleDayInvalid(err))
	})

	t.Run("UnknownTimezone", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name: "bad-tz",
			Schedule: &dto.ScheduleDTO{
				StartTime: "09:00",
				EndTime:   "17:00",
				Timezone:  "Mars/Olympus",
			},
		}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsScheduleTimezoneInvalid(err))
	})

	t.Run("NegativeDailyLimit", func(t *testing.T) {
		req := &dto.CreateCampaignRequest{
			Name:     "bad-limit",
			Accounts: []dto.SenderAccountDTO{{Email: "a@example.com", DailyLimit: -1}},
		}
		_, err := flow.CreateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsAccountDailyLimitInvalid(err))
	})
}

func TestCampaignFlow_UpdateCampaign(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("summer-launch")
	require.NoError(t, err)

	t.Run("NoFieldsProvided", func(t *testing.T) {
		req := &dto.UpdateCampaignRequest{UUID: campaign.UUID.String()}
		_, err := flow.UpdateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsCampaignUpdateRequired(err))
	})

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		req := &dto.UpdateCampaignRequest{
			UUID:         campaign.UUID.String(),
			EmailSubject: utils.ToPtr("Updated subject"),
		}
		resp, err := flow.UpdateCampaign(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "Updated subject", resp.Campaign.EmailSubject)
		assert.Equal(t, "summer-launch", resp.Campaign.Name)
		assert.True(t, resp.Campaign.Active)
	})

	t.Run("ReplacingAccountsResetsRotationCursor", func(t *testing.T) {
		err := testDB.DB.Model(&models.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("last_account_index", 3).Error
		require.NoError(t, err)

		accounts := []dto.SenderAccountDTO{
			{Email: "fresh.a@example.com", DailyLimit: 10},
			{Email: "fresh.b@example.com", DailyLimit: 10},
		}
		req := &dto.UpdateCampaignRequest{
			UUID:     campaign.UUID.String(),
			Accounts: &accounts,
		}
		resp, err := flow.UpdateCampaign(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Campaign.LastAccountIndex)
		require.Len(t, resp.Campaign.Accounts, 2)
		assert.Zero(t, resp.Campaign.Accounts[0].UsageToday)
	})

	t.Run("UnknownUUID", func(t *testing.T) {
		req := &dto.UpdateCampaignRequest{
			UUID: uuid.New().String(),
			Name: utils.ToPtr("whatever"),
		}
		_, err := flow.UpdateCampaign(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsCampaignNotFound(err))
	})
}

func TestCampaignFlow_AddSenderAccount(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("rotation-launch")
	require.NoError(t, err)

	t.Run("AppendsWithoutTouchingCursor", func(t *testing.T) {
		err := testDB.DB.Model(&models.Campaign{}).
			Where("id = ?", campaign.ID).
			Update("last_account_index", 0).Error
		require.NoError(t, err)

		req := &dto.AddSenderAccountRequest{
			UUID:    campaign.UUID.String(),
			Account: dto.SenderAccountDTO{Email: "extra@example.com", DailyLimit: 25},
		}
		resp, err := flow.AddSenderAccount(ctx, req, testMetadata())
		require.NoError(t, err)
		require.Len(t, resp.Campaign.Accounts, 2)
		assert.Equal(t, "extra@example.com", resp.Campaign.Accounts[1].Email)
		assert.Equal(t, 0, resp.Campaign.LastAccountIndex)
		assert.Zero(t, resp.Campaign.Accounts[1].UsageToday)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		req := &dto.AddSenderAccountRequest{
			UUID:    campaign.UUID.String(),
			Account: dto.SenderAccountDTO{Email: "extra@example.com", DailyLimit: 10},
		}
		_, err := flow.AddSenderAccount(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsAccountEmailTaken(err))
	})

	t.Run("MissingEmail", func(t *testing.T) {
		req := &dto.AddSenderAccountRequest{
			UUID:    campaign.UUID.String(),
			Account: dto.SenderAccountDTO{DailyLimit: 10},
		}
		_, err := flow.AddSenderAccount(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsAccountEmailRequired(err))
	})
}

func TestCampaignFlow_ActivateAndDelete(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("autumn-launch")
	require.NoError(t, err)

	t.Run("Deactivate", func(t *testing.T) {
		out, err := flow.SetCampaignActive(ctx, campaign.UUID.String(), false, testMetadata())
		require.NoError(t, err)
		assert.False(t, out.Active)
	})

	t.Run("Activate", func(t *testing.T) {
		out, err := flow.SetCampaignActive(ctx, campaign.UUID.String(), true, testMetadata())
		require.NoError(t, err)
		assert.True(t, out.Active)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, flow.DeleteCampaign(ctx, campaign.UUID.String(), testMetadata()))

		_, err := flow.GetCampaign(ctx, campaign.UUID.String())
		require.Error(t, err)
		assert.True(t, businessflow.IsCampaignNotFound(err))
	})
}

func TestCampaignFlow_ListCampaigns(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	for _, name := range []string{"one", "two", "three"} {
		_, err := fixtures.CreateTestCampaign(name)
		require.NoError(t, err)
	}

	t.Run("DefaultPagination", func(t *testing.T) {
		resp, err := flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{})
		require.NoError(t, err)
		assert.Len(t, resp.Campaigns, 3)
		assert.Equal(t, int64(3), resp.Pagination.Total)
		assert.Equal(t, 1, resp.Pagination.Page)
	})

	t.Run("SmallPage", func(t *testing.T) {
		resp, err := flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Len(t, resp.Campaigns, 1)
		assert.Equal(t, int64(3), resp.Pagination.Total)
	})

	t.Run("ActiveFilter", func(t *testing.T) {
		resp, err := flow.ListCampaigns(ctx, &dto.ListCampaignsRequest{Active: utils.ToPtr(false)})
		require.NoError(t, err)
		assert.Empty(t, resp.Campaigns)
	})
}

func TestCampaignFlow_GetCampaignStats(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newCampaignFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("stats-launch")
	require.NoError(t, err)

	_, err = fixtures.CreateTestLead("a@example.org", "stats-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateTestLead("b@example.org", "stats-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateEmailedTestLead("c@example.org", utils.UTCNow(), "stats-launch")
	require.NoError(t, err)

	stats, err := flow.GetCampaignStats(ctx, campaign.UUID.String())
	require.NoError(t, err)
	assert.Equal(t, "stats-launch", stats.Name)
	assert.Equal(t, int64(3), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.EmailedLeads)
	assert.Equal(t, int64(2), stats.RemainingLeads)
	require.Len(t, stats.Accounts, 1)
	assert.Equal(t, "sender.stats-launch@example.com", stats.Accounts[0].Email)
}
