package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	testingutil "github.com/mkarimzade/Simorgh/testing"
	"github.com/mkarimzade/Simorgh/utils"
)

func backdateLead(t *testing.T, testDB *testingutil.TestDB, lead *models.Lead, createdAt time.Time) {
	t.Helper()
	err := testDB.DB.Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Update("created_at", createdAt.UTC()).Error
	require.NoError(t, err)
}

func TestLeadRepository_NextEligible(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewLeadRepository(testDB.DB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	t.Run("NoLeads", func(t *testing.T) {
		lead, err := repo.NextEligible(ctx, "spring-launch")
		require.NoError(t, err)
		assert.Nil(t, lead)
	})

	base := utils.UTCNow().Add(-time.Hour)

	oldest, err := fixtures.CreateTestLead("oldest@example.org", "spring-launch")
	require.NoError(t, err)
	backdateLead(t, testDB, oldest, base)

	newer, err := fixtures.CreateTestLead("newer@example.org", "spring-launch")
	require.NoError(t, err)
	backdateLead(t, testDB, newer, base.Add(5*time.Minute))

	_, err = fixtures.CreateEmailedTestLead("done@example.org", base, "spring-launch")
	require.NoError(t, err)

	_, err = fixtures.CreateTestLead("other@example.org", "autumn-launch")
	require.NoError(t, err)

	t.Run("ReturnsOldestUnsent", func(t *testing.T) {
		lead, err := repo.NextEligible(ctx, "spring-launch")
		require.NoError(t, err)
		require.NotNil(t, lead)
		assert.Equal(t, oldest.ID, lead.ID)
	})

	t.Run("SkipsEmailedAndOtherCampaigns", func(t *testing.T) {
		now := utils.UTCNow()
		require.NoError(t, repo.MarkEmailed(ctx, oldest.ID, now))
		require.NoError(t, repo.MarkEmailed(ctx, newer.ID, now))

		lead, err := repo.NextEligible(ctx, "spring-launch")
		require.NoError(t, err)
		assert.Nil(t, lead)
	})
}

func TestLeadRepository_MarkEmailed(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewLeadRepository(testDB.DB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	lead, err := fixtures.CreateTestLead("dana@example.org", "spring-launch")
	require.NoError(t, err)
	require.Nil(t, lead.EmailedAt)

	at := utils.UTCNow()

	t.Run("StampsOnce", func(t *testing.T) {
		require.NoError(t, repo.MarkEmailed(ctx, lead.ID, at))

		stored, err := repo.ByID(ctx, lead.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.NotNil(t, stored.EmailedAt)
		assert.WithinDuration(t, at, *stored.EmailedAt, time.Second)
	})

	t.Run("SecondStampConflicts", func(t *testing.T) {
		err := repo.MarkEmailed(ctx, lead.ID, utils.UTCNow())
		require.ErrorIs(t, err, repository.ErrLeadAlreadyEmailed)
	})
}

func TestLeadRepository_CampaignCounts(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewLeadRepository(testDB.DB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	now := utils.UTCNow()

	_, err := fixtures.CreateTestLead("a@example.org", "spring-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateTestLead("b@example.org", "spring-launch", "autumn-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateEmailedTestLead("c@example.org", now, "spring-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateTestLead("d@example.org", "autumn-launch")
	require.NoError(t, err)

	total, emailed, err := repo.CampaignCounts(ctx, "spring-launch")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, int64(1), emailed)

	total, emailed, err = repo.CampaignCounts(ctx, "winter-launch")
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, int64(0), emailed)
}

func TestLeadRepository_ByFilter(t *testing.T) {
	testDB := setupTestDB(t)
	repo := repository.NewLeadRepository(testDB.DB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	_, err := fixtures.CreateTestLead("a@example.org", "spring-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateEmailedTestLead("b@example.org", utils.UTCNow(), "spring-launch")
	require.NoError(t, err)

	campaign := "spring-launch"
	emailed := false

	leads, err := repo.ByFilter(ctx, models.LeadFilter{Campaign: &campaign, Emailed: &emailed}, "created_at ASC", 0, 0)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "a@example.org", leads[0].Email)

	count, err := repo.Count(ctx, models.LeadFilter{Campaign: &campaign})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
