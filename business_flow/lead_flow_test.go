package businessflow_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarimzade/Simorgh/app/dto"
	businessflow "github.com/mkarimzade/Simorgh/business_flow"
	"github.com/mkarimzade/Simorgh/repository"
	testingutil "github.com/mkarimzade/Simorgh/testing"
	"github.com/mkarimzade/Simorgh/utils"
)

func newLeadFlow(testDB *testingutil.TestDB) businessflow.LeadFlow {
	return businessflow.NewLeadFlow(repository.NewLeadRepository(testDB.DB), testDB.DB)
}

func TestLeadFlow_CreateLead(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newLeadFlow(testDB)
	ctx := testingutil.CreateTestContext()

	t.Run("Success", func(t *testing.T) {
		req := &dto.CreateLeadRequest{
			Email:     "dana@example.org",
			FullName:  "Dana Reed",
			Campaigns: []string{"spring-launch"},
		}

		resp, err := flow.CreateLead(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, "dana@example.org", resp.Lead.Email)
		assert.Equal(t, "Dana Reed", resp.Lead.FullName)
		assert.Equal(t, []string{"spring-launch"}, resp.Lead.Campaigns)
		assert.Empty(t, resp.Lead.EmailedAt)
		assert.NotEmpty(t, resp.Lead.UUID)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		_, err := flow.CreateLead(ctx, &dto.CreateLeadRequest{}, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsLeadEmailRequired(err))
	})
}

func TestLeadFlow_ImportLeads(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newLeadFlow(testDB)
	ctx := testingutil.CreateTestContext()

	t.Run("BatchImport", func(t *testing.T) {
		req := &dto.ImportLeadsRequest{
			Leads: []dto.CreateLeadRequest{
				{Email: "a@example.org", Campaigns: []string{"spring-launch"}},
				{Email: "b@example.org", Campaigns: []string{"spring-launch"}},
				{Email: "c@example.org"},
			},
		}

		resp, err := flow.ImportLeads(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Imported)

		list, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Pagination.Total)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		_, err := flow.ImportLeads(ctx, &dto.ImportLeadsRequest{}, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsNoLeadsToImport(err))
	})

	t.Run("BatchWithInvalidLead", func(t *testing.T) {
		req := &dto.ImportLeadsRequest{
			Leads: []dto.CreateLeadRequest{
				{Email: "ok@example.org"},
				{Email: ""},
			},
		}
		_, err := flow.ImportLeads(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsLeadEmailRequired(err))

		// The whole batch rolls back
		list, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), list.Pagination.Total)
	})
}

func TestLeadFlow_UpdateLead(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newLeadFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	lead, err := fixtures.CreateTestLead("dana@example.org", "spring-launch")
	require.NoError(t, err)

	t.Run("ChangesEnrollment", func(t *testing.T) {
		campaigns := []string{"spring-launch", "autumn-launch"}
		req := &dto.UpdateLeadRequest{
			UUID:      lead.UUID.String(),
			Campaigns: &campaigns,
		}
		resp, err := flow.UpdateLead(ctx, req, testMetadata())
		require.NoError(t, err)
		assert.Equal(t, campaigns, resp.Lead.Campaigns)
		assert.Equal(t, "dana@example.org", resp.Lead.Email)
	})

	t.Run("MissingUUID", func(t *testing.T) {
		_, err := flow.UpdateLead(ctx, &dto.UpdateLeadRequest{Email: utils.ToPtr("x@example.org")}, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsLeadUUIDRequired(err))
	})

	t.Run("UnknownUUID", func(t *testing.T) {
		req := &dto.UpdateLeadRequest{
			UUID:  uuid.New().String(),
			Email: utils.ToPtr("x@example.org"),
		}
		_, err := flow.UpdateLead(ctx, req, testMetadata())
		require.Error(t, err)
		assert.True(t, businessflow.IsLeadNotFound(err))
	})
}

func TestLeadFlow_ListLeads(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newLeadFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	_, err := fixtures.CreateTestLead("a@example.org", "spring-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateEmailedTestLead("b@example.org", utils.UTCNow(), "spring-launch")
	require.NoError(t, err)
	_, err = fixtures.CreateTestLead("c@example.org", "autumn-launch")
	require.NoError(t, err)

	t.Run("ByCampaign", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Campaign: "spring-launch"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Pagination.Total)
	})

	t.Run("ByEmailedFlag", func(t *testing.T) {
		resp, err := flow.ListLeads(ctx, &dto.ListLeadsRequest{Campaign: "spring-launch", Emailed: utils.ToPtr(false)})
		require.NoError(t, err)
		require.Len(t, resp.Leads, 1)
		assert.Equal(t, "a@example.org", resp.Leads[0].Email)
	})
}

func TestLeadFlow_DeleteLead(t *testing.T) {
	testDB := setupFlowDB(t)
	flow := newLeadFlow(testDB)
	fixtures := testingutil.NewTestFixtures(testDB)
	ctx := testingutil.CreateTestContext()

	lead, err := fixtures.CreateTestLead("gone@example.org", "spring-launch")
	require.NoError(t, err)

	require.NoError(t, flow.DeleteLead(ctx, lead.UUID.String(), testMetadata()))

	_, err = flow.GetLead(ctx, lead.UUID.String())
	require.Error(t, err)
	assert.True(t, businessflow.IsLeadNotFound(err))
}
