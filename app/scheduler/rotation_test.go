package scheduler

import (
	"testing"
	"time"

	"github.com/mkarimzade/Simorgh/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDayKey = "2024-07-16"

func threeAccounts() models.SenderAccounts {
	return models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 50},
		{Email: "b@example.com", DailyLimit: 50},
		{Email: "c@example.com", DailyLimit: 50},
	}
}

func TestSelectNextAccount_Empty(t *testing.T) {
	res := SelectNextAccount(nil, 0, time.Now(), RotationOptions{DayKey: testDayKey})
	assert.Equal(t, RotationEmpty, res.Outcome)
}

func TestSelectNextAccount_RoundRobin(t *testing.T) {
	accounts := threeAccounts()
	now := time.Now()

	tests := []struct {
		lastIndex int
		wantIndex int
		wantEmail string
	}{
		{0, 1, "b@example.com"},
		{1, 2, "c@example.com"},
		{2, 0, "a@example.com"},
	}

	for _, tt := range tests {
		res := SelectNextAccount(accounts, tt.lastIndex, now, RotationOptions{DayKey: testDayKey})
		require.Equal(t, RotationSelected, res.Outcome)
		assert.Equal(t, tt.wantIndex, res.Index, "lastIndex %d", tt.lastIndex)
		assert.Equal(t, tt.wantEmail, res.Account.Email, "lastIndex %d", tt.lastIndex)
		assert.False(t, res.OverQuota)
	}
}

func TestSelectNextAccount_SingleAccountWrapsToItself(t *testing.T) {
	accounts := models.SenderAccounts{{Email: "only@example.com", DailyLimit: 10}}
	res := SelectNextAccount(accounts, 0, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "only@example.com", res.Account.Email)
}

func TestSelectNextAccount_OutOfRangeCursor(t *testing.T) {
	accounts := threeAccounts()

	res := SelectNextAccount(accounts, 7, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.Equal(t, 0, res.Index, "stale cursor wraps to the first account")

	res = SelectNextAccount(accounts, -3, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.Equal(t, 0, res.Index)
}

func TestSelectNextAccount_Cooldown(t *testing.T) {
	now := time.Now()
	future := now.Add(90 * time.Second)
	past := now.Add(-time.Second)

	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 50},
		{Email: "b@example.com", DailyLimit: 50, NextSendTime: &future},
	}

	res := SelectNextAccount(accounts, 0, now, RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationCoolingDown, res.Outcome)
	assert.Equal(t, "b@example.com", res.Account.Email)

	accounts[1].NextSendTime = &past
	res = SelectNextAccount(accounts, 0, now, RotationOptions{DayKey: testDayKey})
	assert.Equal(t, RotationSelected, res.Outcome, "elapsed cooldown no longer blocks")
}

func TestSelectNextAccount_OverQuotaBaseline(t *testing.T) {
	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 5, UsageToday: 5, UsageDate: testDayKey},
	}

	res := SelectNextAccount(accounts, 0, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.True(t, res.OverQuota, "the account keeps its turn even at the limit")
}

func TestSelectNextAccount_UsageRollsOverWithDayKey(t *testing.T) {
	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 5, UsageToday: 5, UsageDate: "2024-07-15"},
	}

	res := SelectNextAccount(accounts, 0, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.False(t, res.OverQuota, "yesterday's usage does not count today")
}

func TestSelectNextAccount_ZeroLimitMeansUnlimited(t *testing.T) {
	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 0, UsageToday: 999, UsageDate: testDayKey},
	}

	res := SelectNextAccount(accounts, 0, time.Now(), RotationOptions{DayKey: testDayKey})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.False(t, res.OverQuota)
}

func TestSelectNextAccount_SkipSaturated(t *testing.T) {
	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 5, UsageToday: 5, UsageDate: testDayKey},
		{Email: "b@example.com", DailyLimit: 5, UsageToday: 1, UsageDate: testDayKey},
	}

	res := SelectNextAccount(accounts, 1, time.Now(), RotationOptions{DayKey: testDayKey, SkipSaturated: true})
	require.Equal(t, RotationSelected, res.Outcome)
	assert.Equal(t, 1, res.Index, "the saturated account a is skipped")
	assert.Equal(t, "b@example.com", res.Account.Email)
	assert.False(t, res.OverQuota)
}

func TestSelectNextAccount_AllSaturated(t *testing.T) {
	accounts := models.SenderAccounts{
		{Email: "a@example.com", DailyLimit: 5, UsageToday: 5, UsageDate: testDayKey},
		{Email: "b@example.com", DailyLimit: 5, UsageToday: 7, UsageDate: testDayKey},
	}

	res := SelectNextAccount(accounts, 0, time.Now(), RotationOptions{DayKey: testDayKey, SkipSaturated: true})
	assert.Equal(t, RotationSaturated, res.Outcome)
}
