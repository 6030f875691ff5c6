package scheduler

import (
	"time"

	"github.com/mkarimzade/Simorgh/models"
)

// RotationOutcome tags the result of one rotation step
type RotationOutcome int

const (
	// RotationSelected means an account was chosen and may send now
	RotationSelected RotationOutcome = iota
	// RotationEmpty means the campaign has no sender accounts
	RotationEmpty
	// RotationCoolingDown means the chosen account's minimum resend interval
	// has not elapsed yet
	RotationCoolingDown
	// RotationSaturated means every account is at its daily limit; only
	// reachable when the skip-saturated scan is enabled
	RotationSaturated
)

// RotationOptions controls one rotation step
type RotationOptions struct {
	// DayKey is the calendar day usage counters are valid for; an account
	// whose usageDate differs counts as unused.
	DayKey string
	// SkipSaturated scans forward past accounts at their daily limit instead
	// of using them anyway. Off by default: the baseline behavior knowingly
	// lets a saturated account keep its turn, which can stall a campaign until
	// usage resets.
	SkipSaturated bool
}

// RotationResult is the tagged output of SelectNextAccount
type RotationResult struct {
	Outcome RotationOutcome
	Account models.SenderAccount
	Index   int
	// OverQuota flags that the selected account had no remaining daily
	// capacity but was chosen anyway (baseline behavior).
	OverQuota bool
}

// SelectNextAccount advances the round-robin cursor by one and picks the
// account to send from. Pure function: callers persist the returned index only
// together with a completed send, so an aborted tick re-evaluates the same
// rotation step next time.
func SelectNextAccount(accounts models.SenderAccounts, lastIndex int, now time.Time, opts RotationOptions) RotationResult {
	n := len(accounts)
	if n == 0 {
		return RotationResult{Outcome: RotationEmpty}
	}

	if lastIndex < 0 || lastIndex >= n {
		// Cursor out of range happens when accounts were removed; wrap to a
		// valid position instead of failing the campaign.
		lastIndex = n - 1
	}

	nextIndex := (lastIndex + 1) % n
	account := accounts[nextIndex]
	overQuota := account.DailyLimit > 0 && account.UsageOn(opts.DayKey) >= account.DailyLimit

	if overQuota && opts.SkipSaturated {
		found := false
		for step := 1; step < n; step++ {
			idx := (nextIndex + step) % n
			candidate := accounts[idx]
			if candidate.DailyLimit > 0 && candidate.UsageOn(opts.DayKey) >= candidate.DailyLimit {
				continue
			}
			nextIndex = idx
			account = candidate
			overQuota = false
			found = true
			break
		}
		if !found {
			return RotationResult{Outcome: RotationSaturated}
		}
	}

	if account.NextSendTime != nil && now.Before(*account.NextSendTime) {
		return RotationResult{Outcome: RotationCoolingDown, Account: account, Index: nextIndex}
	}

	return RotationResult{
		Outcome:   RotationSelected,
		Account:   account,
		Index:     nextIndex,
		OverQuota: overQuota,
	}
}
