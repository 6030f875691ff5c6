package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mkarimzade/Simorgh/app/services"
	"github.com/mkarimzade/Simorgh/config"
	"github.com/mkarimzade/Simorgh/models"
	"github.com/mkarimzade/Simorgh/repository"
	"github.com/mkarimzade/Simorgh/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TickOutcome names the terminal state of one dispatch tick. Every outcome
// except OutcomeDispatched leaves all persisted state unchanged.
type TickOutcome string

const (
	// OutcomeNone is the zero value used while a tick is still in flight
	OutcomeNone TickOutcome = ""

	OutcomeDispatched       TickOutcome = "dispatched"
	OutcomeNoActiveCampaign TickOutcome = "no_active_campaign"
	OutcomeNoSchedule       TickOutcome = "no_schedule"
	OutcomeOutsideWindow    TickOutcome = "outside_window"
	OutcomeNoAccounts       TickOutcome = "no_accounts"
	OutcomeCooldownActive   TickOutcome = "cooldown_active"
	OutcomeQuotaExhausted   TickOutcome = "quota_exhausted"
	OutcomeNoEligibleLeads  TickOutcome = "no_eligible_leads"
	OutcomeSendFailed       TickOutcome = "send_failed"
	OutcomeCommitConflict   TickOutcome = "commit_conflict"
	OutcomeBadCampaign      TickOutcome = "bad_campaign"
	OutcomeStoreError       TickOutcome = "store_error"
)

// TickResult describes what one tick decided and did
type TickResult struct {
	Outcome      TickOutcome
	CampaignID   uint
	CampaignName string
	LeadID       uint
	AccountEmail string
	// Inconsistent flags a send that reached the provider but whose commit was
	// rejected; the mismatch is recorded for reconciliation.
	Inconsistent bool
	Err          error
}

// Clock supplies the current instant; injectable for deterministic tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CampaignStore is the campaign persistence the dispatcher needs
type CampaignStore interface {
	FirstActive(ctx context.Context) (*models.Campaign, error)
	CommitDispatch(ctx context.Context, campaign *models.Campaign, expectedVersion int) error
}

// LeadStore is the lead persistence the dispatcher needs
type LeadStore interface {
	NextEligible(ctx context.Context, campaignName string) (*models.Lead, error)
	MarkEmailed(ctx context.Context, leadID uint, at time.Time) error
}

// SentEmailStore records the audit row of a completed dispatch
type SentEmailStore interface {
	Save(ctx context.Context, row *models.SentEmail) error
}

// InconsistencyStore records sends whose bookkeeping commit failed
type InconsistencyStore interface {
	Save(ctx context.Context, row *models.DispatchInconsistency) error
}

// TxRunner executes a function inside one atomic store transaction
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher runs the campaign dispatch decision procedure once per tick. All
// collaborators are constructor-injected; the dispatcher holds no state
// between ticks beyond what the stores persist.
type Dispatcher struct {
	campaigns       CampaignStore
	leads           LeadStore
	sent            SentEmailStore
	inconsistencies InconsistencyStore
	tx              TxRunner
	mailer          services.MailSender
	clock           Clock
	cfg             config.DispatchConfig

	logger   *log.Logger
	randIntn func(n int) int
}

// NewDispatcher creates a dispatcher with the given collaborators. Zero config
// fields fall back to the package defaults.
func NewDispatcher(
	campaigns CampaignStore,
	leads LeadStore,
	sent SentEmailStore,
	inconsistencies InconsistencyStore,
	tx TxRunner,
	mailer services.MailSender,
	clock Clock,
	cfg config.DispatchConfig,
) *Dispatcher {
	if clock == nil {
		clock = SystemClock{}
	}
	if cfg.Interval <= 0 {
		cfg.Interval = utils.DefaultTickInterval
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = utils.DefaultSendTimeout
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = utils.DefaultStoreTimeout
	}
	if len(cfg.GapMinutes) == 0 {
		cfg.GapMinutes = []int{2, 3}
	}

	d := &Dispatcher{
		campaigns:       campaigns,
		leads:           leads,
		sent:            sent,
		inconsistencies: inconsistencies,
		tx:              tx,
		mailer:          mailer,
		clock:           clock,
		cfg:             cfg,
		randIntn:        rand.Intn,
	}
	d.logger = newDispatchLogger(cfg)
	return d
}

// newDispatchLogger writes to stdout plus a rotating file when configured
func newDispatchLogger(cfg config.DispatchConfig) *log.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		})
	}
	return log.New(w, "dispatcher ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// Start launches the tick loop in a background goroutine and returns a stop
// function. The first tick runs immediately, then once per interval.
func (d *Dispatcher) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(d.cfg.Interval)
		defer ticker.Stop()

		d.RunTick(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				d.RunTick(ctx)
			}
		}
	}()

	return cancel
}

// RunTick executes one dispatch decision. It never panics outward and never
// returns an error to the trigger: every failure becomes a logged outcome so
// one bad tick cannot take the loop down.
func (d *Dispatcher) RunTick(ctx context.Context) TickResult {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf("dispatcher: panic in tick: %v", r)
			observeTick(OutcomeStoreError)
		}
	}()

	res := d.runTick(ctx)
	d.logResult(res)
	observeTick(res.Outcome)
	if res.Inconsistent {
		inconsistenciesTotal.Inc()
	}
	return res
}

func (d *Dispatcher) runTick(ctx context.Context) TickResult {
	now := d.clock.Now()

	// Stage 1: campaign selection
	campaign, err := d.firstActive(ctx)
	if err != nil {
		return TickResult{Outcome: OutcomeStoreError, Err: err}
	}
	if campaign == nil {
		return TickResult{Outcome: OutcomeNoActiveCampaign}
	}

	res := TickResult{CampaignID: campaign.ID, CampaignName: campaign.Name}

	// Stage 2: window gate
	if outcome, werr := EvaluateWindow(campaign.Schedule, now); outcome != OutcomeNone {
		res.Outcome = outcome
		res.Err = werr
		return res
	}

	// Daily usage counters roll over on the same calendar the window is
	// evaluated in.
	dayKey := utils.DayKey(scheduleLocalTime(campaign.Schedule, now))

	// Stage 3: account rotation
	rot := SelectNextAccount(campaign.Accounts, campaign.LastAccountIndex, now, RotationOptions{
		DayKey:        dayKey,
		SkipSaturated: d.cfg.SkipSaturated,
	})
	switch rot.Outcome {
	case RotationEmpty:
		res.Outcome = OutcomeNoAccounts
		return res
	case RotationCoolingDown:
		res.Outcome = OutcomeCooldownActive
		res.AccountEmail = rot.Account.Email
		return res
	case RotationSaturated:
		res.Outcome = OutcomeQuotaExhausted
		return res
	}
	res.AccountEmail = rot.Account.Email
	if rot.OverQuota {
		d.logger.Printf("dispatcher: account %s is at its daily limit (%d), using it anyway",
			rot.Account.Email, rot.Account.DailyLimit)
	}

	// Stage 4: lead selection
	lead, err := d.nextEligible(ctx, campaign.Name)
	if err != nil {
		res.Outcome = OutcomeStoreError
		res.Err = err
		return res
	}
	if lead == nil {
		res.Outcome = OutcomeNoEligibleLeads
		return res
	}
	res.LeadID = lead.ID

	// Stage 5: send
	subject := campaign.Subject()
	body := campaign.Body(lead.FullName)

	sendCtx, cancelSend := context.WithTimeout(ctx, d.cfg.SendTimeout)
	sendStart := time.Now()
	err = d.mailer.Send(sendCtx, rot.Account.Email, lead.Email, subject, body)
	cancelSend()
	sendDuration.Observe(time.Since(sendStart).Seconds())
	if err != nil {
		res.Outcome = OutcomeSendFailed
		res.Err = err
		return res
	}

	// Stage 6: atomic commit. The campaign is written back as a whole new
	// value; the rotation cursor is persisted only here, together with the
	// completed send.
	sentAt := utils.TimeToUTC(now)
	updated := *campaign
	updated.Accounts = append(models.SenderAccounts(nil), campaign.Accounts...)
	account := &updated.Accounts[rot.Index]
	account.UsageToday = account.UsageOn(dayKey) + 1
	account.UsageDate = dayKey
	nextSend := sentAt.Add(d.randomGap())
	account.NextSendTime = &nextSend
	updated.LastAccountIndex = rot.Index

	row := &models.SentEmail{
		CampaignID:  campaign.ID,
		LeadID:      lead.ID,
		SenderEmail: rot.Account.Email,
		Recipient:   lead.Email,
		Subject:     subject,
		TrackingID:  uuid.New().String(),
		CreatedAt:   sentAt,
	}

	commitCtx, cancelCommit := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancelCommit()

	err = d.tx.InTx(commitCtx, func(txCtx context.Context) error {
		if err := d.leads.MarkEmailed(txCtx, lead.ID, sentAt); err != nil {
			return err
		}
		if err := d.campaigns.CommitDispatch(txCtx, &updated, campaign.Version); err != nil {
			return err
		}
		return d.sent.Save(txCtx, row)
	})
	if err != nil {
		// The email already left; the rollback keeps the stores untouched, so
		// the send is unrecorded. Flag it instead of dropping it.
		res.Inconsistent = true
		d.recordInconsistency(ctx, campaign.ID, lead.ID, rot.Account.Email, err)
		if errors.Is(err, repository.ErrCampaignVersionConflict) || errors.Is(err, repository.ErrLeadAlreadyEmailed) {
			res.Outcome = OutcomeCommitConflict
		} else {
			res.Outcome = OutcomeStoreError
		}
		res.Err = err
		return res
	}

	res.Outcome = OutcomeDispatched
	return res
}

func (d *Dispatcher) firstActive(ctx context.Context) (*models.Campaign, error) {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	return d.campaigns.FirstActive(storeCtx)
}

func (d *Dispatcher) nextEligible(ctx context.Context, campaignName string) (*models.Lead, error) {
	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	return d.leads.NextEligible(storeCtx, campaignName)
}

// randomGap draws the jittered minimum resend interval for an account
func (d *Dispatcher) randomGap() time.Duration {
	minutes := d.cfg.GapMinutes[d.randIntn(len(d.cfg.GapMinutes))]
	return time.Duration(minutes) * time.Minute
}

func (d *Dispatcher) recordInconsistency(ctx context.Context, campaignID, leadID uint, sender string, cause error) {
	row := &models.DispatchInconsistency{
		CampaignID:  campaignID,
		LeadID:      leadID,
		SenderEmail: sender,
		Detail:      fmt.Sprintf("email sent but commit failed: %v", cause),
	}

	storeCtx, cancel := context.WithTimeout(ctx, d.cfg.StoreTimeout)
	defer cancel()
	if err := d.inconsistencies.Save(storeCtx, row); err != nil {
		d.logger.Printf("dispatcher: failed to record inconsistency for campaign id=%d lead id=%d: %v",
			campaignID, leadID, err)
	}
}

func (d *Dispatcher) logResult(res TickResult) {
	switch res.Outcome {
	case OutcomeDispatched:
		d.logger.Printf("dispatcher: dispatched campaign id=%d lead id=%d from %s",
			res.CampaignID, res.LeadID, res.AccountEmail)
	case OutcomeNoActiveCampaign:
		// Quietest outcome; most ticks on an idle system end here.
	case OutcomeBadCampaign, OutcomeStoreError, OutcomeSendFailed, OutcomeCommitConflict:
		d.logger.Printf("dispatcher: tick aborted outcome=%s campaign id=%d: %v",
			res.Outcome, res.CampaignID, res.Err)
	default:
		d.logger.Printf("dispatcher: tick ended outcome=%s campaign id=%d", res.Outcome, res.CampaignID)
	}
}

// scheduleLocalTime mirrors the timezone resolution of EvaluateWindow
func scheduleLocalTime(schedule *models.Schedule, now time.Time) time.Time {
	if schedule != nil && schedule.Timezone != "" {
		if loc, err := time.LoadLocation(schedule.Timezone); err == nil {
			return now.In(loc)
		}
	}
	return now
}
