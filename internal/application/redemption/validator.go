package redemption

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	activitysvc "github.com/ticket-hub/ticket-hub/internal/application/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

const (
	DefaultValidityWindow = 48 * time.Hour
	DefaultSearchLimit    = 100
)

// Outcome is the verdict on a submitted code.
type Outcome string

const (
	OutcomeReplay              Outcome = "duplicate_code"
	OutcomeNotFound            Outcome = "code_not_found"
	OutcomeExpired             Outcome = "code_expired"
	OutcomeSelectAll           Outcome = "select_all"
	OutcomeSelectSubset        Outcome = "select_subset"
	OutcomeNoValidCasino       Outcome = "no_valid_casino"
	OutcomeCasinoNotConfigured Outcome = "casino_not_configured"
	OutcomeChecklist           Outcome = "checklist"
	OutcomeVerifiedFastPath    Outcome = "verified_fast_path"
)

// Decision is the result of validating a code. The ticket state passed to
// Validate has already been moved to the flow the decision implies.
type Decision struct {
	Outcome     Outcome
	Code        string
	Original    *redemption.CodeRecord
	CasinoField string
	Prize       string
	// Casinos is the selection offered for SelectAll and SelectSubset.
	Casinos []*casino.Casino
	// Casino is the resolved single casino for Checklist and VerifiedFastPath.
	Casino  *casino.Casino
	// PauseChannelID is the still open ticket that first claimed a replayed
	// code. The caller pauses it while holding that channel's lock.
	PauseChannelID string
	Notices        []platform.Notice
}

// Config holds the validator settings.
type Config struct {
	LogsChannelID  string
	StaffChannelID string
	ValidityWindow time.Duration
	SearchLimit    int
}

// Validator decides what a submitted redemption code entitles a ticket to and
// guarantees a code is consumed at most once.
type Validator struct {
	ledger    redemption.Ledger
	logs      platform.LogSearcher
	directory platform.Directory
	activity  *activitysvc.Service
	registry  *casino.Registry
	cfg       Config
	now       func() time.Time
	logger    zerolog.Logger
}

// NewValidator creates a new code validator
func NewValidator(
	ledger redemption.Ledger,
	logs platform.LogSearcher,
	directory platform.Directory,
	activity *activitysvc.Service,
	registry *casino.Registry,
	cfg Config,
	logger zerolog.Logger,
) *Validator {
	if cfg.ValidityWindow <= 0 {
		cfg.ValidityWindow = DefaultValidityWindow
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	return &Validator{
		ledger:    ledger,
		logs:      logs,
		directory: directory,
		activity:  activity,
		registry:  registry,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
		logger:    logger.With().Str("service", "redemption").Logger(),
	}
}

// SetClock overrides the time source.
func (v *Validator) SetClock(now func() time.Time) {
	v.now = now
}

// Validate checks st.TelegramCode, submitted by the ticket owner, and moves st
// to the resulting flow. The caller persists st.
func (v *Validator) Validate(ctx context.Context, st *ticket.State, userID, userTag string) (*Decision, error) {
	code := st.TelegramCode
	log := v.logger.With().Str("channel_id", st.ChannelID).Str("code", code).Logger()

	existing, err := v.ledger.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	if existing != nil {
		return v.replay(ctx, st, existing, userID, userTag)
	}

	msgs, err := v.logs.RecentMessages(ctx, v.cfg.LogsChannelID, v.cfg.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to read logs channel: %w", err)
	}
	var entry *platform.LogMessage
	for i := range msgs {
		if redemption.MentionsCode(msgs[i].Content, code) {
			entry = &msgs[i]
			break
		}
	}

	if entry == nil || v.now().Sub(entry.CreatedAt) > v.cfg.ValidityWindow {
		rec := redemption.NewCodeRecord(code, st.ChannelID, st.TicketNumber, userID, userTag, "", "")
		if d, err := v.claim(ctx, st, rec, userID, userTag); d != nil || err != nil {
			return d, err
		}
		st.Enter(ticket.TelegramCode())
		if entry == nil {
			log.Info().Msg("code not found in logs")
			return &Decision{Outcome: OutcomeNotFound, Code: code}, nil
		}
		log.Info().Time("logged_at", entry.CreatedAt).Msg("code expired")
		return &Decision{Outcome: OutcomeExpired, Code: code}, nil
	}

	parsed := redemption.ParseLogEntry(entry.Content)
	rec := redemption.NewCodeRecord(code, st.ChannelID, st.TicketNumber, userID, userTag, parsed.Casino, parsed.Prize)
	if d, err := v.claim(ctx, st, rec, userID, userTag); d != nil || err != nil {
		return d, err
	}
	if parsed.Prize != "" {
		st.Prize = parsed.Prize
	}
	if err := v.activity.Log(ctx, st.ChannelID, userID, activity.ActionTelegramCodeValidated,
		fmt.Sprintf("Code: %s, Casino: %s", code, parsed.Casino)); err != nil {
		return nil, err
	}

	d := &Decision{Code: code, CasinoField: parsed.Casino, Prize: parsed.Prize}
	sel := redemption.ParseCasinoField(parsed.Casino)
	switch sel.Kind {
	case redemption.SelectAll:
		d.Outcome = OutcomeSelectAll
		d.Casinos = v.registry.All()
		st.Enter(ticket.CasinoSelection(ids(d.Casinos)))
	case redemption.SelectList:
		d.Casinos = v.registry.ResolveList(sel.Names)
		if len(d.Casinos) == 0 {
			d.Outcome = OutcomeNoValidCasino
			st.Enter(ticket.TelegramCode())
			log.Warn().Str("casino_field", parsed.Casino).Msg("no configured casino in list")
			break
		}
		d.Outcome = OutcomeSelectSubset
		st.Enter(ticket.CasinoSelection(ids(d.Casinos)))
	default:
		c, ok := v.registry.Resolve(sel.Names[0])
		if !ok {
			d.Outcome = OutcomeCasinoNotConfigured
			st.Enter(ticket.TelegramCode())
			log.Warn().Str("casino_field", parsed.Casino).Msg("casino not configured")
			break
		}
		d.Casino = c
		st.Casino = c.ID
		fast, err := v.IsVerifiedFor(ctx, st, userID, c)
		if err != nil {
			return nil, err
		}
		if fast {
			d.Outcome = OutcomeVerifiedFastPath
			st.Enter(ticket.AwaitingLtc())
		} else {
			d.Outcome = OutcomeChecklist
			st.Enter(ticket.CasinoChecklist(c.ID))
		}
	}

	log.Info().Str("outcome", string(d.Outcome)).Str("casino_field", parsed.Casino).Msg("code validated")
	return d, nil
}

// IsVerifiedFor reports whether the ticket owner may skip the checklist of c:
// the ticket must be verified and the member must hold the casino role.
func (v *Validator) IsVerifiedFor(ctx context.Context, st *ticket.State, userID string, c *casino.Casino) (bool, error) {
	if !st.IsVerified || c.VerificationRoleID == "" {
		return false, nil
	}
	ok, err := v.directory.MemberHasRole(ctx, userID, c.VerificationRoleID)
	if err != nil {
		return false, fmt.Errorf("failed to check member role: %w", err)
	}
	return ok, nil
}

// claim records rec. A lost race is handled as a replay of the winning record
// and returned as a non-nil decision.
func (v *Validator) claim(ctx context.Context, st *ticket.State, rec *redemption.CodeRecord, userID, userTag string) (*Decision, error) {
	winner, err := v.ledger.Claim(ctx, rec)
	if errors.Is(err, redemption.ErrCodeAlreadyClaimed) {
		v.logger.Warn().Str("code", rec.Code).Str("channel_id", st.ChannelID).Msg("lost code claim race")
		return v.replay(ctx, st, winner, userID, userTag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to claim code: %w", err)
	}
	return nil, nil
}

func (v *Validator) replay(ctx context.Context, st *ticket.State, original *redemption.CodeRecord, userID, userTag string) (*Decision, error) {
	code := st.TelegramCode
	attempt := redemption.NewDuplicateAttempt(code, st.ChannelID, userID, userTag)
	if err := v.ledger.RecordDuplicate(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to record duplicate attempt: %w", err)
	}

	d := &Decision{Outcome: OutcomeReplay, Code: code, Original: original}

	originalOpen := false
	if original.TicketChannelID != st.ChannelID {
		exists, err := v.directory.ChannelExists(ctx, original.TicketChannelID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up original ticket channel: %w", err)
		}
		if exists {
			d.PauseChannelID = original.TicketChannelID
			originalOpen = true
		}
	}

	d.Notices = append(d.Notices, duplicateStaffAlert(v.cfg.StaffChannelID, code, original, st, userTag, originalOpen))

	if err := v.activity.Log(ctx, st.ChannelID, userID, activity.ActionDuplicateCode,
		fmt.Sprintf("Code: %s, Original ticket: #%d", code, original.TicketNumber)); err != nil {
		return nil, err
	}

	st.Enter(ticket.TelegramCode())
	st.Pause()

	v.logger.Warn().
		Str("code", code).
		Str("channel_id", st.ChannelID).
		Str("original_channel_id", original.TicketChannelID).
		Int("original_ticket", original.TicketNumber).
		Msg("duplicate code submitted, tickets paused")
	return d, nil
}

func ids(casinos []*casino.Casino) []casino.ID {
	out := make([]casino.ID, 0, len(casinos))
	for _, c := range casinos {
		out = append(out, c.ID)
	}
	return out
}
