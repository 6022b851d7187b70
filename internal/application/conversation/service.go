package conversation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	activitysvc "github.com/ticket-hub/ticket-hub/internal/application/activity"
	promotionsvc "github.com/ticket-hub/ticket-hub/internal/application/promotion"
	redemptionsvc "github.com/ticket-hub/ticket-hub/internal/application/redemption"
	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
	"github.com/ticket-hub/ticket-hub/internal/domain/redeem"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

var confirmPattern = regexp.MustCompile(`(?i)^sim[, ]*eu confirmo$`)

var ErrInvalidChoice = errors.New("invalid choice")

// OpenTicketInput describes a newly created ticket channel.
type OpenTicketInput struct {
	ChannelID    string `json:"channelId"`
	TicketNumber int    `json:"ticketNumber"`
	OwnerID      string `json:"ownerId"`
	OwnerTag     string `json:"ownerTag"`
	Category     string `json:"category"`
	IsVerified   bool   `json:"isVerified"`
}

// Service drives the per-channel ticket conversation.
type Service struct {
	tickets    ticket.Repository
	registry   *casino.Registry
	validator  *redemptionsvc.Validator
	promotions *promotionsvc.Manager
	redeems    redeem.Repository
	activity   *activitysvc.Service
	staffID    string
	logger     zerolog.Logger

	locks sync.Map
}

// NewService creates a new conversation service
func NewService(
	tickets ticket.Repository,
	registry *casino.Registry,
	validator *redemptionsvc.Validator,
	promotions *promotionsvc.Manager,
	redeems redeem.Repository,
	activity *activitysvc.Service,
	staffChannelID string,
	logger zerolog.Logger,
) *Service {
	return &Service{
		tickets:    tickets,
		registry:   registry,
		validator:  validator,
		promotions: promotions,
		redeems:    redeems,
		activity:   activity,
		staffID:    staffChannelID,
		logger:     logger.With().Str("service", "conversation").Logger(),
	}
}

// lock serializes work on one channel.
func (s *Service) lock(channelID string) func() {
	v, _ := s.locks.LoadOrStore(channelID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type logItem struct {
	action activity.Action
	detail string
}

// commit persists st and then writes the action log entries.
func (s *Service) commit(ctx context.Context, st *ticket.State, userID string, items ...logItem) error {
	if err := s.tickets.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to save ticket state: %w", err)
	}
	for _, it := range items {
		if err := s.activity.Log(ctx, st.ChannelID, userID, it.action, it.detail); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the state of a ticket.
func (s *Service) Get(ctx context.Context, channelID string) (*ticket.State, error) {
	st, err := s.tickets.Get(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket state: %w", err)
	}
	if st == nil {
		return nil, ticket.ErrNotFound
	}
	return st, nil
}

// HandleMessage processes one inbound chat message.
func (s *Service) HandleMessage(ctx context.Context, msg platform.Message) (*Result, error) {
	if msg.IsBot {
		return &Result{Outcome: OutcomeIgnored, ChannelID: msg.ChannelID}, nil
	}

	unlock := s.lock(msg.ChannelID)
	res, err := s.dispatch(ctx, msg)
	unlock()
	if err == nil && res.pause != nil {
		// Taken after the submitting channel is released so two replays
		// never wait on each other's locks.
		err = s.pauseOriginal(ctx, res)
	}
	if err != nil {
		s.logger.Error().Err(err).
			Str("channel_id", msg.ChannelID).
			Str("user_id", msg.AuthorID).
			Msg("failed to handle message")
		return nil, err
	}
	return res, nil
}

// pauseOriginal puts the first owner of a replayed code on hold. The state is
// reloaded under the owner's lock so a handler already running on that
// channel cannot overwrite the pause.
func (s *Service) pauseOriginal(ctx context.Context, res *Result) error {
	p := res.pause
	res.pause = nil

	unlock := s.lock(p.channelID)
	defer unlock()

	st, err := s.tickets.Get(ctx, p.channelID)
	if err != nil {
		return fmt.Errorf("failed to load original ticket: %w", err)
	}
	if st == nil {
		return nil
	}
	st.Pause()
	if err := s.tickets.Save(ctx, st); err != nil {
		return fmt.Errorf("failed to pause original ticket: %w", err)
	}
	res.Notices = append([]platform.Notice{redemptionsvc.OriginalPausedNotice(p.channelID, p.code)}, res.Notices...)
	return nil
}

func (s *Service) dispatch(ctx context.Context, msg platform.Message) (*Result, error) {
	st, err := s.tickets.Get(ctx, msg.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket state: %w", err)
	}
	if st == nil {
		return &Result{Outcome: OutcomeIgnored, ChannelID: msg.ChannelID}, nil
	}
	if st.AwaitingSupport {
		return newResult(st.ChannelID, OutcomePaused, MsgTicketPaused), nil
	}

	obs := evidence.Observation{Text: msg.Text, Attachments: msg.Attachments}
	switch st.Flow.Kind {
	case ticket.FlowAwaitingConfirm:
		return s.handleConfirm(ctx, st, msg)
	case ticket.FlowAwaitingLtc:
		return s.handleLtc(ctx, st, msg.AuthorID, obs)
	case ticket.FlowAwaitingTwitch:
		return s.handleTwitch(ctx, st, msg.AuthorID, obs)
	case ticket.FlowAwaitingDescription:
		return s.handleDescription(ctx, st, msg.AuthorID, obs)
	case ticket.FlowVIPChecklist, ticket.FlowCasinoChecklist:
		return s.handleChecklist(ctx, st, msg.AuthorID, obs)
	case ticket.FlowTelegramCode:
		return s.handleTelegram(ctx, st, msg, obs)
	default:
		return &Result{Outcome: OutcomeIgnored, ChannelID: st.ChannelID}, nil
	}
}

func (s *Service) handleConfirm(ctx context.Context, st *ticket.State, msg platform.Message) (*Result, error) {
	if !confirmPattern.MatchString(strings.TrimSpace(msg.Text)) {
		return newResult(st.ChannelID, OutcomeInvalidResponse, MsgInvalidResponse), nil
	}

	st.Enter(ticket.Idle())
	if err := s.commit(ctx, st, msg.AuthorID, logItem{action: activity.ActionAgeConfirmed}); err != nil {
		return nil, err
	}

	promos := s.offeredPromotions(ctx)
	res := newResult(st.ChannelID, OutcomeShowGiveawayTypes, MsgGiveawayTypes)
	res.Promotions = promos
	res.Actions = giveawayActions(promos)
	return res, nil
}

// offeredPromotions refreshes and returns the promotions offered after the age
// gate. Promotions are skipped while the manager is still loading.
func (s *Service) offeredPromotions(ctx context.Context) []promotion.Promotion {
	if s.promotions == nil {
		return nil
	}
	select {
	case <-s.promotions.Ready():
	default:
		s.logger.Warn().Msg("promotions not loaded yet, skipping promo buttons")
		return nil
	}
	if err := s.promotions.Refresh(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to refresh promotions")
	}
	promos, err := s.promotions.Active(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active promotions")
		return nil
	}
	return promos
}

func (s *Service) handleLtc(ctx context.Context, st *ticket.State, userID string, obs evidence.Observation) (*Result, error) {
	rule := evidence.DualRule(evidence.MinAddressText)
	ev := evidence.Evaluate(rule, st.Flow.Seen(), obs)
	if ev.Accepted != "" {
		st.LtcAddress = ev.Accepted
	}

	if !ev.Satisfied {
		st.Record(ev.Seen)
		if err := s.commit(ctx, st, userID); err != nil {
			return nil, err
		}
		return s.missing(st, MsgLtcMissing, ltcLabels.names(ev.Missing)), nil
	}

	st.Enter(ticket.Completed())
	if err := s.commit(ctx, st, userID, logItem{
		action: activity.ActionLtcDepositProvided,
		detail: activitysvc.Truncate(st.LtcAddress, 10, "..."),
	}); err != nil {
		return nil, err
	}

	res := newResult(st.ChannelID, OutcomeCompleted, MsgLtcComplete)
	res.Actions = finishActions()
	return res, nil
}

func (s *Service) handleTwitch(ctx context.Context, st *ticket.State, userID string, obs evidence.Observation) (*Result, error) {
	rule := evidence.DualRule(evidence.MinNickText)
	ev := evidence.Evaluate(rule, st.Flow.Seen(), obs)
	if ev.Accepted != "" {
		st.TwitchNick = ev.Accepted
	}

	if !ev.Satisfied {
		st.Record(ev.Seen)
		if err := s.commit(ctx, st, userID); err != nil {
			return nil, err
		}
		return s.missing(st, MsgTwitchMissing, twitchLabels.names(ev.Missing)), nil
	}

	st.Enter(ticket.Idle())
	if err := s.commit(ctx, st, userID, logItem{action: activity.ActionTwitchNickProvided, detail: st.TwitchNick}); err != nil {
		return nil, err
	}

	redeems, err := s.redeems.ListPendingByNick(ctx, st.TwitchNick)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeems: %w", err)
	}
	if len(redeems) == 0 {
		res := newResult(st.ChannelID, OutcomeNoRedeems, MsgNoRedeems, "{nick}", st.TwitchNick)
		res.Actions = supportActions()
		return res, nil
	}

	res := newResult(st.ChannelID, OutcomeRedeemList, MsgRedeemList, "{nick}", st.TwitchNick)
	for _, r := range redeems {
		res.Redeems = append(res.Redeems, *r)
	}
	res.Actions = redeemActions(redeems)
	return res, nil
}

func (s *Service) handleDescription(ctx context.Context, st *ticket.State, userID string, obs evidence.Observation) (*Result, error) {
	rule := evidence.Rule{Required: []evidence.Kind{evidence.KindText}, MinText: evidence.MinDescriptionText}
	ev := evidence.Evaluate(rule, evidence.Seen{}, obs)
	if !ev.Satisfied {
		return newResult(st.ChannelID, OutcomeDescriptionTooShort, MsgDescriptionTooShort), nil
	}

	st.Description = ev.Accepted
	st.Enter(ticket.Idle())
	if err := s.commit(ctx, st, userID, logItem{
		action: activity.ActionDescriptionProvided,
		detail: activitysvc.Truncate(st.Description, 100, ""),
	}); err != nil {
		return nil, err
	}

	res := newResult(st.ChannelID, OutcomeDescriptionReceived, MsgDescriptionReceived)
	res.Notices = []platform.Notice{s.descriptionNotice(st)}
	return res, nil
}

func (s *Service) descriptionNotice(st *ticket.State) platform.Notice {
	key := MsgQuestionNotification
	if st.Category == ticket.CategoryWebsite && st.WebsiteType == ticket.WebsiteBug {
		key = MsgBugNotification
	}
	return platform.Notice{
		ChannelID: s.staffID,
		Key:       key,
		Text: Render(key,
			"{category}", st.Category,
			"{number}", fmt.Sprint(st.TicketNumber),
			"{user}", st.OwnerTag,
			"{channel}", st.ChannelID,
			"{description}", st.Description,
		),
		Actions: []platform.Action{{
			ID:    "support_complete_description_" + st.ChannelID,
			Label: "Marcar como Concluído",
			Emoji: "✅",
			Style: platform.StyleSuccess,
		}},
	}
}

// checklist returns the steps of the active checklist flow.
func (s *Service) checklist(st *ticket.State) ([]casino.ChecklistStep, bool) {
	switch st.Flow.Kind {
	case ticket.FlowVIPChecklist:
		return casino.VIPChecklist(st.Flow.VIPType)
	case ticket.FlowCasinoChecklist:
		c, ok := s.registry.Get(st.Flow.Casino)
		if !ok || len(c.Checklist) == 0 {
			return nil, false
		}
		return c.Checklist, true
	}
	return nil, false
}

func (s *Service) handleChecklist(ctx context.Context, st *ticket.State, userID string, obs evidence.Observation) (*Result, error) {
	steps, ok := s.checklist(st)
	if !ok || st.Flow.Step >= len(steps) {
		return newResult(st.ChannelID, OutcomeConfigError, MsgChecklistNotAvailable), nil
	}

	step := steps[st.Flow.Step]
	ev := evidence.Evaluate(step.Rule(), st.Flow.Seen(), obs)
	if ev.Accepted != "" {
		switch step.Captures {
		case casino.CaptureVIPID:
			st.VIPID = ev.Accepted
		case casino.CaptureLtcAddress:
			st.LtcAddress = ev.Accepted
		}
	}

	if !ev.Satisfied {
		st.Record(ev.Seen)
		if err := s.commit(ctx, st, userID); err != nil {
			return nil, err
		}
		if len(step.Type) == 1 && step.Type[0] == evidence.KindImage {
			return s.missing(st, MsgImageRequired, checklistLabels.names(ev.Missing)), nil
		}
		l := checklistLabels
		if step.TextLabel != "" {
			l.text = "**" + step.TextLabel + "**"
		}
		return s.missing(st, MsgMissingRequirements, l.names(ev.Missing)), nil
	}

	return s.walk(ctx, st, userID, steps, true, nil)
}

// walk moves a checklist flow forward. When completed is true the current step
// has just been satisfied. Informational steps are passed through on arrival.
// prefix, if set, is shown before the step prompt. items are logged after the
// state is saved, ahead of the step entries.
func (s *Service) walk(ctx context.Context, st *ticket.State, userID string, steps []casino.ChecklistStep, completed bool, prefix *Result, items ...logItem) (*Result, error) {
	for {
		if completed {
			items = append(items, s.stepLog(st))
			if st.Flow.Step+1 >= len(steps) {
				items = append(items, s.finishLog(st))
				vip := st.Flow.Kind == ticket.FlowVIPChecklist
				st.Enter(ticket.Completed())
				if err := s.commit(ctx, st, userID, items...); err != nil {
					return nil, err
				}
				key := MsgChecklistCompleted
				if vip {
					key = MsgVIPCompleted
				}
				res := newResult(st.ChannelID, OutcomeCompleted, key)
				res.Actions = finishActions()
				return withPrefix(prefix, res), nil
			}
			if err := st.AdvanceStep(len(steps)); err != nil {
				return nil, err
			}
		}
		if !steps[st.Flow.Step].IsInformational() {
			break
		}
		completed = true
	}

	if err := s.commit(ctx, st, userID, items...); err != nil {
		return nil, err
	}
	res := &Result{Outcome: OutcomeAdvanced, ChannelID: st.ChannelID, Prompt: stepPrompt(steps, st.Flow.Step)}
	res.Actions = supportActions()
	return withPrefix(prefix, res), nil
}

func (s *Service) stepLog(st *ticket.State) logItem {
	if st.Flow.Kind == ticket.FlowVIPChecklist {
		return logItem{action: activity.ActionVIPStepCompleted, detail: fmt.Sprintf("%s Step %d", st.Flow.VIPType, st.Flow.Step+1)}
	}
	return logItem{action: activity.ActionStepCompleted, detail: fmt.Sprintf("Step %d", st.Flow.Step+1)}
}

func (s *Service) finishLog(st *ticket.State) logItem {
	if st.Flow.Kind == ticket.FlowVIPChecklist {
		return logItem{action: activity.ActionVIPChecklistCompleted, detail: fmt.Sprintf("Type: %s, Casino: %s", st.Flow.VIPType, st.VIPCasino)}
	}
	return logItem{action: activity.ActionChecklistCompleted, detail: fmt.Sprintf("Casino: %s", st.Flow.Casino)}
}

// withPrefix merges a lead-in message into res.
func withPrefix(prefix, res *Result) *Result {
	if prefix == nil {
		return res
	}
	if res.Text == "" {
		res.MessageKey = prefix.MessageKey
		res.Text = prefix.Text
	} else {
		res.Text = prefix.Text + "\n\n" + res.Text
	}
	return res
}

func (s *Service) missing(st *ticket.State, key string, missing []string) *Result {
	res := newResult(st.ChannelID, OutcomeMissing, key, "{missing}", strings.Join(missing, " e "))
	res.Missing = missing
	return res
}

func (s *Service) handleTelegram(ctx context.Context, st *ticket.State, msg platform.Message, obs evidence.Observation) (*Result, error) {
	ev := evidence.Evaluate(evidence.CodeRule(), st.Flow.Seen(), obs)
	if ev.Accepted != "" {
		st.TelegramCode = ev.Accepted
	}

	if !ev.Satisfied {
		st.Record(ev.Seen)
		if err := s.commit(ctx, st, msg.AuthorID); err != nil {
			return nil, err
		}
		res := s.missing(st, MsgTelegramCodeMissing, telegramLabels.names(ev.Missing))
		res.Outcome = OutcomeTelegramCodeMissing
		return res, nil
	}

	d, err := s.validator.Validate(ctx, st, msg.AuthorID, msg.AuthorTag)
	if err != nil {
		return nil, err
	}
	return s.applyDecision(ctx, st, msg.AuthorID, d)
}

// applyDecision persists the flow chosen by the validator and builds the reply.
func (s *Service) applyDecision(ctx context.Context, st *ticket.State, userID string, d *redemptionsvc.Decision) (*Result, error) {
	if d.Outcome == redemptionsvc.OutcomeChecklist {
		steps, ok := s.checklist(st)
		if !ok {
			st.Enter(ticket.TelegramCode())
			if err := s.commit(ctx, st, userID); err != nil {
				return nil, err
			}
			return newResult(st.ChannelID, OutcomeConfigError, MsgChecklistNotAvailable), nil
		}
		prefix := newResult(st.ChannelID, OutcomeAdvanced, MsgSpecificCasino, "{casino}", string(d.Casino.ID))
		return s.walk(ctx, st, userID, steps, false, prefix)
	}

	if err := s.commit(ctx, st, userID); err != nil {
		return nil, err
	}

	var res *Result
	switch d.Outcome {
	case redemptionsvc.OutcomeReplay:
		res = newResult(st.ChannelID, OutcomeDuplicateCode, MsgDuplicateCode,
			"{originalTicket}", fmt.Sprint(d.Original.TicketNumber),
			"{originalUser}", d.Original.UserTag,
		)
		res.Actions = supportActions()
		res.Notices = d.Notices
		if d.PauseChannelID != "" {
			res.pause = &pendingPause{channelID: d.PauseChannelID, code: d.Code}
		}
	case redemptionsvc.OutcomeNotFound:
		res = newResult(st.ChannelID, OutcomeCodeNotFound, MsgCodeNotFound)
	case redemptionsvc.OutcomeExpired:
		res = newResult(st.ChannelID, OutcomeCodeExpired, MsgCodeExpired)
	case redemptionsvc.OutcomeSelectAll, redemptionsvc.OutcomeSelectSubset:
		res = newResult(st.ChannelID, OutcomeCasinoSelection, MsgCodeValidated, "{casino}", d.CasinoField)
		res.Text += "\n\n" + Render(MsgCasinoSelection)
		res.Casinos = casinoOptions(d.Casinos)
	case redemptionsvc.OutcomeNoValidCasino:
		res = newResult(st.ChannelID, OutcomeConfigError, MsgNoValidCasino)
	case redemptionsvc.OutcomeCasinoNotConfigured:
		res = newResult(st.ChannelID, OutcomeConfigError, MsgCasinoNotConfigured, "{casino}", d.CasinoField)
	case redemptionsvc.OutcomeVerifiedFastPath:
		res = newResult(st.ChannelID, OutcomeLtcRequested, MsgSpecificCasino, "{casino}", string(d.Casino.ID))
		res.Text += "\n\n" + Render(MsgVerifiedSkip)
		res.Actions = finishActions()
	default:
		return nil, fmt.Errorf("unexpected redemption outcome %q", d.Outcome)
	}
	return res, nil
}
