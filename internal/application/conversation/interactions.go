package conversation

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/redeem"
	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

// OpenTicket creates the state of a new ticket channel. Question categories
// start by asking for a description, Website tickets by asking for the request
// type and every other category at the age gate.
func (s *Service) OpenTicket(ctx context.Context, in OpenTicketInput) (*Result, error) {
	if in.ChannelID == "" || in.OwnerID == "" {
		return nil, fmt.Errorf("%w: channelId and ownerId are required", ErrInvalidChoice)
	}

	unlock := s.lock(in.ChannelID)
	defer unlock()

	existing, err := s.tickets.Get(ctx, in.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket state: %w", err)
	}
	if existing != nil {
		return nil, ticket.ErrAlreadyOpen
	}

	st := ticket.NewState(in.ChannelID, in.TicketNumber, in.OwnerID, in.OwnerTag, in.Category, in.IsVerified)
	var res *Result
	switch {
	case ticket.IsQuestionCategory(in.Category):
		st.Enter(ticket.AwaitingDescription())
		res = newResult(st.ChannelID, OutcomePrompt, MsgDescriptionRequest)
	case in.Category == ticket.CategoryWebsite:
		st.Enter(ticket.Idle())
		res = newResult(st.ChannelID, OutcomePrompt, MsgWebsiteTypeRequest)
		res.Actions = websiteActions()
	default:
		res = newResult(st.ChannelID, OutcomePrompt, MsgAgeConfirmRequest)
	}

	if err := s.commit(ctx, st, in.OwnerID, logItem{action: activity.ActionTicketOpened, detail: "Category: " + in.Category}); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("channel_id", st.ChannelID).
		Int("ticket", st.TicketNumber).
		Str("category", st.Category).
		Str("flow", string(st.Flow.Kind)).
		Msg("ticket opened")
	return res, nil
}

// interact loads a ticket for an interaction handler. A nil result with nil
// error means the handler may proceed.
func (s *Service) interact(ctx context.Context, channelID string, allowed ...ticket.FlowKind) (*ticket.State, *Result, error) {
	st, err := s.Get(ctx, channelID)
	if err != nil {
		return nil, nil, err
	}
	if st.AwaitingSupport {
		return st, newResult(st.ChannelID, OutcomePaused, MsgTicketPaused), nil
	}
	for _, k := range allowed {
		if st.Flow.Kind == k {
			return st, nil, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ticket.ErrInvalidTransition, st.Flow.Kind)
}

// SelectGiveawayType records the giveaway chosen after the age gate.
func (s *Service) SelectGiveawayType(ctx context.Context, channelID, userID string, gw ticket.GiveawayType) (*Result, error) {
	if !ticket.ValidGiveawayType(gw) {
		return nil, fmt.Errorf("%w: giveaway type %q", ErrInvalidChoice, gw)
	}

	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowIdle)
	if err != nil || blocked != nil {
		return blocked, err
	}

	st.GiveawayType = gw
	var res *Result
	if gw == ticket.GiveawayTelegram {
		st.Enter(ticket.TelegramCode())
		res = newResult(st.ChannelID, OutcomePrompt, MsgTelegramRequest)
	} else {
		all := s.registry.All()
		ids := make([]casino.ID, 0, len(all))
		for _, c := range all {
			ids = append(ids, c.ID)
		}
		st.Enter(ticket.CasinoSelection(ids))
		res = newResult(st.ChannelID, OutcomeCasinoSelection, MsgCasinoSelection)
		res.Casinos = casinoOptions(all)
	}

	if err := s.commit(ctx, st, userID, logItem{action: activity.ActionGiveawayTypeSelected, detail: string(gw)}); err != nil {
		return nil, err
	}
	return res, nil
}

// SelectCasino applies a casino chosen from a selection menu.
func (s *Service) SelectCasino(ctx context.Context, channelID, userID string, id casino.ID) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowCasinoSelection)
	if err != nil || blocked != nil {
		return blocked, err
	}

	c, ok := s.registry.Get(id)
	if !ok {
		c, ok = s.registry.Resolve(string(id))
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", casino.ErrCasinoNotFound, id)
	}
	if !st.Flow.Allows(c.ID) {
		return nil, fmt.Errorf("%w: %s", ticket.ErrCasinoNotAllowed, id)
	}

	st.Casino = c.ID
	selected := logItem{action: activity.ActionCasinoSelected, detail: string(c.ID)}

	fast, err := s.validator.IsVerifiedFor(ctx, st, userID, c)
	if err != nil {
		return nil, err
	}
	if fast {
		st.Enter(ticket.AwaitingLtc())
		if err := s.commit(ctx, st, userID, selected); err != nil {
			return nil, err
		}
		res := newResult(st.ChannelID, OutcomeLtcRequested, MsgVerifiedSkip)
		res.Actions = finishActions()
		return res, nil
	}

	if len(c.Checklist) == 0 {
		return newResult(st.ChannelID, OutcomeConfigError, MsgChecklistNotAvailable), nil
	}
	st.Enter(ticket.CasinoChecklist(c.ID))
	return s.walk(ctx, st, userID, c.Checklist, false, nil, selected)
}

// StartVIP starts the built-in checklist of a VIP type.
func (s *Service) StartVIP(ctx context.Context, channelID, userID string, vipType casino.VIPType, vipCasino string) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowIdle)
	if err != nil || blocked != nil {
		return blocked, err
	}

	steps, ok := casino.VIPChecklist(vipType)
	if !ok {
		return newResult(st.ChannelID, OutcomeConfigError, MsgVIPTypeNotConfigured), nil
	}

	st.VIPType = vipType
	st.VIPCasino = vipCasino
	st.Enter(ticket.VIPChecklist(vipType))
	return s.walk(ctx, st, userID, steps, false, nil)
}

// StartDescription asks for a free-text description. websiteType may be empty.
func (s *Service) StartDescription(ctx context.Context, channelID, userID string, websiteType ticket.WebsiteType) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowIdle, ticket.FlowAwaitingDescription)
	if err != nil || blocked != nil {
		return blocked, err
	}

	if websiteType != "" {
		st.WebsiteType = websiteType
	}
	st.Enter(ticket.AwaitingDescription())
	if err := s.commit(ctx, st, userID); err != nil {
		return nil, err
	}
	return newResult(st.ChannelID, OutcomePrompt, MsgDescriptionRequest), nil
}

// StartTwitchNick asks a website redeem ticket for the Twitch nick.
func (s *Service) StartTwitchNick(ctx context.Context, channelID, userID string) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowIdle)
	if err != nil || blocked != nil {
		return blocked, err
	}

	st.WebsiteType = ticket.WebsiteRedeem
	st.Enter(ticket.AwaitingTwitch())
	if err := s.commit(ctx, st, userID); err != nil {
		return nil, err
	}
	return newResult(st.ChannelID, OutcomePrompt, MsgTwitchRequest), nil
}

// ResolveDuplicate resumes the tickets paused by a replayed code. Channels
// without state are skipped.
func (s *Service) ResolveDuplicate(ctx context.Context, operatorID string, channelIDs ...string) (*Result, error) {
	resumed := 0
	for _, id := range channelIDs {
		ok, err := s.resume(ctx, operatorID, id)
		if err != nil {
			return nil, err
		}
		if ok {
			resumed++
		}
	}

	s.logger.Info().
		Str("operator_id", operatorID).
		Strs("channels", channelIDs).
		Int("resumed", resumed).
		Msg("duplicate code review resolved")

	return newResult("", OutcomeResolved, MsgDuplicateResolved), nil
}

func (s *Service) resume(ctx context.Context, operatorID, channelID string) (bool, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, err := s.tickets.Get(ctx, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to load ticket state: %w", err)
	}
	if st == nil {
		return false, nil
	}
	st.Resume()
	if err := s.commit(ctx, st, operatorID, logItem{action: activity.ActionDuplicateResolved, detail: "Resolved by " + operatorID}); err != nil {
		return false, err
	}
	return true, nil
}

// CloseTicket drops the state of a closed ticket channel. The activity log and
// the code ledger are kept.
func (s *Service) CloseTicket(ctx context.Context, operatorID, channelID string) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, err := s.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Delete(ctx, channelID); err != nil {
		return nil, fmt.Errorf("failed to delete ticket state: %w", err)
	}
	if err := s.activity.Log(ctx, channelID, operatorID, activity.ActionTicketClosed, fmt.Sprintf("Ticket #%d", st.TicketNumber)); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("channel_id", channelID).
		Int("ticket", st.TicketNumber).
		Str("operator_id", operatorID).
		Msg("ticket closed")
	return newResult(channelID, OutcomeClosed, MsgTicketClosed), nil
}

// SelectRedeem picks one of the pending redeems listed for the ticket's Twitch
// nick and notifies staff.
func (s *Service) SelectRedeem(ctx context.Context, channelID, userID, redeemID string) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, blocked, err := s.interact(ctx, channelID, ticket.FlowIdle)
	if err != nil || blocked != nil {
		return blocked, err
	}
	if st.TwitchNick == "" {
		return nil, fmt.Errorf("%w: no twitch nick on ticket", ticket.ErrInvalidTransition)
	}

	rd, err := s.pendingRedeem(ctx, st.TwitchNick, redeemID, redeem.MaxSelectable)
	if err != nil {
		return nil, err
	}

	if err := s.commit(ctx, st, userID, logItem{
		action: activity.ActionRedeemSelected,
		detail: fmt.Sprintf("Item: %s, Twitch: %s", rd.ItemName, st.TwitchNick),
	}); err != nil {
		return nil, err
	}

	res := newResult(st.ChannelID, OutcomeRedeemSelected, MsgRedeemSelected, "{item}", rd.ItemName)
	res.Actions = finishActions()
	res.Notices = []platform.Notice{{
		ChannelID: s.staffID,
		Key:       MsgRedeemNotification,
		Text: Render(MsgRedeemNotification,
			"{number}", strconv.Itoa(st.TicketNumber),
			"{user}", st.OwnerTag,
			"{nick}", st.TwitchNick,
			"{item}", rd.ItemName,
			"{cost}", strconv.Itoa(rd.Cost),
			"{channel}", st.ChannelID,
		),
		Actions: []platform.Action{
			{ID: RedeemCompleteActionID(rd.ID), Label: "Marcar Redeem como Concluído", Emoji: "✅", Style: platform.StyleSuccess},
			{Label: "Ir para o Ticket", Emoji: "🎫", Style: platform.StyleLink, ChannelID: st.ChannelID},
		},
	}}
	return res, nil
}

// CompleteRedeem marks a redeem of the ticket's Twitch nick as delivered.
func (s *Service) CompleteRedeem(ctx context.Context, operatorID, channelID, redeemID string) (*Result, error) {
	unlock := s.lock(channelID)
	defer unlock()

	st, err := s.Get(ctx, channelID)
	if err != nil {
		return nil, err
	}
	rd, err := s.pendingRedeem(ctx, st.TwitchNick, redeemID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.redeems.MarkCompleted(ctx, rd.ID); err != nil {
		return nil, fmt.Errorf("failed to complete redeem: %w", err)
	}
	if err := s.activity.Log(ctx, st.ChannelID, operatorID, activity.ActionRedeemCompleted, rd.ItemName); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("channel_id", st.ChannelID).
		Str("redeem_id", rd.ID).
		Str("operator_id", operatorID).
		Msg("redeem completed")
	return newResult(st.ChannelID, OutcomeCompleted, MsgRedeemCompleted, "{item}", rd.ItemName), nil
}

// pendingRedeem finds redeemID among the pending redeems of nick. A positive
// limit only considers the newest limit entries.
func (s *Service) pendingRedeem(ctx context.Context, nick, redeemID string, limit int) (*redeem.Redeem, error) {
	if nick == "" {
		return nil, fmt.Errorf("%w: redeem %s", ErrInvalidChoice, redeemID)
	}
	pending, err := s.redeems.ListPendingByNick(ctx, nick)
	if err != nil {
		return nil, fmt.Errorf("failed to list redeems: %w", err)
	}
	for i, rd := range pending {
		if limit > 0 && i == limit {
			break
		}
		if rd.ID == redeemID {
			return rd, nil
		}
	}
	return nil, fmt.Errorf("%w: redeem %s", ErrInvalidChoice, redeemID)
}
