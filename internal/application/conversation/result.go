package conversation

import (
	"strconv"

	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
	"github.com/ticket-hub/ticket-hub/internal/domain/platform"
	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
	"github.com/ticket-hub/ticket-hub/internal/domain/redeem"
)

// Outcome classifies what happened to an input.
type Outcome string

const (
	OutcomeIgnored             Outcome = "ignored"
	OutcomePaused              Outcome = "paused"
	OutcomePrompt              Outcome = "prompt"
	OutcomeInvalidResponse     Outcome = "invalid_response"
	OutcomeShowGiveawayTypes   Outcome = "show_giveaway_types"
	OutcomeMissing             Outcome = "missing_requirements"
	OutcomeAdvanced            Outcome = "advanced"
	OutcomeCompleted           Outcome = "completed"
	OutcomeNoRedeems           Outcome = "no_redeems"
	OutcomeRedeemList          Outcome = "redeem_list"
	OutcomeDescriptionTooShort Outcome = "description_too_short"
	OutcomeDescriptionReceived Outcome = "description_received"
	OutcomeTelegramCodeMissing Outcome = "telegram_code_missing"
	OutcomeDuplicateCode       Outcome = "duplicate_code"
	OutcomeCodeNotFound        Outcome = "code_not_found"
	OutcomeCodeExpired         Outcome = "code_expired"
	OutcomeCasinoSelection     Outcome = "casino_selection"
	OutcomeLtcRequested        Outcome = "ltc_requested"
	OutcomeConfigError         Outcome = "config_error"
	OutcomeResolved            Outcome = "resolved"
	OutcomeRedeemSelected      Outcome = "redeem_selected"
	OutcomeClosed              Outcome = "closed"
)

// Result is the reply to an input. The gateway renders it; nothing is sent
// by the service itself.
type Result struct {
	Outcome    Outcome `json:"outcome"`
	ChannelID  string  `json:"channelId"`
	MessageKey string  `json:"messageKey,omitempty"`
	Text       string  `json:"text,omitempty"`
	// Missing lists the evidence still required, in display form.
	Missing    []string              `json:"missing,omitempty"`
	Prompt     *StepPrompt           `json:"prompt,omitempty"`
	Casinos    []CasinoOption        `json:"casinos,omitempty"`
	Promotions []promotion.Promotion `json:"promotions,omitempty"`
	Redeems    []redeem.Redeem       `json:"redeems,omitempty"`
	Actions    []platform.Action     `json:"actions,omitempty"`
	Notices    []platform.Notice     `json:"notices,omitempty"`

	pause *pendingPause
}

// pendingPause is a ticket that must be paused once the current channel lock
// is released.
type pendingPause struct {
	channelID string
	code      string
}

// StepPrompt describes the checklist step now awaiting evidence.
type StepPrompt struct {
	Index       int             `json:"index"`
	Total       int             `json:"total"`
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description"`
	Image       string          `json:"image,omitempty"`
	Requires    []evidence.Kind `json:"requires"`
	TextLabel   string          `json:"textLabel,omitempty"`
}

// CasinoOption is one entry of a casino selection menu.
type CasinoOption struct {
	ID    casino.ID `json:"id"`
	Label string    `json:"label"`
	Emoji string    `json:"emoji,omitempty"`
}

func newResult(channelID string, outcome Outcome, key string, pairs ...string) *Result {
	r := &Result{Outcome: outcome, ChannelID: channelID, MessageKey: key}
	if key != "" {
		r.Text = Render(key, pairs...)
	}
	return r
}

func stepPrompt(steps []casino.ChecklistStep, index int) *StepPrompt {
	s := steps[index]
	return &StepPrompt{
		Index:       index,
		Total:       len(steps),
		Title:       s.Title,
		Description: s.Description,
		Image:       s.Image,
		Requires:    s.Type,
		TextLabel:   s.TextLabel,
	}
}

func casinoOptions(casinos []*casino.Casino) []CasinoOption {
	out := make([]CasinoOption, 0, len(casinos))
	for _, c := range casinos {
		out = append(out, CasinoOption{ID: c.ID, Label: c.Label, Emoji: c.Emoji})
	}
	return out
}

var promoStyles = map[string]platform.ActionStyle{
	"blue":  platform.StylePrimary,
	"grey":  platform.StyleSecondary,
	"green": platform.StyleSuccess,
	"red":   platform.StyleDanger,
}

func giveawayActions(promos []promotion.Promotion) []platform.Action {
	actions := []platform.Action{
		{ID: "gw_type_telegram", Label: "Telegram", Emoji: "📱", Style: platform.StylePrimary},
		{ID: "gw_type_gtb", Label: "GTB", Emoji: "⭐", Style: platform.StyleSecondary},
		{ID: "gw_type_other", Label: "Outro", Emoji: "🎁", Style: platform.StyleSecondary},
	}
	for _, p := range promos {
		style, ok := promoStyles[p.Color]
		if !ok {
			style = platform.StyleSuccess
		}
		emoji := p.Emoji
		if emoji == "" {
			emoji = "🔥"
		}
		actions = append(actions, platform.Action{ID: "gw_promo_" + p.ID, Label: p.Name, Emoji: emoji, Style: style})
	}
	return actions
}

func websiteActions() []platform.Action {
	return []platform.Action{
		{ID: "website_bug", Label: "Reportar Bug", Emoji: "🐛", Style: platform.StyleDanger},
		{ID: "website_redeem", Label: "Resgatar Redeem", Emoji: "🎁", Style: platform.StyleSuccess},
		platform.ActionSupport,
		platform.ActionCloseTicket,
	}
}

func finishActions() []platform.Action {
	return []platform.Action{platform.ActionFinish, platform.ActionSupport, platform.ActionCloseTicket}
}

func supportActions() []platform.Action {
	return []platform.Action{platform.ActionSupport, platform.ActionCloseTicket}
}

func redeemActions(redeems []*redeem.Redeem) []platform.Action {
	var actions []platform.Action
	for i, r := range redeems {
		if i == redeem.MaxSelectable {
			break
		}
		actions = append(actions, platform.Action{
			ID:    SelectRedeemActionID(r.ID),
			Label: strconv.Itoa(i+1) + ". " + r.ShortName(),
			Emoji: "🎁",
			Style: platform.StylePrimary,
		})
	}
	return append(actions, supportActions()...)
}

const (
	selectRedeemPrefix   = "select_redeem_"
	completeRedeemPrefix = "mark_redeem_complete_"
)

// SelectRedeemActionID is the id of the button picking a redeem.
func SelectRedeemActionID(redeemID string) string { return selectRedeemPrefix + redeemID }

// RedeemCompleteActionID is the id of the staff button completing a redeem.
func RedeemCompleteActionID(redeemID string) string { return completeRedeemPrefix + redeemID }
