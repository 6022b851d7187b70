package ticket

import (
	"errors"
	"time"

	"github.com/ticket-hub/ticket-hub/internal/domain/casino"
	"github.com/ticket-hub/ticket-hub/internal/domain/evidence"
)

// FlowKind discriminates the active flow of a ticket.
type FlowKind string

const (
	FlowIdle                FlowKind = "IDLE"
	FlowAwaitingConfirm     FlowKind = "AWAITING_CONFIRM"
	FlowAwaitingLtc         FlowKind = "AWAITING_LTC"
	FlowAwaitingTwitch      FlowKind = "AWAITING_TWITCH"
	FlowAwaitingDescription FlowKind = "AWAITING_DESCRIPTION"
	FlowVIPChecklist        FlowKind = "VIP_CHECKLIST"
	FlowTelegramCode        FlowKind = "TELEGRAM_CODE"
	FlowCasinoChecklist     FlowKind = "CASINO_CHECKLIST"
	FlowCasinoSelection     FlowKind = "CASINO_SELECTION"
	FlowCompleted           FlowKind = "COMPLETED"
)

// GiveawayType is the giveaway a ticket is claiming.
type GiveawayType string

const (
	GiveawayTelegram GiveawayType = "telegram"
	GiveawayGTB      GiveawayType = "gtb"
	GiveawayOther    GiveawayType = "other"
)

// WebsiteType is the sub-type of Website category tickets.
type WebsiteType string

const (
	WebsiteBug    WebsiteType = "bug"
	WebsiteRedeem WebsiteType = "redeem"
)

// ValidGiveawayType reports whether t is a known giveaway type.
func ValidGiveawayType(t GiveawayType) bool {
	switch t {
	case GiveawayTelegram, GiveawayGTB, GiveawayOther:
		return true
	}
	return false
}

// Ticket categories.
const (
	CategoryGiveaways = "Giveaways"
	CategoryVIP       = "VIP"
	// CategoryWebsite is the category whose bug reports get a dedicated staff notice.
	CategoryWebsite   = "Website"
	CategoryQuestions = "Dúvidas"
	CategoryOther     = "Outros"
)

// IsQuestionCategory reports whether tickets of category start by asking for a description.
func IsQuestionCategory(category string) bool {
	return category == CategoryQuestions || category == CategoryOther
}

var (
	ErrNotFound          = errors.New("ticket state not found")
	ErrInvalidTransition = errors.New("invalid ticket flow transition")
	ErrCasinoNotAllowed  = errors.New("casino not allowed for this ticket")
	ErrAlreadyOpen       = errors.New("ticket already open for channel")
)

// Flow is the tagged union of flows a ticket can be in. Only the payload
// fields belonging to Kind are set.
type Flow struct {
	Kind FlowKind `json:"kind"`

	// Step is the checklist index for VIP_CHECKLIST and CASINO_CHECKLIST.
	Step int `json:"step,omitempty"`
	// Evidence is the transient evidence for the current step or collection.
	Evidence *evidence.Seen `json:"evidence,omitempty"`

	VIPType casino.VIPType `json:"vipType,omitempty"`
	Casino  casino.ID      `json:"casino,omitempty"`
	Allowed []casino.ID    `json:"allowed,omitempty"`
}

func Idle() Flow                { return Flow{Kind: FlowIdle} }
func AwaitingConfirm() Flow     { return Flow{Kind: FlowAwaitingConfirm} }
func AwaitingLtc() Flow         { return Flow{Kind: FlowAwaitingLtc} }
func AwaitingTwitch() Flow      { return Flow{Kind: FlowAwaitingTwitch} }
func AwaitingDescription() Flow { return Flow{Kind: FlowAwaitingDescription} }
func TelegramCode() Flow        { return Flow{Kind: FlowTelegramCode} }
func Completed() Flow           { return Flow{Kind: FlowCompleted} }

// VIPChecklist starts a VIP checklist at step 0.
func VIPChecklist(t casino.VIPType) Flow {
	return Flow{Kind: FlowVIPChecklist, VIPType: t}
}

// CasinoChecklist starts a casino checklist at step 0.
func CasinoChecklist(id casino.ID) Flow {
	return Flow{Kind: FlowCasinoChecklist, Casino: id}
}

// CasinoSelection offers the given casinos for selection.
func CasinoSelection(allowed []casino.ID) Flow {
	return Flow{Kind: FlowCasinoSelection, Allowed: append([]casino.ID(nil), allowed...)}
}

// IsChecklist reports whether the flow walks a checklist.
func (f Flow) IsChecklist() bool {
	return f.Kind == FlowVIPChecklist || f.Kind == FlowCasinoChecklist
}

// Seen returns the accumulated evidence, zero if none.
func (f Flow) Seen() evidence.Seen {
	if f.Evidence == nil {
		return evidence.Seen{}
	}
	return *f.Evidence
}

// Allows reports whether a casino selection flow offers id.
func (f Flow) Allows(id casino.ID) bool {
	for _, a := range f.Allowed {
		if a == id {
			return true
		}
	}
	return false
}

// State is the per-channel conversation state of a ticket.
type State struct {
	ChannelID    string `json:"channelId"`
	TicketNumber int    `json:"ticketNumber"`
	OwnerID      string `json:"ownerId"`
	OwnerTag     string `json:"ownerTag"`
	Category     string `json:"category"`

	Flow Flow `json:"flow"`

	WebsiteType  WebsiteType    `json:"websiteType,omitempty"`
	Description  string         `json:"description,omitempty"`
	LtcAddress   string         `json:"ltcAddress,omitempty"`
	TwitchNick   string         `json:"twitchNick,omitempty"`
	VIPID        string         `json:"vipId,omitempty"`
	VIPType      casino.VIPType `json:"vipType,omitempty"`
	VIPCasino    string         `json:"vipCasino,omitempty"`
	Casino       casino.ID      `json:"casino,omitempty"`
	GiveawayType GiveawayType   `json:"gwType,omitempty"`
	TelegramCode string         `json:"telegramCode,omitempty"`
	Prize        string         `json:"prize,omitempty"`

	IsVerified      bool `json:"isVerified"`
	AwaitingSupport bool `json:"awaitingSupport"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewState creates the state of a freshly opened ticket awaiting age confirmation.
func NewState(channelID string, number int, ownerID, ownerTag, category string, verified bool) *State {
	now := time.Now().UTC()
	return &State{
		ChannelID:    channelID,
		TicketNumber: number,
		OwnerID:      ownerID,
		OwnerTag:     ownerTag,
		Category:     category,
		Flow:         AwaitingConfirm(),
		IsVerified:   verified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Enter replaces the active flow. Any transient evidence of the previous flow is dropped.
func (s *State) Enter(f Flow) {
	s.Flow = f
	s.Touch()
}

// Record stores accumulated evidence for the current step.
func (s *State) Record(seen evidence.Seen) {
	cp := seen
	s.Flow.Evidence = &cp
	s.Touch()
}

// AdvanceStep moves a checklist flow to the next step and clears its evidence.
// total is the checklist length; the step never reaches total.
func (s *State) AdvanceStep(total int) error {
	if !s.Flow.IsChecklist() {
		return ErrInvalidTransition
	}
	if s.Flow.Step+1 >= total {
		return ErrInvalidTransition
	}
	s.Flow.Step++
	s.Flow.Evidence = nil
	s.Touch()
	return nil
}

// Pause marks the ticket as waiting for human support.
func (s *State) Pause() {
	s.AwaitingSupport = true
	s.Touch()
}

// Resume clears the support pause.
func (s *State) Resume() {
	s.AwaitingSupport = false
	s.Touch()
}

// Touch updates UpdatedAt.
func (s *State) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Flags is the flat flag view of the state.
type Flags struct {
	AwaitConfirm            bool        `json:"awaitConfirm"`
	AwaitDescription        bool        `json:"awaitDescription"`
	AwaitLtcOnly            bool        `json:"awaitLtcOnly"`
	AwaitTwitchNick         bool        `json:"awaitTwitchNick"`
	AwaitProof              bool        `json:"awaitProof"`
	AwaitingCasinoSelection bool        `json:"awaitingCasinoSelection"`
	AwaitTelegramCode       bool        `json:"awaitTelegramCode"`
	Step                    int         `json:"step"`
	AllowedCasinos          []casino.ID `json:"allowedCasinos,omitempty"`
}

// Flags derives the flat flag view from the active flow.
func (s *State) Flags() Flags {
	f := Flags{
		AwaitConfirm:            s.Flow.Kind == FlowAwaitingConfirm,
		AwaitDescription:        s.Flow.Kind == FlowAwaitingDescription,
		AwaitLtcOnly:            s.Flow.Kind == FlowAwaitingLtc,
		AwaitTwitchNick:         s.Flow.Kind == FlowAwaitingTwitch,
		AwaitProof:              s.Flow.IsChecklist(),
		AwaitingCasinoSelection: s.Flow.Kind == FlowCasinoSelection,
		AwaitTelegramCode:       s.Flow.Kind == FlowTelegramCode,
	}
	if s.Flow.IsChecklist() {
		f.Step = s.Flow.Step
	}
	if s.Flow.Kind == FlowCasinoSelection {
		f.AllowedCasinos = s.Flow.Allowed
	}
	return f
}
