package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names a logged ticket event.
type Action string

const (
	ActionTicketOpened          Action = "ticket_opened"
	ActionAgeConfirmed          Action = "age_confirmed"
	ActionGiveawayTypeSelected  Action = "giveaway_type_selected"
	ActionLtcDepositProvided    Action = "ltc_deposit_provided"
	ActionTwitchNickProvided    Action = "twitch_nick_provided"
	ActionDescriptionProvided   Action = "description_provided"
	ActionVIPStepCompleted      Action = "vip_step_completed"
	ActionVIPChecklistCompleted Action = "vip_checklist_completed"
	ActionTelegramCodeValidated Action = "telegram_code_validated"
	ActionDuplicateCode         Action = "duplicate_telegram_code"
	ActionCasinoSelected        Action = "casino_selected"
	ActionStepCompleted         Action = "step_completed"
	ActionChecklistCompleted    Action = "checklist_completed"
	ActionDuplicateResolved     Action = "duplicate_resolved"
	ActionRedeemSelected        Action = "redeem_selected"
	ActionRedeemCompleted       Action = "redeem_completed"
	ActionTicketClosed          Action = "ticket_closed"
)

// Entry is one action log record.
type Entry struct {
	ID        int64     `json:"id"`
	EntryID   uuid.UUID `json:"entryId"`
	ChannelID string    `json:"channelId"`
	UserID    string    `json:"userId"`
	Action    Action    `json:"action"`
	Detail    *string   `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEntry creates an entry. An empty detail is stored as absent.
func NewEntry(channelID, userID string, action Action, detail string) *Entry {
	e := &Entry{
		EntryID:   uuid.New(),
		ChannelID: channelID,
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}
	if detail != "" {
		e.Detail = &detail
	}
	return e
}

// Repository persists action log entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListByChannel(ctx context.Context, channelID string, limit int) ([]*Entry, error)
}
