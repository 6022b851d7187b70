package redemption

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrCodeAlreadyClaimed = errors.New("redemption code already claimed")

// CodeRecord is the ledger entry of a consumed code. There is at most one per code.
type CodeRecord struct {
	Code            string    `json:"code"`
	TicketChannelID string    `json:"ticketChannelId"`
	TicketNumber    int       `json:"ticketNumber"`
	UserID          string    `json:"userId"`
	UserTag         string    `json:"userTag"`
	Casino          *string   `json:"casino,omitempty"`
	Prize           *string   `json:"prize,omitempty"`
	UsedAt          time.Time `json:"usedAt"`
}

// NewCodeRecord creates a ledger entry used now. Empty casino or prize are stored as absent.
func NewCodeRecord(code, channelID string, ticketNumber int, userID, userTag, casino, prize string) *CodeRecord {
	rec := &CodeRecord{
		Code:            code,
		TicketChannelID: channelID,
		TicketNumber:    ticketNumber,
		UserID:          userID,
		UserTag:         userTag,
		UsedAt:          time.Now().UTC(),
	}
	if casino != "" {
		rec.Casino = &casino
	}
	if prize != "" {
		rec.Prize = &prize
	}
	return rec
}

// CasinoOrNA returns the casino or "N/A".
func (r *CodeRecord) CasinoOrNA() string {
	if r.Casino == nil || *r.Casino == "" {
		return "N/A"
	}
	return *r.Casino
}

// DuplicateAttempt is a recorded second use of an already consumed code.
type DuplicateAttempt struct {
	AttemptID   uuid.UUID `json:"attemptId"`
	Code        string    `json:"code"`
	ChannelID   string    `json:"channelId"`
	UserID      string    `json:"userId"`
	UserTag     string    `json:"userTag"`
	AttemptedAt time.Time `json:"attemptedAt"`
}

// NewDuplicateAttempt creates a duplicate attempt record.
func NewDuplicateAttempt(code, channelID, userID, userTag string) *DuplicateAttempt {
	return &DuplicateAttempt{
		AttemptID:   uuid.New(),
		Code:        code,
		ChannelID:   channelID,
		UserID:      userID,
		UserTag:     userTag,
		AttemptedAt: time.Now().UTC(),
	}
}
