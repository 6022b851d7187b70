package redeem

import (
	"context"
	"time"
)

// MaxSelectable is how many redeems a user can pick from in one prompt.
const MaxSelectable = 3

// Redeem is a channel-points reward redeemed on the website.
type Redeem struct {
	ID         string    `json:"id"`
	TwitchNick string    `json:"twitchNick"`
	ItemName   string    `json:"itemName"`
	Cost       int       `json:"cost"`
	RedeemedAt time.Time `json:"redeemedAt"`
	Completed  bool      `json:"completed"`
}

// ShortName returns the item name cut to 15 characters with an ellipsis.
func (r *Redeem) ShortName() string {
	runes := []rune(r.ItemName)
	if len(runes) <= 15 {
		return r.ItemName
	}
	return string(runes[:15]) + "..."
}

// Repository reads website redeems.
type Repository interface {
	// ListPendingByNick returns uncompleted redeems for a Twitch nick, newest first.
	ListPendingByNick(ctx context.Context, nick string) ([]*Redeem, error)
	MarkCompleted(ctx context.Context, id string) error
}
