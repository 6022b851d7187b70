package platform

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_platform.go -package=mocks . LogSearcher,Directory

import (
	"context"
	"time"
)

// Message is an inbound chat message delivered by the gateway.
type Message struct {
	ChannelID   string `json:"channelId"`
	AuthorID    string `json:"authorId"`
	AuthorTag   string `json:"authorTag"`
	Text        string `json:"text"`
	Attachments int    `json:"attachments"`
	IsBot       bool   `json:"isBot"`
}

// LogMessage is a message from a channel history.
type LogMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogSearcher reads recent channel history.
type LogSearcher interface {
	// RecentMessages returns up to limit of the newest messages in a channel.
	RecentMessages(ctx context.Context, channelID string, limit int) ([]LogMessage, error)
}

// Directory answers channel and member lookups.
type Directory interface {
	ChannelExists(ctx context.Context, channelID string) (bool, error)
	MemberHasRole(ctx context.Context, userID, roleID string) (bool, error)
}

// ActionStyle is the visual style of an interactive action.
type ActionStyle string

const (
	StylePrimary   ActionStyle = "primary"
	StyleSecondary ActionStyle = "secondary"
	StyleSuccess   ActionStyle = "success"
	StyleDanger    ActionStyle = "danger"
	StyleLink      ActionStyle = "link"
)

// Action is a button the gateway renders under a reply or notice.
type Action struct {
	ID    string      `json:"id,omitempty"`
	Label string      `json:"label"`
	Emoji string      `json:"emoji,omitempty"`
	Style ActionStyle `json:"style"`
	// ChannelID is set on link actions that jump to another channel.
	ChannelID string `json:"channelId,omitempty"`
}

// Notice is a message for a channel other than the one being handled.
type Notice struct {
	ChannelID string   `json:"channelId"`
	Key       string   `json:"key"`
	Title     string   `json:"title,omitempty"`
	Text      string   `json:"text"`
	Actions   []Action `json:"actions,omitempty"`
}

// Common actions.
var (
	ActionFinish      = Action{ID: "finish_ticket", Label: "Finalizar", Emoji: "✅", Style: StyleSuccess}
	ActionSupport     = Action{ID: "support_ticket", Label: "Falar com Suporte", Emoji: "🛡️", Style: StyleDanger}
	ActionCloseTicket = Action{ID: "close_ticket_menu", Label: "Fechar Ticket", Emoji: "🔒", Style: StyleSecondary}
)
