package activity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
)

// Service records ticket actions in the durable action log.
type Service struct {
	repo   activity.Repository
	logger zerolog.Logger
}

// NewService creates a new activity service
func NewService(repo activity.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("service", "activity").Logger(),
	}
}

// Log writes an action log entry synchronously.
func (s *Service) Log(ctx context.Context, channelID, userID string, action activity.Action, detail string) error {
	entry := activity.NewEntry(channelID, userID, action, detail)
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to save action log: %w", err)
	}

	s.logger.Debug().
		Str("entryId", entry.EntryID.String()).
		Str("channelId", channelID).
		Str("userId", userID).
		Str("action", string(action)).
		Msg("action logged")

	if action == activity.ActionDuplicateCode {
		s.logger.Warn().
			Str("channelId", channelID).
			Str("userId", userID).
			Str("detail", detail).
			Msg("duplicate redemption code submitted")
	}
	return nil
}

// History returns the most recent entries of a ticket channel.
func (s *Service) History(ctx context.Context, channelID string, limit int) ([]*activity.Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	return s.repo.ListByChannel(ctx, channelID, limit)
}

// Truncate cuts detail to n runes, appending suffix when it was cut.
func Truncate(detail string, n int, suffix string) string {
	runes := []rune(detail)
	if len(runes) <= n {
		return detail
	}
	return string(runes[:n]) + suffix
}
