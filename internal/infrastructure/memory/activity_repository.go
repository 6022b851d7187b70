package memory

import (
	"context"
	"sync"

	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
)

// ActivityRepository implements activity.Repository in process memory.
type ActivityRepository struct {
	mu      sync.RWMutex
	entries []activity.Entry
}

func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{}
}

func (r *ActivityRepository) Create(_ context.Context, entry *activity.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = int64(len(r.entries) + 1)
	r.entries = append(r.entries, *entry)
	return nil
}

// ListByChannel returns entries newest first.
func (r *ActivityRepository) ListByChannel(_ context.Context, channelID string, limit int) ([]*activity.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*activity.Entry
	for i := len(r.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.entries[i].ChannelID != channelID {
			continue
		}
		e := r.entries[i]
		out = append(out, &e)
	}
	return out, nil
}

// Actions returns the logged actions of a channel in insertion order.
func (r *ActivityRepository) Actions(channelID string) []activity.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []activity.Action
	for _, e := range r.entries {
		if e.ChannelID == channelID {
			out = append(out, e.Action)
		}
	}
	return out
}
