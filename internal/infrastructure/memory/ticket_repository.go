package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

// TicketRepository implements ticket.Repository in process memory. States are
// stored encoded so callers never share a state value with the store.
type TicketRepository struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{states: make(map[string][]byte)}
}

func (r *TicketRepository) Get(_ context.Context, channelID string) (*ticket.State, error) {
	r.mu.RLock()
	data, ok := r.states[channelID]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var st ticket.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *TicketRepository) Save(_ context.Context, state *ticket.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.ChannelID] = data
	return nil
}

func (r *TicketRepository) Delete(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, channelID)
	return nil
}
