package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/ticket-hub/ticket-hub/internal/domain/redeem"
)

// RedeemRepository implements redeem.Repository in process memory.
type RedeemRepository struct {
	mu      sync.RWMutex
	redeems map[string]redeem.Redeem
}

func NewRedeemRepository(seed ...redeem.Redeem) *RedeemRepository {
	r := &RedeemRepository{redeems: make(map[string]redeem.Redeem)}
	for _, rd := range seed {
		r.redeems[rd.ID] = rd
	}
	return r
}

func (r *RedeemRepository) ListPendingByNick(_ context.Context, nick string) ([]*redeem.Redeem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*redeem.Redeem
	for _, rd := range r.redeems {
		if rd.Completed || !strings.EqualFold(rd.TwitchNick, nick) {
			continue
		}
		rd := rd
		out = append(out, &rd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RedeemedAt.After(out[j].RedeemedAt) })
	return out, nil
}

func (r *RedeemRepository) MarkCompleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rd, ok := r.redeems[id]; ok {
		rd.Completed = true
		r.redeems[id] = rd
	}
	return nil
}
