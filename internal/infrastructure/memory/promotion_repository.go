package memory

import (
	"context"
	"sync"

	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
)

// PromotionRepository implements promotion.Repository in process memory.
type PromotionRepository struct {
	mu     sync.RWMutex
	promos map[string]promotion.Promotion
}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{promos: make(map[string]promotion.Promotion)}
}

func (r *PromotionRepository) Ping(context.Context) error {
	return nil
}

func (r *PromotionRepository) List(context.Context) (map[string]*promotion.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*promotion.Promotion, len(r.promos))
	for id, p := range r.promos {
		p := p
		out[id] = &p
	}
	return out, nil
}

func (r *PromotionRepository) Save(_ context.Context, p *promotion.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promos[p.ID] = *p
	return nil
}
