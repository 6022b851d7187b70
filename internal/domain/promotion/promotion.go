package promotion

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotReady    = errors.New("promotion store not ready")
	ErrInvalidName = errors.New("promotion name is required")
)

// Promotion is a time-bounded special offer.
type Promotion struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	End     time.Time `json:"end"`
	Casino  string    `json:"casino"`
	Color   string    `json:"color"`
	Emoji   string    `json:"emoji"`
	Active  bool      `json:"active"`
	Created time.Time `json:"created"`
}

// IsExpired reports whether the promotion end has passed at now.
func (p *Promotion) IsExpired(now time.Time) bool {
	return now.After(p.End)
}

// IsOffered reports whether the promotion is active and not yet past its end.
func (p *Promotion) IsOffered(now time.Time) bool {
	return p.Active && !p.IsExpired(now)
}

// Expire deactivates an active promotion whose end has passed. It reports
// whether the promotion changed.
func (p *Promotion) Expire(now time.Time) bool {
	if !p.Active || !p.IsExpired(now) {
		return false
	}
	p.Active = false
	return true
}

// Close deactivates the promotion.
func (p *Promotion) Close() {
	p.Active = false
}

// Repository is the durable store of promotions.
type Repository interface {
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	List(ctx context.Context) (map[string]*Promotion, error)
	Save(ctx context.Context, p *Promotion) error
}
