package promotion

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
)

const (
	idAlphabet = "0123456789abcdef"
	idLength   = 8

	defaultPingInterval  = 500 * time.Millisecond
	defaultRetryInterval = time.Second
)

// Manager keeps the promotion cache in front of the durable store. The cache
// is never the source of truth: every change is persisted before it returns.
type Manager struct {
	repo   promotion.Repository
	logger zerolog.Logger

	mu     sync.RWMutex
	promos map[string]*promotion.Promotion

	ready     chan struct{}
	readyOnce sync.Once

	now           func() time.Time
	newID         func() (string, error)
	pingInterval  time.Duration
	retryInterval time.Duration
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides promotion id generation.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(m *Manager) { m.newID = gen }
}

// WithIntervals overrides the store ping and reload retry intervals.
func WithIntervals(ping, retry time.Duration) Option {
	return func(m *Manager) {
		if ping > 0 {
			m.pingInterval = ping
		}
		if retry > 0 {
			m.retryInterval = retry
		}
	}
}

// NewManager creates a promotion manager. Call Start before serving requests.
func NewManager(repo promotion.Repository, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		repo:          repo,
		logger:        logger.With().Str("service", "promotion").Logger(),
		promos:        make(map[string]*promotion.Promotion),
		ready:         make(chan struct{}),
		now:           func() time.Time { return time.Now().UTC() },
		newID:         func() (string, error) { return gonanoid.Generate(idAlphabet, idLength) },
		pingInterval:  defaultPingInterval,
		retryInterval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start blocks until the store is reachable and the cache is loaded, or ctx ends.
func (m *Manager) Start(ctx context.Context) error {
	for {
		if err := m.repo.Ping(ctx); err != nil {
			m.logger.Debug().Err(err).Msg("promotion store not reachable, waiting")
			if err := sleep(ctx, m.pingInterval); err != nil {
				return err
			}
			continue
		}

		promos, err := m.repo.List(ctx)
		if err != nil {
			m.logger.Error().Err(err).Msg("failed to load promotions, retrying")
			if err := sleep(ctx, m.retryInterval); err != nil {
				return err
			}
			continue
		}

		m.mu.Lock()
		m.promos = promos
		m.mu.Unlock()
		m.readyOnce.Do(func() { close(m.ready) })
		m.logger.Info().Int("count", len(promos)).Msg("loaded promotions")
		return nil
	}
}

// Ready is closed once the cache has been loaded.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) awaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", promotion.ErrNotReady, ctx.Err())
	}
}

// Create stores a new active promotion and returns its id.
func (m *Manager) Create(ctx context.Context, name string, end time.Time, casino, color, emoji string) (string, error) {
	if err := m.awaitReady(ctx); err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", promotion.ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.uniqueID()
	if err != nil {
		return "", fmt.Errorf("failed to generate promotion id: %w", err)
	}
	p := &promotion.Promotion{
		ID:      id,
		Name:    name,
		End:     end.UTC(),
		Casino:  casino,
		Color:   color,
		Emoji:   emoji,
		Active:  true,
		Created: m.now(),
	}
	if err := m.repo.Save(ctx, p); err != nil {
		return "", fmt.Errorf("failed to save promotion: %w", err)
	}
	m.promos[id] = p

	m.logger.Info().Str("promotionId", id).Str("name", name).Msg("created promotion")
	return id, nil
}

func (m *Manager) uniqueID() (string, error) {
	for {
		id, err := m.newID()
		if err != nil {
			return "", err
		}
		if _, taken := m.promos[id]; !taken {
			return id, nil
		}
	}
}

// Close deactivates a promotion. Unknown ids are ignored.
func (m *Manager) Close(ctx context.Context, id string) error {
	if err := m.awaitReady(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.promos[id]
	if !ok {
		return nil
	}
	updated := *p
	updated.Close()
	if err := m.repo.Save(ctx, &updated); err != nil {
		return fmt.Errorf("failed to save promotion: %w", err)
	}
	m.promos[id] = &updated

	m.logger.Info().Str("promotionId", id).Str("name", p.Name).Msg("closed promotion")
	return nil
}

// RefreshExpired deactivates every active promotion past its end and reports
// whether any changed.
func (m *Manager) RefreshExpired(ctx context.Context) (bool, error) {
	if err := m.awaitReady(ctx); err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expireLocked(ctx)
}

func (m *Manager) expireLocked(ctx context.Context) (bool, error) {
	now := m.now()
	changed := false
	for id, p := range m.promos {
		updated := *p
		if !updated.Expire(now) {
			continue
		}
		if err := m.repo.Save(ctx, &updated); err != nil {
			return changed, fmt.Errorf("failed to save expired promotion %s: %w", id, err)
		}
		m.promos[id] = &updated
		changed = true
		m.logger.Info().Str("promotionId", id).Str("name", p.Name).Msg("expired promotion")
	}
	return changed, nil
}

// List expires stale promotions and returns all of them, newest first.
func (m *Manager) List(ctx context.Context) ([]promotion.Promotion, error) {
	if _, err := m.RefreshExpired(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(*promotion.Promotion) bool { return true }), nil
}

// Active returns the promotions currently offered, newest first.
func (m *Manager) Active(ctx context.Context) ([]promotion.Promotion, error) {
	if err := m.awaitReady(ctx); err != nil {
		return nil, err
	}

	now := m.now()
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedLocked(func(p *promotion.Promotion) bool { return p.IsOffered(now) }), nil
}

// Refresh reloads the cache from the store and expires stale promotions.
func (m *Manager) Refresh(ctx context.Context) error {
	if err := m.awaitReady(ctx); err != nil {
		return err
	}

	promos, err := m.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload promotions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.promos = promos
	if _, err := m.expireLocked(ctx); err != nil {
		return err
	}
	m.logger.Debug().Int("count", len(promos)).Msg("refreshed promotions")
	return nil
}

func (m *Manager) sortedLocked(keep func(*promotion.Promotion) bool) []promotion.Promotion {
	out := make([]promotion.Promotion, 0, len(m.promos))
	for _, p := range m.promos {
		if keep(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.After(out[j].Created)
	})
	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
