package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
)

// PromotionRepository implements promotion.Repository.
type PromotionRepository struct {
	pool *pgxpool.Pool
}

func NewPromotionRepository(pool *pgxpool.Pool) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

func (r *PromotionRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *PromotionRepository) List(ctx context.Context) (map[string]*promotion.Promotion, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, end_at, casino, color, emoji, active, created_at
		FROM promotions
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]*promotion.Promotion)
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Save upserts a promotion.
func (r *PromotionRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO promotions (id, name, end_at, casino, color, emoji, active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name, end_at=EXCLUDED.end_at, casino=EXCLUDED.casino,
			color=EXCLUDED.color, emoji=EXCLUDED.emoji, active=EXCLUDED.active
	`, p.ID, p.Name, p.End, p.Casino, p.Color, p.Emoji, p.Active, p.Created)
	return err
}

func scanPromotion(row pgx.Row) (*promotion.Promotion, error) {
	var p promotion.Promotion
	if err := row.Scan(&p.ID, &p.Name, &p.End, &p.Casino, &p.Color, &p.Emoji, &p.Active, &p.Created); err != nil {
		return nil, err
	}
	return &p, nil
}
