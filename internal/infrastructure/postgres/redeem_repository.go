package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticket-hub/ticket-hub/internal/domain/redeem"
)

// RedeemRepository implements redeem.Repository over the website redeems table.
type RedeemRepository struct {
	pool *pgxpool.Pool
}

func NewRedeemRepository(pool *pgxpool.Pool) *RedeemRepository {
	return &RedeemRepository{pool: pool}
}

func (r *RedeemRepository) ListPendingByNick(ctx context.Context, nick string) ([]*redeem.Redeem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, twitch_nick, item_name, cost, redeemed_at, completed
		FROM redeems WHERE LOWER(twitch_nick)=LOWER($1) AND NOT completed
		ORDER BY redeemed_at DESC
	`, nick)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*redeem.Redeem
	for rows.Next() {
		var rd redeem.Redeem
		if err := rows.Scan(&rd.ID, &rd.TwitchNick, &rd.ItemName, &rd.Cost, &rd.RedeemedAt, &rd.Completed); err != nil {
			return nil, err
		}
		out = append(out, &rd)
	}
	return out, rows.Err()
}

func (r *RedeemRepository) MarkCompleted(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `UPDATE redeems SET completed=TRUE WHERE id=$1`, id)
	return err
}
