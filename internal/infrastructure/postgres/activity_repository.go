package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticket-hub/ticket-hub/internal/domain/activity"
)

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *activity.Entry) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO action_logs (entry_id, channel_id, user_id, action, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`, entry.EntryID, entry.ChannelID, entry.UserID, entry.Action, entry.Detail, entry.CreatedAt).Scan(&entry.ID)
}

func (r *ActivityRepository) ListByChannel(ctx context.Context, channelID string, limit int) ([]*activity.Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, entry_id, channel_id, user_id, action, detail, created_at
		FROM action_logs WHERE channel_id=$1
		ORDER BY created_at DESC, id DESC LIMIT $2
	`, channelID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*activity.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*activity.Entry, error) {
	var e activity.Entry
	if err := row.Scan(&e.ID, &e.EntryID, &e.ChannelID, &e.UserID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
