package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ticket-hub/ticket-hub/internal/domain/redemption"
)

// LedgerRepository implements redemption.Ledger. Uniqueness of a code is the
// primary key of telegram_codes.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) Get(ctx context.Context, code string) (*redemption.CodeRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT code, ticket_channel_id, ticket_number, user_id, user_tag, casino, prize, used_at
		FROM telegram_codes WHERE code=$1
	`, code)
	rec, err := scanCodeRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *LedgerRepository) Claim(ctx context.Context, rec *redemption.CodeRecord) (*redemption.CodeRecord, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO telegram_codes (code, ticket_channel_id, ticket_number, user_id, user_tag, casino, prize, used_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (code) DO NOTHING
	`, rec.Code, rec.TicketChannelID, rec.TicketNumber, rec.UserID, rec.UserTag, rec.Casino, rec.Prize, rec.UsedAt)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 1 {
		return rec, nil
	}

	existing, err := r.Get(ctx, rec.Code)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("code %s neither inserted nor found", rec.Code)
	}
	return existing, redemption.ErrCodeAlreadyClaimed
}

func (r *LedgerRepository) RecordDuplicate(ctx context.Context, a *redemption.DuplicateAttempt) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO telegram_code_duplicates (attempt_id, code, channel_id, user_id, user_tag, attempted_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, a.AttemptID, a.Code, a.ChannelID, a.UserID, a.UserTag, a.AttemptedAt)
	return err
}

func (r *LedgerRepository) ListDuplicates(ctx context.Context, code string) ([]*redemption.DuplicateAttempt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT attempt_id, code, channel_id, user_id, user_tag, attempted_at
		FROM telegram_code_duplicates WHERE code=$1 ORDER BY attempted_at
	`, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*redemption.DuplicateAttempt
	for rows.Next() {
		var a redemption.DuplicateAttempt
		if err := rows.Scan(&a.AttemptID, &a.Code, &a.ChannelID, &a.UserID, &a.UserTag, &a.AttemptedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func scanCodeRecord(row pgx.Row) (*redemption.CodeRecord, error) {
	var rec redemption.CodeRecord
	if err := row.Scan(&rec.Code, &rec.TicketChannelID, &rec.TicketNumber, &rec.UserID, &rec.UserTag, &rec.Casino, &rec.Prize, &rec.UsedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
