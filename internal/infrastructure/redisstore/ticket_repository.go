package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ticket-hub/ticket-hub/internal/domain/ticket"
)

const keyPrefix = "ticket:state:"

// TicketRepository implements ticket.Repository with one JSON document per channel.
type TicketRepository struct {
	rdb *redis.Client
}

func NewTicketRepository(rdb *redis.Client) *TicketRepository {
	return &TicketRepository{rdb: rdb}
}

func key(channelID string) string {
	return keyPrefix + channelID
}

func (r *TicketRepository) Get(ctx context.Context, channelID string) (*ticket.State, error) {
	data, err := r.rdb.Get(ctx, key(channelID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var st ticket.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to decode ticket state %s: %w", channelID, err)
	}
	return &st, nil
}

func (r *TicketRepository) Save(ctx context.Context, st *ticket.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode ticket state: %w", err)
	}
	return r.rdb.Set(ctx, key(st.ChannelID), data, 0).Err()
}

func (r *TicketRepository) Delete(ctx context.Context, channelID string) error {
	return r.rdb.Del(ctx, key(channelID)).Err()
}
