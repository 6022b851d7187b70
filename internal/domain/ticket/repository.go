package ticket

//go:generate go run go.uber.org/mock/mockgen -destination=mocks/mock_repository.go -package=mocks . Repository

import "context"

// Repository persists ticket states keyed by channel id. Get returns nil, nil
// when the channel has no state.
type Repository interface {
	Get(ctx context.Context, channelID string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, channelID string) error
}
