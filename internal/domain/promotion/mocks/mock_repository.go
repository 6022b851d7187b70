package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ticket-hub/ticket-hub/internal/domain/promotion"
)

// MockRepository is a mock implementation of promotion.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context) (map[string]*promotion.Promotion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*promotion.Promotion), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, p *promotion.Promotion) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
