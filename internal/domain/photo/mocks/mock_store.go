package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cleanline/cleanline/internal/domain/photo"
)

// MockStore is a mock implementation of photo.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Store(ctx context.Context, upload photo.Upload) (*photo.Ref, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*photo.Ref), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
