package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cleanline/cleanline/internal/domain/client"
)

// MockDirectory is a mock implementation of client.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Search(ctx context.Context, criteria client.SearchCriteria) ([]client.Summary, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Summary), args.Error(1)
}

func (m *MockDirectory) SearchByPhone(ctx context.Context, phone string) ([]client.Summary, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Summary), args.Error(1)
}

func (m *MockDirectory) Create(ctx context.Context, data client.Data) (*client.Client, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockDirectory) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}
