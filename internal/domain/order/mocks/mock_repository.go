package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/cleanline/cleanline/internal/domain/order"
)

// MockRepository is a mock implementation of order.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockRepository) ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error) {
	args := m.Called(ctx, receiptNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdateParams(ctx context.Context, orderID uuid.UUID, params order.Params) error {
	args := m.Called(ctx, orderID, params)
	return args.Error(0)
}

func (m *MockRepository) Finalize(ctx context.Context, orderID uuid.UUID, signature string) error {
	args := m.Called(ctx, orderID, signature)
	return args.Error(0)
}

func (m *MockRepository) AddItem(ctx context.Context, item *order.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	args := m.Called(ctx, orderID, itemID)
	return args.Error(0)
}

func (m *MockRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*order.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
}
