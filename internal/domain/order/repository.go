package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the order persistence collaborator.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error)
	UpdateParams(ctx context.Context, orderID uuid.UUID, params Params) error
	Finalize(ctx context.Context, orderID uuid.UUID, signature string) error

	AddItem(ctx context.Context, item *Item) error
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error)
}
