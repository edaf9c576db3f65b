package client

import (
	"context"

	"github.com/google/uuid"
)

// Directory is the client lookup/registration collaborator.
type Directory interface {
	Search(ctx context.Context, criteria SearchCriteria) ([]Summary, error)
	SearchByPhone(ctx context.Context, phone string) ([]Summary, error)
	Create(ctx context.Context, data Data) (*Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
}
