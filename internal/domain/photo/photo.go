package photo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ref points at a stored photo. The wizard only carries references; blob
// handling lives behind the Store collaborator.
type Ref struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	StoredAt    time.Time `json:"storedAt"`
}

// Upload is the inbound photo payload.
type Upload struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Store is the photo storage collaborator.
type Store interface {
	Store(ctx context.Context, upload Upload) (*Ref, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
