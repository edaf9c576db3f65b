package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleanline/cleanline/internal/domain/photo"
)

// PhotoRepository implements photo.Store, keeping blobs in the database.
// Item drafts only carry references; the blob is fetched on demand.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

func (r *PhotoRepository) Store(ctx context.Context, upload photo.Upload) (*photo.Ref, error) {
	ref := &photo.Ref{
		ID:          uuid.New(),
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		StoredAt:    time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO photos (id, file_name, content_type, data, stored_at)
		VALUES ($1,$2,$3,$4,$5)
	`, ref.ID, ref.FileName, ref.ContentType, upload.Data, ref.StoredAt)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *PhotoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id=$1`, id)
	return err
}
