package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleanline/cleanline/internal/domain/client"
)

const uniqueViolation = "23505"

// ClientRepository implements client.Directory.
type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Search(ctx context.Context, criteria client.SearchCriteria) ([]client.Summary, error) {
	query := `SELECT id, full_name, phone FROM clients WHERE 1=1`
	args := []interface{}{}
	if criteria.Name != "" {
		args = append(args, "%"+criteria.Name+"%")
		query += " AND full_name ILIKE $" + strconv.Itoa(len(args))
	}
	if criteria.Phone != "" {
		args = append(args, "%"+criteria.Phone+"%")
		query += " AND phone LIKE $" + strconv.Itoa(len(args))
	}
	if criteria.CardNumber != "" {
		args = append(args, criteria.CardNumber)
		query += " AND discount_card_number = $" + strconv.Itoa(len(args))
	}
	query += " ORDER BY full_name ASC LIMIT 50"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	summaries := make([]client.Summary, 0)
	for rows.Next() {
		var s client.Summary
		if err := rows.Scan(&s.ID, &s.FullName, &s.Phone); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *ClientRepository) SearchByPhone(ctx context.Context, phone string) ([]client.Summary, error) {
	return r.Search(ctx, client.SearchCriteria{Phone: phone})
}

func (r *ClientRepository) Create(ctx context.Context, data client.Data) (*client.Client, error) {
	c := &client.Client{
		ID:        uuid.New(),
		FullName:  data.FullName,
		Phone:     data.Phone,
		Email:     data.Email,
		Address:   data.Address,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clients (id, full_name, phone, email, address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.FullName, c.Phone, c.Email, c.Address, c.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, client.ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, phone, email, address, discount_card_number, created_at
		FROM clients WHERE id=$1
	`, id)
	var c client.Client
	if err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.DiscountCardNumber, &c.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
