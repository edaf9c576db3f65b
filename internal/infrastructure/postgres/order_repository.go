package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleanline/cleanline/internal/domain/order"
)

// OrderRepository implements order.Repository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, receipt_number, branch_code, tag, client_id, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, o.ID, o.ReceiptNumber, o.BranchCode, o.Tag, o.ClientID, o.Status, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, receipt_number, branch_code, tag, client_id, status, signature, created_at, updated_at, finalized_at
		FROM orders WHERE id=$1
	`, orderID)
	var o order.Order
	if err := row.Scan(&o.ID, &o.ReceiptNumber, &o.BranchCode, &o.Tag, &o.ClientID, &o.Status, &o.Signature, &o.CreatedAt, &o.UpdatedAt, &o.FinalizedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ReceiptNumberExists(ctx context.Context, receiptNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM orders WHERE receipt_number=$1)
	`, receiptNumber).Scan(&exists)
	return exists, err
}

func (r *OrderRepository) UpdateParams(ctx context.Context, orderID uuid.UUID, params order.Params) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET urgency=$1, completion_date=$2, discount_type=$3, discount_percent=$4,
			payment_method=$5, prepayment=$6, notes=$7, updated_at=NOW()
		WHERE id=$8
	`, params.Urgency, params.CompletionDate, params.DiscountType, params.DiscountPercent,
		params.PaymentMethod, params.Prepayment, params.Notes, orderID)
	return err
}

func (r *OrderRepository) Finalize(ctx context.Context, orderID uuid.UUID, signature string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders SET status=$1, signature=$2, finalized_at=$3, updated_at=NOW()
		WHERE id=$4 AND status=$5
	`, order.StatusConfirmed, signature, time.Now().UTC(), orderID, order.StatusDraft)
	return err
}

func (r *OrderRepository) AddItem(ctx context.Context, item *order.Item) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO order_items (id, order_id, catalog_item_id, name, quantity, total, details, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, item.ID, item.OrderID, item.CatalogItemID, item.Name, item.Quantity, item.Total, item.Details, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *OrderRepository) UpdateItem(ctx context.Context, item *order.Item) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE order_items
		SET catalog_item_id=$1, name=$2, quantity=$3, total=$4, details=$5, updated_at=NOW()
		WHERE id=$6 AND order_id=$7
	`, item.CatalogItemID, item.Name, item.Quantity, item.Total, item.Details, item.ID, item.OrderID)
	return err
}

func (r *OrderRepository) DeleteItem(ctx context.Context, orderID, itemID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM order_items WHERE id=$1 AND order_id=$2
	`, itemID, orderID)
	return err
}

func (r *OrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*order.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, catalog_item_id, name, quantity, total, details, created_at, updated_at
		FROM order_items WHERE order_id=$1 ORDER BY created_at ASC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.CatalogItemID, &it.Name, &it.Quantity, &it.Total, &it.Details, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
