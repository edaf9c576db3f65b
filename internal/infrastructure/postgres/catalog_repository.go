package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cleanline/cleanline/internal/domain/catalog"
)

var ErrCatalogItemNotFound = errors.New("catalog item not found")

// CatalogRepository implements catalog.Engine over the service catalog
// tables. Price calculation happens here so every caller sees the same math.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ServiceCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, name, requires_filler, active
		FROM service_categories WHERE active ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []catalog.Category
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.RequiresFiller, &c.Active); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CatalogRepository) ItemsForCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, category_id, name, base_price, active
		FROM catalog_items WHERE category_id=$1 AND active ORDER BY name ASC
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []catalog.Item
	for rows.Next() {
		var it catalog.Item
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.BasePrice, &it.Active); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// RecommendedModifiers returns the modifiers offered for one catalog item.
// A modifier row scoped to the category alone applies to every item in it.
func (r *CatalogRepository) RecommendedModifiers(ctx context.Context, categoryCode, itemName string) ([]catalog.Modifier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT code, name, kind, min_value, max_value, rate, COALESCE(condition, '')
		FROM modifiers
		WHERE category_code=$1 AND (item_name IS NULL OR item_name=$2)
		ORDER BY code ASC
	`, categoryCode, itemName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var modifiers []catalog.Modifier
	for rows.Next() {
		var m catalog.Modifier
		if err := rows.Scan(&m.Code, &m.Name, &m.Kind, &m.MinValue, &m.MaxValue, &m.Rate, &m.Condition); err != nil {
			return nil, err
		}
		modifiers = append(modifiers, m)
	}
	return modifiers, rows.Err()
}

// CalculatePrice computes an item price: base price times quantity, plus one
// line per applied modifier. Range modifiers scale the base amount by
// rate*value percent; fixed-quantity ones charge rate per unit.
func (r *CatalogRepository) CalculatePrice(ctx context.Context, req catalog.PriceRequest) (*catalog.PriceBreakdown, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT name, base_price FROM catalog_items WHERE id=$1 AND active
	`, req.ItemID)
	var name string
	var basePrice float64
	if err := row.Scan(&name, &basePrice); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCatalogItemNotFound
		}
		return nil, err
	}

	base := basePrice * req.Quantity
	breakdown := &catalog.PriceBreakdown{
		BasePrice: base,
		Lines: []catalog.PriceLine{
			{Label: fmt.Sprintf("%s x %g", name, req.Quantity), Amount: base},
		},
	}
	for _, m := range req.Modifiers {
		var amount float64
		switch m.Kind {
		case catalog.ModifierFixedQuantity:
			amount = r.modifierRate(ctx, m.Code) * m.Value
		default:
			amount = base * r.modifierRate(ctx, m.Code) * m.Value / 100
		}
		breakdown.ModifiersTotal += amount
		breakdown.Lines = append(breakdown.Lines, catalog.PriceLine{Label: m.Code, Amount: amount})
	}
	breakdown.Total = breakdown.BasePrice + breakdown.ModifiersTotal
	return breakdown, nil
}

func (r *CatalogRepository) modifierRate(ctx context.Context, code string) float64 {
	var rate float64
	if err := r.pool.QueryRow(ctx, `SELECT rate FROM modifiers WHERE code=$1`, code).Scan(&rate); err != nil {
		return 0
	}
	return rate
}
