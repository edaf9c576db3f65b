package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Category represents a service category, e.g. clothing cleaning.
type Category struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	RequiresFiller bool      `json:"requiresFiller"`
	Active         bool      `json:"active"`
}

// Item is a priced catalog row within a category.
type Item struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
	Name       string    `json:"name"`
	BasePrice  float64   `json:"basePrice"`
	Active     bool      `json:"active"`
}

// ModifierKind distinguishes range-valued modifiers (a percentage such as
// stain coverage) from fixed-quantity ones (a unit count such as missing
// buttons).
type ModifierKind string

const (
	ModifierRange         ModifierKind = "RANGE"
	ModifierFixedQuantity ModifierKind = "FIXED_QUANTITY"
)

// Modifier is a price adjustment offered for an item. Condition is an
// optional applicability expression evaluated against the item draft.
type Modifier struct {
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Kind      ModifierKind `json:"kind"`
	MinValue  float64      `json:"minValue"`
	MaxValue  float64      `json:"maxValue"`
	Rate      float64      `json:"rate"`
	Condition string       `json:"condition,omitempty"`
}

// AppliedModifier is a modifier selection with its chosen value.
type AppliedModifier struct {
	Code  string       `json:"code"`
	Kind  ModifierKind `json:"kind"`
	Value float64      `json:"value"`
}

// PriceRequest asks the engine for a per-item price.
type PriceRequest struct {
	ItemID    uuid.UUID         `json:"itemId"`
	Quantity  float64           `json:"quantity"`
	Modifiers []AppliedModifier `json:"modifiers,omitempty"`
}

// PriceLine is one row of a price breakdown.
type PriceLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// PriceBreakdown is the engine's computed price for one item.
type PriceBreakdown struct {
	BasePrice      float64     `json:"basePrice"`
	ModifiersTotal float64     `json:"modifiersTotal"`
	Total          float64     `json:"total"`
	Lines          []PriceLine `json:"lines"`
}

//go:generate mockgen -source=catalog.go -destination=mocks/mock_engine.go -package=mocks

// Engine is the catalog/pricing collaborator consumed by the item substeps.
type Engine interface {
	ServiceCategories(ctx context.Context) ([]Category, error)
	ItemsForCategory(ctx context.Context, categoryID uuid.UUID) ([]Item, error)
	RecommendedModifiers(ctx context.Context, categoryCode, itemName string) ([]Modifier, error)
	CalculatePrice(ctx context.Context, req PriceRequest) (*PriceBreakdown, error)
}
