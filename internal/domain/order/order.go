package order

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents order status.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

var ErrInvalidTransition = errors.New("invalid order status transition")

// Order is the persisted order an in-progress wizard session builds up.
type Order struct {
	ID            uuid.UUID  `json:"id"`
	ReceiptNumber string     `json:"receiptNumber"`
	BranchCode    string     `json:"branchCode"`
	Tag           string     `json:"tag,omitempty"`
	ClientID      uuid.UUID  `json:"clientId"`
	Status        Status     `json:"status"`
	Signature     *string    `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	FinalizedAt   *time.Time `json:"finalizedAt,omitempty"`
}

// CanTransitionTo validates order status transitions.
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusDraft:     {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusCancelled},
		StatusCancelled: {},
	}
	for _, s := range transitions[o.Status] {
		if s == target {
			return true
		}
	}
	return false
}

// Confirm sets the order to confirmed.
func (o *Order) Confirm() error {
	if !o.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	o.Status = StatusConfirmed
	return nil
}

// Cancel sets the order to cancelled.
func (o *Order) Cancel() error {
	if !o.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	return nil
}

// Item is a persisted order line. Details holds the full draft snapshot
// (characteristics, stains, modifiers, photo references) as JSON.
type Item struct {
	ID            uuid.UUID       `json:"id"`
	OrderID       uuid.UUID       `json:"orderId"`
	CatalogItemID uuid.UUID       `json:"catalogItemId"`
	Name          string          `json:"name"`
	Quantity      float64         `json:"quantity"`
	Total         float64         `json:"total"`
	Details       json.RawMessage `json:"details,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Params are the order-level parameters collected in the third wizard stage.
type Params struct {
	Urgency         string    `json:"urgency"`
	CompletionDate  time.Time `json:"completionDate"`
	DiscountType    string    `json:"discountType"`
	DiscountPercent float64   `json:"discountPercent"`
	PaymentMethod   string    `json:"paymentMethod"`
	Prepayment      float64   `json:"prepayment"`
	Notes           string    `json:"notes,omitempty"`
}
