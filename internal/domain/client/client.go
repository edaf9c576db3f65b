package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicate = errors.New("client with this phone already exists")

// Client represents a registered customer of the shop.
type Client struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"fullName"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email,omitempty"`
	Address            string    `json:"address,omitempty"`
	DiscountCardNumber *string   `json:"discountCardNumber,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Summary is the search-result projection of a client.
type Summary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
}

// SearchCriteria filters directory searches. Empty fields are ignored.
type SearchCriteria struct {
	Name       string `json:"name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
}

func (c SearchCriteria) IsEmpty() bool {
	return c.Name == "" && c.Phone == "" && c.CardNumber == ""
}

// Data carries the fields of a new-client form.
type Data struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
}
