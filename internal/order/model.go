package order

import (
	"time"

	"github.com/heyireeh/storefront-api/internal/user"
)

const (
	PaymentSuccess = "Success"
	PaymentFailed  = "Failed"
)

// Snapshot is the copy of product fields captured at purchase time. Later
// product edits never touch it.
type Snapshot struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	// NUMERIC -> string
	Price string `json:"price"`
}

type Order struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Product         Snapshot      `json:"product"`
	ShippingAddress string        `json:"shippingAddress"`
	PhoneNumber     string        `json:"phoneNumber,omitempty"`
	Status          Status        `json:"status"`
	PaymentStatus   string        `json:"paymentStatus"`
	IdempotencyKey  string        `json:"-"`
	User            *user.Profile `json:"user,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
