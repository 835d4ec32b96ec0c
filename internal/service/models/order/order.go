package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
	"github.com/tecsup/order-svc/internal/service/models/user"
)

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending Status = "PENDING"
)

// numberPrefix is fixed: the human-readable number format is part of the
// external contract and does not follow the wall clock.
const numberPrefix = "ORD-2025-"

// Order represents an order header together with its line items and the
// user snapshot resolved for the response. User and Items are assembled by
// the service layer; only the header fields are persisted in the orders
// table.
type Order struct {
	ID          int64                 `json:"id"`
	OrderNumber string                `json:"orderNumber"`
	UserID      int64                 `json:"userId"`
	User        *user.User            `json:"user,omitempty"`
	Items       []orderitem.OrderItem `json:"items"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
	Status      Status                `json:"status"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// CreateOrderModel is the validated input of the create-order workflow.
type CreateOrderModel struct {
	UserID int64
	Items  []orderitem.CreateLine
}

// Number derives the final order number from the storage-assigned
// identifier, zero-padded to at least four digits.
func Number(id int64) string {
	return fmt.Sprintf("%s%04d", numberPrefix, id)
}

// PlaceholderNumber returns a unique temporary number used for the first
// header insert, before the identifier needed by Number is known.
func PlaceholderNumber() string {
	return "TEMP-" + uuid.NewString()
}
