package iorderrepo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/service/models/order"
)

// IOrderRepository is an interface for the order header repository.
type IOrderRepository interface {
	// Insert persists a new header and returns the storage-assigned id.
	Insert(ctx context.Context, o *order.Order) (int64, error)

	// UpdateNumber replaces the placeholder order number once the id is
	// known.
	UpdateNumber(ctx context.Context, id int64, number string, updatedAt time.Time) error

	// UpdateTotal writes the final accumulated total.
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal, updatedAt time.Time) error

	// GetByID loads a header, without its items.
	GetByID(ctx context.Context, id int64) (*order.Order, error)
}
