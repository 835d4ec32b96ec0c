package iorderitemrepo

import (
	"context"

	"github.com/tecsup/order-svc/internal/service/models/orderitem"
)

// IOrderItemRepository is an interface for the order item repository.
type IOrderItemRepository interface {
	// Insert persists one line item and returns the storage-assigned id.
	Insert(ctx context.Context, item *orderitem.OrderItem) (int64, error)

	// ListByOrderID returns the items of an order in insertion order.
	ListByOrderID(ctx context.Context, orderID int64) ([]orderitem.OrderItem, error)
}
