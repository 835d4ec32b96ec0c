package outbox

import (
	"encoding/json"
	"time"

	"github.com/tecsup/order-svc/internal/service/models/order"
)

const (
	// OrderCreatedQueue receives order.created events via the default
	// exchange, so the routing key equals the queue name.
	OrderCreatedQueue = "oms.order.created"
)

// Message represents an event row waiting in the outbox table. Rows are
// written in the same transaction as the business change they describe and
// published to RabbitMQ by the outbox worker.
type Message struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	LastError    string
	CreatedAt    time.Time
	NextRetryAt  time.Time
}

// orderCreatedEvent is the payload published for a newly created order.
type orderCreatedEvent struct {
	OrderID     int64     `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	UserID      int64     `json:"userId"`
	TotalAmount string    `json:"totalAmount"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewOrderCreated builds the outbox message for a finalized order header.
func NewOrderCreated(o *order.Order) (Message, error) {
	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
	})
	if err != nil {
		return Message{}, err
	}

	return Message{
		ExchangeName: "",
		RoutingKey:   OrderCreatedQueue,
		Payload:      payload,
		ContentType:  "application/json",
		CreatedAt:    o.CreatedAt,
		NextRetryAt:  o.CreatedAt,
	}, nil
}
