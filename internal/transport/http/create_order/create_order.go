package createorder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/tecsup/order-svc/internal/metrics"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
	"github.com/tecsup/order-svc/internal/transport/http/converters"
	"github.com/tecsup/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, model order.CreateOrderModel) (*order.Order, error)
}

// itemInCreateOrderRequest represents an item in a create order request.
type itemInCreateOrderRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
	Quantity  int   `json:"quantity"  validate:"gt=0"`
}

// createOrderRequest represents a create order request.
type createOrderRequest struct {
	UserID int64                      `json:"userId" validate:"gt=0"`
	Items  []itemInCreateOrderRequest `json:"items"  validate:"required,min=1,dive"`
}

// Validate validates the create order request.
func (r *createOrderRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts createOrderRequest to order.CreateOrderModel.
func (r *createOrderRequest) toModel() order.CreateOrderModel {
	lines := make([]orderitem.CreateLine, len(r.Items))
	for i, item := range r.Items {
		lines[i] = orderitem.CreateLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return order.CreateOrderModel{
		UserID: r.UserID,
		Items:  lines,
	}
}

// CreateOrder handles the create order request.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service, m *metrics.ServerMetrics) {
	orderReq := createOrderRequest{}
	if err := json.NewDecoder(r.Body).Decode(&orderReq); err != nil {
		respond.Invalid(w, "failed to decode request body")
		slog.Error("Error decoding request body for create order", "error", err)

		return
	}

	if err := orderReq.Validate(); err != nil {
		respond.Invalid(w, err.Error())
		slog.Error("Error validating request body for create order", "error", err)

		return
	}

	createdOrder, err := service.CreateOrder(r.Context(), orderReq.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating order", "error", err, "user_id", orderReq.UserID)

		return
	}

	if m != nil {
		m.OrdersCreated.Inc()
	}

	respond.JSON(w, http.StatusCreated, converters.OrderToResponse(createdOrder))
}
