package getorder

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/transport/http/converters"
	"github.com/tecsup/order-svc/internal/transport/http/respond"
)

// service is an interface for the service layer.
type service interface {
	GetOrderByID(ctx context.Context, id int64) (*order.Order, error)
}

// GetOrder handles the get order by id request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		respond.Invalid(w, "order id must be an integer")

		return
	}

	o, err := service.GetOrderByID(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "error", err, "order_id", id)

		return
	}

	respond.JSON(w, http.StatusOK, converters.OrderToResponse(o))
}
