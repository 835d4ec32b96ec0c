package converters

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
)

func init() {
	// Monetary fields are emitted as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// UserResponse is the user snapshot embedded into order responses.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductResponse is the product snapshot embedded into item responses.
type ProductResponse struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderItemResponse is one line of an order response.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the full order payload served by the API.
type OrderResponse struct {
	ID          int64               `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	User        UserResponse        `json:"user"`
	Items       []OrderItemResponse `json:"items"`
	TotalAmount decimal.Decimal     `json:"totalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// OrderToResponse converts the internal Order model to the response DTO.
func OrderToResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Items:       make([]OrderItemResponse, 0, len(o.Items)),
		TotalAmount: o.TotalAmount,
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	if o.User != nil {
		resp.User = UserResponse{
			ID:    o.User.ID,
			Name:  o.User.Name,
			Email: o.User.Email,
		}
	}

	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemToResponse(item))
	}

	return resp
}

func orderItemToResponse(item orderitem.OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:        item.ID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		Subtotal:  item.Subtotal,
	}

	if item.Product != nil {
		resp.Product = ProductResponse{
			ID:    item.Product.ID,
			Name:  item.Product.Name,
			Price: item.Product.Price,
		}
	}

	return resp
}
