package orderitemsvc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
	"github.com/tecsup/order-svc/internal/service/models/product"
)

// productClient is the outbound contract the assembler needs from the
// product service.
type productClient interface {
	GetProductByID(ctx context.Context, id int64) (*product.Product, error)
}

// OrderItemService assembles order line items: it resolves products,
// snapshots their prices, computes subtotals and persists the rows.
type OrderItemService struct {
	productClient productClient
}

// option is a function that configures the OrderItemService.
type option func(*OrderItemService)

// MustNewOrderItemService creates a new OrderItemService.
func MustNewOrderItemService(opts ...option) *OrderItemService {
	s := &OrderItemService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductClient sets the product client for the OrderItemService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductClient(client productClient) option {
	return func(s *OrderItemService) {
		s.productClient = client
	}
}

// CreateItems resolves and persists the requested lines strictly in input
// order through the caller-supplied repository, so the rows join whatever
// transaction the caller has open. Product lookup errors propagate; a
// non-positive quantity or product id fails before any remote call for
// that line.
func (s *OrderItemService) CreateItems(
	ctx context.Context,
	repo iorderitemrepo.IOrderItemRepository,
	orderID int64,
	lines []orderitem.CreateLine,
) ([]orderitem.OrderItem, error) {
	items := make([]orderitem.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, &errs.InvalidRequestError{
				Reason: fmt.Sprintf("productId must be positive, got %d", line.ProductID),
			}
		}
		if line.Quantity <= 0 {
			return nil, &errs.InvalidRequestError{
				Reason: fmt.Sprintf("quantity must be positive for product %d, got %d", line.ProductID, line.Quantity),
			}
		}

		prod, err := s.productClient.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}

		item := orderitem.OrderItem{
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: prod.Price,
			Subtotal:  orderitem.ComputeSubtotal(prod.Price, line.Quantity),
			Product:   prod,
		}

		id, err := repo.Insert(ctx, &item)
		if err != nil {
			return nil, err
		}
		item.ID = id
		slog.Info("Order item saved", "order_item_id", id, "order_id", orderID, "product_id", line.ProductID)

		items = append(items, item)
	}

	return items, nil
}

// ItemsByOrderID loads the persisted items of an order and re-resolves
// each product snapshot live. Stored unit prices and subtotals are never
// recomputed; the fresh snapshot is display enrichment only. A hard
// product failure fails the whole load.
func (s *OrderItemService) ItemsByOrderID(
	ctx context.Context,
	repo iorderitemrepo.IOrderItemRepository,
	orderID int64,
) ([]orderitem.OrderItem, error) {
	items, err := repo.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		prod, err := s.productClient.GetProductByID(ctx, items[i].ProductID)
		if err != nil {
			return nil, err
		}
		items[i].Product = prod
	}

	return items, nil
}
