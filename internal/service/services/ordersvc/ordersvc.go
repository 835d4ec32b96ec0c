package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/tecsup/order-svc/internal/dal/postgres"
	"github.com/tecsup/order-svc/internal/dal/uow"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
	"github.com/tecsup/order-svc/internal/service/models/outbox"
	"github.com/tecsup/order-svc/internal/service/models/user"
)

// userClient is the outbound contract for user lookups. The fallback
// policy lives in resolveUser, not here.
type userClient interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// itemAssembler builds and persists line items inside the caller's
// transaction scope.
type itemAssembler interface {
	CreateItems(
		ctx context.Context,
		repo iorderitemrepo.IOrderItemRepository,
		orderID int64,
		lines []orderitem.CreateLine,
	) ([]orderitem.OrderItem, error)
	ItemsByOrderID(
		ctx context.Context,
		repo iorderitemrepo.IOrderItemRepository,
		orderID int64,
	) ([]orderitem.OrderItem, error)
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

// OrderService is a service for managing orders.
type OrderService struct {
	uowFactory func() unitOfWork
	userClient userClient
	itemSvc    itemAssembler
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.uowFactory = func() unitOfWork {
			return uow.NewUnitOfWork(pgClient)
		}
	}
}

// WithUserClient sets the user client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUserClient(client userClient) option {
	return func(s *OrderService) {
		s.userClient = client
	}
}

// WithItemService sets the order item assembler for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithItemService(svc itemAssembler) option {
	return func(s *OrderService) {
		s.itemSvc = svc
	}
}

// WithUnitOfWorkFactory overrides the unit-of-work factory. Used by tests.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// CreateOrder runs the order-creation workflow: validate input, resolve
// the user snapshot, then inside a single transaction insert the header
// with a placeholder number, rewrite the number derived from the assigned
// id, assemble the line items, write the final total and queue the
// order.created event. Any failure rolls everything back.
func (s *OrderService) CreateOrder(ctx context.Context, model order.CreateOrderModel) (*order.Order, error) {
	if model.UserID <= 0 {
		return nil, &errs.InvalidRequestError{
			Reason: fmt.Sprintf("userId must be positive, got %d", model.UserID),
		}
	}
	if len(model.Items) == 0 {
		return nil, &errs.InvalidRequestError{Reason: "order must contain at least one item"}
	}
	for _, line := range model.Items {
		if line.Quantity <= 0 {
			return nil, &errs.InvalidRequestError{
				Reason: fmt.Sprintf("quantity must be positive for product %d, got %d", line.ProductID, line.Quantity),
			}
		}
	}

	slog.Info("Creating order", "user_id", model.UserID, "items", len(model.Items))

	usr := s.resolveUser(ctx, model.UserID)

	now := time.Now().UTC()
	header := &order.Order{
		OrderNumber: order.PlaceholderNumber(),
		UserID:      model.UserID,
		TotalAmount: decimal.Zero,
		Status:      order.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	work := s.uowFactory()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	// No-op after a successful commit.
	defer func() { _ = work.Rollback(ctx) }()

	id, err := work.OrderRepository().Insert(ctx, header)
	if err != nil {
		return nil, err
	}
	header.ID = id
	slog.Info("Order saved", "order_id", id)

	header.OrderNumber = order.Number(id)
	if err := work.OrderRepository().UpdateNumber(ctx, id, header.OrderNumber, now); err != nil {
		return nil, err
	}

	items, err := s.itemSvc.CreateItems(ctx, work.OrderItemRepository(), id, model.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal)
	}

	header.TotalAmount = total
	header.UpdatedAt = time.Now().UTC()
	if err := work.OrderRepository().UpdateTotal(ctx, id, total, header.UpdatedAt); err != nil {
		return nil, err
	}

	header.User = usr
	header.Items = items

	msg, err := outbox.NewOrderCreated(header)
	if err != nil {
		return nil, err
	}
	if err := work.OutboxRepository().Insert(ctx, msg); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}
	slog.Info("Order created", "order_id", id, "order_number", header.OrderNumber, "total", total.StringFixed(2))

	return header, nil
}

// GetOrderByID reconstructs the full order response from the stored header
// and its items, re-resolving product and user snapshots live. Persisted
// prices and totals are returned as stored.
func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*order.Order, error) {
	if id <= 0 {
		return nil, &errs.InvalidRequestError{
			Reason: fmt.Sprintf("order id must be positive, got %d", id),
		}
	}

	slog.Info("Getting order by id", "order_id", id)

	work := s.uowFactory()

	o, err := work.OrderRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o.User = s.resolveUser(ctx, o.UserID)

	items, err := s.itemSvc.ItemsByOrderID(ctx, work.OrderItemRepository(), id)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return o, nil
}

// resolveUser fetches the user snapshot, substituting the placeholder on
// any lookup failure. User display data must never abort an order
// operation; availability wins over consistency here.
func (s *OrderService) resolveUser(ctx context.Context, id int64) *user.User {
	usr, err := s.userClient.GetUserByID(ctx, id)
	if err != nil {
		slog.Warn("User lookup failed, using fallback snapshot", "user_id", id, "error", err)
		return user.Fallback(id)
	}

	return usr
}
