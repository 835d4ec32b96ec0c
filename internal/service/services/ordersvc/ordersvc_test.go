package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/clients"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
	"github.com/tecsup/order-svc/internal/service/models/outbox"
	"github.com/tecsup/order-svc/internal/service/models/product"
	"github.com/tecsup/order-svc/internal/service/models/user"
	"github.com/tecsup/order-svc/internal/service/services/orderitemsvc"
)

type fakeOrderRepo struct {
	nextID    int64
	orders    map[int64]*order.Order
	insertErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int64]*order.Order)}
}

func (r *fakeOrderRepo) Insert(_ context.Context, o *order.Order) (int64, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.nextID++
	stored := *o
	stored.ID = r.nextID
	r.orders[r.nextID] = &stored

	return r.nextID, nil
}

func (r *fakeOrderRepo) UpdateNumber(_ context.Context, id int64, number string, updatedAt time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return &errs.NotFoundError{Resource: "order", ID: id}
	}
	o.OrderNumber = number
	o.UpdatedAt = updatedAt

	return nil
}

func (r *fakeOrderRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal, updatedAt time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return &errs.NotFoundError{Resource: "order", ID: id}
	}
	o.TotalAmount = total
	o.UpdatedAt = updatedAt

	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id int64) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, &errs.NotFoundError{Resource: "order", ID: id}
	}
	copied := *o

	return &copied, nil
}

type fakeItemRepo struct {
	nextID int64
	items  map[int64][]orderitem.OrderItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[int64][]orderitem.OrderItem)}
}

func (r *fakeItemRepo) Insert(_ context.Context, item *orderitem.OrderItem) (int64, error) {
	r.nextID++
	stored := *item
	stored.ID = r.nextID
	stored.Product = nil
	r.items[item.OrderID] = append(r.items[item.OrderID], stored)

	return r.nextID, nil
}

func (r *fakeItemRepo) ListByOrderID(_ context.Context, orderID int64) ([]orderitem.OrderItem, error) {
	return append([]orderitem.OrderItem(nil), r.items[orderID]...), nil
}

type fakeOutboxRepo struct {
	messages []outbox.Message
}

func (r *fakeOutboxRepo) Insert(_ context.Context, msg outbox.Message) error {
	r.messages = append(r.messages, msg)

	return nil
}

func (r *fakeOutboxRepo) GetPendingMessages(_ context.Context, _ int) ([]outbox.Message, error) {
	return r.messages, nil
}

func (r *fakeOutboxRepo) Delete(_ context.Context, _ int64) error { return nil }

func (r *fakeOutboxRepo) UpdateRetry(_ context.Context, _ int64, _ int, _ string, _ time.Time) error {
	return nil
}

type fakeUnitOfWork struct {
	orderRepo  *fakeOrderRepo
	itemRepo   *fakeItemRepo
	outboxRepo *fakeOutboxRepo

	begins    int
	commits   int
	rollbacks int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		orderRepo:  newFakeOrderRepo(),
		itemRepo:   newFakeItemRepo(),
		outboxRepo: &fakeOutboxRepo{},
	}
}

func (u *fakeUnitOfWork) Begin(_ context.Context) error {
	u.begins++

	return nil
}

func (u *fakeUnitOfWork) Commit(_ context.Context) error {
	u.commits++

	return nil
}

func (u *fakeUnitOfWork) Rollback(_ context.Context) error {
	u.rollbacks++

	return nil
}

func (u *fakeUnitOfWork) OrderRepository() iorderrepo.IOrderRepository { return u.orderRepo }

func (u *fakeUnitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.itemRepo
}

func (u *fakeUnitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository { return u.outboxRepo }

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}

	return d
}

func newTestService(
	work *fakeUnitOfWork,
	userClient *clients.MockUserClient,
	productClient *clients.MockProductClient,
) *OrderService {
	itemSvc := orderitemsvc.MustNewOrderItemService(
		orderitemsvc.WithProductClient(productClient),
	)

	return MustNewOrderService(
		WithUnitOfWorkFactory(func() unitOfWork { return work }),
		WithUserClient(userClient),
		WithItemService(itemSvc),
	)
}

func TestCreateOrder(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1, Name: "John Doe", Email: "john@example.com"})
	productClient := clients.NewMockProductClient()
	productClient.AddProduct(&product.Product{ID: 10, Name: "Laptop", Price: mustDecimal(t, "999.99")})
	productClient.AddProduct(&product.Product{ID: 20, Name: "Mouse", Price: mustDecimal(t, "24.50")})

	svc := newTestService(work, userClient, productClient)

	got, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items: []orderitem.CreateLine{
			{ProductID: 10, Quantity: 2},
			{ProductID: 20, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if got.OrderNumber != "ORD-2025-0001" {
		t.Errorf("order number = %q, want ORD-2025-0001", got.OrderNumber)
	}
	if got.Status != order.StatusPending {
		t.Errorf("status = %q, want %q", got.Status, order.StatusPending)
	}
	if want := mustDecimal(t, "2073.48"); !got.TotalAmount.Equal(want) {
		t.Errorf("total = %s, want %s", got.TotalAmount, want)
	}
	if got.User == nil || got.User.Name != "John Doe" {
		t.Errorf("user snapshot = %+v, want John Doe", got.User)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if want := mustDecimal(t, "1999.98"); !got.Items[0].Subtotal.Equal(want) {
		t.Errorf("first subtotal = %s, want %s", got.Items[0].Subtotal, want)
	}
	if got.Items[0].Product == nil || got.Items[0].Product.Name != "Laptop" {
		t.Errorf("first item product = %+v, want Laptop", got.Items[0].Product)
	}

	if work.commits != 1 {
		t.Errorf("commits = %d, want 1", work.commits)
	}

	stored := work.orderRepo.orders[got.ID]
	if stored.OrderNumber != "ORD-2025-0001" {
		t.Errorf("stored number = %q, want final number rewritten in place", stored.OrderNumber)
	}
	if !stored.TotalAmount.Equal(got.TotalAmount) {
		t.Errorf("stored total = %s, want %s", stored.TotalAmount, got.TotalAmount)
	}

	if len(work.outboxRepo.messages) != 1 {
		t.Fatalf("outbox messages = %d, want 1", len(work.outboxRepo.messages))
	}
	msg := work.outboxRepo.messages[0]
	if msg.RoutingKey != outbox.OrderCreatedQueue {
		t.Errorf("routing key = %q, want %q", msg.RoutingKey, outbox.OrderCreatedQueue)
	}
	var event struct {
		OrderNumber string `json:"orderNumber"`
		TotalAmount string `json:"totalAmount"`
	}
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		t.Fatalf("bad event payload: %v", err)
	}
	if event.OrderNumber != "ORD-2025-0001" || event.TotalAmount != "2073.48" {
		t.Errorf("event = %+v, want final number and total", event)
	}
}

func TestCreateOrderUserLookupFallsBack(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.Err = &errs.UnavailableError{Service: "user service", Err: errors.New("connection refused")}
	productClient := clients.NewMockProductClient()
	productClient.AddProduct(&product.Product{ID: 10, Name: "Laptop", Price: mustDecimal(t, "100.00")})

	svc := newTestService(work, userClient, productClient)

	got, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 7,
		Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v, user lookup failures must not abort", err)
	}

	if got.User.Name != "Unknown User" || got.User.Email != "Unknown Email" {
		t.Errorf("fallback user = %+v, want Unknown User / Unknown Email", got.User)
	}
	if got.User.ID != 7 {
		t.Errorf("fallback user id = %d, want 7", got.User.ID)
	}
	if work.commits != 1 {
		t.Errorf("commits = %d, want 1", work.commits)
	}
}

func TestCreateOrderProductNotFoundAborts(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1, Name: "John Doe"})
	productClient := clients.NewMockProductClient()

	svc := newTestService(work, userClient, productClient)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items:  []orderitem.CreateLine{{ProductID: 99, Quantity: 1}},
	})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("CreateOrder() error = %v, want not-found", err)
	}

	if work.commits != 0 {
		t.Errorf("commits = %d, want 0", work.commits)
	}
	if work.rollbacks == 0 {
		t.Error("expected a rollback after product lookup failure")
	}
	if len(work.outboxRepo.messages) != 0 {
		t.Errorf("outbox messages = %d, want 0 after abort", len(work.outboxRepo.messages))
	}
}

func TestCreateOrderProductUnavailableAborts(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1})
	productClient := clients.NewMockProductClient()
	productClient.Err = &errs.UnavailableError{Service: "product service", Err: errors.New("timeout")}

	svc := newTestService(work, userClient, productClient)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 1}},
	})
	if !errors.Is(err, errs.ErrUnavailable) {
		t.Fatalf("CreateOrder() error = %v, want unavailable", err)
	}
	if work.commits != 0 {
		t.Errorf("commits = %d, want 0", work.commits)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	tests := []struct {
		name  string
		model order.CreateOrderModel
	}{
		{"zero user id", order.CreateOrderModel{
			UserID: 0,
			Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 1}},
		}},
		{"no items", order.CreateOrderModel{UserID: 1}},
		{"zero quantity", order.CreateOrderModel{
			UserID: 1,
			Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 0}},
		}},
		{"negative quantity", order.CreateOrderModel{
			UserID: 1,
			Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: -2}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := newFakeUnitOfWork()
			userClient := clients.NewMockUserClient()
			productClient := clients.NewMockProductClient()
			svc := newTestService(work, userClient, productClient)

			_, err := svc.CreateOrder(context.Background(), tt.model)
			if !errors.Is(err, errs.ErrInvalidRequest) {
				t.Fatalf("CreateOrder() error = %v, want invalid request", err)
			}

			if userClient.Calls != 0 || productClient.Calls != 0 {
				t.Errorf("remote calls = %d user / %d product, want none before validation passes",
					userClient.Calls, productClient.Calls)
			}
			if work.begins != 0 {
				t.Errorf("begins = %d, want no transaction for rejected input", work.begins)
			}
		})
	}
}

func TestCreateOrderPersistenceFailure(t *testing.T) {
	work := newFakeUnitOfWork()
	work.orderRepo.insertErr = &errs.PersistenceError{Op: "insert order", Err: errors.New("connection reset")}
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1})
	productClient := clients.NewMockProductClient()
	productClient.AddProduct(&product.Product{ID: 10, Price: mustDecimal(t, "5.00")})

	svc := newTestService(work, userClient, productClient)

	_, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 1}},
	})
	if !errors.Is(err, errs.ErrPersistence) {
		t.Fatalf("CreateOrder() error = %v, want persistence", err)
	}
	if work.commits != 0 {
		t.Errorf("commits = %d, want 0", work.commits)
	}
}

func TestGetOrderByID(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1, Name: "John Doe", Email: "john@example.com"})
	productClient := clients.NewMockProductClient()
	productClient.AddProduct(&product.Product{ID: 10, Name: "Laptop", Price: mustDecimal(t, "1099.99")})

	svc := newTestService(work, userClient, productClient)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	// The stored price stays even when the live product changes.
	productClient.AddProduct(&product.Product{ID: 10, Name: "Laptop Pro", Price: mustDecimal(t, "1299.99")})

	got, err := svc.GetOrderByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetOrderByID() error = %v", err)
	}

	if got.OrderNumber != created.OrderNumber {
		t.Errorf("order number = %q, want %q", got.OrderNumber, created.OrderNumber)
	}
	if got.User == nil || got.User.Name != "John Doe" {
		t.Errorf("user = %+v, want John Doe", got.User)
	}
	if len(got.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(got.Items))
	}
	item := got.Items[0]
	if want := mustDecimal(t, "1099.99"); !item.UnitPrice.Equal(want) {
		t.Errorf("stored unit price = %s, want %s unchanged", item.UnitPrice, want)
	}
	if want := mustDecimal(t, "2199.98"); !item.Subtotal.Equal(want) {
		t.Errorf("stored subtotal = %s, want %s unchanged", item.Subtotal, want)
	}
	if item.Product == nil || item.Product.Name != "Laptop Pro" {
		t.Errorf("live product snapshot = %+v, want refreshed Laptop Pro", item.Product)
	}
}

func TestGetOrderByIDNotFound(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work, clients.NewMockUserClient(), clients.NewMockProductClient())

	_, err := svc.GetOrderByID(context.Background(), 99)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("GetOrderByID() error = %v, want not-found", err)
	}
	if want := "order not found with id: 99"; err.Error() != want {
		t.Errorf("error message = %q, want %q", err.Error(), want)
	}
}

func TestGetOrderByIDInvalidID(t *testing.T) {
	work := newFakeUnitOfWork()
	svc := newTestService(work, clients.NewMockUserClient(), clients.NewMockProductClient())

	for _, id := range []int64{0, -5} {
		if _, err := svc.GetOrderByID(context.Background(), id); !errors.Is(err, errs.ErrInvalidRequest) {
			t.Errorf("GetOrderByID(%d) error = %v, want invalid request", id, err)
		}
	}
}

func TestGetOrderByIDProductFailurePropagates(t *testing.T) {
	work := newFakeUnitOfWork()
	userClient := clients.NewMockUserClient()
	userClient.AddUser(&user.User{ID: 1})
	productClient := clients.NewMockProductClient()
	productClient.AddProduct(&product.Product{ID: 10, Price: mustDecimal(t, "9.99")})

	svc := newTestService(work, userClient, productClient)

	created, err := svc.CreateOrder(context.Background(), order.CreateOrderModel{
		UserID: 1,
		Items:  []orderitem.CreateLine{{ProductID: 10, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	productClient.Err = &errs.UnavailableError{Service: "product service", Err: errors.New("timeout")}

	if _, err := svc.GetOrderByID(context.Background(), created.ID); !errors.Is(err, errs.ErrUnavailable) {
		t.Fatalf("GetOrderByID() error = %v, want unavailable when product lookup fails", err)
	}
}
