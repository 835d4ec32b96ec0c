package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderitemrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/iorderrepo"
	"github.com/tecsup/order-svc/internal/dal/interfaces/ioutboxrepo"
	"github.com/tecsup/order-svc/internal/dal/postgres"
	orderrepo "github.com/tecsup/order-svc/internal/dal/repositories/order/postgres"
	orderitemrepo "github.com/tecsup/order-svc/internal/dal/repositories/orderitem/postgres"
	outboxrepo "github.com/tecsup/order-svc/internal/dal/repositories/outbox/postgres"
)

// unitOfWork binds the order, order item and outbox repositories to one
// connection scope. Before Begin the repositories run against the pool;
// after Begin they run against the same transaction, so every write of a
// create-order workflow commits or rolls back together.
type unitOfWork struct {
	pool          *pgxpool.Pool
	tx            pgx.Tx
	orderRepo     iorderrepo.IOrderRepository
	orderItemRepo iorderitemrepo.IOrderItemRepository
	outboxRepo    ioutboxrepo.IOutboxRepository
}

// NewUnitOfWork creates a unit of work over the given Postgres client.
func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	pool := client.Pool()

	return &unitOfWork{
		pool:          pool,
		orderRepo:     orderrepo.NewPostgresOrderRepository(pool),
		orderItemRepo: orderitemrepo.NewPostgresOrderItemRepository(pool),
		outboxRepo:    outboxrepo.NewOutboxRepository(pool),
	}
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) OrderItemRepository() iorderitemrepo.IOrderItemRepository {
	return u.orderItemRepo
}

func (u *unitOfWork) OutboxRepository() ioutboxrepo.IOutboxRepository {
	return u.outboxRepo
}

// Begin opens a transaction and rebinds the repositories to it.
func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.orderItemRepo = orderitemrepo.NewPostgresOrderItemRepository(tx)
	u.outboxRepo = outboxrepo.NewOutboxRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

// Rollback is a no-op without an open transaction and safe to defer past
// a successful Commit (pgx reports ErrTxClosed, which callers may ignore).
func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
