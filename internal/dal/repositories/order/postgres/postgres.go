package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/order"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
)

// OrderDal represents the order header data access layer model.
type OrderDal struct {
	Id          int64     `db:"id"`
	OrderNumber string    `db:"order_number"`
	UserId      int64     `db:"user_id"`
	TotalAmount string    `db:"total_amount"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*order.Order, error) {
	total, err := decimal.NewFromString(o.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse total amount: %w", err)
	}

	return &order.Order{
		ID:          o.Id,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserId,
		TotalAmount: total,
		Status:      order.Status(o.Status),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       []orderitem.OrderItem{}, // Will be populated separately
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderRepository represents a Postgres order header repository.
type PostgresOrderRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderRepository creates a new Postgres order repository.
func NewPostgresOrderRepository(conn GenericConn) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a new order header and returns the assigned id.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o *order.Order) (int64, error) {
	sql, args, err := r.sb.
		Insert("orders").
		Columns("order_number", "user_id", "total_amount", "status", "created_at", "updated_at").
		Values(o.OrderNumber, o.UserID, o.TotalAmount.String(), string(o.Status), o.CreatedAt, o.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert order query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, &errs.PersistenceError{Op: "insert order", Err: err}
	}

	return id, nil
}

// UpdateNumber replaces the placeholder order number.
func (r *PostgresOrderRepository) UpdateNumber(
	ctx context.Context,
	id int64,
	number string,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("order_number", number).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update order number query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return &errs.PersistenceError{Op: "update order number", Err: err}
	}

	return nil
}

// UpdateTotal writes the final accumulated total.
func (r *PostgresOrderRepository) UpdateTotal(
	ctx context.Context,
	id int64,
	total decimal.Decimal,
	updatedAt time.Time,
) error {
	sql, args, err := r.sb.
		Update("orders").
		Set("total_amount", total.String()).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update order total query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, sql, args...); err != nil {
		return &errs.PersistenceError{Op: "update order total", Err: err}
	}

	return nil
}

// GetByID loads an order header without its items.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	sql, args, err := r.sb.
		Select("id", "order_number", "user_id", "total_amount::text", "status", "created_at", "updated_at").
		From("orders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get order query: %w", err)
	}

	var dal OrderDal
	err = r.conn.QueryRow(ctx, sql, args...).Scan(
		&dal.Id,
		&dal.OrderNumber,
		&dal.UserId,
		&dal.TotalAmount,
		&dal.Status,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &errs.NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return nil, &errs.PersistenceError{Op: "get order", Err: err}
	}

	return dal.ToModel()
}
