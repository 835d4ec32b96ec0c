package postgresrepo

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/errs"
	"github.com/tecsup/order-svc/internal/service/models/orderitem"
)

// OrderItemDal represents the order item data access layer model.
type OrderItemDal struct {
	Id        int64  `db:"id"`
	OrderId   int64  `db:"order_id"`
	ProductId int64  `db:"product_id"`
	Quantity  int    `db:"quantity"`
	UnitPrice string `db:"unit_price"`
	Subtotal  string `db:"subtotal"`
}

// ToModel converts OrderItemDal to the service layer OrderItem model.
func (oi *OrderItemDal) ToModel() (*orderitem.OrderItem, error) {
	unitPrice, err := decimal.NewFromString(oi.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to parse unit price: %w", err)
	}
	subtotal, err := decimal.NewFromString(oi.Subtotal)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subtotal: %w", err)
	}

	return &orderitem.OrderItem{
		ID:        oi.Id,
		OrderID:   oi.OrderId,
		ProductID: oi.ProductId,
		Quantity:  oi.Quantity,
		UnitPrice: unitPrice,
		Subtotal:  subtotal,
	}, nil
}

// GenericConn is an interface that works with both pgxpool.Pool and pgx.Tx
type GenericConn interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresOrderItemRepository represents a Postgres order item repository.
type PostgresOrderItemRepository struct {
	conn GenericConn
	sb   sq.StatementBuilderType
}

// NewPostgresOrderItemRepository creates a new Postgres order item repository.
func NewPostgresOrderItemRepository(conn GenericConn) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{
		conn: conn,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Insert persists a single line item and returns the assigned id.
func (r *PostgresOrderItemRepository) Insert(
	ctx context.Context,
	item *orderitem.OrderItem,
) (int64, error) {
	sql, args, err := r.sb.
		Insert("order_items").
		Columns("order_id", "product_id", "quantity", "unit_price", "subtotal").
		Values(item.OrderID, item.ProductID, item.Quantity, item.UnitPrice.String(), item.Subtotal.String()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert order item query: %w", err)
	}

	var id int64
	if err := r.conn.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, &errs.PersistenceError{Op: "insert order item", Err: err}
	}

	return id, nil
}

// ListByOrderID returns the items of an order in insertion order.
func (r *PostgresOrderItemRepository) ListByOrderID(
	ctx context.Context,
	orderID int64,
) ([]orderitem.OrderItem, error) {
	sql, args, err := r.sb.
		Select("id", "order_id", "product_id", "quantity", "unit_price::text", "subtotal::text").
		From("order_items").
		Where(sq.Eq{"order_id": orderID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list order items query: %w", err)
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, &errs.PersistenceError{Op: "list order items", Err: err}
	}
	defer rows.Close()

	var result []orderitem.OrderItem
	for rows.Next() {
		var dal OrderItemDal
		err := rows.Scan(
			&dal.Id,
			&dal.OrderId,
			&dal.ProductId,
			&dal.Quantity,
			&dal.UnitPrice,
			&dal.Subtotal,
		)
		if err != nil {
			return nil, &errs.PersistenceError{Op: "scan order item", Err: err}
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order item dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, &errs.PersistenceError{Op: "list order items", Err: err}
	}

	return result, nil
}
