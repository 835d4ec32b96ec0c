package orderitem

import (
	"github.com/shopspring/decimal"
	"github.com/tecsup/order-svc/internal/service/models/product"
)

// OrderItem represents one line of an order. UnitPrice is the product's
// price at order time and is immutable once persisted; Subtotal is always
// UnitPrice × Quantity rounded half-up to 2 decimals.
type OrderItem struct {
	ID        int64            `json:"id"`
	OrderID   int64            `json:"orderId"`
	ProductID int64            `json:"productId"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unitPrice"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Product   *product.Product `json:"product,omitempty"`
}

// CreateLine is one requested (product, quantity) pair of a create-order
// call, before product resolution.
type CreateLine struct {
	ProductID int64
	Quantity  int
}

// ComputeSubtotal rounds unitPrice × quantity half-up to 2 decimal places.
func ComputeSubtotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
