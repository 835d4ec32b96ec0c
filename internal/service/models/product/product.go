package product

import "github.com/shopspring/decimal"

// Product is a read-only snapshot of a product record fetched from the
// product service at lookup time. Price is the value captured into order
// items; later remote price changes never touch persisted rows.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	CreatedBy   int64           `json:"createdBy"`
}
