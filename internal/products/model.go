package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. A non-nil DeletedAt marks it soft-deleted.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	DeletedAt   *time.Time
}

// Active reports whether the product has not been soft-deleted.
func (p Product) Active() bool { return p.DeletedAt == nil }
