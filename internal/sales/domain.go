package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records one client buying a quantity of one product. Rows are never updated.
type Sale struct {
	ID         int64
	ClientID   int64
	ProductID  int64
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

type CreateSaleRequest struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	CreatedAt *string `json:"createdAt,omitempty" validate:"omitempty,pastdate"`
}

type SaleView struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"clientId"`
	ProductID  int64           `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  string          `json:"createdAt"`
}
