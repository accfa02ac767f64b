package products

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

type CreateProductRequest struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Description string        `json:"description" validate:"required"`
	Price       *shared.Price `json:"price" validate:"required,gt=0,money"`
}

type UpdateProductRequest struct {
	Name        *string       `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string       `json:"description,omitempty" validate:"omitempty,min=1"`
	Price       *shared.Price `json:"price,omitempty" validate:"omitempty,gt=0,money"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil
}

type ProductView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductSummary is the list projection.
type ProductSummary struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func newProductView(p Product) ProductView {
	return ProductView{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price}
}
