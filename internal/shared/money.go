package shared

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrPriceNotNumber is returned when a request price arrives as a JSON string.
var ErrPriceNotNumber = errors.New("price must be a JSON number")

// Price is a monetary amount read from a request body. Only JSON numbers are accepted.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps d.
func NewPrice(d decimal.Decimal) *Price {
	return &Price{Decimal: d}
}

// UnmarshalJSON rejects quoted amounts and otherwise defers to decimal.
func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return ErrPriceNotNumber
	}
	return p.Decimal.UnmarshalJSON(data)
}
