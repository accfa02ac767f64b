package clients

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is the stored client row. CPF holds the 11 raw digits.
type Client struct {
	ID    int64
	Name  string
	Email string
	CPF   string
}

// Address belongs to exactly one client. CEP holds the 8 raw digits and UF is upper case.
type Address struct {
	ID           int64
	ClientID     int64
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	CEP          string
	City         string
	UF           string
}

// Phone belongs to exactly one client. Number holds 10 or 11 raw digits.
type Phone struct {
	ID       int64
	ClientID int64
	Number   string
}

// Sale is a read-only view of a sale row used in the client detail.
type Sale struct {
	ID         int64
	ProductID  int64
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
}

// Listing is a client joined with its address id and phone number.
type Listing struct {
	Client
	AddressID int64
	Phone     string
}
