package httpx

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/salesbook/internal/shared"
)

type clientPayload struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	CPF   string `json:"cpf" validate:"required,cpf"`
	CEP   string `json:"cep" validate:"required,cep"`
	UF    string `json:"uf" validate:"required,uf"`
	Phone string `json:"phone" validate:"required,phone"`
}

type pricePayload struct {
	Price     *decimal.Decimal `json:"price" validate:"required,gt=0"`
	CreatedAt *string          `json:"createdAt" validate:"omitempty,pastdate"`
}

func validClient() clientPayload {
	return clientPayload{
		Name:  "Maria",
		Email: "maria@example.com",
		CPF:   "123.456.789-00",
		CEP:   "01310-100",
		UF:    "sp",
		Phone: "(11) 98765-4321",
	}
}

func TestValidatorAcceptsFormattedDocuments(t *testing.T) {
	assert.Nil(t, NewValidator().Struct(validClient()))
}

func TestValidatorReportsJSONFieldNames(t *testing.T) {
	payload := validClient()
	payload.CPF = "12345678900"
	payload.CEP = "01310100"
	payload.UF = "XX"
	payload.Phone = "11987654321"
	payload.Email = "nope"

	fields := NewValidator().Struct(payload)
	assert.Contains(t, fields, "cpf")
	assert.Contains(t, fields, "cep")
	assert.Contains(t, fields, "uf")
	assert.Contains(t, fields, "phone")
	assert.Equal(t, "email must be a valid email", fields["email"])
	assert.NotContains(t, fields, "name")
}

func TestValidatorDecimalAndPastDate(t *testing.T) {
	v := NewValidator()
	v.now = func() time.Time { return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.Local) }

	price := decimal.RequireFromString("19.99")
	past := "31/05/2024 08:00:00"
	assert.Nil(t, v.Struct(pricePayload{Price: &price, CreatedAt: &past}))

	zero := decimal.Zero
	future := "02/06/2024 08:00:00"
	fields := v.Struct(pricePayload{Price: &zero, CreatedAt: &future})
	assert.Equal(t, "price must be greater than 0", fields["price"])
	assert.Contains(t, fields, "createdAt")

	fields = v.Struct(pricePayload{})
	assert.Equal(t, "price is required", fields["price"])
}

type productPricePayload struct {
	Price *shared.Price `json:"price" validate:"required,gt=0,money"`
}

func TestValidatorMoneyKeepsTwoDecimalPlaces(t *testing.T) {
	v := NewValidator()

	for _, ok := range []string{"19.99", "21.5", "3", "99999999.99"} {
		assert.Nil(t, v.Struct(productPricePayload{Price: shared.NewPrice(decimal.RequireFromString(ok))}), ok)
	}

	for _, bad := range []string{"19.999", "0.001", "100000000"} {
		fields := v.Struct(productPricePayload{Price: shared.NewPrice(decimal.RequireFromString(bad))})
		assert.Contains(t, fields, "price", bad)
	}

	fields := v.Struct(productPricePayload{Price: shared.NewPrice(decimal.Zero)})
	assert.Equal(t, "price must be greater than 0", fields["price"])
}
