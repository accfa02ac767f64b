package clients

import (
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesbook/internal/format"
)

type CreateClientRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	CPF          string  `json:"cpf" validate:"required,cpf"`
	Street       string  `json:"street" validate:"required,max=255"`
	Number       string  `json:"number" validate:"required,max=10"`
	Complement   *string `json:"complement,omitempty" validate:"omitempty,max=255"`
	Neighborhood string  `json:"neighborhood" validate:"required,max=255"`
	CEP          string  `json:"cep" validate:"required,cep"`
	City         string  `json:"city" validate:"required,max=255"`
	UF           string  `json:"uf" validate:"required,uf"`
	Phone        string  `json:"phone" validate:"required,phone"`
}

type UpdateClientRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	CPF          *string `json:"cpf,omitempty" validate:"omitempty,cpf"`
	Street       *string `json:"street,omitempty" validate:"omitempty,min=1,max=255"`
	Number       *string `json:"number,omitempty" validate:"omitempty,min=1,max=10"`
	Complement   *string `json:"complement,omitempty" validate:"omitempty,max=255"`
	Neighborhood *string `json:"neighborhood,omitempty" validate:"omitempty,min=1,max=255"`
	CEP          *string `json:"cep,omitempty" validate:"omitempty,cep"`
	City         *string `json:"city,omitempty" validate:"omitempty,min=1,max=255"`
	UF           *string `json:"uf,omitempty" validate:"omitempty,uf"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,phone"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdateClientRequest) IsEmpty() bool {
	c, a, p := r.Split()
	return c.empty() && a.empty() && p.empty()
}

// ClientFields are the updatable columns of the client row.
type ClientFields struct {
	Name  *string
	Email *string
	CPF   *string
}

// AddressFields are the updatable columns of the address row.
type AddressFields struct {
	Street       *string
	Number       *string
	Complement   *string
	Neighborhood *string
	CEP          *string
	City         *string
	UF           *string
}

// PhoneFields are the updatable columns of the phone row.
type PhoneFields struct {
	Number *string
}

// Split routes each supplied field to the entity that owns it, converting documents to
// their stored form.
func (r UpdateClientRequest) Split() (ClientFields, AddressFields, PhoneFields) {
	c := ClientFields{Name: r.Name, Email: r.Email}
	if r.CPF != nil {
		cpf := format.UnformatCPF(*r.CPF)
		c.CPF = &cpf
	}

	a := AddressFields{
		Street:       r.Street,
		Number:       r.Number,
		Complement:   r.Complement,
		Neighborhood: r.Neighborhood,
		City:         r.City,
	}
	if r.CEP != nil {
		cep := format.UnformatCEP(*r.CEP)
		a.CEP = &cep
	}
	if r.UF != nil {
		uf := format.UpperUF(*r.UF)
		a.UF = &uf
	}

	var p PhoneFields
	if r.Phone != nil {
		number := format.UnformatPhone(*r.Phone)
		p.Number = &number
	}
	return c, a, p
}

func (f ClientFields) empty() bool {
	return f.Name == nil && f.Email == nil && f.CPF == nil
}

func (f ClientFields) apply(c *Client) {
	setIf(&c.Name, f.Name)
	setIf(&c.Email, f.Email)
	setIf(&c.CPF, f.CPF)
}

func (f AddressFields) empty() bool {
	return f.Street == nil && f.Number == nil && f.Complement == nil && f.Neighborhood == nil &&
		f.CEP == nil && f.City == nil && f.UF == nil
}

func (f AddressFields) apply(a *Address) {
	setIf(&a.Street, f.Street)
	setIf(&a.Number, f.Number)
	setIf(&a.Complement, f.Complement)
	setIf(&a.Neighborhood, f.Neighborhood)
	setIf(&a.CEP, f.CEP)
	setIf(&a.City, f.City)
	setIf(&a.UF, f.UF)
}

func (f PhoneFields) empty() bool { return f.Number == nil }

func (f PhoneFields) apply(p *Phone) { setIf(&p.Number, f.Number) }

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// SaleFilter narrows the sales shown in the client detail.
type SaleFilter struct {
	Month *int `json:"month" validate:"omitempty,min=1,max=12"`
	Year  *int `json:"year" validate:"omitempty,min=1900"`
}

// ClientView is the projection returned by create, list and update.
type ClientView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CPF       string `json:"cpf"`
	AddressID int64  `json:"addressId"`
	Phone     string `json:"phone"`
}

type AddressView struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	CEP          string `json:"cep"`
	City         string `json:"city"`
	UF           string `json:"uf"`
}

type SaleView struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"productId"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  string          `json:"createdAt"`
}

// ClientDetail is the projection returned by GetClient.
type ClientDetail struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	CPF     string      `json:"cpf"`
	Address AddressView `json:"address"`
	Phone   string      `json:"phone"`
	Sales   []SaleView  `json:"sales"`
}
