package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/salesbook/internal/format"
	"github.com/odyssey-erp/salesbook/internal/shared"
)

// maxMoney is the first amount a NUMERIC(10,2) column cannot hold.
var maxMoney = decimal.NewFromInt(100_000_000)

var (
	cpfPattern   = regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)
	cepPattern   = regexp.MustCompile(`^\d{5}-\d{3}$`)
	phonePattern = regexp.MustCompile(`^\(\d{2}\) \d{4,5}-\d{4}$`)
)

var states = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// Validator wraps validator/v10 with the Brazilian document tags and JSON field naming.
type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator registers the custom tags and teaches the validator to compare decimals.
func NewValidator() *Validator {
	val := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}
	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	val.v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch d := field.Interface().(type) {
		case decimal.Decimal:
			return d.InexactFloat64()
		case shared.Price:
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{}, shared.Price{})
	mustRegister(val.v, "cpf", matchString(cpfPattern))
	mustRegister(val.v, "cep", matchString(cepPattern))
	mustRegister(val.v, "phone", matchString(phonePattern))
	mustRegister(val.v, "uf", func(fl validator.FieldLevel) bool {
		_, ok := states[format.UpperUF(fl.Field().String())]
		return ok
	})
	mustRegister(val.v, "money", func(fl validator.FieldLevel) bool {
		if fl.Field().Kind() != reflect.Float64 {
			return false
		}
		d := decimal.NewFromFloat(fl.Field().Float())
		return d.Exponent() >= -2 && d.Abs().LessThan(maxMoney)
	})
	mustRegister(val.v, "pastdate", func(fl validator.FieldLevel) bool {
		ts, err := format.ParseDate(fl.Field().String(), time.Local)
		return err == nil && !ts.After(val.now())
	})
	return val
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("httpx: register %s: %v", tag, err))
	}
}

func matchString(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Struct validates s and returns field messages keyed by JSON name, or nil when valid.
func (v *Validator) Struct(s any) map[string]string {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return fields
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "cpf":
		return field + " must match XXX.XXX.XXX-XX"
	case "cep":
		return field + " must match XXXXX-XXX"
	case "phone":
		return field + " must match (XX) XXXX-XXXX or (XX) XXXXX-XXXX"
	case "uf":
		return field + " must be a Brazilian state code"
	case "money":
		return field + " must have at most 2 decimal places and be below 100000000"
	case "pastdate":
		return field + " must be a dd/MM/yyyy HH:mm:ss date not in the future"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte", "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
