// Package format converts CPF, CEP and phone numbers between their display form and the
// digits-only form kept in storage, and renders timestamps for API responses.
package format

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the display layout used for timestamps (dd/MM/yyyy HH:mm:ss).
const DateLayout = "02/01/2006 15:04:05"

var (
	// ErrInvalidCPF indicates the stored value is not an 11 digit CPF.
	ErrInvalidCPF = errors.New("invalid CPF")
	// ErrInvalidCEP indicates the stored value is not an 8 digit CEP.
	ErrInvalidCEP = errors.New("invalid CEP")
	// ErrInvalidPhone indicates the stored value is not a 10 or 11 digit phone number.
	ErrInvalidPhone = errors.New("invalid phone")
)

var (
	cpfDigits   = regexp.MustCompile(`^(\d{3})(\d{3})(\d{3})(\d{2})$`)
	cepDigits   = regexp.MustCompile(`^(\d{5})(\d{3})$`)
	phoneDigits = regexp.MustCompile(`^(\d{2})(\d{4,5})(\d{4})$`)
)

// Digits strips every non-digit rune from s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// UnformatCPF returns the canonical digits-only CPF.
func UnformatCPF(cpf string) string { return Digits(cpf) }

// FormatCPF renders an 11 digit CPF as XXX.XXX.XXX-XX.
func FormatCPF(cpf string) (string, error) {
	m := cpfDigits.FindStringSubmatch(cpf)
	if m == nil {
		return "", ErrInvalidCPF
	}
	return m[1] + "." + m[2] + "." + m[3] + "-" + m[4], nil
}

// UnformatCEP returns the canonical digits-only CEP.
func UnformatCEP(cep string) string { return Digits(cep) }

// FormatCEP renders an 8 digit CEP as XXXXX-XXX.
func FormatCEP(cep string) (string, error) {
	m := cepDigits.FindStringSubmatch(cep)
	if m == nil {
		return "", ErrInvalidCEP
	}
	return m[1] + "-" + m[2], nil
}

// UnformatPhone returns the canonical digits-only phone number.
func UnformatPhone(phone string) string { return Digits(phone) }

// FormatPhone renders a 10 or 11 digit phone as (XX) XXXX-XXXX or (XX) XXXXX-XXXX.
func FormatPhone(phone string) (string, error) {
	m := phoneDigits.FindStringSubmatch(phone)
	if m == nil {
		return "", ErrInvalidPhone
	}
	return "(" + m[1] + ") " + m[2] + "-" + m[3], nil
}

// UpperUF normalizes a state code to upper case.
func UpperUF(uf string) string {
	return strings.ToUpper(strings.TrimSpace(uf))
}

// FormatDate renders t in its own location using DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a DateLayout timestamp in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, value, loc)
}
