package types

import (
	"strings"

	pkgerrors "github.com/avinashm/sparkcart-backend/pkg/errors"
)

// ShippingAddress is the delivery destination snapshot stored on an order.
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

// Validate reports field-level problems with the address.
func (a ShippingAddress) Validate() error {
	missing := map[string]string{}
	for field, value := range map[string]string{
		"name":    a.Name,
		"phone":   a.Phone,
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"pincode": a.Pincode,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "is required"
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address incomplete").WithDetails(missing)
	}
	return nil
}

// Normalized returns a copy with whitespace trimmed and a default country.
func (a ShippingAddress) Normalized() ShippingAddress {
	a.Name = strings.TrimSpace(a.Name)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "IN"
	}
	return a
}
