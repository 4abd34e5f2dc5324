package order

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOrder   = errors.New("order is not ready for submission")
	ErrUnknownField   = errors.New("unknown order field")
	ErrUnknownPayment = errors.New("unknown payment method")
)

type Payment string

const (
	PaymentUnset  Payment = ""
	PaymentOnline Payment = "online"
	PaymentCash   Payment = "cash"
)

// ParsePayment accepts the payment values and the names of the payment buttons ("card" means online).
func ParsePayment(value string) (Payment, error) {
	switch strings.TrimSpace(value) {
	case "":
		return PaymentUnset, nil
	case "online", "card":
		return PaymentOnline, nil
	case "cash":
		return PaymentCash, nil
	default:
		return PaymentUnset, fmt.Errorf("%w: %q", ErrUnknownPayment, value)
	}
}

type Field string

const (
	FieldPayment Field = "payment"
	FieldAddress Field = "address"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
)

// DeliveryFields and ContactFields are the keys owned by each checkout form, in display order
var (
	DeliveryFields = []Field{FieldPayment, FieldAddress}
	ContactFields  = []Field{FieldEmail, FieldPhone}
)

// IsDelivery reports whether the field belongs to the delivery form
func (f Field) IsDelivery() bool {
	return f == FieldPayment || f == FieldAddress
}

// IsContact reports whether the field belongs to the contact form
func (f Field) IsContact() bool {
	return f == FieldEmail || f == FieldPhone
}

const (
	MessageAddressRequired = "Необходимо указать адрес"
	MessageEmailRequired   = "Необходимо указать email"
	MessagePhoneRequired   = "Необходимо указать телефон"
)

// Order is the order-in-progress, and once finalized, the body sent to the API
type Order struct {
	Payment Payment  `json:"payment"`
	Address string   `json:"address"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Total   int      `json:"total"`
	Items   []string `json:"items"`
}

// New returns an order with default values
func New() Order {
	return Order{
		Payment: PaymentOnline,
		Items:   []string{},
	}
}

// Clone returns a copy that does not share the items slice
func (o Order) Clone() Order {
	c := o
	c.Items = append([]string{}, o.Items...)
	return c
}

// Finalize checks that the order can be submitted
func (o Order) Finalize() error {
	var missing []string
	if o.Payment == PaymentUnset {
		missing = append(missing, string(FieldPayment))
	}
	if o.Address == "" {
		missing = append(missing, string(FieldAddress))
	}
	if o.Email == "" {
		missing = append(missing, string(FieldEmail))
	}
	if o.Phone == "" {
		missing = append(missing, string(FieldPhone))
	}
	if len(o.Items) == 0 {
		missing = append(missing, "items")
	}
	if o.Total <= 0 {
		missing = append(missing, "total")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidOrder, strings.Join(missing, ", "))
	}
	return nil
}

// Result is what the API answers to a successful submission. Total may be null.
type Result struct {
	ID    string `json:"id"`
	Total *int   `json:"total"`
}

// ChargedTotal returns the total reported by the API, falling back to the submitted total
func (r Result) ChargedTotal(submitted int) int {
	if r.Total == nil {
		return submitted
	}
	return *r.Total
}
