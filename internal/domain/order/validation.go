package order

import "strings"

// FormErrors maps a field to its message. Each validation pass produces a new set.
type FormErrors map[Field]string

// Only returns the subset of errors for the given fields
func (e FormErrors) Only(fields ...Field) FormErrors {
	out := FormErrors{}
	for _, f := range fields {
		if msg, ok := e[f]; ok {
			out[f] = msg
		}
	}
	return out
}

// Join returns the messages of the given fields joined in field order
func (e FormErrors) Join(fields ...Field) string {
	var msgs []string
	for _, f := range fields {
		if msg := e[f]; msg != "" {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// Clone returns an independent copy
func (e FormErrors) Clone() FormErrors {
	out := make(FormErrors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Validation is the outcome of one validation pass
type Validation struct {
	Errors FormErrors
	Valid  bool
}

// ValidateDelivery requires an address and a chosen payment method.
// A missing payment blocks validity but has no message of its own.
func ValidateDelivery(o Order) Validation {
	errs := FormErrors{}
	if o.Address == "" {
		errs[FieldAddress] = MessageAddressRequired
	}
	return Validation{
		Errors: errs,
		Valid:  len(errs) == 0 && o.Payment != PaymentUnset,
	}
}

// ValidateContact requires both email and phone
func ValidateContact(o Order) Validation {
	errs := FormErrors{}
	if o.Email == "" {
		errs[FieldEmail] = MessageEmailRequired
	}
	if o.Phone == "" {
		errs[FieldPhone] = MessagePhoneRequired
	}
	return Validation{
		Errors: errs,
		Valid:  len(errs) == 0,
	}
}
