package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeOrder() Order {
	return Order{
		Payment: PaymentOnline,
		Address: "Main St 1",
		Email:   "user@example.com",
		Phone:   "+71234567890",
		Total:   100,
		Items:   []string{"a"},
	}
}

// ============================================
// Payment Tests
// ============================================

func TestParsePayment(t *testing.T) {
	tests := []struct {
		value    string
		expected Payment
	}{
		{"online", PaymentOnline},
		{"card", PaymentOnline},
		{"cash", PaymentCash},
		{"", PaymentUnset},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			p, err := ParsePayment(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestParsePayment_Unknown(t *testing.T) {
	_, err := ParsePayment("crypto")
	assert.ErrorIs(t, err, ErrUnknownPayment)
}

func TestField_Forms(t *testing.T) {
	for _, f := range DeliveryFields {
		assert.True(t, f.IsDelivery(), f)
		assert.False(t, f.IsContact(), f)
	}
	for _, f := range ContactFields {
		assert.True(t, f.IsContact(), f)
		assert.False(t, f.IsDelivery(), f)
	}
	assert.False(t, Field("total").IsDelivery())
	assert.False(t, Field("total").IsContact())
}

// ============================================
// Order Tests
// ============================================

func TestNew_Defaults(t *testing.T) {
	o := New()

	assert.Equal(t, PaymentOnline, o.Payment)
	assert.Empty(t, o.Address)
	assert.Empty(t, o.Email)
	assert.Empty(t, o.Phone)
	assert.Zero(t, o.Total)
	assert.NotNil(t, o.Items)
	assert.Empty(t, o.Items)
}

func TestOrder_Clone(t *testing.T) {
	o := completeOrder()
	c := o.Clone()
	c.Items[0] = "changed"

	assert.Equal(t, "a", o.Items[0])
}

func TestOrder_Finalize(t *testing.T) {
	require.NoError(t, completeOrder().Finalize())

	tests := []struct {
		name   string
		mutate func(*Order)
	}{
		{"no payment", func(o *Order) { o.Payment = PaymentUnset }},
		{"no address", func(o *Order) { o.Address = "" }},
		{"no email", func(o *Order) { o.Email = "" }},
		{"no phone", func(o *Order) { o.Phone = "" }},
		{"no items", func(o *Order) { o.Items = nil }},
		{"zero total", func(o *Order) { o.Total = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := completeOrder()
			tt.mutate(&o)
			assert.ErrorIs(t, o.Finalize(), ErrInvalidOrder)
		})
	}
}

func TestResult_ChargedTotal(t *testing.T) {
	total := 250
	assert.Equal(t, 250, Result{ID: "x", Total: &total}.ChargedTotal(100))
	assert.Equal(t, 100, Result{ID: "x"}.ChargedTotal(100))
}

// ============================================
// Validation Tests
// ============================================

func TestValidateDelivery(t *testing.T) {
	tests := []struct {
		name          string
		payment       Payment
		address       string
		expectedValid bool
		expectedErrs  FormErrors
	}{
		{"complete", PaymentOnline, "Main St 1", true, FormErrors{}},
		{"cash complete", PaymentCash, "Main St 1", true, FormErrors{}},
		{"empty address", PaymentOnline, "", false, FormErrors{FieldAddress: MessageAddressRequired}},
		{"no payment has no message", PaymentUnset, "Main St 1", false, FormErrors{}},
		{"nothing", PaymentUnset, "", false, FormErrors{FieldAddress: MessageAddressRequired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateDelivery(Order{Payment: tt.payment, Address: tt.address})
			assert.Equal(t, tt.expectedValid, v.Valid)
			assert.Equal(t, tt.expectedErrs, v.Errors)
		})
	}
}

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		phone         string
		expectedValid bool
		expectedErrs  FormErrors
	}{
		{"complete", "a@b.c", "123", true, FormErrors{}},
		{"no email", "", "123", false, FormErrors{FieldEmail: MessageEmailRequired}},
		{"no phone", "a@b.c", "", false, FormErrors{FieldPhone: MessagePhoneRequired}},
		{"nothing", "", "", false, FormErrors{FieldEmail: MessageEmailRequired, FieldPhone: MessagePhoneRequired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateContact(Order{Email: tt.email, Phone: tt.phone})
			assert.Equal(t, tt.expectedValid, v.Valid)
			assert.Equal(t, tt.expectedErrs, v.Errors)
		})
	}
}

func TestValidation_NeverCrossesForms(t *testing.T) {
	empty := Order{}

	for f := range ValidateDelivery(empty).Errors {
		assert.True(t, f.IsDelivery(), f)
	}
	for f := range ValidateContact(empty).Errors {
		assert.True(t, f.IsContact(), f)
	}
}

func TestFormErrors_OnlyAndJoin(t *testing.T) {
	errs := FormErrors{
		FieldAddress: MessageAddressRequired,
		FieldEmail:   MessageEmailRequired,
		FieldPhone:   MessagePhoneRequired,
	}

	assert.Equal(t, FormErrors{FieldAddress: MessageAddressRequired}, errs.Only(DeliveryFields...))
	assert.Equal(t, MessageAddressRequired, errs.Join(DeliveryFields...))
	assert.Equal(t, MessageEmailRequired+"; "+MessagePhoneRequired, errs.Join(ContactFields...))
	assert.Empty(t, FormErrors{}.Join(ContactFields...))
}

func TestFormErrors_Clone(t *testing.T) {
	errs := FormErrors{FieldEmail: MessageEmailRequired}
	c := errs.Clone()
	delete(c, FieldEmail)

	assert.Len(t, errs, 1)
}
