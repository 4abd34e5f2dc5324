package appstate

import (
	"testing"

	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/eventbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	events []eventbus.Event
}

func (r *recordingBus) Publish(e eventbus.Event) {
	r.events = append(r.events, e)
}

func (r *recordingBus) kinds() []eventbus.Kind {
	kinds := make([]eventbus.Kind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind())
	}
	return kinds
}

func (r *recordingBus) reset() {
	r.events = nil
}

func newTestStore() (*Store, *recordingBus) {
	bus := &recordingBus{}
	return New(bus), bus
}

var (
	productA = product.Product{ID: "a", Title: "A", Category: product.CategorySoftSkill, Price: product.PriceOf(100)}
	productB = product.Product{ID: "b", Title: "B", Category: product.CategoryOther}
	productC = product.Product{ID: "c", Title: "C", Category: product.CategoryButton, Price: product.PriceOf(250)}
)

// ============================================
// Catalog Tests
// ============================================

func TestStore_SetCatalog(t *testing.T) {
	s, bus := newTestStore()

	require.NoError(t, s.SetCatalog([]product.Product{productA, productB}))

	require.Len(t, bus.events, 1)
	changed := bus.events[0].(CatalogChanged)
	assert.Equal(t, []product.Product{productA, productB}, changed.Catalog)
	assert.Equal(t, []product.Product{productA, productB}, s.Catalog())
}

func TestStore_SetCatalog_ReplacesWholesale(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.SetCatalog([]product.Product{productA, productB}))

	require.NoError(t, s.SetCatalog([]product.Product{productC}))

	assert.Equal(t, []product.Product{productC}, s.Catalog())
	_, ok := s.Product("a")
	assert.False(t, ok)
}

func TestStore_SetCatalog_RejectsMissingID(t *testing.T) {
	s, bus := newTestStore()

	err := s.SetCatalog([]product.Product{{Title: "no id"}})

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, bus.events)
}

func TestStore_CatalogIsCopied(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.SetCatalog([]product.Product{productA}))

	catalog := s.Catalog()
	catalog[0].Title = "mutated"

	p, ok := s.Product("a")
	require.True(t, ok)
	assert.Equal(t, "A", p.Title)
}

func TestStore_SetPreview(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.SetCatalog([]product.Product{productA}))
	bus.reset()

	require.NoError(t, s.SetPreview("a"))

	require.Len(t, bus.events, 1)
	assert.Equal(t, PreviewChanged{Product: productA}, bus.events[0])
	preview, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, "a", preview.ID)
}

func TestStore_SetPreview_Unknown(t *testing.T) {
	s, bus := newTestStore()

	err := s.SetPreview("missing")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, bus.events)
	_, ok := s.Preview()
	assert.False(t, ok)
}

// ============================================
// Basket Tests
// ============================================

func TestStore_AddToBasket(t *testing.T) {
	s, bus := newTestStore()

	require.NoError(t, s.AddToBasket(productA))

	assert.Equal(t, []eventbus.Kind{EventBasketChanged, EventCounterChanged}, bus.kinds())
	assert.Equal(t, BasketChanged{Items: []product.Product{productA}}, bus.events[0])
	assert.Equal(t, CounterChanged{Count: 1}, bus.events[1])
	assert.Equal(t, 100, s.Total())
}

func TestStore_AddToBasket_Idempotent(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	once := s.Basket()
	bus.reset()

	require.NoError(t, s.AddToBasket(productA))

	assert.Equal(t, once, s.Basket())
	assert.Empty(t, bus.events)
}

func TestStore_AddToBasket_DedupesByID(t *testing.T) {
	s, _ := newTestStore()
	refetched := productA
	refetched.Description = "separately fetched copy"

	require.NoError(t, s.AddToBasket(productA))
	require.NoError(t, s.AddToBasket(refetched))

	assert.Equal(t, 1, s.BasketLen())
}

func TestStore_AddToBasket_NotForSale(t *testing.T) {
	s, bus := newTestStore()

	err := s.AddToBasket(productB)

	assert.ErrorIs(t, err, ErrNotForSale)
	assert.Zero(t, s.BasketLen())
	assert.Empty(t, bus.events)
}

func TestStore_AddToBasket_MissingID(t *testing.T) {
	s, _ := newTestStore()

	err := s.AddToBasket(product.Product{Price: product.PriceOf(1)})

	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStore_AddToBasket_KeepsInsertionOrder(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.AddToBasket(productC))
	require.NoError(t, s.AddToBasket(productA))

	basket := s.Basket()
	require.Len(t, basket, 2)
	assert.Equal(t, "c", basket[0].ID)
	assert.Equal(t, "a", basket[1].ID)
}

func TestStore_RemoveFromBasket(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	require.NoError(t, s.AddToBasket(productC))
	bus.reset()

	require.NoError(t, s.RemoveFromBasket("a"))

	assert.Equal(t, []eventbus.Kind{EventBasketChanged, EventCounterChanged}, bus.kinds())
	assert.Equal(t, BasketChanged{Items: []product.Product{productC}}, bus.events[0])
	assert.Equal(t, CounterChanged{Count: 1}, bus.events[1])
	assert.Equal(t, 250, s.Total())
}

func TestStore_RemoveFromBasket_Absent(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	bus.reset()

	require.NoError(t, s.RemoveFromBasket("c"))

	assert.Equal(t, 1, s.BasketLen())
	assert.Empty(t, bus.events)
}

func TestStore_RemoveFromBasket_EmptyID(t *testing.T) {
	s, _ := newTestStore()
	assert.ErrorIs(t, s.RemoveFromBasket(""), ErrInvalidArgument)
}

func TestStore_ToggleBasketMembership_Inverse(t *testing.T) {
	tests := []struct {
		name      string
		preloaded bool
	}{
		{"starting outside the basket", false},
		{"starting inside the basket", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore()
			if tt.preloaded {
				require.NoError(t, s.AddToBasket(productA))
			}

			first, err := s.ToggleBasketMembership(productA)
			require.NoError(t, err)
			assert.Equal(t, !tt.preloaded, first)

			second, err := s.ToggleBasketMembership(productA)
			require.NoError(t, err)
			assert.Equal(t, tt.preloaded, second)
			assert.Equal(t, tt.preloaded, s.InBasket("a"))
		})
	}
}

func TestStore_ToggleBasketMembership_UsesCurrentMembership(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	require.NoError(t, s.RemoveFromBasket("a"))

	in, err := s.ToggleBasketMembership(productA)

	require.NoError(t, err)
	assert.True(t, in)
}

func TestStore_ToggleBasketMembership_NotForSale(t *testing.T) {
	s, _ := newTestStore()

	in, err := s.ToggleBasketMembership(productB)

	assert.ErrorIs(t, err, ErrNotForSale)
	assert.False(t, in)
}

func TestStore_ClearBasket(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	bus.reset()

	s.ClearBasket()

	assert.Zero(t, s.BasketLen())
	assert.Equal(t, []eventbus.Kind{EventBasketChanged, EventCounterChanged}, bus.kinds())
	assert.Equal(t, CounterChanged{Count: 0}, bus.events[1])
}

func TestStore_TotalMatchesSum(t *testing.T) {
	s, _ := newTestStore()
	for _, p := range []product.Product{productA, productB, productC} {
		_ = s.AddToBasket(p)
	}

	sum := 0
	for _, p := range s.Basket() {
		require.True(t, p.ForSale(), "basket must never hold a product without price")
		sum += *p.Price
	}
	assert.Equal(t, sum, s.Total())
	assert.Equal(t, 350, s.Total())
}

func TestStore_BasketEventNotSeenByLateSubscriber(t *testing.T) {
	bus := eventbus.New()
	s := New(bus)
	require.NoError(t, s.AddToBasket(productA))

	var seen []eventbus.Kind
	bus.SubscribeAll(func(env eventbus.Envelope) { seen = append(seen, env.Kind) })

	assert.Empty(t, seen)
	require.NoError(t, s.AddToBasket(productC))
	assert.Equal(t, []eventbus.Kind{EventBasketChanged, EventCounterChanged}, seen)
}

// ============================================
// Order Tests
// ============================================

func TestStore_BeginCheckout(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	require.NoError(t, s.AddToBasket(productC))
	bus.reset()

	s.BeginCheckout()

	o := s.Order()
	assert.Equal(t, []string{"a", "c"}, o.Items)
	assert.Equal(t, 350, o.Total)
	assert.Empty(t, bus.events)
}

func TestStore_BeginCheckout_SnapshotIsIndependent(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	s.BeginCheckout()

	require.NoError(t, s.AddToBasket(productC))

	assert.Equal(t, []string{"a"}, s.Order().Items)
}

func TestStore_SetOrderTotal(t *testing.T) {
	s, _ := newTestStore()
	s.SetOrderTotal(42)
	assert.Equal(t, 42, s.Order().Total)
}

func TestStore_SetDeliveryField_EmptyAddress(t *testing.T) {
	s, bus := newTestStore()

	require.NoError(t, s.SetDeliveryField(order.FieldAddress, ""))

	assert.Equal(t, []eventbus.Kind{EventFormErrorsChanged}, bus.kinds())
	assert.Equal(t, FormErrorsChanged{Errors: order.FormErrors{order.FieldAddress: order.MessageAddressRequired}}, bus.events[0])
	assert.False(t, s.DeliveryValid())
}

func TestStore_SetDeliveryField_Ready(t *testing.T) {
	s, bus := newTestStore()
	require.Equal(t, order.PaymentOnline, s.Order().Payment)

	require.NoError(t, s.SetDeliveryField(order.FieldAddress, "Main St 1"))

	assert.Equal(t, []eventbus.Kind{EventFormErrorsChanged, EventDeliveryReady}, bus.kinds())
	assert.Equal(t, FormErrorsChanged{Errors: order.FormErrors{}}, bus.events[0])
	ready := bus.events[1].(DeliveryReady)
	assert.Equal(t, "Main St 1", ready.Order.Address)
}

func TestStore_SetDeliveryField_PaymentUnsetBlocksWithoutMessage(t *testing.T) {
	s, bus := newTestStore()
	require.NoError(t, s.SetDeliveryField(order.FieldAddress, "Main St 1"))
	bus.reset()

	require.NoError(t, s.SetDeliveryField(order.FieldPayment, ""))

	assert.Equal(t, []eventbus.Kind{EventFormErrorsChanged}, bus.kinds())
	assert.Empty(t, s.FormErrors())
	assert.False(t, s.DeliveryValid())
}

func TestStore_SetDeliveryField_PaymentAlias(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.SetDeliveryField(order.FieldPayment, "cash"))
	assert.Equal(t, order.PaymentCash, s.Order().Payment)

	require.NoError(t, s.SetDeliveryField(order.FieldPayment, "card"))
	assert.Equal(t, order.PaymentOnline, s.Order().Payment)
}

func TestStore_SetDeliveryField_InvalidArguments(t *testing.T) {
	s, bus := newTestStore()

	assert.ErrorIs(t, s.SetDeliveryField(order.FieldEmail, "x"), ErrInvalidArgument)
	assert.ErrorIs(t, s.SetDeliveryField("total", "1"), order.ErrUnknownField)
	assert.ErrorIs(t, s.SetDeliveryField(order.FieldPayment, "barter"), ErrInvalidArgument)
	assert.Empty(t, bus.events)
}

func TestStore_SetContactField(t *testing.T) {
	s, bus := newTestStore()

	require.NoError(t, s.SetContactField(order.FieldEmail, "user@example.com"))
	assert.Equal(t, FormErrorsChanged{Errors: order.FormErrors{order.FieldPhone: order.MessagePhoneRequired}}, bus.events[0])
	bus.reset()

	require.NoError(t, s.SetContactField(order.FieldPhone, "+7123"))

	assert.Equal(t, []eventbus.Kind{EventFormErrorsChanged, EventContactReady}, bus.kinds())
	assert.Equal(t, FormErrorsChanged{Errors: order.FormErrors{}}, bus.events[0])
	assert.True(t, s.ContactValid())
}

func TestStore_SetContactField_InvalidField(t *testing.T) {
	s, _ := newTestStore()
	assert.ErrorIs(t, s.SetContactField(order.FieldAddress, "x"), ErrInvalidArgument)
}

func TestStore_FormErrorsReplacedNotMerged(t *testing.T) {
	s, _ := newTestStore()

	require.NoError(t, s.SetDeliveryField(order.FieldAddress, ""))
	assert.Len(t, s.FormErrors(), 1)

	require.NoError(t, s.SetDeliveryField(order.FieldAddress, "Main St 1"))
	assert.Empty(t, s.FormErrors())
}

func TestStore_FormErrorsDoNotLeakAcrossForms(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.SetDeliveryField(order.FieldAddress, ""))

	require.NoError(t, s.SetContactField(order.FieldEmail, ""))

	errs := s.FormErrors()
	_, hasAddress := errs[order.FieldAddress]
	assert.False(t, hasAddress)
	assert.Contains(t, errs, order.FieldEmail)
	assert.Contains(t, errs, order.FieldPhone)
}

func TestStore_ClearOrder(t *testing.T) {
	s, _ := newTestStore()
	require.NoError(t, s.AddToBasket(productA))
	s.BeginCheckout()
	require.NoError(t, s.SetDeliveryField(order.FieldPayment, "cash"))
	require.NoError(t, s.SetDeliveryField(order.FieldAddress, "Main St 1"))
	require.NoError(t, s.SetContactField(order.FieldEmail, ""))

	s.ClearOrder()

	assert.Equal(t, order.New(), s.Order())
	assert.Empty(t, s.FormErrors())
	assert.Equal(t, 1, s.BasketLen(), "basket survives an order reset")
}
