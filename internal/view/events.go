package view

import (
	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/eventbus"
)

// UI events: published by Presenter.Do when the user acts on a widget
const (
	EventCardSelected      eventbus.Kind = "card:select"
	EventProductToggled    eventbus.Kind = "product:toggle"
	EventBasketItemRemoved eventbus.Kind = "basket:remove"
	EventBasketOpened      eventbus.Kind = "basket:open"
	EventOrderOpened       eventbus.Kind = "order:open"
	EventPaymentSelected   eventbus.Kind = "payment:toggle"
	EventDeliveryEdited    eventbus.Kind = "order:change"
	EventDeliverySubmitted eventbus.Kind = "order:submit"
	EventContactEdited     eventbus.Kind = "contacts:change"
	EventContactSubmitted  eventbus.Kind = "contacts:submit"
	EventModalCloseClicked eventbus.Kind = "modal:dismiss"
)

// Lifecycle events published by the presenter itself
const (
	EventModalOpened   eventbus.Kind = "modal:open"
	EventModalClosed   eventbus.Kind = "modal:close"
	EventOrderPlaced   eventbus.Kind = "order:placed"
	EventOrderRejected eventbus.Kind = "order:rejected"
)

type CardSelected struct {
	Product product.Product `json:"product"`
}

type ProductToggled struct {
	Product product.Product `json:"product"`
}

type BasketItemRemoved struct {
	ProductID string `json:"product_id"`
}

type BasketOpened struct{}

type OrderOpened struct{}

type PaymentSelected struct {
	Payment order.Payment `json:"payment"`
}

type DeliveryEdited struct {
	Field order.Field `json:"field"`
	Value string      `json:"value"`
}

type DeliverySubmitted struct{}

type ContactEdited struct {
	Field order.Field `json:"field"`
	Value string      `json:"value"`
}

type ContactSubmitted struct{}

type ModalCloseClicked struct{}

type ModalOpened struct{}

type ModalClosed struct{}

type OrderPlaced struct {
	OrderID string `json:"order_id"`
	Total   int    `json:"total"`
}

type OrderRejected struct {
	Reason string `json:"reason"`
}

func (CardSelected) Kind() eventbus.Kind      { return EventCardSelected }
func (ProductToggled) Kind() eventbus.Kind    { return EventProductToggled }
func (BasketItemRemoved) Kind() eventbus.Kind { return EventBasketItemRemoved }
func (BasketOpened) Kind() eventbus.Kind      { return EventBasketOpened }
func (OrderOpened) Kind() eventbus.Kind       { return EventOrderOpened }
func (PaymentSelected) Kind() eventbus.Kind   { return EventPaymentSelected }
func (DeliveryEdited) Kind() eventbus.Kind    { return EventDeliveryEdited }
func (DeliverySubmitted) Kind() eventbus.Kind { return EventDeliverySubmitted }
func (ContactEdited) Kind() eventbus.Kind     { return EventContactEdited }
func (ContactSubmitted) Kind() eventbus.Kind  { return EventContactSubmitted }
func (ModalCloseClicked) Kind() eventbus.Kind { return EventModalCloseClicked }
func (ModalOpened) Kind() eventbus.Kind       { return EventModalOpened }
func (ModalClosed) Kind() eventbus.Kind       { return EventModalClosed }
func (OrderPlaced) Kind() eventbus.Kind       { return EventOrderPlaced }
func (OrderRejected) Kind() eventbus.Kind     { return EventOrderRejected }
