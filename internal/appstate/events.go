package appstate

import (
	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/eventbus"
)

const (
	EventCatalogChanged    eventbus.Kind = "catalog:changed"
	EventPreviewChanged    eventbus.Kind = "preview:changed"
	EventBasketChanged     eventbus.Kind = "basket:changed"
	EventCounterChanged    eventbus.Kind = "counter:changed"
	EventFormErrorsChanged eventbus.Kind = "formErrors:changed"
	EventDeliveryReady     eventbus.Kind = "delivery:ready"
	EventContactReady      eventbus.Kind = "contact:ready"
)

type CatalogChanged struct {
	Catalog []product.Product `json:"catalog"`
}

type PreviewChanged struct {
	Product product.Product `json:"product"`
}

type BasketChanged struct {
	Items []product.Product `json:"items"`
}

type CounterChanged struct {
	Count int `json:"count"`
}

type FormErrorsChanged struct {
	Errors order.FormErrors `json:"errors"`
}

type DeliveryReady struct {
	Order order.Order `json:"order"`
}

type ContactReady struct {
	Order order.Order `json:"order"`
}

func (CatalogChanged) Kind() eventbus.Kind    { return EventCatalogChanged }
func (PreviewChanged) Kind() eventbus.Kind    { return EventPreviewChanged }
func (BasketChanged) Kind() eventbus.Kind     { return EventBasketChanged }
func (CounterChanged) Kind() eventbus.Kind    { return EventCounterChanged }
func (FormErrorsChanged) Kind() eventbus.Kind { return EventFormErrorsChanged }
func (DeliveryReady) Kind() eventbus.Kind     { return EventDeliveryReady }
func (ContactReady) Kind() eventbus.Kind      { return EventContactReady }
