package appstate

import (
	"errors"
	"fmt"
	"log"

	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/eventbus"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotForSale      = errors.New("product is not for sale")
)

// Publisher is the part of the event bus the store needs
type Publisher interface {
	Publish(eventbus.Event)
}

// Store owns the catalog, basket, order-in-progress, preview and form errors.
// State changes only through its commands; every read returns a copy.
// It is not safe for concurrent use: all calls come from the event loop.
type Store struct {
	bus        Publisher
	catalog    []product.Product
	basket     []product.Product
	order      order.Order
	preview    string
	formErrors order.FormErrors
}

func New(bus Publisher) *Store {
	return &Store{
		bus:        bus,
		catalog:    []product.Product{},
		basket:     []product.Product{},
		order:      order.New(),
		formErrors: order.FormErrors{},
	}
}

// ============================================
// Queries
// ============================================

func (s *Store) Catalog() []product.Product {
	return append([]product.Product{}, s.catalog...)
}

// Product looks a product up in the catalog by id
func (s *Store) Product(id string) (product.Product, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return product.Product{}, false
}

func (s *Store) Basket() []product.Product {
	return append([]product.Product{}, s.basket...)
}

func (s *Store) BasketLen() int {
	return len(s.basket)
}

// InBasket reports membership by id
func (s *Store) InBasket(id string) bool {
	return s.basketIndex(id) >= 0
}

// Total is the sum of the prices of the basket items
func (s *Store) Total() int {
	total := 0
	for _, p := range s.basket {
		total += p.Amount()
	}
	return total
}

// Preview returns the product currently shown in the detail view
func (s *Store) Preview() (product.Product, bool) {
	if s.preview == "" {
		return product.Product{}, false
	}
	return s.Product(s.preview)
}

func (s *Store) Order() order.Order {
	return s.order.Clone()
}

func (s *Store) FormErrors() order.FormErrors {
	return s.formErrors.Clone()
}

// ============================================
// Catalog commands
// ============================================

// SetCatalog replaces the catalog wholesale
func (s *Store) SetCatalog(products []product.Product) error {
	for _, p := range products {
		if p.ID == "" {
			return fmt.Errorf("%w: catalog item without id", ErrInvalidArgument)
		}
	}
	s.catalog = append([]product.Product{}, products...)
	s.bus.Publish(CatalogChanged{Catalog: s.Catalog()})
	return nil
}

// SetPreview selects the product shown in the detail view
func (s *Store) SetPreview(id string) error {
	p, ok := s.Product(id)
	if !ok {
		return fmt.Errorf("%w: unknown product %q", ErrInvalidArgument, id)
	}
	s.preview = id
	s.bus.Publish(PreviewChanged{Product: p})
	return nil
}

// ============================================
// Basket commands
// ============================================

// AddToBasket appends the product unless one with the same id is already there
func (s *Store) AddToBasket(p product.Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: product without id", ErrInvalidArgument)
	}
	if !p.ForSale() {
		return fmt.Errorf("%w: %s", ErrNotForSale, p.ID)
	}
	if s.InBasket(p.ID) {
		return nil
	}
	s.basket = append(s.basket, p)
	s.basketChanged()
	return nil
}

// RemoveFromBasket removes the product with the given id; absent ids are a no-op
func (s *Store) RemoveFromBasket(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty product id", ErrInvalidArgument)
	}
	i := s.basketIndex(id)
	if i < 0 {
		return nil
	}
	s.basket = append(s.basket[:i:i], s.basket[i+1:]...)
	s.basketChanged()
	return nil
}

// ToggleBasketMembership removes the product if present, adds it otherwise.
// It returns the membership after the toggle.
func (s *Store) ToggleBasketMembership(p product.Product) (bool, error) {
	if p.ID == "" {
		return false, fmt.Errorf("%w: product without id", ErrInvalidArgument)
	}
	if s.InBasket(p.ID) {
		return false, s.RemoveFromBasket(p.ID)
	}
	if err := s.AddToBasket(p); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ClearBasket() {
	s.basket = []product.Product{}
	s.basketChanged()
}

func (s *Store) basketIndex(id string) int {
	for i, p := range s.basket {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// basketChanged publishes the basket before the derived counter
func (s *Store) basketChanged() {
	s.bus.Publish(BasketChanged{Items: s.Basket()})
	s.bus.Publish(CounterChanged{Count: len(s.basket)})
}

// ============================================
// Order commands
// ============================================

// BeginCheckout snapshots the basket into the order-in-progress
func (s *Store) BeginCheckout() {
	items := make([]string, 0, len(s.basket))
	for _, p := range s.basket {
		items = append(items, p.ID)
	}
	s.order.Items = items
	s.order.Total = s.Total()
}

// SetOrderTotal mirrors the basket total into the order-in-progress
func (s *Store) SetOrderTotal(total int) {
	s.order.Total = total
}

// SetDeliveryField updates payment or address and revalidates the delivery form
func (s *Store) SetDeliveryField(field order.Field, value string) error {
	switch field {
	case order.FieldPayment:
		payment, err := order.ParsePayment(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		s.order.Payment = payment
	case order.FieldAddress:
		s.order.Address = value
	default:
		return fmt.Errorf("%w: %w: %q is not a delivery field", ErrInvalidArgument, order.ErrUnknownField, field)
	}

	result := order.ValidateDelivery(s.order)
	s.setFormErrors(result.Errors)
	if result.Valid {
		s.bus.Publish(DeliveryReady{Order: s.Order()})
	}
	return nil
}

// SetContactField updates email or phone and revalidates the contact form
func (s *Store) SetContactField(field order.Field, value string) error {
	switch field {
	case order.FieldEmail:
		s.order.Email = value
	case order.FieldPhone:
		s.order.Phone = value
	default:
		return fmt.Errorf("%w: %w: %q is not a contact field", ErrInvalidArgument, order.ErrUnknownField, field)
	}

	result := order.ValidateContact(s.order)
	s.setFormErrors(result.Errors)
	if result.Valid {
		s.bus.Publish(ContactReady{Order: s.Order()})
	}
	return nil
}

// DeliveryValid reports whether the delivery form would pass validation now
func (s *Store) DeliveryValid() bool {
	return order.ValidateDelivery(s.order).Valid
}

// ContactValid reports whether the contact form would pass validation now
func (s *Store) ContactValid() bool {
	return order.ValidateContact(s.order).Valid
}

// ClearOrder resets the order-in-progress and the form errors
func (s *Store) ClearOrder() {
	s.order = order.New()
	s.formErrors = order.FormErrors{}
	log.Printf("[Store] Order reset")
}

// setFormErrors replaces the error set wholesale
func (s *Store) setFormErrors(errs order.FormErrors) {
	s.formErrors = errs.Clone()
	s.bus.Publish(FormErrorsChanged{Errors: s.FormErrors()})
}
