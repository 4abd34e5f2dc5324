package view

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/weblarek/internal/appstate"
	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
	"github.com/example/weblarek/internal/eventbus"
)

var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrUnknownProduct = errors.New("unknown product")
)

// OrderSubmitter sends a finalized order to the API
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o order.Order) (order.Result, error)
}

// Scheduler runs blocking work off the event loop and runs the returned continuation back on it
type Scheduler interface {
	Go(work func() func())
}

// Sink receives every new screen
type Sink interface {
	Show(Screen)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Screen)

func (f SinkFunc) Show(s Screen) { f(s) }

type PresenterConfig struct {
	Bus           *eventbus.Bus
	Store         *appstate.Store
	Orders        OrderSubmitter
	Scheduler     Scheduler
	Sink          Sink
	SubmitTimeout time.Duration
}

type modalKind int

const (
	modalNone modalKind = iota
	modalPreview
	modalBasket
	modalDelivery
	modalContact
	modalSuccess
)

// Presenter owns the view-models and the fixed table of reactions between
// store events, UI events and store commands.
type Presenter struct {
	bus       *eventbus.Bus
	store     *appstate.Store
	orders    OrderSubmitter
	scheduler Scheduler
	sink      Sink
	timeout   time.Duration

	checkout *Checkout
	page     PageView
	showing  modalKind
	preview  PreviewView
	basket   BasketView
	delivery DeliveryFormView
	contact  ContactFormView
	success  SuccessView

	subs []eventbus.Subscription
}

func NewPresenter(cfg PresenterConfig) *Presenter {
	timeout := cfg.SubmitTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Presenter{
		bus:       cfg.Bus,
		store:     cfg.Store,
		orders:    cfg.Orders,
		scheduler: cfg.Scheduler,
		sink:      cfg.Sink,
		timeout:   timeout,
		checkout:  NewCheckout(),
		page:      PageView{Catalog: []CardView{}},
		basket:    basketView(nil),
	}
}

// Bind subscribes the reaction table
func (p *Presenter) Bind() {
	p.subs = append(p.subs,
		eventbus.On(p.bus, p.onCatalogChanged),
		eventbus.On(p.bus, p.onCardSelected),
		eventbus.On(p.bus, p.onPreviewChanged),
		eventbus.On(p.bus, p.onProductToggled),
		eventbus.On(p.bus, p.onBasketChanged),
		eventbus.On(p.bus, p.onBasketItemRemoved),
		eventbus.On(p.bus, p.onCounterChanged),
		eventbus.On(p.bus, p.onBasketOpened),
		eventbus.On(p.bus, p.onOrderOpened),
		eventbus.On(p.bus, p.onDeliveryEdited),
		eventbus.On(p.bus, p.onContactEdited),
		eventbus.On(p.bus, p.onFormErrorsChanged),
		eventbus.On(p.bus, p.onDeliveryReady),
		eventbus.On(p.bus, p.onContactReady),
		eventbus.On(p.bus, p.onDeliverySubmitted),
		eventbus.On(p.bus, p.onContactSubmitted),
		eventbus.On(p.bus, p.onPaymentSelected),
		eventbus.On(p.bus, p.onModalCloseClicked),
		eventbus.On(p.bus, p.onModalOpened),
		eventbus.On(p.bus, p.onModalClosed),
	)
}

// Unbind removes every subscription made by Bind
func (p *Presenter) Unbind() {
	for _, s := range p.subs {
		p.bus.Unsubscribe(s)
	}
	p.subs = nil
}

// Screen returns the current view-models
func (p *Presenter) Screen() Screen {
	screen := Screen{
		Page: PageView{
			Counter: p.page.Counter,
			Catalog: append([]CardView{}, p.page.Catalog...),
			Locked:  p.page.Locked,
		},
		Stage: p.checkout.Stage(),
	}

	var content ModalContent
	switch p.showing {
	case modalPreview:
		content = p.preview
	case modalBasket:
		content = p.basket
	case modalDelivery:
		content = p.delivery
	case modalContact:
		content = p.contact
	case modalSuccess:
		content = p.success
	}
	if content != nil {
		screen.Modal = ModalView{Open: true, Content: content}
	}
	return screen
}

// Do turns a user gesture into the matching UI event
func (p *Presenter) Do(a Action) error {
	switch a.Kind {
	case ActionCardSelect:
		prod, err := p.lookup(a.ProductID)
		if err != nil {
			return err
		}
		p.bus.Publish(CardSelected{Product: prod})
	case ActionProductToggle:
		prod, err := p.lookup(a.ProductID)
		if err != nil {
			return err
		}
		p.bus.Publish(ProductToggled{Product: prod})
	case ActionBasketRemove:
		if a.ProductID == "" {
			return fmt.Errorf("%w: empty product id", appstate.ErrInvalidArgument)
		}
		p.bus.Publish(BasketItemRemoved{ProductID: a.ProductID})
	case ActionBasketOpen:
		p.bus.Publish(BasketOpened{})
	case ActionOrderOpen:
		p.bus.Publish(OrderOpened{})
	case ActionPaymentSelect:
		payment, err := order.ParsePayment(a.Value)
		if err != nil || payment == order.PaymentUnset {
			return fmt.Errorf("%w: payment %q", appstate.ErrInvalidArgument, a.Value)
		}
		p.bus.Publish(PaymentSelected{Payment: payment})
	case ActionDeliveryField:
		field := order.Field(a.Field)
		if !field.IsDelivery() {
			return fmt.Errorf("%w: %w: %q", appstate.ErrInvalidArgument, order.ErrUnknownField, a.Field)
		}
		p.bus.Publish(DeliveryEdited{Field: field, Value: a.Value})
	case ActionDeliverySubmit:
		p.bus.Publish(DeliverySubmitted{})
	case ActionContactField:
		field := order.Field(a.Field)
		if !field.IsContact() {
			return fmt.Errorf("%w: %w: %q", appstate.ErrInvalidArgument, order.ErrUnknownField, a.Field)
		}
		p.bus.Publish(ContactEdited{Field: field, Value: a.Value})
	case ActionContactSubmit:
		p.bus.Publish(ContactSubmitted{})
	case ActionModalClose:
		p.bus.Publish(ModalCloseClicked{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
	}
	return nil
}

func (p *Presenter) lookup(id string) (product.Product, error) {
	prod, ok := p.store.Product(id)
	if !ok {
		return product.Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return prod, nil
}

// ============================================
// Catalog and preview
// ============================================

func (p *Presenter) onCatalogChanged(e appstate.CatalogChanged) {
	cards := make([]CardView, 0, len(e.Catalog))
	for _, prod := range e.Catalog {
		cards = append(cards, catalogCard(prod))
	}
	p.page.Catalog = cards
	p.show()
}

func (p *Presenter) onCardSelected(e CardSelected) {
	if err := p.store.SetPreview(e.Product.ID); err != nil {
		log.Printf("[View] Cannot preview product %s: %v", e.Product.ID, err)
	}
}

func (p *Presenter) onPreviewChanged(e appstate.PreviewChanged) {
	p.preview = previewView(e.Product, p.store.InBasket(e.Product.ID))
	p.openModal(modalPreview)
}

func (p *Presenter) onProductToggled(e ProductToggled) {
	if _, err := p.store.ToggleBasketMembership(e.Product); err != nil {
		log.Printf("[View] Cannot toggle product %s: %v", e.Product.ID, err)
	}
	if p.showing == modalPreview && p.preview.Card.ID == e.Product.ID {
		p.preview = previewView(e.Product, p.store.InBasket(e.Product.ID))
		p.show()
	}
}

// ============================================
// Basket
// ============================================

func (p *Presenter) onBasketChanged(e appstate.BasketChanged) {
	p.basket = basketView(e.Items)
	total := 0
	for _, item := range e.Items {
		total += item.Amount()
	}
	p.store.SetOrderTotal(total)
	p.show()
}

func (p *Presenter) onBasketItemRemoved(e BasketItemRemoved) {
	if err := p.store.RemoveFromBasket(e.ProductID); err != nil {
		log.Printf("[View] Cannot remove product %s: %v", e.ProductID, err)
	}
}

func (p *Presenter) onCounterChanged(appstate.CounterChanged) {
	p.page.Counter = p.store.BasketLen()
	p.show()
}

func (p *Presenter) onBasketOpened(BasketOpened) {
	p.openModal(modalBasket)
}

// ============================================
// Checkout
// ============================================

func (p *Presenter) onOrderOpened(OrderOpened) {
	if p.store.Total() == 0 {
		log.Printf("[View] Checkout ignored: basket total is zero")
		return
	}
	if p.checkout.Stage() != StageClosed {
		log.Printf("[View] Checkout ignored: already in stage %s", p.checkout.Stage())
		return
	}

	p.store.BeginCheckout()
	o := p.store.Order()
	valid := p.store.DeliveryValid()
	p.transition(deliveryStage(valid))
	p.delivery = DeliveryFormView{
		Payments: paymentOptions(o.Payment),
		Address:  o.Address,
		Valid:    valid,
	}
	p.openModal(modalDelivery)
}

func (p *Presenter) onDeliveryEdited(e DeliveryEdited) {
	if err := p.store.SetDeliveryField(e.Field, e.Value); err != nil {
		log.Printf("[View] Cannot set delivery field %s: %v", e.Field, err)
		return
	}
	p.delivery.Address = p.store.Order().Address
	p.show()
}

func (p *Presenter) onContactEdited(e ContactEdited) {
	if err := p.store.SetContactField(e.Field, e.Value); err != nil {
		log.Printf("[View] Cannot set contact field %s: %v", e.Field, err)
		return
	}
	o := p.store.Order()
	p.contact.Email = o.Email
	p.contact.Phone = o.Phone
	p.show()
}

func (p *Presenter) onPaymentSelected(e PaymentSelected) {
	if p.store.Order().Payment == e.Payment {
		return
	}
	if err := p.store.SetDeliveryField(order.FieldPayment, string(e.Payment)); err != nil {
		log.Printf("[View] Cannot set payment %s: %v", e.Payment, err)
		return
	}
	p.delivery.Payments = paymentOptions(p.store.Order().Payment)
	p.show()
}

// onFormErrorsChanged recomputes both forms from the keys each of them owns
func (p *Presenter) onFormErrorsChanged(e appstate.FormErrorsChanged) {
	deliveryErrs := e.Errors.Only(order.DeliveryFields...)
	p.delivery.Errors = deliveryErrs.Join(order.DeliveryFields...)
	p.delivery.Valid = len(deliveryErrs) == 0 && p.store.DeliveryValid()

	contactErrs := e.Errors.Only(order.ContactFields...)
	p.contact.Errors = contactErrs.Join(order.ContactFields...)
	p.contact.Valid = len(contactErrs) == 0 && p.store.ContactValid()

	switch stage := p.checkout.Stage(); {
	case stage.InDelivery():
		p.transition(deliveryStage(p.delivery.Valid))
	case stage == StageContactEditing || stage == StageContactValid:
		p.transition(contactStage(p.contact.Valid))
	}
	p.show()
}

func (p *Presenter) onDeliveryReady(appstate.DeliveryReady) {
	p.delivery.Valid = true
	if p.checkout.Stage().InDelivery() {
		p.transition(StageDeliveryValid)
	}
	p.show()
}

func (p *Presenter) onContactReady(appstate.ContactReady) {
	p.contact.Valid = true
	if stage := p.checkout.Stage(); stage == StageContactEditing || stage == StageContactValid {
		p.transition(StageContactValid)
	}
	p.show()
}

func (p *Presenter) onDeliverySubmitted(DeliverySubmitted) {
	if p.checkout.Stage() != StageDeliveryValid {
		log.Printf("[View] Delivery submit ignored in stage %s", p.checkout.Stage())
		return
	}

	o := p.store.Order()
	valid := p.store.ContactValid()
	p.transition(contactStage(valid))
	p.contact = ContactFormView{
		Email: o.Email,
		Phone: o.Phone,
		Valid: valid,
	}
	p.openModal(modalContact)
}

func (p *Presenter) onContactSubmitted(ContactSubmitted) {
	if p.checkout.Stage() != StageContactValid {
		log.Printf("[View] Contact submit ignored in stage %s", p.checkout.Stage())
		return
	}

	p.transition(StageSubmitting)
	p.contact.Submitting = true
	p.contact.Errors = ""
	p.show()

	submitted := p.store.Order()
	p.scheduler.Go(func() func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		result, err := p.orders.SubmitOrder(ctx, submitted)
		return func() { p.onOrderSettled(submitted, result, err) }
	})
}

// onOrderSettled runs on the loop when the submission finishes
func (p *Presenter) onOrderSettled(submitted order.Order, result order.Result, err error) {
	p.contact.Submitting = false

	if err != nil {
		log.Printf("[View] Order submission failed: %v", err)
		p.transition(StageContactValid)
		p.contact.Errors = fmt.Sprintf("%s: %v", LabelSubmitFailed, err)
		p.show()
		p.bus.Publish(OrderRejected{Reason: err.Error()})
		return
	}

	charged := result.ChargedTotal(submitted.Total)
	log.Printf("[View] Order %s placed, total %d", result.ID, charged)

	p.store.ClearBasket()
	p.store.ClearOrder()
	p.transition(StageConfirmed)
	p.delivery = DeliveryFormView{}
	p.contact = ContactFormView{}
	p.success = successView(charged)
	p.openModal(modalSuccess)
	p.bus.Publish(OrderPlaced{OrderID: result.ID, Total: charged})
}

// ============================================
// Modal
// ============================================

func (p *Presenter) onModalCloseClicked(ModalCloseClicked) {
	if p.showing == modalNone {
		return
	}
	if p.checkout.Stage() == StageSubmitting {
		log.Printf("[View] Modal stays open while the order is being submitted")
		return
	}

	p.showing = modalNone
	p.transition(StageClosed)
	p.show()
	p.bus.Publish(ModalClosed{})
}

func (p *Presenter) onModalOpened(ModalOpened) {
	p.page.Locked = true
	p.show()
}

func (p *Presenter) onModalClosed(ModalClosed) {
	p.page.Locked = false
	p.show()
}

// openModal replaces the modal content, announcing the modal only when it was closed.
// The contact form stays up while the order is being submitted.
func (p *Presenter) openModal(kind modalKind) {
	if p.checkout.Stage() == StageSubmitting && !isCheckoutModal(kind) {
		log.Printf("[View] Modal switch ignored while the order is being submitted")
		return
	}
	wasOpen := p.showing != modalNone
	if !wasOpen && p.checkout.Stage() != StageClosed && !isCheckoutModal(kind) {
		p.transition(StageClosed)
	}
	if wasOpen && isCheckoutModal(p.showing) && !isCheckoutModal(kind) {
		p.transition(StageClosed)
	}

	p.showing = kind
	p.show()
	if !wasOpen {
		p.bus.Publish(ModalOpened{})
	}
}

func isCheckoutModal(kind modalKind) bool {
	return kind == modalDelivery || kind == modalContact || kind == modalSuccess
}

func (p *Presenter) transition(target Stage) {
	if err := p.checkout.Transition(target); err != nil {
		log.Printf("[View] %v", err)
	}
}

func (p *Presenter) show() {
	if p.sink != nil {
		p.sink.Show(p.Screen())
	}
}

func deliveryStage(valid bool) Stage {
	if valid {
		return StageDeliveryValid
	}
	return StageDeliveryEditing
}

func contactStage(valid bool) Stage {
	if valid {
		return StageContactValid
	}
	return StageContactEditing
}
