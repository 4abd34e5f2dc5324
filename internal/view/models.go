package view

import (
	"fmt"

	"github.com/example/weblarek/internal/domain/order"
	"github.com/example/weblarek/internal/domain/product"
)

type ActionKind string

const (
	ActionCardSelect     ActionKind = "card-select"
	ActionProductToggle  ActionKind = "product-toggle"
	ActionBasketOpen     ActionKind = "basket-open"
	ActionBasketRemove   ActionKind = "basket-remove"
	ActionOrderOpen      ActionKind = "order-open"
	ActionPaymentSelect  ActionKind = "payment-select"
	ActionDeliveryField  ActionKind = "delivery-field"
	ActionDeliverySubmit ActionKind = "delivery-submit"
	ActionContactField   ActionKind = "contact-field"
	ActionContactSubmit  ActionKind = "contact-submit"
	ActionModalClose     ActionKind = "modal-close"
)

// Action describes what a widget does when the user activates it
type Action struct {
	Kind      ActionKind `json:"action"`
	ProductID string     `json:"product_id,omitempty"`
	Field     string     `json:"field,omitempty"`
	Value     string     `json:"value,omitempty"`
}

type Button struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Action   Action `json:"action"`
}

// CardView is a product card in the gallery, the basket list or the detail view
type CardView struct {
	ID            string `json:"id"`
	Index         int    `json:"index,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	CategoryClass string `json:"category_class,omitempty"`
	Image         string `json:"image,omitempty"`
	Price         string `json:"price"`
	Action        Action `json:"action"`
}

type PageView struct {
	Counter int        `json:"counter"`
	Catalog []CardView `json:"catalog"`
	Locked  bool       `json:"locked"`
}

type PreviewView struct {
	Card   CardView `json:"card"`
	Button Button   `json:"button"`
}

type BasketView struct {
	Items    []CardView `json:"items"`
	Total    string     `json:"total"`
	Checkout Button     `json:"checkout"`
}

type PaymentOption struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
	Action Action `json:"action"`
}

type DeliveryFormView struct {
	Payments []PaymentOption `json:"payments"`
	Address  string          `json:"address"`
	Valid    bool            `json:"valid"`
	Errors   string          `json:"errors"`
}

type ContactFormView struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Valid      bool   `json:"valid"`
	Submitting bool   `json:"submitting"`
	Errors     string `json:"errors"`
}

// SubmitDisabled reports whether the pay button must be disabled
func (c ContactFormView) SubmitDisabled() bool {
	return !c.Valid || c.Submitting
}

type SuccessView struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Close       Button `json:"close"`
}

// ModalContent is one of PreviewView, BasketView, DeliveryFormView, ContactFormView or SuccessView
type ModalContent interface {
	modalContent()
}

func (PreviewView) modalContent()      {}
func (BasketView) modalContent()       {}
func (DeliveryFormView) modalContent() {}
func (ContactFormView) modalContent()  {}
func (SuccessView) modalContent()      {}

type ModalView struct {
	Open    bool         `json:"open"`
	Content ModalContent `json:"content,omitempty"`
}

// Screen is everything visible at one moment
type Screen struct {
	Page  PageView  `json:"page"`
	Modal ModalView `json:"modal"`
	Stage Stage     `json:"stage"`
}

// ============================================
// Labels
// ============================================

const (
	LabelBuy           = "Купить"
	LabelRemove        = "Удалить из корзины"
	LabelNotForSale    = "Не продается"
	LabelPriceless     = "Бесценно"
	LabelCheckout      = "Оформить"
	LabelNext          = "Далее"
	LabelPay           = "Оплатить"
	LabelPaying        = "Оплата…"
	LabelPaymentOnline = "Онлайн"
	LabelPaymentCash   = "При получении"
	LabelSuccessTitle  = "Заказ оформлен"
	LabelSuccessClose  = "За новыми покупками!"
	LabelSubmitFailed  = "Не удалось оформить заказ"
	LabelEmptyBasket   = "Корзина пуста"
)

// FormatPrice renders an amount of the storefront currency
func FormatPrice(amount int) string {
	return fmt.Sprintf("%d синапсов", amount)
}

func priceLabel(p product.Product) string {
	if !p.ForSale() {
		return LabelPriceless
	}
	return FormatPrice(p.Amount())
}

func catalogCard(p product.Product) CardView {
	return CardView{
		ID:            p.ID,
		Title:         p.Title,
		Category:      p.Category.Title(),
		CategoryClass: p.Category.ClassName(),
		Image:         p.Image,
		Price:         priceLabel(p),
		Action:        Action{Kind: ActionCardSelect, ProductID: p.ID},
	}
}

func basketCard(p product.Product, position int) CardView {
	return CardView{
		ID:     p.ID,
		Index:  position,
		Title:  p.Title,
		Price:  priceLabel(p),
		Action: Action{Kind: ActionBasketRemove, ProductID: p.ID},
	}
}

func previewView(p product.Product, inBasket bool) PreviewView {
	card := catalogCard(p)
	card.Description = p.Description
	card.Action = Action{}

	button := Button{
		Label:  LabelBuy,
		Action: Action{Kind: ActionProductToggle, ProductID: p.ID},
	}
	switch {
	case inBasket:
		button.Label = LabelRemove
	case !p.ForSale():
		button.Label = LabelNotForSale
		button.Disabled = true
	}
	return PreviewView{Card: card, Button: button}
}

func basketView(items []product.Product) BasketView {
	cards := make([]CardView, 0, len(items))
	total := 0
	for i, p := range items {
		cards = append(cards, basketCard(p, i+1))
		total += p.Amount()
	}
	return BasketView{
		Items: cards,
		Total: FormatPrice(total),
		Checkout: Button{
			Label:    LabelCheckout,
			Disabled: total == 0,
			Action:   Action{Kind: ActionOrderOpen},
		},
	}
}

func paymentOptions(current order.Payment) []PaymentOption {
	return []PaymentOption{
		{
			Name:   "card",
			Label:  LabelPaymentOnline,
			Active: current == order.PaymentOnline,
			Action: Action{Kind: ActionPaymentSelect, Value: "card"},
		},
		{
			Name:   "cash",
			Label:  LabelPaymentCash,
			Active: current == order.PaymentCash,
			Action: Action{Kind: ActionPaymentSelect, Value: "cash"},
		},
	}
}

func successView(total int) SuccessView {
	return SuccessView{
		Title:       LabelSuccessTitle,
		Description: fmt.Sprintf("Списано %s", FormatPrice(total)),
		Close:       Button{Label: LabelSuccessClose, Action: Action{Kind: ActionModalClose}},
	}
}
