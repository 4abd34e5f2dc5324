// Package render turns view-models into HTML, one function per widget.
//
// Widgets carry their action as JSON in a data-ui attribute. The attribute
// name must not look like action or src, which html/template treats as URLs.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/example/weblarek/internal/view"
)

// Assigned in init: modalHTML renders widgets through templates.
var templates *template.Template

func init() {
	templates = template.Must(template.New("weblarek").Funcs(template.FuncMap{
		"action": actionJSON,
		"modal":  modalHTML,
	}).Parse(layout))
}

// Card renders a gallery card, or a basket row when the card has an index
func Card(w io.Writer, c view.CardView) error {
	if c.Index > 0 {
		return templates.ExecuteTemplate(w, "basket-item", c)
	}
	return templates.ExecuteTemplate(w, "card", c)
}

func Preview(w io.Writer, p view.PreviewView) error {
	return templates.ExecuteTemplate(w, "preview", p)
}

func Basket(w io.Writer, b view.BasketView) error {
	return templates.ExecuteTemplate(w, "basket", b)
}

func Delivery(w io.Writer, d view.DeliveryFormView) error {
	return templates.ExecuteTemplate(w, "delivery", d)
}

func Contact(w io.Writer, c view.ContactFormView) error {
	return templates.ExecuteTemplate(w, "contact", c)
}

func Success(w io.Writer, s view.SuccessView) error {
	return templates.ExecuteTemplate(w, "success", s)
}

func Page(w io.Writer, p view.PageView) error {
	return templates.ExecuteTemplate(w, "page", p)
}

// Modal renders the modal container with whatever content is showing
func Modal(w io.Writer, m view.ModalView) error {
	return templates.ExecuteTemplate(w, "modal", m)
}

// Body renders everything inside <body>, which is what live updates replace
func Body(w io.Writer, s view.Screen) error {
	return templates.ExecuteTemplate(w, "body", s)
}

// Document renders the full page with the client script
func Document(w io.Writer, s view.Screen) error {
	return templates.ExecuteTemplate(w, "document", s)
}

// BodyString is Body into a string, for websocket pushes
func BodyString(s view.Screen) (string, error) {
	var buf bytes.Buffer
	if err := Body(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func actionJSON(a view.Action) (string, error) {
	if a.Kind == "" {
		return "", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func modalHTML(content view.ModalContent) (template.HTML, error) {
	var buf bytes.Buffer
	var err error
	switch c := content.(type) {
	case nil:
		return "", nil
	case view.PreviewView:
		err = Preview(&buf, c)
	case view.BasketView:
		err = Basket(&buf, c)
	case view.DeliveryFormView:
		err = Delivery(&buf, c)
	case view.ContactFormView:
		err = Contact(&buf, c)
	case view.SuccessView:
		err = Success(&buf, c)
	default:
		return "", fmt.Errorf("unsupported modal content %T", content)
	}
	if err != nil {
		return "", err
	}
	// Output comes from our own escaped templates
	return template.HTML(buf.String()), nil
}

const layout = `
{{define "card"}}<button class="gallery__item card" data-ui="{{action .Action}}">
  <span class="card__category {{.CategoryClass}}">{{.Category}}</span>
  <h2 class="card__title">{{.Title}}</h2>
  {{if .Image}}<img class="card__image" src="{{.Image}}" alt="{{.Title}}" />{{end}}
  <span class="card__price">{{.Price}}</span>
</button>{{end}}

{{define "basket-item"}}<li class="basket__item card card_compact">
  <span class="basket__item-index">{{.Index}}</span>
  <span class="card__title">{{.Title}}</span>
  <span class="card__price">{{.Price}}</span>
  <button class="basket__item-delete" aria-label="удалить" data-ui="{{action .Action}}"></button>
</li>{{end}}

{{define "button"}}<button class="button" data-ui="{{action .Action}}"{{if .Disabled}} disabled{{end}}>{{.Label}}</button>{{end}}

{{define "preview"}}<div class="card card_full">
  {{with .Card}}{{if .Image}}<img class="card__image" src="{{.Image}}" alt="{{.Title}}" />{{end}}
  <div class="card__column">
    <span class="card__category {{.CategoryClass}}">{{.Category}}</span>
    <h2 class="card__title">{{.Title}}</h2>
    <p class="card__text">{{.Description}}</p>{{end}}
    <div class="card__row">
      {{template "button" .Button}}
      <span class="card__price">{{.Card.Price}}</span>
    </div>
  </div>
</div>{{end}}

{{define "basket"}}<div class="basket">
  <h2 class="modal__title">Корзина</h2>
  {{if .Items}}<ul class="basket__list">{{range .Items}}{{template "basket-item" .}}{{end}}</ul>
  {{else}}<p class="basket__empty">Корзина пуста</p>{{end}}
  <div class="modal__actions">
    {{template "button" .Checkout}}
    <span class="basket__price">{{.Total}}</span>
  </div>
</div>{{end}}

{{define "delivery"}}<form class="form" name="order" data-submit="{&#34;action&#34;:&#34;delivery-submit&#34;}">
  <div class="order">
    <div class="order__field">
      <h2 class="modal__title">Способ оплаты</h2>
      <div class="order__buttons">{{range .Payments}}
        <button type="button" name="{{.Name}}" class="button button_alt{{if .Active}} button_alt-active{{end}}" data-ui="{{action .Action}}">{{.Label}}</button>{{end}}
      </div>
    </div>
    <label class="order__field">
      <span class="form__label modal__title">Адрес доставки</span>
      <input name="address" class="form__input" type="text" placeholder="Введите адрес" value="{{.Address}}" data-field="delivery-field" />
    </label>
  </div>
  <div class="modal__actions">
    <button type="submit" class="button order__button"{{if not .Valid}} disabled{{end}}>Далее</button>
    <span class="form__errors">{{.Errors}}</span>
  </div>
</form>{{end}}

{{define "contact"}}<form class="form" name="contacts" data-submit="{&#34;action&#34;:&#34;contact-submit&#34;}">
  <div class="order">
    <label class="order__field">
      <span class="form__label modal__title">Email</span>
      <input name="email" class="form__input" type="text" placeholder="Введите Email" value="{{.Email}}" data-field="contact-field" />
    </label>
    <label class="order__field">
      <span class="form__label modal__title">Телефон</span>
      <input name="phone" class="form__input" type="text" placeholder="+7 (" value="{{.Phone}}" data-field="contact-field" />
    </label>
  </div>
  <div class="modal__actions">
    <button type="submit" class="button"{{if .SubmitDisabled}} disabled{{end}}>{{if .Submitting}}Оплата…{{else}}Оплатить{{end}}</button>
    <span class="form__errors">{{.Errors}}</span>
  </div>
</form>{{end}}

{{define "success"}}<div class="order-success">
  <h2 class="film__title">{{.Title}}</h2>
  <p class="film__description">{{.Description}}</p>
  <button class="button order-success__close" data-ui="{{action .Close.Action}}">{{.Close.Label}}</button>
</div>{{end}}

{{define "page"}}<div class="page__wrapper{{if .Locked}} page__wrapper_locked{{end}}">
  <header class="header">
    <div class="header__container">
      <span class="header__logo">WEB-ларёк</span>
      <button class="header__basket" data-ui="{&#34;action&#34;:&#34;basket-open&#34;}">
        <span class="header__basket-counter">{{.Counter}}</span>
      </button>
    </div>
  </header>
  <main class="gallery">{{range .Catalog}}{{template "card" .}}{{end}}</main>
</div>{{end}}

{{define "modal"}}<div class="modal{{if .Open}} modal_active{{end}}" id="modal-container">
  <div class="modal__container">
    <button class="modal__close" aria-label="закрыть" data-ui="{&#34;action&#34;:&#34;modal-close&#34;}"></button>
    <div class="modal__content">{{if .Open}}{{modal .Content}}{{end}}</div>
  </div>
</div>{{end}}

{{define "body"}}{{template "page" .Page}}{{template "modal" .Modal}}{{end}}

{{define "document"}}<!DOCTYPE html>
<html lang="ru">
<head>
  <meta charset="UTF-8" />
  <title>WEB-ларёк</title>
  <link rel="stylesheet" href="https://larek-api.nomoreparties.co/content/weblarek/styles.css" />
</head>
<body data-stage="{{.Stage}}">{{template "body" .}}
<script>` + clientScript + `</script>
</body>
</html>{{end}}
`

const clientScript = `
(function () {
  function send(action) {
    return fetch("/ui/actions", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify(action)
    }).then(function (r) { return r.text(); }).then(replace);
  }
  function replace(html) {
    var active = document.activeElement;
    var name = active && active.name;
    var pos = active && active.selectionStart;
    document.body.querySelector(".page__wrapper").remove();
    document.body.querySelector("#modal-container").remove();
    document.body.insertAdjacentHTML("afterbegin", html);
    if (name) {
      var el = document.body.querySelector("[name='" + name + "']");
      if (el && el.focus) { el.focus(); if (pos != null && el.setSelectionRange) { el.setSelectionRange(pos, pos); } }
    }
  }
  document.addEventListener("click", function (e) {
    var target = e.target.closest("[data-ui]");
    if (!target || !target.dataset.ui || target.disabled) { return; }
    e.preventDefault();
    send(JSON.parse(target.dataset.ui));
  });
  document.addEventListener("input", function (e) {
    var kind = e.target.dataset && e.target.dataset.field;
    if (!kind) { return; }
    send({action: kind, field: e.target.name, value: e.target.value});
  });
  document.addEventListener("submit", function (e) {
    e.preventDefault();
    send(JSON.parse(e.target.dataset.submit));
  });
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
  ws.onmessage = function (msg) { replace(msg.data); };
})();
`
