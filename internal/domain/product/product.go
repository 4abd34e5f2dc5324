package product

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingID    = errors.New("product id is required")
	ErrMissingTitle = errors.New("product title is required")
	ErrInvalidPrice = errors.New("product price must not be negative")
)

type Category string

const (
	CategorySoftSkill  Category = "soft-skill"
	CategoryHardSkill  Category = "hard-skill"
	CategoryAdditional Category = "additional"
	CategoryButton     Category = "button"
	CategoryOther      Category = "other"
)

// categoryLabels maps the labels the catalog API sends onto categories
var categoryLabels = map[string]Category{
	"софт-скил":      CategorySoftSkill,
	"хард-скил":      CategoryHardSkill,
	"дополнительное": CategoryAdditional,
	"кнопка":         CategoryButton,
	"другое":         CategoryOther,
	"soft-skill":     CategorySoftSkill,
	"hard-skill":     CategoryHardSkill,
	"additional":     CategoryAdditional,
	"button":         CategoryButton,
	"other":          CategoryOther,
}

// ParseCategory maps an API label or slug onto a Category. Unknown labels are "other".
func ParseCategory(label string) Category {
	if c, ok := categoryLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return c
	}
	return CategoryOther
}

// Title returns the label shown on cards
func (c Category) Title() string {
	switch c {
	case CategorySoftSkill:
		return "софт-скил"
	case CategoryHardSkill:
		return "хард-скил"
	case CategoryAdditional:
		return "дополнительное"
	case CategoryButton:
		return "кнопка"
	default:
		return "другое"
	}
}

// ClassName returns the CSS modifier for the category badge
func (c Category) ClassName() string {
	switch c {
	case CategorySoftSkill:
		return "card__category_soft"
	case CategoryHardSkill:
		return "card__category_hard"
	case CategoryAdditional:
		return "card__category_additional"
	case CategoryButton:
		return "card__category_button"
	default:
		return "card__category_other"
	}
}

// Product is immutable once loaded. A nil Price means the product is not for sale.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Price       *int     `json:"price"`
}

// ForSale reports whether the product can be put into a basket
func (p Product) ForSale() bool {
	return p.Price != nil
}

// Amount returns the price, or 0 when the product is not for sale
func (p Product) Amount() int {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// Raw is a catalog item exactly as the API sends it
type Raw struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Price       *int   `json:"price"`
}

// Parse validates a raw catalog item and resolves its image path against contentBase.
func Parse(raw Raw, contentBase string) (Product, error) {
	if strings.TrimSpace(raw.ID) == "" {
		return Product{}, ErrMissingID
	}
	if strings.TrimSpace(raw.Title) == "" {
		return Product{}, fmt.Errorf("%w: product %s", ErrMissingTitle, raw.ID)
	}
	var price *int
	if raw.Price != nil {
		if *raw.Price < 0 {
			return Product{}, fmt.Errorf("%w: product %s", ErrInvalidPrice, raw.ID)
		}
		v := *raw.Price
		price = &v
	}

	return Product{
		ID:          raw.ID,
		Title:       raw.Title,
		Description: raw.Description,
		Category:    ParseCategory(raw.Category),
		Image:       ResolveImage(contentBase, raw.Image),
		Price:       price,
	}, nil
}

// ResolveImage joins a relative image path onto the content base URL.
// Absolute URLs are returned unchanged.
func ResolveImage(contentBase, image string) string {
	if image == "" {
		return ""
	}
	if strings.HasPrefix(image, "http://") || strings.HasPrefix(image, "https://") {
		return image
	}
	if contentBase == "" {
		return image
	}
	return strings.TrimRight(contentBase, "/") + "/" + strings.TrimLeft(image, "/")
}

// PriceOf is a helper for building products with a price in tests and fixtures
func PriceOf(v int) *int {
	return &v
}
