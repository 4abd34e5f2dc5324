package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Category Tests
// ============================================

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		expected Category
	}{
		{"soft skill label", "софт-скил", CategorySoftSkill},
		{"hard skill label", "хард-скил", CategoryHardSkill},
		{"additional label", "дополнительное", CategoryAdditional},
		{"button label", "кнопка", CategoryButton},
		{"other label", "другое", CategoryOther},
		{"english slug", "hard-skill", CategoryHardSkill},
		{"padded and upper case", "  Кнопка ", CategoryButton},
		{"unknown label", "something", CategoryOther},
		{"empty label", "", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCategory(tt.label))
		})
	}
}

func TestCategory_TitleAndClassName(t *testing.T) {
	assert.Equal(t, "софт-скил", CategorySoftSkill.Title())
	assert.Equal(t, "card__category_soft", CategorySoftSkill.ClassName())
	assert.Equal(t, "card__category_button", CategoryButton.ClassName())
	assert.Equal(t, "другое", Category("bogus").Title())
	assert.Equal(t, "card__category_other", Category("bogus").ClassName())
}

// ============================================
// Price Tests
// ============================================

func TestProduct_ForSale(t *testing.T) {
	assert.True(t, Product{ID: "a", Price: PriceOf(100)}.ForSale())
	assert.True(t, Product{ID: "free", Price: PriceOf(0)}.ForSale())
	assert.False(t, Product{ID: "b"}.ForSale())
}

func TestProduct_Amount(t *testing.T) {
	assert.Equal(t, 750, Product{Price: PriceOf(750)}.Amount())
	assert.Equal(t, 0, Product{}.Amount())
}

// ============================================
// Parse Tests
// ============================================

func TestParse_Success(t *testing.T) {
	raw := Raw{
		ID:          "854cef69-976d-4c2a-a18c-2aa45046c390",
		Title:       "+1 час в сутках",
		Description: "Если планируете решать задачи в тренажёре, берите два.",
		Category:    "софт-скил",
		Image:       "/5_Dots.svg",
		Price:       PriceOf(750),
	}

	p, err := Parse(raw, "https://larek-api.nomoreparties.co/content/weblarek")

	require.NoError(t, err)
	assert.Equal(t, raw.ID, p.ID)
	assert.Equal(t, raw.Title, p.Title)
	assert.Equal(t, CategorySoftSkill, p.Category)
	assert.Equal(t, "https://larek-api.nomoreparties.co/content/weblarek/5_Dots.svg", p.Image)
	require.NotNil(t, p.Price)
	assert.Equal(t, 750, *p.Price)
}

func TestParse_CopiesPrice(t *testing.T) {
	price := 100
	p, err := Parse(Raw{ID: "a", Title: "A", Price: &price}, "")
	require.NoError(t, err)

	price = 5
	assert.Equal(t, 100, p.Amount())
}

func TestParse_NullPrice(t *testing.T) {
	p, err := Parse(Raw{ID: "b", Title: "Мамка-таймер", Category: "другое"}, "")

	require.NoError(t, err)
	assert.False(t, p.ForSale())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		raw         Raw
		expectedErr error
	}{
		{"missing id", Raw{Title: "x"}, ErrMissingID},
		{"blank id", Raw{ID: "  ", Title: "x"}, ErrMissingID},
		{"missing title", Raw{ID: "a"}, ErrMissingTitle},
		{"negative price", Raw{ID: "a", Title: "x", Price: PriceOf(-1)}, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw, "")
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestResolveImage(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		image    string
		expected string
	}{
		{"relative with slash", "https://cdn.test/content", "/a.svg", "https://cdn.test/content/a.svg"},
		{"relative without slash", "https://cdn.test/content/", "a.svg", "https://cdn.test/content/a.svg"},
		{"absolute url kept", "https://cdn.test", "https://other.test/a.svg", "https://other.test/a.svg"},
		{"empty base", "", "/a.svg", "/a.svg"},
		{"empty image", "https://cdn.test", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveImage(tt.base, tt.image))
		})
	}
}
