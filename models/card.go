package models

// MaxCardDescriptionLength is the maximum number of characters accepted for a description override
const MaxCardDescriptionLength = 200

// CardSpec describes one card render: a product snapshot plus optional overrides
type CardSpec struct {
	Product     Product `json:"product"`
	Price       string  `json:"customPrice"`
	Description string  `json:"customDescription"`
}

// NewCardSpec builds a CardSpec, truncating the description override at the limit
func NewCardSpec(product Product, price, description string) CardSpec {
	spec := CardSpec{Product: product, Price: price}
	spec.SetDescription(description)
	return spec
}

// SetDescription stores the description override, dropping every character past
// MaxCardDescriptionLength. Applying it twice yields the same value.
func (s *CardSpec) SetDescription(description string) {
	runes := []rune(description)
	if len(runes) > MaxCardDescriptionLength {
		runes = runes[:MaxCardDescriptionLength]
	}
	s.Description = string(runes)
}

// EffectiveDescription returns the override when present, otherwise the stored description
func (s CardSpec) EffectiveDescription() string {
	if s.Description != "" {
		return s.Description
	}
	return s.Product.Description
}

// EffectivePrice returns the override price when present, otherwise the stored price
func (s CardSpec) EffectivePrice() string {
	if s.Price != "" {
		return s.Price
	}
	return s.Product.Price
}

// CardElementKind names one drawn element of a card
type CardElementKind string

const (
	ElementShadow       CardElementKind = "shadow"
	ElementCard         CardElementKind = "card"
	ElementLogo         CardElementKind = "logo"
	ElementLogoFallback CardElementKind = "logo_placeholder"
	ElementTitle        CardElementKind = "title"
	ElementSeparator    CardElementKind = "separator"
	ElementTray         CardElementKind = "tray"
	ElementProductImage CardElementKind = "product_image"
	ElementNoImage      CardElementKind = "no_image"
	ElementNameLine     CardElementKind = "name_line"
	ElementCategory     CardElementKind = "category_badge"
	ElementDescription  CardElementKind = "description_line"
	ElementPriceButton  CardElementKind = "price_button"
)

// Rect is an axis-aligned rectangle in logical card units
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Bottom returns the Y coordinate of the lower edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CardElement is one entry of the display list produced while laying out a card
type CardElement struct {
	Kind CardElementKind `json:"kind"`
	Rect Rect            `json:"rect"`
	Text string          `json:"text,omitempty"`
}

// RenderedCard is the output of a card render
type RenderedCard struct {
	ProductID string        `json:"productId"`
	FileName  string        `json:"fileName"`
	PNG       []byte        `json:"-"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Elements  []CardElement `json:"elements"`
}

// Count returns how many elements of the given kind were drawn
func (c *RenderedCard) Count(kind CardElementKind) int {
	n := 0
	for _, e := range c.Elements {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// CardSheetRequest is the body of POST /admin/cards/sheet
type CardSheetRequest struct {
	Title string     `json:"title"`
	Cards []CardSpec `json:"cards"`
}
