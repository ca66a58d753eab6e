package domain

// DefaultVariant is the sentinel variant for products with no size selection.
const DefaultVariant = "default"

// CartLine is one distinct product+variant entry in the cart.
type CartLine struct {
	ProductID  string  `json:"product_id"`
	VariantKey string  `json:"variant_key"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	ImageURL   string  `json:"image_url,omitempty"`
	Category   string  `json:"category,omitempty"`
}

// LineID is the composite identity of a line. Adding the same product in the
// same size merges into one line; a different size is a separate line.
func (l CartLine) LineID() string {
	variant := l.VariantKey
	if variant == "" {
		variant = DefaultVariant
	}
	return l.ProductID + "-" + variant
}

func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
