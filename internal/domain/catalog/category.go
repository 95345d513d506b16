package catalog

// PromotionsCategoryID selects promotion-flagged products. It is a filter
// predicate, never stored as a product's category.
const PromotionsCategoryID = "promocoes"

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// PromotionsCategory is the pseudo-category offered alongside the real ones.
func PromotionsCategory() Category {
	return Category{
		ID:    PromotionsCategoryID,
		Name:  "Promoções",
		Icon:  "🔥",
		Color: "bg-gradient-accent",
	}
}

// WithPromotions appends the promotions pseudo-category unless already present.
func WithPromotions(categories []Category) []Category {
	out := make([]Category, 0, len(categories)+1)
	out = append(out, categories...)
	for _, c := range categories {
		if c.ID == PromotionsCategoryID {
			return out
		}
	}
	return append(out, PromotionsCategory())
}
