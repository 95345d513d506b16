package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Filter returns the products matching search and categoryID, in catalog order.
//
// A non-empty search keeps products whose name or description contains it,
// ignoring case. categoryID "" applies no category filter; PromotionsCategoryID
// keeps promotion-flagged products; any other value must equal the product's
// CategoryID. Both filters must hold.
func Filter(products []Product, search, categoryID string) []Product {
	needle := ""
	if search != "" {
		needle = fold(search)
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !containsFolded(p, needle) {
			continue
		}
		if !inCategory(p, categoryID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func containsFolded(p Product, needle string) bool {
	return strings.Contains(fold(p.Name), needle) ||
		strings.Contains(fold(p.Description), needle)
}

func inCategory(p Product, categoryID string) bool {
	switch categoryID {
	case "":
		return true
	case PromotionsCategoryID:
		return p.IsPromotion
	default:
		return p.CategoryID == categoryID
	}
}

// fold lowercases without locale rules or full case folding, so "ß" stays "ß".
// Casers are not safe for concurrent use, so each call builds its own.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
