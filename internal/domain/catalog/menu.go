package catalog

import (
	"strings"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

// MenuText renders the plain-text menu offered for download, one product per line.
func MenuText(products []Product, locale money.Locale) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		line := p.Name + " - " + locale.Format(p.Price) + "/" + menuUnit(p.Unit)
		if p.IsPromotion {
			line += " 🔥"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func menuUnit(u Unit) string {
	if u == UnitCount {
		return "un"
	}
	return string(u)
}
