package httppresentation

import (
	domcart "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

type productView struct {
	domcatalog.Product
	PriceFormatted string `json:"price_formatted"`
	UnitLabel      string `json:"unit_label"`
}

func newProductView(p domcatalog.Product, locale money.Locale) productView {
	return productView{
		Product:        p,
		PriceFormatted: locale.Format(p.Price),
		UnitLabel:      p.Unit.Label(),
	}
}

type cartItemView struct {
	ProductID          string          `json:"product_id"`
	Name               string          `json:"name"`
	Unit               domcatalog.Unit `json:"unit"`
	Image              string          `json:"image,omitempty"`
	UnitPrice          money.Money     `json:"unit_price"`
	Quantity           int             `json:"quantity"`
	LineTotal          money.Money     `json:"line_total"`
	LineTotalFormatted string          `json:"line_total_formatted"`
}

type cartView struct {
	Items          []cartItemView `json:"items"`
	Total          money.Money    `json:"total"`
	TotalFormatted string         `json:"total_formatted"`
	ItemCount      int            `json:"item_count"`
}

func newCartView(c domcart.Cart, locale money.Locale) cartView {
	items := make([]cartItemView, 0, len(c.Entries))
	for _, e := range c.Entries {
		line := e.LineTotal()
		items = append(items, cartItemView{
			ProductID:          e.Product.ID,
			Name:               e.Product.Name,
			Unit:               e.Product.Unit,
			Image:              e.Product.Image,
			UnitPrice:          e.Product.Price,
			Quantity:           e.Quantity,
			LineTotal:          line,
			LineTotalFormatted: locale.Format(line),
		})
	}
	total := c.Total()
	return cartView{
		Items:          items,
		Total:          total,
		TotalFormatted: locale.Format(total),
		ItemCount:      c.ItemCount(),
	}
}

type checkoutView struct {
	Message        string      `json:"message"`
	Link           string      `json:"link"`
	Total          money.Money `json:"total"`
	TotalFormatted string      `json:"total_formatted"`
	ItemCount      int         `json:"item_count"`
}
