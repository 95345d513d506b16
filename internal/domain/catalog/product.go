package catalog

import (
	"errors"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

var (
	ErrNotFound     = errors.New("catalog: product not found")
	ErrInvalidUnit  = errors.New("catalog: unknown unit of measure")
	ErrInvalidPrice = errors.New("catalog: price must be zero or greater")
)

// Unit is the unit of measure a product is sold by.
type Unit string

const (
	UnitKilogram Unit = "kg"
	Unit100Gram  Unit = "100g"
	Unit500Gram  Unit = "500g"
	UnitLiter    Unit = "litro"
	UnitCount    Unit = "unidade"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitKilogram, Unit100Gram, Unit500Gram, UnitLiter, UnitCount:
		return true
	}
	return false
}

// Label is the short form shown next to prices ("R$ 8,99 / kg").
func (u Unit) Label() string {
	switch u {
	case UnitLiter:
		return "L"
	case UnitCount:
		return "un"
	default:
		return string(u)
	}
}

type Product struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Price         money.Money  `json:"price"`
	OriginalPrice *money.Money `json:"original_price,omitempty"`
	Image         string       `json:"image,omitempty"`
	CategoryID    string       `json:"category_id,omitempty"`
	Unit          Unit         `json:"unit"`
	Available     bool         `json:"available"`
	IsPromotion   bool         `json:"is_promotion"`
}

// Validate checks the invariants a catalog provider must uphold.
func (p Product) Validate() error {
	if p.ID == "" {
		return errors.New("catalog: product id is required")
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return ErrInvalidPrice
	}
	if !p.Unit.Valid() {
		return ErrInvalidUnit
	}
	return nil
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.OriginalPrice != nil {
		op := *p.OriginalPrice
		p.OriginalPrice = &op
	}
	return p
}
