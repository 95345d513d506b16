package cart

import (
	"errors"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

var (
	ErrCorruptState     = errors.New("cart: persisted state is corrupt")
	ErrProductRequired  = errors.New("cart: product id is required")
	ErrInvalidQuantity  = errors.New("cart: quantity must be greater than zero")
	ErrDuplicateProduct = errors.New("cart: duplicate product entry")
)

// Entry is a product snapshot with the quantity selected by the customer.
type Entry struct {
	Product  catalog.Product
	Quantity int
}

// LineTotal is unit price times quantity.
func (e Entry) LineTotal() money.Money {
	return e.Product.Price.Mul(e.Quantity)
}

// Cart is the ordered set of entries, keyed by product id.
type Cart struct {
	Entries []Entry
}

func (c Cart) IsEmpty() bool { return len(c.Entries) == 0 }

func (c Cart) Total() money.Money { return Total(c.Entries) }

func (c Cart) ItemCount() int { return ItemCount(c.Entries) }

func (c Cart) Quantity(productID string) int { return Quantity(c.Entries, productID) }

// Clone deep-copies the cart so callers cannot alias store state.
func (c Cart) Clone() Cart {
	if c.Entries == nil {
		return Cart{}
	}
	out := make([]Entry, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = Entry{Product: e.Product.Clone(), Quantity: e.Quantity}
	}
	return Cart{Entries: out}
}

// Validate reports whether the cart upholds the entry invariants: positive
// quantities, non-empty ids, and at most one entry per product.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		if e.Product.ID == "" {
			return ErrProductRequired
		}
		if e.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[e.Product.ID]; dup {
			return ErrDuplicateProduct
		}
		seen[e.Product.ID] = struct{}{}
	}
	return nil
}
