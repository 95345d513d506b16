package cart

import (
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

// The functions below never modify their input slice.

// Merge adds delta to the entry for product. An existing entry keeps its
// original product snapshot; a missing one is appended. A non-positive delta
// removes the entry for product, or leaves entries unchanged when it is absent.
func Merge(entries []Entry, product catalog.Product, delta int) []Entry {
	if delta <= 0 {
		return Remove(entries, product.ID)
	}
	idx := indexOf(entries, product.ID)
	if idx < 0 {
		out := make([]Entry, 0, len(entries)+1)
		out = append(out, entries...)
		return append(out, Entry{Product: product.Clone(), Quantity: delta})
	}
	return SetQuantity(entries, product.ID, entries[idx].Quantity+delta)
}

// SetQuantity replaces the quantity for productID, or removes the entry when
// quantity <= 0. Unknown ids yield an unchanged copy.
func SetQuantity(entries []Entry, productID string, quantity int) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Product.ID != productID {
			out = append(out, e)
			continue
		}
		if quantity > 0 {
			e.Quantity = quantity
			out = append(out, e)
		}
	}
	return out
}

func Remove(entries []Entry, productID string) []Entry {
	return SetQuantity(entries, productID, 0)
}

// Total sums price times quantity over all entries in minor units.
func Total(entries []Entry) money.Money {
	var total money.Money
	for _, e := range entries {
		total = total.Add(e.LineTotal())
	}
	return total
}

// ItemCount is the number of distinct entries, not the sum of quantities.
func ItemCount(entries []Entry) int {
	return len(entries)
}

func Quantity(entries []Entry, productID string) int {
	if idx := indexOf(entries, productID); idx >= 0 {
		return entries[idx].Quantity
	}
	return 0
}

func Contains(entries []Entry, productID string) bool {
	return indexOf(entries, productID) >= 0
}

func indexOf(entries []Entry, productID string) int {
	for i, e := range entries {
		if e.Product.ID == productID {
			return i
		}
	}
	return -1
}

func clone(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
