package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
)

const (
	CartKey           = "cart"
	cartFormatVersion = 1
)

type cartDocument struct {
	Version int            `json:"version"`
	Items   []cartDocEntry `json:"items"`
}

type cartDocEntry struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   catalog.Product `json:"product"`
}

// CartStorage adapts a Store to cart.Storage using a versioned JSON document
// under CartKey.
type CartStorage struct {
	store Store
	key   string
}

var _ cart.Storage = (*CartStorage)(nil)

func NewCartStorage(store Store) *CartStorage {
	return &CartStorage{store: store, key: CartKey}
}

func (s *CartStorage) Load(ctx context.Context) (cart.Cart, error) {
	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrNotFound) {
		return cart.Cart{}, nil
	}
	if err != nil {
		return cart.Cart{}, err
	}
	return DecodeCart(raw)
}

func (s *CartStorage) Save(ctx context.Context, c cart.Cart) error {
	raw, err := EncodeCart(c)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key, raw)
}

func EncodeCart(c cart.Cart) ([]byte, error) {
	doc := cartDocument{Version: cartFormatVersion, Items: make([]cartDocEntry, 0, len(c.Entries))}
	for _, e := range c.Entries {
		doc.Items = append(doc.Items, cartDocEntry{
			ProductID: e.Product.ID,
			Quantity:  e.Quantity,
			Product:   e.Product,
		})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("kvstore: encode cart: %w", err)
	}
	return b, nil
}

// DecodeCart returns cart.ErrCorruptState for anything that does not parse
// into a valid cart.
func DecodeCart(raw []byte) (cart.Cart, error) {
	var doc cartDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return cart.Cart{}, fmt.Errorf("%w: %v", cart.ErrCorruptState, err)
	}
	if doc.Version != cartFormatVersion {
		return cart.Cart{}, fmt.Errorf("%w: unsupported version %d", cart.ErrCorruptState, doc.Version)
	}

	out := cart.Cart{}
	for _, it := range doc.Items {
		p := it.Product
		if p.ID == "" {
			p.ID = it.ProductID
		}
		if p.ID != it.ProductID {
			return cart.Cart{}, fmt.Errorf("%w: product id mismatch %q", cart.ErrCorruptState, it.ProductID)
		}
		out.Entries = append(out.Entries, cart.Entry{Product: p, Quantity: it.Quantity})
	}
	if err := out.Validate(); err != nil {
		return cart.Cart{}, fmt.Errorf("%w: %v", cart.ErrCorruptState, err)
	}
	return out, nil
}
