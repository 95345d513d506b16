package cart

import "context"

// Storage persists the single cart slot. Load returns an empty cart when
// nothing was stored and ErrCorruptState when the stored value is unreadable.
type Storage interface {
	Load(ctx context.Context) (Cart, error)
	Save(ctx context.Context, c Cart) error
}
