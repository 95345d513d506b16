package cart

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
)

// CommandKind enumerates the intents a client can send to the cart.
type CommandKind string

const (
	CommandAdd    CommandKind = "add"
	CommandUpdate CommandKind = "update"
	CommandRemove CommandKind = "remove"
	CommandClear  CommandKind = "clear"
)

var ErrUnknownCommand = errors.New("cart: unknown command")

// Command is one user intent. Add uses Product and Quantity; Update uses
// ProductID and Quantity; Remove uses ProductID; Clear uses nothing.
type Command struct {
	Kind      CommandKind
	Product   catalog.Product
	ProductID string
	Quantity  int
}

func Add(p catalog.Product, quantity int) Command {
	return Command{Kind: CommandAdd, Product: p, ProductID: p.ID, Quantity: quantity}
}

func Update(productID string, quantity int) Command {
	return Command{Kind: CommandUpdate, ProductID: productID, Quantity: quantity}
}

func Remove(productID string) Command {
	return Command{Kind: CommandRemove, ProductID: productID}
}

func Clear() Command { return Command{Kind: CommandClear} }

// Dispatch applies cmd and returns the resulting snapshot. Commands are
// applied in the order Dispatch is called.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (domain.Cart, error) {
	switch cmd.Kind {
	case CommandAdd:
		if cmd.Product.ID == "" {
			return domain.Cart{}, newValidation(domain.ErrProductRequired)
		}
		return s.AddToCart(ctx, cmd.Product, cmd.Quantity), nil
	case CommandUpdate:
		if cmd.ProductID == "" {
			return domain.Cart{}, newValidation(domain.ErrProductRequired)
		}
		return s.UpdateQuantity(ctx, cmd.ProductID, cmd.Quantity), nil
	case CommandRemove:
		if cmd.ProductID == "" {
			return domain.Cart{}, newValidation(domain.ErrProductRequired)
		}
		return s.RemoveItem(ctx, cmd.ProductID), nil
	case CommandClear:
		return s.ClearCart(ctx), nil
	default:
		return domain.Cart{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}

func newValidation(err error) error {
	return fmt.Errorf("validation: %w", err)
}
