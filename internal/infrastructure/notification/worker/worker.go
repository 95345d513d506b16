package worker

import (
	"context"

	domcart "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	domoutbox "github.com/Zhima-Mochi/minishop-menu/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability/logctx"
	workerpresentation "github.com/Zhima-Mochi/minishop-menu/internal/presentation/worker"
)

const componentNotification = "notification_worker"

// Worker turns cart events into the short confirmations shown to the customer.
type Worker struct {
	subscriber domoutbox.Subscriber
	log        observability.Logger
}

func New(subscriber domoutbox.Subscriber, logger observability.Logger) *Worker {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Worker{subscriber: subscriber, log: logger}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domcart.ItemAddedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(domcart.ItemMergedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(domcart.ItemRemovedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(domcart.ClearedEvent{}.EventName(), w.handle)
}

func (w *Worker) handle(ctx context.Context, e domoutbox.Event) error {
	text, productID, ok := Feedback(e)
	if !ok {
		return nil
	}

	ctx = workerpresentation.WithEventContext(ctx, w.log, map[string]string{
		"component":  componentNotification,
		"event":      e.EventName(),
		"product_id": productID,
	})
	logctx.FromOr(ctx, w.log).Info("cart_feedback", observability.F("message", text))
	return nil
}

// Feedback returns the customer-facing confirmation for a cart event.
func Feedback(e domoutbox.Event) (text, productID string, ok bool) {
	switch evt := e.(type) {
	case domcart.ItemAddedEvent:
		return evt.ProductName + " adicionado ao carrinho", evt.ProductID, true
	case domcart.ItemMergedEvent:
		return evt.ProductName + " atualizado no carrinho", evt.ProductID, true
	case domcart.ItemRemovedEvent:
		return "Item removido do carrinho", evt.ProductID, true
	case domcart.ClearedEvent:
		return "Carrinho limpo", "", true
	default:
		return "", "", false
	}
}
