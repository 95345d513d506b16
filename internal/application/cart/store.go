package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	domoutbox "github.com/Zhima-Mochi/minishop-menu/internal/domain/outbox"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	cartService    = "cart-store"
	spanPrefix     = "UC."
	publishPeer    = "outbox"
	publishTimeout = 300 * time.Millisecond
)

// Store owns the authoritative cart. Every mutation is applied through the
// cart algebra and the resulting snapshot is written to Storage before the
// call returns. A failed write is logged and counted; the in-memory cart stays
// the source of truth for the session.
type Store struct {
	mu      sync.Mutex
	cart    domain.Cart
	storage domain.Storage
	backend string

	publisher domoutbox.Publisher
	log       observability.Logger
	tracer    observability.Tracer

	mutations       observability.Counter      // cart_mutations_total{command}
	persistFailures observability.BoundCounter // cart_persist_failures_total{backend}
	extCounter      observability.Counter      // external_requests_total{peer,endpoint,outcome}
	extHistogram    observability.Histogram
}

type Option func(*Store)

// WithPublisher routes added/merged/removed/cleared notifications to p.
func WithPublisher(p domoutbox.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithBackendName labels persistence metrics and logs, e.g. "file" or "redis".
func WithBackendName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.backend = name
		}
	}
}

// NewStore loads the persisted cart and returns a ready store. A missing,
// unreadable or invalid persisted cart starts the session empty.
func NewStore(ctx context.Context, storage domain.Storage, tel observability.Observability, opts ...Option) *Store {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	s := &Store{
		storage:      storage,
		backend:      "unknown",
		log:          tel.Logger().With(observability.F("service", cartService)),
		tracer:       tel.Tracer(),
		mutations:    metrics.Counter(observability.MCartMutations),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persistFailures = metrics.Counter(observability.MCartPersistFailures).
		Bind(observability.L("backend", s.backend))
	s.cart = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) domain.Cart {
	logger := logctx.FromOr(ctx, s.log).With(observability.F("backend", s.backend))
	if s.storage == nil {
		return domain.Cart{}
	}

	c, err := s.storage.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCorruptState):
		logger.Warn("cart_load_corrupt", observability.F("error", err))
		return domain.Cart{}
	default:
		logger.Warn("cart_load_failed", observability.F("error", err))
		return domain.Cart{}
	}

	if verr := c.Validate(); verr != nil {
		logger.Warn("cart_load_corrupt", observability.F("error", verr))
		return domain.Cart{}
	}
	logger.Info("cart_loaded", observability.F("items", c.ItemCount()))
	return c
}

// AddToCart merges quantity into the entry for product, appending a new entry
// when the product is not in the cart yet. The first-added snapshot is kept.
// A non-positive quantity removes the entry.
func (s *Store) AddToCart(ctx context.Context, product catalog.Product, quantity int) domain.Cart {
	return s.mutate(ctx, string(CommandAdd), func(entries []domain.Entry) ([]domain.Entry, domoutbox.Event) {
		existed := domain.Contains(entries, product.ID)
		next := domain.Merge(entries, product, quantity)

		switch {
		case !domain.Contains(next, product.ID):
			if existed {
				return next, domain.NewItemRemovedEvent(product.ID)
			}
			return next, nil
		case existed:
			return next, domain.NewItemMergedEvent(entryFor(next, product.ID), quantity)
		default:
			return next, domain.NewItemAddedEvent(entryFor(next, product.ID))
		}
	})
}

// UpdateQuantity replaces the quantity for productID; quantity <= 0 removes it.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) domain.Cart {
	return s.mutate(ctx, string(CommandUpdate), func(entries []domain.Entry) ([]domain.Entry, domoutbox.Event) {
		next := domain.SetQuantity(entries, productID, quantity)
		if quantity <= 0 {
			return next, domain.NewItemRemovedEvent(productID)
		}
		return next, nil
	})
}

func (s *Store) RemoveItem(ctx context.Context, productID string) domain.Cart {
	return s.mutate(ctx, string(CommandRemove), func(entries []domain.Entry) ([]domain.Entry, domoutbox.Event) {
		return domain.Remove(entries, productID), domain.NewItemRemovedEvent(productID)
	})
}

func (s *Store) ClearCart(ctx context.Context) domain.Cart {
	return s.mutate(ctx, string(CommandClear), func([]domain.Entry) ([]domain.Entry, domoutbox.Event) {
		return nil, domain.NewClearedEvent()
	})
}

// GetItemQuantity returns the quantity held for productID, 0 when absent.
func (s *Store) GetItemQuantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(productID)
}

// Snapshot returns a deep copy of the current cart.
func (s *Store) Snapshot() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Store) mutate(
	ctx context.Context,
	command string,
	apply func([]domain.Entry) ([]domain.Entry, domoutbox.Event),
) domain.Cart {
	ctx, span := s.tracer.Start(ctx, spanPrefix+"Cart."+command,
		attribute.String("cart.command", command),
	)
	defer span.End()

	s.mu.Lock()
	next, evt := apply(s.cart.Entries)
	s.cart = domain.Cart{Entries: next}
	snapshot := s.cart.Clone()
	persistErr := s.persist(ctx, snapshot)
	s.mu.Unlock()

	s.mutations.Add(1, observability.L("command", command))
	span.SetAttributes(
		attribute.Int("cart.items", snapshot.ItemCount()),
		attribute.Int64("cart.total_minor", snapshot.Total().Minor()),
	)
	if persistErr != nil {
		span.RecordError(persistErr)
		span.SetStatus(codes.Error, "PERSIST_FAILED")
	} else {
		span.SetStatus(codes.Ok, "OK")
	}

	logctx.FromOr(ctx, s.log).Debug("cart_mutated",
		observability.F("command", command),
		observability.F("items", snapshot.ItemCount()),
	)

	s.publish(ctx, evt)
	return snapshot
}

// persist runs with the store lock held so writes land in mutation order.
// The request context's cancellation is dropped: an abandoned request must
// not leave the persisted copy behind the in-memory cart.
func (s *Store) persist(ctx context.Context, c domain.Cart) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Save(context.WithoutCancel(ctx), c); err != nil {
		s.persistFailures.Add(1)
		logctx.FromOr(ctx, s.log).Warn("cart_persist_failed",
			observability.F("backend", s.backend),
			observability.F("error", err),
		)
		return err
	}
	return nil
}

func (s *Store) publish(ctx context.Context, evt domoutbox.Event) {
	if s.publisher == nil || evt == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	outcome := "success"
	if err := s.publisher.Publish(pubCtx, evt); err != nil {
		outcome = "error"
		logctx.FromOr(ctx, s.log).Warn("cart_event_publish_failed",
			observability.F("event", evt.EventName()),
			observability.F("error", err),
		)
	}

	s.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", evt.EventName()),
		observability.L("outcome", outcome),
	)
	s.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", evt.EventName()),
	)
}

func entryFor(entries []domain.Entry, productID string) domain.Entry {
	for _, e := range entries {
		if e.Product.ID == productID {
			return e
		}
	}
	return domain.Entry{}
}
