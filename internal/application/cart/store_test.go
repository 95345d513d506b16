package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
	domoutbox "github.com/Zhima-Mochi/minishop-menu/internal/domain/outbox"
	infraobs "github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/infrastructure/observability/prometrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/sync/errgroup"
)

type fakeStorage struct {
	mu      sync.Mutex
	stored  *domain.Cart
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStorage) Load(context.Context) (domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return domain.Cart{}, f.loadErr
	}
	if f.stored == nil {
		return domain.Cart{}, nil
	}
	return f.stored.Clone(), nil
}

func (f *fakeStorage) Save(_ context.Context, c domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := c.Clone()
	f.stored = &cp
	return nil
}

func (f *fakeStorage) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e.EventName())
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

var (
	apple  = catalog.Product{ID: "1", Name: "Apple", Price: money.MustParse("8.99"), Unit: catalog.UnitKilogram, Available: true}
	banana = catalog.Product{ID: "2", Name: "Banana", Price: money.MustParse("5.49"), Unit: catalog.UnitKilogram, Available: true}
)

func newTestStore(t *testing.T, storage domain.Storage, opts ...Option) *Store {
	t.Helper()
	return NewStore(context.Background(), storage, nil, opts...)
}

func TestAddToCartMerges(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := newTestStore(t, &fakeStorage{}, WithPublisher(pub))

	c := store.AddToCart(ctx, apple, 1)
	if c.ItemCount() != 1 || c.Quantity(apple.ID) != 1 {
		t.Fatalf("expected one apple, got %+v", c.Entries)
	}

	c = store.AddToCart(ctx, apple, 2)
	if c.ItemCount() != 1 || c.Quantity(apple.ID) != 3 {
		t.Fatalf("expected a single entry with quantity 3, got %+v", c.Entries)
	}

	got := pub.names()
	if len(got) != 2 || got[0] != "cart.item_added" || got[1] != "cart.item_merged" {
		t.Fatalf("unexpected notifications %v", got)
	}
}

func TestUpdateQuantityReplaces(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeStorage{})
	store.AddToCart(ctx, apple, 2)

	c := store.UpdateQuantity(ctx, apple.ID, 5)
	if c.Quantity(apple.ID) != 5 {
		t.Fatalf("update must replace, got %d", c.Quantity(apple.ID))
	}
}

func TestUpdateToZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	seed := func(s *Store) {
		s.AddToCart(ctx, apple, 2)
		s.AddToCart(ctx, banana, 1)
	}

	a := newTestStore(t, &fakeStorage{})
	seed(a)
	viaUpdate := a.UpdateQuantity(ctx, apple.ID, 0)

	b := newTestStore(t, &fakeStorage{})
	seed(b)
	viaRemove := b.RemoveItem(ctx, apple.ID)

	if !sameCart(viaUpdate, viaRemove) {
		t.Fatalf("update(0)=%+v remove=%+v", viaUpdate.Entries, viaRemove.Entries)
	}
	if viaUpdate.Quantity(apple.ID) != 0 || viaUpdate.Quantity(banana.ID) != 1 {
		t.Fatalf("unexpected cart %+v", viaUpdate.Entries)
	}
}

func TestUpdateUnknownIDIsNoopButPersists(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	store := newTestStore(t, storage)
	before := store.AddToCart(ctx, apple, 1)
	saves := storage.saveCount()

	after := store.UpdateQuantity(ctx, "unknown", 5)
	if !sameCart(before, after) {
		t.Fatalf("cart changed: %+v", after.Entries)
	}
	if storage.saveCount() != saves+1 {
		t.Fatalf("expected the no-op update to persist, saves=%d", storage.saveCount())
	}
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeStorage{})
	before := store.AddToCart(ctx, apple, 1)
	if after := store.RemoveItem(ctx, "missing"); !sameCart(before, after) {
		t.Fatalf("cart changed: %+v", after.Entries)
	}
}

func TestClearCartIsIdempotent(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	store := newTestStore(t, storage)
	store.AddToCart(ctx, apple, 1)

	once := store.ClearCart(ctx)
	twice := store.ClearCart(ctx)
	if !once.IsEmpty() || !twice.IsEmpty() || !sameCart(once, twice) {
		t.Fatalf("clear must leave an empty cart: %+v / %+v", once, twice)
	}
	loaded, _ := storage.Load(ctx)
	if !loaded.IsEmpty() {
		t.Fatalf("empty cart must be persisted, got %+v", loaded.Entries)
	}
}

func TestGetItemQuantity(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeStorage{})
	store.AddToCart(ctx, banana, 4)

	if got := store.GetItemQuantity(banana.ID); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := store.GetItemQuantity("nope"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestNonPositiveAddRemovesEntry(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	store := newTestStore(t, &fakeStorage{}, WithPublisher(pub))

	if c := store.AddToCart(ctx, apple, 0); !c.IsEmpty() {
		t.Fatalf("zero quantity must not create an entry: %+v", c.Entries)
	}
	store.AddToCart(ctx, apple, 3)
	if c := store.AddToCart(ctx, apple, -1); c.Quantity(apple.ID) != 0 || !c.IsEmpty() {
		t.Fatalf("negative quantity must remove the entry: %+v", c.Entries)
	}
	store.AddToCart(ctx, apple, 3)
	if c := store.AddToCart(ctx, apple, 0); c.Quantity(apple.ID) != 0 || !c.IsEmpty() {
		t.Fatalf("zero quantity must remove the entry: %+v", c.Entries)
	}

	got := pub.names()
	want := []string{"cart.item_added", "cart.item_removed", "cart.item_added", "cart.item_removed"}
	if len(got) != len(want) {
		t.Fatalf("unexpected notifications %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected notifications %v", got)
		}
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{saveErr: errors.New("quota exceeded")}
	store := newTestStore(t, storage)

	c := store.AddToCart(ctx, apple, 1)
	if c.Quantity(apple.ID) != 1 || store.GetItemQuantity(apple.ID) != 1 {
		t.Fatalf("in-memory cart must stay authoritative, got %+v", c.Entries)
	}
}

func TestPersistFailureCountedPerBackend(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	tel := infraobs.NewWithRegistry(nil, nil, prometrics.New("", "", reg))
	storage := &fakeStorage{saveErr: errors.New("quota exceeded")}
	store := NewStore(ctx, storage, tel, WithBackendName("redis"))

	store.AddToCart(ctx, apple, 1)
	store.ClearCart(ctx)

	want := `
# HELP cart_persist_failures_total Cart snapshots that could not be persisted.
# TYPE cart_persist_failures_total counter
cart_persist_failures_total{backend="redis"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "cart_persist_failures_total"); err != nil {
		t.Fatalf("unexpected persist failure metric: %v", err)
	}
}

func TestLoadFallsBackToEmpty(t *testing.T) {
	cases := []struct {
		name    string
		storage *fakeStorage
	}{
		{"corrupt", &fakeStorage{loadErr: domain.ErrCorruptState}},
		{"unavailable", &fakeStorage{loadErr: errors.New("io error")}},
		{"invalid entries", &fakeStorage{stored: &domain.Cart{Entries: []domain.Entry{
			{Product: apple, Quantity: 1},
			{Product: apple, Quantity: 2},
		}}}},
		{"zero quantity", &fakeStorage{stored: &domain.Cart{Entries: []domain.Entry{{Product: apple, Quantity: 0}}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newTestStore(t, tc.storage)
			if !store.Snapshot().IsEmpty() {
				t.Fatalf("expected empty cart, got %+v", store.Snapshot().Entries)
			}
		})
	}
}

func TestPersistAndReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := &fakeStorage{}
	first := newTestStore(t, storage)
	first.AddToCart(ctx, banana, 1)
	first.AddToCart(ctx, apple, 2)
	first.AddToCart(ctx, banana, 2)
	want := first.Snapshot()

	second := newTestStore(t, storage)
	got := second.Snapshot()
	if !sameCart(want, got) {
		t.Fatalf("reload mismatch: want %+v got %+v", want.Entries, got.Entries)
	}
	if got.Entries[0].Product.ID != banana.ID {
		t.Fatalf("order must survive reload: %+v", got.Entries)
	}
	if got.Total() != money.MustParse("34.45") {
		t.Fatalf("unexpected total %s", got.Total())
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeStorage{})
	store.AddToCart(ctx, apple, 1)

	snap := store.Snapshot()
	snap.Entries[0].Quantity = 99
	if store.GetItemQuantity(apple.ID) != 1 {
		t.Fatal("snapshot must not alias store state")
	}
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, &fakeStorage{})

	if _, err := store.Dispatch(ctx, Add(apple, 2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Dispatch(ctx, Add(banana, 1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	c, err := store.Dispatch(ctx, Update(apple.ID, 1))
	if err != nil || c.Quantity(apple.ID) != 1 {
		t.Fatalf("update: %v %+v", err, c.Entries)
	}
	c, err = store.Dispatch(ctx, Remove(banana.ID))
	if err != nil || c.ItemCount() != 1 {
		t.Fatalf("remove: %v %+v", err, c.Entries)
	}
	c, err = store.Dispatch(ctx, Clear())
	if err != nil || !c.IsEmpty() {
		t.Fatalf("clear: %v %+v", err, c.Entries)
	}

	if _, err := store.Dispatch(ctx, Add(catalog.Product{}, 1)); !errors.Is(err, domain.ErrProductRequired) {
		t.Fatalf("expected ErrProductRequired, got %v", err)
	}
	if _, err := store.Dispatch(ctx, Update("", 1)); !errors.Is(err, domain.ErrProductRequired) {
		t.Fatalf("expected ErrProductRequired, got %v", err)
	}
	if _, err := store.Dispatch(ctx, Command{Kind: "checkout"}); !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestConcurrentDispatchKeepsSingleEntry(t *testing.T) {
	storage := &fakeStorage{}
	store := newTestStore(t, storage)

	const n = 50
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := store.Dispatch(ctx, Add(apple, 1))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.ItemCount() != 1 || snap.Quantity(apple.ID) != n {
		t.Fatalf("expected one entry with quantity %d, got %+v", n, snap.Entries)
	}
	if storage.saveCount() != n {
		t.Fatalf("expected %d saves, got %d", n, storage.saveCount())
	}
	persisted, _ := storage.Load(context.Background())
	if persisted.Quantity(apple.ID) != n {
		t.Fatalf("persisted copy lags behind: %d", persisted.Quantity(apple.ID))
	}
}

func sameCart(a, b domain.Cart) bool {
	if len(a.Entries) != len(b.Entries) {
		return false
	}
	for i := range a.Entries {
		ea, eb := a.Entries[i], b.Entries[i]
		if ea.Product.ID != eb.Product.ID || ea.Quantity != eb.Quantity || ea.Product.Price != eb.Product.Price {
			return false
		}
	}
	return true
}
