package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

func sampleCart() cart.Cart {
	original := money.MustParse("6.99")
	return cart.Cart{Entries: []cart.Entry{
		{
			Product: catalog.Product{
				ID: "2", Name: "Banana Prata", Price: money.MustParse("5.49"), OriginalPrice: &original,
				CategoryID: "1", Unit: catalog.UnitKilogram, Available: true, IsPromotion: true,
			},
			Quantity: 3,
		},
		{
			Product: catalog.Product{
				ID: "1", Name: "Maçã Fuji", Price: money.MustParse("8.99"),
				CategoryID: "1", Unit: catalog.UnitKilogram, Available: true,
			},
			Quantity: 2,
		},
	}}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := s.Get(ctx, CartKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, CartKey, []byte("one")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, CartKey, []byte("two")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.Get(ctx, CartKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("expected last write, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tmp-") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}

	if err := s.Delete(ctx, CartKey); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, CartKey); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if _, err := s.Get(ctx, CartKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := NewCartStorage(first).Save(ctx, sampleCart()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	second, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	loaded, err := NewCartStorage(second).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Total() != money.MustParse("34.45") {
		t.Fatalf("expected total 34.45, got %s", loaded.Total())
	}
	if len(loaded.Entries) != 2 || loaded.Entries[0].Product.ID != "2" {
		t.Fatalf("entry order not preserved: %+v", loaded.Entries)
	}
	if op := loaded.Entries[0].Product.OriginalPrice; op == nil || *op != money.MustParse("6.99") {
		t.Fatalf("original price lost: %v", op)
	}
}

func TestCartStorageMissingKeyIsEmpty(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	c, err := NewCartStorage(s).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c)
	}
}

func TestCartStorageCorruptPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{{{"},
		{name: "wrong version", raw: `{"version":2,"items":[]}`},
		{name: "zero quantity", raw: `{"version":1,"items":[{"product_id":"1","quantity":0,"product":{"id":"1","name":"x","price":1,"unit":"kg"}}]}`},
		{name: "duplicate", raw: `{"version":1,"items":[` +
			`{"product_id":"1","quantity":1,"product":{"id":"1","price":1,"unit":"kg"}},` +
			`{"product_id":"1","quantity":2,"product":{"id":"1","price":1,"unit":"kg"}}]}`},
		{name: "id mismatch", raw: `{"version":1,"items":[{"product_id":"1","quantity":1,"product":{"id":"2","price":1,"unit":"kg"}}]}`},
		{name: "bad price", raw: `{"version":1,"items":[{"product_id":"1","quantity":1,"product":{"id":"1","price":"abc","unit":"kg"}}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, CartKey+".json"), []byte(tc.raw), 0o644); err != nil {
				t.Fatalf("seed: %v", err)
			}
			s, err := NewFileStore(dir)
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			if _, err := NewCartStorage(s).Load(context.Background()); !errors.Is(err, cart.ErrCorruptState) {
				t.Fatalf("expected ErrCorruptState, got %v", err)
			}
		})
	}
}

func TestDecodeAcceptsQuotedPrices(t *testing.T) {
	raw := `{"version":1,"items":[{"product_id":"1","quantity":2,"product":{"id":"1","name":"Apple","price":"8.99","unit":"kg"}}]}`
	c, err := DecodeCart([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeCart: %v", err)
	}
	if c.Total() != money.MustParse("17.98") {
		t.Fatalf("expected 17.98, got %s", c.Total())
	}
}

func TestCanceledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Set(ctx, CartKey, []byte("x")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
