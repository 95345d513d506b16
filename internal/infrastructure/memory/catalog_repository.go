package memory

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

// CatalogRepository is an in-memory catalog.Reader. Products keep insertion order.
type CatalogRepository struct {
	mu         sync.RWMutex
	products   []domain.Product
	index      map[string]int
	categories []domain.Category
}

var _ domain.Reader = (*CatalogRepository)(nil)

func NewCatalogRepository(products []domain.Product, categories []domain.Category) (*CatalogRepository, error) {
	r := &CatalogRepository{
		index:      make(map[string]int, len(products)),
		categories: append([]domain.Category(nil), categories...),
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog repository: product %q: %w", p.ID, err)
		}
		if _, exists := r.index[p.ID]; exists {
			return nil, fmt.Errorf("catalog repository: duplicate product %q", p.ID)
		}
		r.index[p.ID] = len(r.products)
		r.products = append(r.products, p.Clone())
	}
	return r, nil
}

// NewSeededCatalogRepository returns the demo storefront catalog.
func NewSeededCatalogRepository() *CatalogRepository {
	r, err := NewCatalogRepository(seedProducts(), seedCategories())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return r.products[i].Clone(), nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.Category(nil), r.categories...), nil
}

func seedCategories() []domain.Category {
	return []domain.Category{
		{ID: "1", Name: "Frutas", Icon: "🍎", Color: "bg-gradient-secondary"},
		{ID: "2", Name: "Vegetais", Icon: "🥕", Color: "bg-gradient-primary"},
		{ID: "3", Name: "Carnes", Icon: "🥩", Color: "bg-gradient-accent"},
		{ID: "4", Name: "Laticínios", Icon: "🥛", Color: "bg-gradient-card"},
	}
}

func seedProducts() []domain.Product {
	price := func(s string) *money.Money {
		m := money.MustParse(s)
		return &m
	}
	return []domain.Product{
		{
			ID:          "1",
			Name:        "Maçã Fuji",
			Description: "Maçãs frescas e crocantes, perfeitas para lanches saudáveis",
			Price:       money.MustParse("8.99"),
			Image:       "/assets/maca-fuji.jpg",
			CategoryID:  "1",
			Unit:        domain.UnitKilogram,
			Available:   true,
		},
		{
			ID:            "2",
			Name:          "Banana Prata",
			Description:   "Bananas maduras e doces, ricas em potássio",
			Price:         money.MustParse("5.49"),
			OriginalPrice: price("6.99"),
			Image:         "/assets/banana-prata.jpg",
			CategoryID:    "1",
			Unit:          domain.UnitKilogram,
			Available:     true,
			IsPromotion:   true,
		},
		{
			ID:          "3",
			Name:        "Cenoura",
			Description: "Cenouras frescas e crocantes, ideais para saladas",
			Price:       money.MustParse("4.99"),
			Image:       "/assets/cenoura.jpg",
			CategoryID:  "2",
			Unit:        domain.UnitKilogram,
			Available:   true,
		},
		{
			ID:            "4",
			Name:          "Tomate",
			Description:   "Tomates maduros e suculentos para suas receitas",
			Price:         money.MustParse("7.99"),
			OriginalPrice: price("9.99"),
			Image:         "/assets/tomate.jpg",
			CategoryID:    "2",
			Unit:          domain.UnitKilogram,
			Available:     true,
			IsPromotion:   true,
		},
		{
			ID:          "5",
			Name:        "Picanha",
			Description: "Picanha premium, macia e saborosa",
			Price:       money.MustParse("65.99"),
			Image:       "/assets/picanha.jpg",
			CategoryID:  "3",
			Unit:        domain.UnitKilogram,
			Available:   true,
		},
		{
			ID:          "6",
			Name:        "Leite Integral",
			Description: "Leite fresco e nutritivo",
			Price:       money.MustParse("4.99"),
			Image:       "/assets/leite-integral.jpg",
			CategoryID:  "4",
			Unit:        domain.UnitLiter,
			Available:   true,
		},
	}
}
