// Package postgres reads the storefront catalog from the admin-managed database.
package postgres

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productColumns = `id::text, name, coalesce(description, ''), price::text, original_price::text,
		coalesce(image, ''), coalesce(category_id::text, ''), unit, available, is_promotion`

	listProductsQuery   = `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`
	getProductQuery     = `SELECT ` + productColumns + ` FROM products WHERE id::text = $1`
	listCategoriesQuery = `SELECT id::text, name, coalesce(icon, ''), coalesce(color, '') FROM categories ORDER BY created_at, id`
)

type rowScanner interface {
	Scan(dest ...any) error
}

// CatalogRepository is a read-only catalog.Reader over the products and
// categories tables.
type CatalogRepository struct {
	pool *pgxpool.Pool
}

var _ domain.Reader = (*CatalogRepository)(nil)

// Connect opens a pool for dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list products: %w", err)
	}
	return products, nil
}

func (r *CatalogRepository) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, getProductQuery, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.pool.Query(ctx, listCategoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("postgres: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list categories: %w", err)
	}
	return categories, nil
}

// scanProduct reads prices as text so they parse exactly into minor units.
func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p             domain.Product
		unit          string
		price         string
		originalPrice *string
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &price, &originalPrice,
		&p.Image, &p.CategoryID, &unit, &p.Available, &p.IsPromotion,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, err
		}
		return domain.Product{}, fmt.Errorf("postgres: scan product: %w", err)
	}

	parsed, err := money.Parse(price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("postgres: product %s price: %w", p.ID, err)
	}
	p.Price = parsed

	if originalPrice != nil {
		op, err := money.Parse(*originalPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("postgres: product %s original price: %w", p.ID, err)
		}
		p.OriginalPrice = &op
	}

	p.Unit = domain.Unit(unit)
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("postgres: product %s: %w", p.ID, err)
	}
	return p, nil
}
