package catalog

import "context"

// Reader is the read side of the external catalog. The cart never writes to it.
type Reader interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
