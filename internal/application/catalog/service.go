package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-menu/internal/application"
	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogService      = "catalog-service"
	useCaseBrowse       = "catalog.browse"
	useCaseCategories   = "catalog.categories"
	useCaseProductQuery = "catalog.product"
)

var (
	ErrNotFound    = domain.ErrNotFound
	ErrUnavailable = errors.New("catalog: product unavailable")
	ErrReader      = errors.New("catalog: reader failure")
	ErrIDRequired  = errors.New("catalog: product id is required")
)

type BrowseInput struct {
	Search     string
	CategoryID string
}

// Service is the read-only view over the catalog used by the storefront.
type Service struct {
	reader domain.Reader
	inst   *application.Instrument
}

func NewService(reader domain.Reader, tel observability.Observability) *Service {
	return &Service{
		reader: reader,
		inst:   application.NewInstrument(tel, catalogService),
	}
}

// Browse lists the products matching the search text and category selector.
func (s *Service) Browse(ctx context.Context, in BrowseInput) (_ []domain.Product, err error) {
	ctx, run := s.inst.Start(ctx, useCaseBrowse, "BrowseCatalog",
		attribute.String("catalog.search", in.Search),
		attribute.String("catalog.category", in.CategoryID),
	)
	defer func() { run.End(err) }()

	products, err := s.reader.ListProducts(ctx)
	if err != nil {
		run.Fail("READER_FAILED")
		return nil, fmt.Errorf("%w: %v", ErrReader, err)
	}

	out := domain.Filter(products, in.Search, in.CategoryID)
	run.Span().SetAttributes(attribute.Int("catalog.results", len(out)))
	run.With(observability.F("results", len(out)))
	return out, nil
}

// Categories lists the catalog's categories followed by the promotions
// pseudo-category.
func (s *Service) Categories(ctx context.Context) (_ []domain.Category, err error) {
	ctx, run := s.inst.Start(ctx, useCaseCategories, "ListCategories")
	defer func() { run.End(err) }()

	cats, err := s.reader.ListCategories(ctx)
	if err != nil {
		run.Fail("READER_FAILED")
		return nil, fmt.Errorf("%w: %v", ErrReader, err)
	}
	return domain.WithPromotions(cats), nil
}

// Product resolves a product that can be added to the cart.
func (s *Service) Product(ctx context.Context, id string) (_ domain.Product, err error) {
	ctx, run := s.inst.Start(ctx, useCaseProductQuery, "GetProduct",
		attribute.String("catalog.product_id", id),
	)
	defer func() { run.End(err) }()

	if id == "" {
		run.Fail("PRODUCT_ID_REQUIRED")
		return domain.Product{}, fmt.Errorf("validation: %w", ErrIDRequired)
	}

	p, err := s.reader.GetProduct(ctx, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		run.Fail("NOT_FOUND")
		return domain.Product{}, ErrNotFound
	default:
		run.Fail("READER_FAILED")
		return domain.Product{}, fmt.Errorf("%w: %v", ErrReader, err)
	}

	if !p.Available {
		run.Fail("UNAVAILABLE")
		return domain.Product{}, ErrUnavailable
	}
	return p, nil
}
