package httppresentation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	appcart "github.com/Zhima-Mochi/minishop-menu/internal/application/cart"
	appcatalog "github.com/Zhima-Mochi/minishop-menu/internal/application/catalog"
	appcheckout "github.com/Zhima-Mochi/minishop-menu/internal/application/checkout"
	domcart "github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	domcatalog "github.com/Zhima-Mochi/minishop-menu/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability/logctx"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	componentHTTPHandler = "http_server"
	headerRequestID      = "X-Request-ID"
	headerSessionID      = "X-Session-ID"
	defaultAddQuantity   = 1
)

// Catalog is the storefront's read side.
type Catalog interface {
	Browse(ctx context.Context, in appcatalog.BrowseInput) ([]domcatalog.Product, error)
	Categories(ctx context.Context) ([]domcatalog.Category, error)
	Product(ctx context.Context, id string) (domcatalog.Product, error)
}

// CartStore accepts cart commands and exposes the current snapshot.
type CartStore interface {
	Dispatch(ctx context.Context, cmd appcart.Command) (domcart.Cart, error)
	Snapshot() domcart.Cart
}

type Checkout interface {
	Execute(ctx context.Context, in appcheckout.Input) (*appcheckout.Result, error)
}

type Handler struct {
	catalog  Catalog
	carts    CartStore
	checkout Checkout
	locale   money.Locale
	metrics  http.Handler

	log           observability.Logger
	httpCounter   observability.Counter   // http_requests_total{method,route,status}
	httpHistogram observability.Histogram // http_request_duration_seconds{method,route,status}
}

type Option func(*Handler)

// WithMetricsHandler serves h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(hd *Handler) { hd.metrics = h }
}

func NewHandler(
	catalog Catalog,
	carts CartStore,
	checkout Checkout,
	locale money.Locale,
	tel observability.Observability,
	opts ...Option,
) *Handler {
	if tel == nil {
		tel = observability.Nop()
	}
	h := &Handler{
		catalog:       catalog,
		carts:         carts,
		checkout:      checkout,
		locale:        locale,
		log:           tel.Logger().With(observability.F("component", componentHTTPHandler)),
		httpCounter:   tel.Metrics().Counter(observability.MHTTPRequests),
		httpHistogram: tel.Metrics().Histogram(observability.MHTTPRequestDuration),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	// Each route: Trace → request logger → access log → HTTP metrics → handler
	h.route(r, http.MethodGet, "/products", h.handleListProducts)
	h.route(r, http.MethodGet, "/categories", h.handleListCategories)
	h.route(r, http.MethodGet, "/menu.txt", h.handleMenuText)
	h.route(r, http.MethodGet, "/cart", h.handleGetCart)
	h.route(r, http.MethodPost, "/cart/items", h.handleAddItem)
	h.route(r, http.MethodPut, "/cart/items/{productID}", h.handleUpdateItem)
	h.route(r, http.MethodDelete, "/cart/items/{productID}", h.handleRemoveItem)
	h.route(r, http.MethodDelete, "/cart", h.handleClearCart)
	h.route(r, http.MethodPost, "/cart/checkout", h.handleCheckout)
	h.route(r, http.MethodGet, "/health", h.handleHealth)

	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}
	return r
}

func (h *Handler) route(r chi.Router, method, pattern string, handler http.HandlerFunc) {
	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			func(r *http.Request) string { return r.Header.Get(headerSessionID) },
		)(
			h.withAccessLog(
				h.withHTTPMetrics(handler),
			),
		),
	)
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		wrapped.ServeHTTP(w, req.WithContext(contextWithRoute(req.Context(), pattern)))
	}))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.catalog.Browse(r.Context(), appcatalog.BrowseInput{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p, h.locale))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handler) handleMenuText(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Browse(r.Context(), appcatalog.BrowseInput{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cardapio.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(domcatalog.MenuText(products, h.locale)))
}

func (h *Handler) handleGetCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newCartView(h.carts.Snapshot(), h.locale))
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	quantity := defaultAddQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := h.catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	c, err := h.carts.Dispatch(r.Context(), appcart.Add(product, quantity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c, h.locale))
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, errors.New("quantity is required"))
		return
	}

	c, err := h.carts.Dispatch(r.Context(), appcart.Update(chi.URLParam(r, "productID"), *req.Quantity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c, h.locale))
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Dispatch(r.Context(), appcart.Remove(chi.URLParam(r, "productID")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c, h.locale))
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.carts.Dispatch(r.Context(), appcart.Clear())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCartView(c, h.locale))
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	res, err := h.checkout.Execute(r.Context(), appcheckout.Input{})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkoutView{
		Message:        res.Message,
		Link:           res.Link,
		Total:          res.Total,
		TotalFormatted: h.locale.Format(res.Total),
		ItemCount:      res.ItemCount,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes,
// using the request-scoped logger injected by ObservabilityMiddleware.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer("minishop-menu.http")
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		ctxWithSpan, span := tracer.Start(parentCtx,
			r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		next.ServeHTTP(w, r.WithContext(ctxWithSpan))
	})
}

// withHTTPMetrics records RED HTTP metrics on the injected instruments.
func (h *Handler) withHTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		labels := []observability.Label{
			observability.L("method", r.Method),
			observability.L("route", routeFromContext(r.Context())),
			observability.L("status", strconv.Itoa(lrw.status)),
		}
		h.httpCounter.Add(1, labels...)
		h.httpHistogram.Observe(time.Since(start).Seconds(), labels...)
	})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appcatalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, appcatalog.ErrUnavailable),
		errors.Is(err, appcheckout.ErrEmptyCart):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, appcatalog.ErrIDRequired),
		errors.Is(err, domcart.ErrProductRequired),
		errors.Is(err, appcart.ErrUnknownCommand):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, appcatalog.ErrReader):
		writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

type routeKey struct{}

// contextWithRoute stores the route pattern so metrics and logs use
// low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
