package checkout

import (
	"context"
	"errors"

	"github.com/Zhima-Mochi/minishop-menu/internal/application"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	domain "github.com/Zhima-Mochi/minishop-menu/internal/domain/checkout"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
	"github.com/Zhima-Mochi/minishop-menu/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	checkoutService = "checkout-service"
	useCaseCheckout = "checkout.message"
)

var ErrEmptyCart = errors.New("checkout: cart is empty")

// CartReader is the slice of the cart store checkout needs.
type CartReader interface {
	Snapshot() cart.Cart
}

type Input struct{}

type Result struct {
	Message   string
	Link      string
	Total     money.Money
	ItemCount int
}

// UseCase renders the current cart as an order message and deep link.
type UseCase struct {
	carts     CartReader
	formatter *domain.Formatter
	inst      *application.Instrument
}

var _ application.UseCase[Input, *Result] = (*UseCase)(nil)

func NewUseCase(carts CartReader, formatter *domain.Formatter, tel observability.Observability) *UseCase {
	return &UseCase{
		carts:     carts,
		formatter: formatter,
		inst:      application.NewInstrument(tel, checkoutService),
	}
}

func (uc *UseCase) Execute(ctx context.Context, _ Input) (_ *Result, err error) {
	ctx, run := uc.inst.Start(ctx, useCaseCheckout, "Checkout")
	defer func() { run.End(err) }()

	if err := ctx.Err(); err != nil {
		run.Fail("CONTEXT_CANCELED")
		return nil, err
	}

	snapshot := uc.carts.Snapshot()
	if snapshot.IsEmpty() {
		run.Fail("CART_EMPTY")
		return nil, ErrEmptyCart
	}

	res := &Result{
		Message:   uc.formatter.Message(snapshot),
		Link:      uc.formatter.Link(snapshot),
		Total:     snapshot.Total(),
		ItemCount: snapshot.ItemCount(),
	}
	run.Span().SetAttributes(
		attribute.Int("cart.items", res.ItemCount),
		attribute.Int64("cart.total_minor", res.Total.Minor()),
	)
	run.With(
		observability.F("items", res.ItemCount),
		observability.F("total", res.Total.String()),
	)
	return res, nil
}
