package money

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Money
	}{
		{"8.99", 899},
		{"5.49", 549},
		{"0", 0},
		{"1234.5", 123450},
		{"0.005", 1},
		{"65.99", 6599},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Parse(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}

	if _, err := Parse("abc"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestMoneyArithmeticIsExact(t *testing.T) {
	apple := MustParse("8.99")
	banana := MustParse("5.49")

	total := apple.Mul(2).Add(banana.Mul(1))
	if total != 2347 {
		t.Fatalf("expected 2347 minor units, got %d", total)
	}
	if total.String() != "23.47" {
		t.Fatalf("expected 23.47, got %s", total.String())
	}

	// 0.1 + 0.2 style drift must not appear.
	var sum Money
	for i := 0; i < 10; i++ {
		sum = sum.Add(MustParse("0.10"))
	}
	if sum != 100 {
		t.Fatalf("expected exactly 1.00, got %s", sum)
	}
}

func TestMoneyJSON(t *testing.T) {
	type wrapper struct {
		Price Money `json:"price"`
	}

	b, err := json.Marshal(wrapper{Price: 899})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"price":8.99}` {
		t.Fatalf("unexpected json %s", b)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"price":"12.30"}`), &w); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if w.Price != 1230 {
		t.Fatalf("expected 1230, got %d", w.Price)
	}

	if err := json.Unmarshal([]byte(`{"price":7.99}`), &w); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if w.Price != 799 {
		t.Fatalf("expected 799, got %d", w.Price)
	}

	if err := json.Unmarshal([]byte(`{"price":"seven"}`), &w); err == nil {
		t.Fatal("expected error for malformed price")
	}
}

func TestLocaleFormat(t *testing.T) {
	cases := []struct {
		name   string
		locale Locale
		in     Money
		want   string
	}{
		{"brl simple", BrazilianReal, 899, "R$ 8,99"},
		{"brl line total", BrazilianReal, 1798, "R$ 17,98"},
		{"brl zero", BrazilianReal, 0, "R$ 0,00"},
		{"brl cents padding", BrazilianReal, 105, "R$ 1,05"},
		{"brl thousands", BrazilianReal, 123456, "R$ 1.234,56"},
		{"brl millions", BrazilianReal, 123456789, "R$ 1.234.567,89"},
		{"brl negative", BrazilianReal, -549, "-R$ 5,49"},
		{"usd thousands", USDollar, 123456, "$1,234.56"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.locale.Format(tc.in); got != tc.want {
				t.Fatalf("Format(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLookupLocale(t *testing.T) {
	if got := LookupLocale("pt-BR"); got.Symbol != "R$" {
		t.Fatalf("pt-BR resolved to %q", got.Symbol)
	}
	if got := LookupLocale("en-US"); got.Symbol != "$" {
		t.Fatalf("en-US resolved to %q", got.Symbol)
	}
	if got := LookupLocale("not a tag!"); got.Symbol != "R$" {
		t.Fatalf("garbage should fall back to BRL, got %q", got.Symbol)
	}
}
