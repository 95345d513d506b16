package checkout

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Zhima-Mochi/minishop-menu/internal/domain/cart"
	"github.com/Zhima-Mochi/minishop-menu/internal/domain/money"
)

const (
	// DefaultBaseURL opens the messaging app with a contact picker.
	DefaultBaseURL = "https://wa.me/"

	messageHeader  = "🛒 *Pedido do Cardápio Digital*"
	messageClosing = "Gostaria de confirmar este pedido!"
)

// Formatter renders a cart snapshot into an order message and deep link.
type Formatter struct {
	locale  money.Locale
	baseURL string
}

// NewFormatter builds a formatter for locale. When phone is non-empty its digits
// are appended to baseURL so the message goes straight to the store's number.
func NewFormatter(locale money.Locale, baseURL, phone string) *Formatter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if digits := onlyDigits(phone); digits != "" {
		baseURL = strings.TrimRight(baseURL, "/") + "/" + digits
	}
	return &Formatter{locale: locale, baseURL: baseURL}
}

// Message returns the human-readable order text, or "" for an empty cart.
func (f *Formatter) Message(c cart.Cart) string {
	if c.IsEmpty() {
		return ""
	}

	lines := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		lines = append(lines, f.line(e))
	}

	var b strings.Builder
	b.WriteString(messageHeader)
	b.WriteString("\n\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n💰 *Total: ")
	b.WriteString(f.locale.Format(c.Total()))
	b.WriteString("*\n\n")
	b.WriteString(messageClosing)
	return b.String()
}

// Link returns "<base>?text=<escaped message>", or "" for an empty cart.
func (f *Formatter) Link(c cart.Cart) string {
	msg := f.Message(c)
	if msg == "" {
		return ""
	}
	return f.baseURL + "?text=" + EscapeComponent(msg)
}

func (f *Formatter) line(e cart.Entry) string {
	return "• " + e.Product.Name +
		" - " + strconv.Itoa(e.Quantity) + "x " + f.locale.Format(e.Product.Price) +
		" = " + f.locale.Format(e.LineTotal())
}

// componentUnescaper undoes the QueryEscape output that encodeURIComponent
// leaves alone. QueryEscape already turns a literal '+' into %2B, so every
// remaining '+' stands for a space.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent percent-encodes s the way encodeURIComponent does: spaces
// become %20 and the marks ! ' ( ) * are left as is.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
