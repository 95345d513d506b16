package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Locale describes how amounts are rendered for customers.
type Locale struct {
	Tag             language.Tag
	Symbol          string
	SymbolSeparator string
	DecimalSep      string
	GroupSep        string
}

var (
	// BrazilianReal is the store default: "R$ 1.234,56".
	BrazilianReal = Locale{
		Tag:             language.BrazilianPortuguese,
		Symbol:          "R$",
		SymbolSeparator: " ",
		DecimalSep:      ",",
		GroupSep:        ".",
	}
	// USDollar renders "$1,234.56".
	USDollar = Locale{
		Tag:        language.AmericanEnglish,
		Symbol:     "$",
		DecimalSep: ".",
		GroupSep:   ",",
	}
)

var (
	supportedLocales = []Locale{BrazilianReal, USDollar}
	localeMatcher    = language.NewMatcher([]language.Tag{BrazilianReal.Tag, USDollar.Tag})
)

// LookupLocale picks the supported locale closest to the BCP 47 tag.
// Unparseable or unsupported tags fall back to BrazilianReal.
func LookupLocale(tag string) Locale {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return BrazilianReal
	}
	_, idx, conf := localeMatcher.Match(t)
	if conf == language.No {
		return BrazilianReal
	}
	return supportedLocales[idx]
}

// Format renders m with the locale's symbol, grouping and two minor digits.
func (l Locale) Format(m Money) string {
	v := int64(m)
	neg := v < 0
	if neg {
		v = -v
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(l.Symbol)
	b.WriteString(l.SymbolSeparator)
	b.WriteString(group(strconv.FormatInt(v/100, 10), l.GroupSep))
	b.WriteString(l.DecimalSep)
	cents := v % 100
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(cents, 10))
	return b.String()
}

func group(digits, sep string) string {
	if len(digits) <= 3 || sep == "" {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
