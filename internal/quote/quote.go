// Package quote resolves stock price lookups against a live source with a
// static CSV fallback.
package quote

import (
	"fmt"
	"strconv"
)

// Source identifies where a quote came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Quote is the result of a single price lookup. Immutable once built; the
// symbol is always upper-case.
type Quote struct {
	Symbol string
	Price  float64
	Source Source
}

// Payload serialises the quote for the wire with the price formatted to two
// decimals.
func (q Quote) Payload() map[string]string {
	return map[string]string{
		"symbol": q.Symbol,
		"price":  strconv.FormatFloat(q.Price, 'f', 2, 64),
		"source": string(q.Source),
	}
}

// Comparison holds both quotes plus a synthesised summary of how they
// relate.
type Comparison struct {
	QuoteA  Quote
	QuoteB  Quote
	Summary string
}

// Payload serialises the comparison for the wire.
func (c Comparison) Payload() map[string]any {
	return map[string]any{
		"symbol_a": c.QuoteA.Payload(),
		"symbol_b": c.QuoteB.Payload(),
		"summary":  c.Summary,
	}
}

// NotFoundError reports a symbol that resolved to neither a live nor a
// fallback price. An empty Symbol means the input was blank after trimming.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	if e.Symbol == "" {
		return "Symbol must be a non-empty string."
	}
	return fmt.Sprintf("Price not available for symbol %s.", e.Symbol)
}
