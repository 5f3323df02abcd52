package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/aidamian/mcp-workshop/internal/logging"
)

// LiveSource fetches a current price from an external provider. A nil price
// or any error means "no live quote"; the resolver never surfaces live
// failures to its caller.
type LiveSource interface {
	Quote(ctx context.Context, symbol string) (float64, error)
}

// Resolver answers price lookups by trying the live source first and
// degrading silently to the fallback table.
type Resolver struct {
	live     LiveSource
	fallback FallbackTable
	log      logging.Logger
}

// NewResolver builds a resolver. live may be nil to force fallback-only
// operation.
func NewResolver(live LiveSource, fallback FallbackTable, log logging.Logger) *Resolver {
	if log == nil {
		log = logging.NoOp()
	}
	return &Resolver{live: live, fallback: fallback, log: log}
}

// GetPrice resolves one symbol. The input is trimmed and upper-cased before
// lookup. Returns *NotFoundError when the symbol is blank or absent from
// both sources.
func (r *Resolver) GetPrice(ctx context.Context, symbol string) (Quote, error) {
	clean := strings.ToUpper(strings.TrimSpace(symbol))
	if clean == "" {
		return Quote{}, &NotFoundError{}
	}

	if price, ok := r.fetchLive(ctx, clean); ok {
		r.log.Infof("using live price for %s", clean)
		return Quote{Symbol: clean, Price: price, Source: SourceLive}, nil
	}

	price, ok := r.fallback.Lookup(clean)
	if !ok {
		return Quote{}, &NotFoundError{Symbol: clean}
	}
	r.log.Infof("using fallback price for %s", clean)
	return Quote{Symbol: clean, Price: price, Source: SourceFallback}, nil
}

// Compare resolves both symbols in order, short-circuiting if the first one
// fails, and summarises how their prices relate.
func (r *Resolver) Compare(ctx context.Context, symbolA, symbolB string) (Comparison, error) {
	quoteA, err := r.GetPrice(ctx, symbolA)
	if err != nil {
		return Comparison{}, err
	}
	quoteB, err := r.GetPrice(ctx, symbolB)
	if err != nil {
		return Comparison{}, err
	}

	var summary string
	switch {
	case quoteA.Price > quoteB.Price:
		summary = fmt.Sprintf("%s is trading higher than %s (%.2f vs %.2f).",
			quoteA.Symbol, quoteB.Symbol, quoteA.Price, quoteB.Price)
	case quoteA.Price < quoteB.Price:
		summary = fmt.Sprintf("%s is trading lower than %s (%.2f vs %.2f).",
			quoteA.Symbol, quoteB.Symbol, quoteA.Price, quoteB.Price)
	default:
		summary = fmt.Sprintf("%s and %s have the same price at %.2f.",
			quoteA.Symbol, quoteB.Symbol, quoteA.Price)
	}

	return Comparison{QuoteA: quoteA, QuoteB: quoteB, Summary: summary}, nil
}

// fetchLive swallows every live-source failure: the fallback table is the
// recovery path, not the error path.
func (r *Resolver) fetchLive(ctx context.Context, symbol string) (float64, bool) {
	if r.live == nil {
		return 0, false
	}
	price, err := r.live.Quote(ctx, symbol)
	if err != nil {
		r.log.Debugf("live lookup for %s failed (%v); trying fallback", symbol, err)
		return 0, false
	}
	if price <= 0 {
		return 0, false
	}
	return price, true
}
