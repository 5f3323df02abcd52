package router

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/aidamian/mcp-workshop/internal/logging"
	"github.com/aidamian/mcp-workshop/internal/protocol"
)

var knownTickers = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "TSLA": true, "AMZN": true,
	"NVDA": true, "META": true, "IBM": true, "ORCL": true, "NFLX": true,
}

var nameToTicker = map[string]string{
	"APPLE":     "AAPL",
	"MICROSOFT": "MSFT",
	"TESLA":     "TSLA",
	"AMAZON":    "AMZN",
	"GOOGLE":    "GOOGL",
	"ALPHABET":  "GOOGL",
	"META":      "META",
	"FACEBOOK":  "META",
	"NVIDIA":    "NVDA",
	"IBM":       "IBM",
	"ORACLE":    "ORCL",
	"NETFLIX":   "NFLX",
}

var (
	tickerPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)
	dollarPattern = regexp.MustCompile(`\$([A-Za-z]{1,5})\b`)
)

var _ Router = (*Heuristic)(nil)

// Heuristic classifies prompts with keyword matching and a small
// ticker/company-name dictionary. It needs no network access.
type Heuristic struct {
	log logging.Logger
}

// NewHeuristic builds the offline classifier.
func NewHeuristic(log logging.Logger) *Heuristic {
	if log == nil {
		log = logging.NoOp()
	}
	return &Heuristic{log: log}
}

// Route picks compare when the prompt asks for one, otherwise a single
// price lookup.
func (h *Heuristic) Route(prompt string) (ToolCall, error) {
	cleaned := strings.TrimSpace(prompt)
	if cleaned == "" {
		return ToolCall{}, ErrEmptyQuery
	}

	symbols := extractSymbols(cleaned)
	h.log.Debugf("heuristic symbols detected: %v", symbols)

	lower := strings.ToLower(cleaned)
	if strings.Contains(lower, "compare") || hasWord(lower, "vs") || strings.Contains(lower, "versus") {
		if len(symbols) < 2 {
			return ToolCall{}, errors.New("could not determine two symbols to compare")
		}
		return ToolCall{
			Tool:      protocol.ToolCompare,
			Arguments: map[string]string{"symbol_a": symbols[0], "symbol_b": symbols[1]},
		}, nil
	}

	if len(symbols) == 0 {
		return ToolCall{}, errors.New("could not determine a stock symbol from the query")
	}
	return ToolCall{
		Tool:      protocol.ToolGetPrice,
		Arguments: map[string]string{"symbol": symbols[0]},
	}, nil
}

// extractSymbols finds candidate tickers in order of appearance: explicit
// known tickers first, then company names, then $SYM tokens.
func extractSymbols(prompt string) []string {
	upper := strings.ToUpper(prompt)

	var candidates []string
	for _, token := range tickerPattern.FindAllString(upper, -1) {
		if knownTickers[token] {
			candidates = append(candidates, token)
		}
	}
	if len(candidates) > 0 {
		return dedupe(candidates)
	}

	type hit struct {
		pos    int
		ticker string
	}
	var hits []hit
	for name, ticker := range nameToTicker {
		pattern := regexp.MustCompile(`\b` + name + `\b`)
		if loc := pattern.FindStringIndex(upper); loc != nil {
			hits = append(hits, hit{pos: loc[0], ticker: ticker})
		}
	}
	if len(hits) > 0 {
		sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
		ordered := make([]string, 0, len(hits))
		for _, h := range hits {
			ordered = append(ordered, h.ticker)
		}
		return dedupe(ordered)
	}

	var dollars []string
	for _, match := range dollarPattern.FindAllStringSubmatch(prompt, -1) {
		dollars = append(dollars, strings.ToUpper(match[1]))
	}
	return dedupe(dollars)
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	ordered := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func hasWord(haystack, word string) bool {
	for _, token := range strings.Fields(haystack) {
		if strings.Trim(token, ".,!?") == word {
			return true
		}
	}
	return false
}
