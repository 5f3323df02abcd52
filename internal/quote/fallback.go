package quote

import (
	"os"
	"strconv"
	"strings"

	"github.com/aidamian/mcp-workshop/internal/logging"
)

// FallbackTable maps upper-case symbols to static prices. It is populated
// once at worker startup and read-only afterwards.
type FallbackTable map[string]float64

// LoadFallbackTable reads a two-column (symbol, price) CSV. The header row
// is ignored and malformed rows are skipped. A missing file yields an empty
// table rather than an error so the worker can still serve live quotes.
func LoadFallbackTable(path string, log logging.Logger) FallbackTable {
	table := make(FallbackTable)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf("fallback table %s not readable (%v); starting with no fallback data", path, err)
		return table
	}

	for i, line := range strings.Split(string(data), "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(fields[0]))
		price, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if symbol == "" || err != nil || price < 0 {
			continue
		}
		table[symbol] = price
	}

	log.Infof("loaded %d fallback prices from %s", len(table), path)
	return table
}

// Lookup returns the tabled price for an already-normalised symbol.
func (t FallbackTable) Lookup(symbol string) (float64, bool) {
	price, ok := t[symbol]
	return price, ok
}
