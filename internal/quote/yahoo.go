package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches quotes from the public Yahoo Finance chart endpoint.
type YahooSource struct {
	httpClient *http.Client
	baseURL    string
}

// NewYahooSource builds a live source with a bounded request timeout.
func NewYahooSource() *YahooSource {
	return &YahooSource{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: defaultYahooBaseURL,
	}
}

// Quote requests the latest market price for a symbol.
func (s *YahooSource) Quote(ctx context.Context, symbol string) (float64, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1m",
		s.baseURL, url.PathEscape(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	// Yahoo rejects requests without a browser-ish user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mcp-workshop/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("yahoo API error (%d): %s", resp.StatusCode, string(body))
	}

	price := gjson.GetBytes(body, "chart.result.0.meta.regularMarketPrice")
	if !price.Exists() || price.Float() <= 0 {
		return 0, fmt.Errorf("no market price in response for %s", symbol)
	}

	return price.Float(), nil
}
