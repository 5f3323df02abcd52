package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestYahooSource(url string) *YahooSource {
	return &YahooSource{
		httpClient: &http.Client{Timeout: time.Second},
		baseURL:    url,
	}
}

func TestYahooSourceQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":187.31}}]}}`))
	}))
	defer srv.Close()

	price, err := newTestYahooSource(srv.URL).Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 187.31, price)
}

func TestYahooSourceHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestYahooSource(srv.URL).Quote(context.Background(), "ZZZZ")
	assert.ErrorContains(t, err, "yahoo API error (404)")
}

func TestYahooSourceMissingPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[]}}`))
	}))
	defer srv.Close()

	_, err := newTestYahooSource(srv.URL).Quote(context.Background(), "AAPL")
	assert.ErrorContains(t, err, "no market price")
}
