package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/foresight/internal/interfaces"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient("test-key",
		WithBaseURL(srv.URL),
		WithRateLimit(6000), // effectively unlimited for tests
	)
}

func TestSearchParsesMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/symbol_search", r.URL.Path)
		assert.Equal(t, "Apple", r.URL.Query().Get("symbol"))
		assert.Equal(t, "10", r.URL.Query().Get("outputsize"))
		assert.Equal(t, "apikey test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"symbol": "AAPL", "instrument_name": "Apple Inc", "exchange": "NASDAQ", "instrument_type": "Common Stock", "country": "United States"},
				{"symbol": "APC.XETRA", "instrument_name": "Apple Inc", "exchange": "XETRA", "instrument_type": "Common Stock", "country": "Germany"}
			],
			"status": "ok"
		}`))
	}))
	defer srv.Close()

	matches, err := newTestClient(srv).Search(context.Background(), "Apple")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "AAPL", matches[0].Ticker)
	assert.Equal(t, "Apple Inc", matches[0].InstrumentName)
	assert.Equal(t, "NASDAQ", matches[0].Exchange)
	assert.Equal(t, "Common Stock", matches[0].InstrumentType)
}

func TestSearch429HeaderSignalsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "Apple")
	require.Error(t, err)

	rle, ok := interfaces.AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, 30*time.Second, rle.RetryAfter)
}

func TestSearch200BodyCode429SignalsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": 429, "message": "You have run out of API credits", "status": "error"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "Apple")
	require.Error(t, err)

	rle, ok := interfaces.AsRateLimit(err)
	require.True(t, ok)
	assert.Equal(t, defaultRetryAfter, rle.RetryAfter)
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code": 400, "message": "symbol parameter is missing", "status": "error"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "Apple")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "symbol parameter")
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, defaultRetryAfter, parseRetryAfter(""))
	assert.Equal(t, defaultRetryAfter, parseRetryAfter("soon"))
	assert.Equal(t, defaultRetryAfter, parseRetryAfter("-1"))
	assert.Equal(t, 90*time.Second, parseRetryAfter("90"))
}
