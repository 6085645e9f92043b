package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScrapeExtractsArticleBody(t *testing.T) {
	html := `<html><body>
<article>
<h1>Fed Holds Rates Steady Amid Inflation Concerns</h1>
<div class="ArticleBody-articleBody">
  <p>The Federal Reserve kept interest rates unchanged on Wednesday, citing persistent inflation pressures.</p>
  <h2>Markets react to the decision</h2>
  <p>Stocks initially dipped before recovering in afternoon trading as investors digested the decision.</p>
  <ul><li>S&amp;P 500 flat</li></ul>
  <blockquote>We remain committed to our two percent target, the chair said.</blockquote>
  <p>Subscribe here for more market updates.</p>
  <p>8:45 a.m. ET update on futures pricing before the open.</p>
</div>
</article>
</body></html>`

	srv := serve(t, html)
	client := NewClient()

	content, err := client.Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotEmpty(t, content)

	assert.True(t, strings.HasPrefix(content, "TITLE: Fed Holds Rates Steady"))
	assert.Contains(t, content, "The Federal Reserve kept interest rates unchanged")
	assert.Contains(t, content, "\n## Markets react to the decision\n")
	assert.Contains(t, content, "• S&P 500 flat")
	assert.Contains(t, content, "> We remain committed")

	// Boilerplate and timestamp-shaped lines are filtered out.
	assert.NotContains(t, content, "Subscribe here")
	assert.NotContains(t, content, "8:45")
}

func TestScrapeShortListItemsKept(t *testing.T) {
	html := `<html><body><article>
<div class="article-body">
  <p>A sufficiently long opening paragraph about market movement today.</p>
  <h2>Outlook</h2>
  <ol><li>Buy gold</li><li>Sell oil</li></ol>
  <p>short</p>
</div>
</article></body></html>`

	srv := serve(t, html)
	content, err := NewClient().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	// List items are exempt from the minimum length filter;
	// short paragraphs and short headings are not.
	assert.Contains(t, content, "1. Buy gold")
	assert.Contains(t, content, "2. Sell oil")
	assert.NotContains(t, content, "short")
	assert.NotContains(t, content, "Outlook")
}

func TestScrapePaywalledReturnsEmpty(t *testing.T) {
	html := `<html><body>
<article><h1>Exclusive analysis</h1>
<div class="article-body"><p>Subscribe to continue reading this exclusive report.</p></div>
</article></body></html>`

	srv := serve(t, html)
	content, err := NewClient().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestScrapeFallbackParagraphs(t *testing.T) {
	html := `<html><body>
<main>
  <p>First paragraph of a plain page without any known body container.</p>
  <p>tiny</p>
  <p>Second paragraph carrying enough text to pass the fallback filter.</p>
</main>
</body></html>`

	srv := serve(t, html)
	content, err := NewClient().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, content, "First paragraph of a plain page")
	assert.Contains(t, content, "Second paragraph carrying enough text")
	assert.NotContains(t, content, "tiny")
}

func TestScrapeHTTPErrorReturnsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	content, err := NewClient().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestScrapeDeduplicatesRepeatedText(t *testing.T) {
	html := `<html><body><article>
<div class="article-body">
  <p>Identical paragraph repeated by the page template for no reason.</p>
  <p>Identical paragraph repeated by the page template for no reason.</p>
</div>
</article></body></html>`

	srv := serve(t, html)
	content, err := NewClient().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(content, "Identical paragraph repeated"))
}
