package tools

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/scttfrdmn/inquire/agent"
)

const (
	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	searchUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	defaultMaxResults  = 5
)

// SearchResult is one entry parsed from a results page.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearchTool queries the DuckDuckGo HTML endpoint and returns the
// top results as formatted text. The HTML endpoint needs no API key,
// which keeps the tool usable without extra credentials.
type WebSearchTool struct {
	client     *http.Client
	endpoint   string
	maxResults int
}

// WebSearchOption configures a WebSearchTool.
type WebSearchOption func(*WebSearchTool)

// WithSearchClient overrides the HTTP client, mainly for tests.
func WithSearchClient(client *http.Client) WebSearchOption {
	return func(t *WebSearchTool) { t.client = client }
}

// WithSearchEndpoint overrides the results endpoint, mainly for tests.
func WithSearchEndpoint(endpoint string) WebSearchOption {
	return func(t *WebSearchTool) { t.endpoint = endpoint }
}

// WithMaxResults caps how many results are returned.
func WithMaxResults(n int) WebSearchOption {
	return func(t *WebSearchTool) {
		if n > 0 {
			t.maxResults = n
		}
	}
}

// NewWebSearchTool creates a web search tool.
func NewWebSearchTool(opts ...WebSearchOption) *WebSearchTool {
	t := &WebSearchTool{
		client:     &http.Client{Timeout: 20 * time.Second},
		endpoint:   duckDuckGoEndpoint,
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements agent.Tool.
func (t *WebSearchTool) Name() string { return "web_search" }

// Description implements agent.Tool.
func (t *WebSearchTool) Description() string {
	return "Search the web for current information. Input is a search query; output is a list of result titles, URLs and snippets."
}

// Parameters implements agent.Tool.
func (t *WebSearchTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "The search query",
			},
		},
		"required": []string{"query"},
	}
}

// Execute implements agent.Tool.
func (t *WebSearchTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	query, _ := params["query"].(string)
	if strings.TrimSpace(query) == "" {
		return agent.NewToolError("query parameter is required"), nil
	}

	results, err := t.search(ctx, query)
	if err != nil {
		return agent.NewToolError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(results) == 0 {
		return agent.NewToolResult("No results found for: " + query), nil
	}

	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return agent.NewToolResult(sb.String()), nil
}

func (t *WebSearchTool) search(ctx context.Context, query string) ([]SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return parseSearchResults(doc, t.maxResults), nil
}

// parseSearchResults extracts results from a DuckDuckGo HTML page.
func parseSearchResults(doc *goquery.Document, limit int) []SearchResult {
	var results []SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find(".result__title").Text())
		href, _ := sel.Find(".result__a").Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").Text())
		if title == "" {
			return true
		}
		results = append(results, SearchResult{
			Title:   title,
			URL:     cleanResultURL(href),
			Snippet: snippet,
		})
		return len(results) < limit
	})
	return results
}

// cleanResultURL unwraps DuckDuckGo's redirect links (uddg parameter)
// back to the target URL.
func cleanResultURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		return "https:" + href
	}
	return href
}
