package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scttfrdmn/inquire/agent"
)

const wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

// WikipediaTool looks up article extracts through the MediaWiki API.
// It first resolves the query to a page title via the search endpoint,
// then fetches that page's plain-text intro extract.
type WikipediaTool struct {
	client   *http.Client
	endpoint string
}

// WikipediaOption configures a WikipediaTool.
type WikipediaOption func(*WikipediaTool)

// WithWikipediaClient overrides the HTTP client, mainly for tests.
func WithWikipediaClient(client *http.Client) WikipediaOption {
	return func(t *WikipediaTool) { t.client = client }
}

// WithWikipediaEndpoint overrides the API endpoint, mainly for tests.
func WithWikipediaEndpoint(endpoint string) WikipediaOption {
	return func(t *WikipediaTool) { t.endpoint = endpoint }
}

// NewWikipediaTool creates a Wikipedia lookup tool.
func NewWikipediaTool(opts ...WikipediaOption) *WikipediaTool {
	t := &WikipediaTool{
		client:   &http.Client{Timeout: 20 * time.Second},
		endpoint: wikipediaEndpoint,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements agent.Tool.
func (t *WikipediaTool) Name() string { return "wikipedia" }

// Description implements agent.Tool.
func (t *WikipediaTool) Description() string {
	return "Look up encyclopedic facts on Wikipedia. Input is a topic or entity name; output is the article's introductory extract."
}

// Parameters implements agent.Tool.
func (t *WikipediaTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Topic or entity to look up",
			},
		},
		"required": []string{"query"},
	}
}

// Execute implements agent.Tool.
func (t *WikipediaTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	query, _ := params["query"].(string)
	if strings.TrimSpace(query) == "" {
		return agent.NewToolError("query parameter is required"), nil
	}

	title, err := t.resolveTitle(ctx, query)
	if err != nil {
		return agent.NewToolError(fmt.Sprintf("wikipedia search failed: %v", err)), nil
	}
	if title == "" {
		return agent.NewToolResult("No Wikipedia article found for: " + query), nil
	}

	extract, err := t.fetchExtract(ctx, title)
	if err != nil {
		return agent.NewToolError(fmt.Sprintf("wikipedia fetch failed: %v", err)), nil
	}
	if extract == "" {
		return agent.NewToolResult("Article " + title + " has no extract."), nil
	}
	return agent.NewToolResult(fmt.Sprintf("%s\n\n%s", title, extract)), nil
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (t *WikipediaTool) resolveTitle(ctx context.Context, query string) (string, error) {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {"1"},
		"format":   {"json"},
	}
	var parsed wikiSearchResponse
	if err := t.getJSON(ctx, params, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Query.Search) == 0 {
		return "", nil
	}
	return parsed.Query.Search[0].Title, nil
}

func (t *WikipediaTool) fetchExtract(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"extracts"},
		"exintro":     {"1"},
		"explaintext": {"1"},
		"titles":      {title},
		"format":      {"json"},
	}
	var parsed wikiExtractResponse
	if err := t.getJSON(ctx, params, &parsed); err != nil {
		return "", err
	}
	for _, page := range parsed.Query.Pages {
		return strings.TrimSpace(page.Extract), nil
	}
	return "", nil
}

func (t *WikipediaTool) getJSON(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		t.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
