package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/scttfrdmn/inquire/agent"
)

// PageFetcher loads a URL and returns its rendered HTML. The default
// implementation drives a headless browser so JavaScript-built pages
// render before extraction; tests substitute a static fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration, headless bool) (string, error)
}

// ChromeFetcher renders pages with a headless Chrome instance.
type ChromeFetcher struct{}

// Fetch implements PageFetcher.
func (ChromeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration, headless bool) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var html string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", url, err)
	}
	return html, nil
}

// pageExtraction is the success payload of the web page extractor.
type pageExtraction struct {
	Tables           [][][]string        `json:"tables"`
	Lists            [][]string          `json:"lists"`
	SpecificElements map[string][]string `json:"specific_elements"`
	URL              string              `json:"url"`
	Status           string              `json:"status"`
}

// WebPageTool extracts structured data (tables, lists, selected
// elements) from a web page. It always returns a JSON payload:
// failures become an {"error": ..., "url": ...} object, never a raised
// error.
type WebPageTool struct {
	fetcher        PageFetcher
	defaultTimeout time.Duration
}

// WebPageOption configures a WebPageTool.
type WebPageOption func(*WebPageTool)

// WithPageFetcher overrides the page fetcher, mainly for tests.
func WithPageFetcher(f PageFetcher) WebPageOption {
	return func(t *WebPageTool) { t.fetcher = f }
}

// NewWebPageTool creates a web page extraction tool backed by a
// headless browser.
func NewWebPageTool(opts ...WebPageOption) *WebPageTool {
	t := &WebPageTool{
		fetcher:        ChromeFetcher{},
		defaultTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements agent.Tool.
func (t *WebPageTool) Name() string { return "web_page_extractor" }

// Description implements agent.Tool.
func (t *WebPageTool) Description() string {
	return "Extract structured data (tables, lists, selected elements) from a web page. Input is a URL and an optional JSON map of CSS selectors."
}

// Parameters implements agent.Tool.
func (t *WebPageTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL of the page to extract data from",
			},
			"selectors": map[string]interface{}{
				"type":        "string",
				"description": `JSON map of CSS selectors, e.g. {"table": ".wikitable", "list": "ul.results", "title": "h1"}. Keys other than "table" and "list" are extracted as named text elements.`,
			},
			"timeout": map[string]interface{}{
				"type":        "integer",
				"description": "Max seconds to wait for page load (default 10)",
			},
			"headless": map[string]interface{}{
				"type":        "boolean",
				"description": "Run the browser headless (default true)",
			},
		},
		"required": []string{"url"},
	}
}

// Execute implements agent.Tool.
func (t *WebPageTool) Execute(ctx context.Context, params map[string]interface{}) (*agent.ToolResult, error) {
	pageURL, _ := params["url"].(string)
	if strings.TrimSpace(pageURL) == "" {
		return agent.NewToolError("url parameter is required"), nil
	}

	timeout := t.defaultTimeout
	if secs, ok := params["timeout"].(float64); ok && secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}
	headless := true
	if h, ok := params["headless"].(bool); ok {
		headless = h
	}

	// Malformed selector JSON falls back to the defaults rather than
	// failing the call.
	selectorMap := map[string]string{}
	if raw, ok := params["selectors"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &selectorMap); err != nil {
			selectorMap = map[string]string{}
		}
	}

	html, err := t.fetcher.Fetch(ctx, pageURL, timeout, headless)
	if err != nil {
		return extractionError(pageURL, err), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return extractionError(pageURL, err), nil
	}

	payload, err := json.MarshalIndent(extractPage(doc, pageURL, selectorMap), "", "  ")
	if err != nil {
		return extractionError(pageURL, err), nil
	}
	return agent.NewToolResult(string(payload)), nil
}

func extractionError(url string, err error) *agent.ToolResult {
	payload, _ := json.Marshal(map[string]string{
		"error": fmt.Sprintf("Failed to extract data: %v", err),
		"url":   url,
	})
	return agent.NewToolResult(string(payload))
}

// extractPage pulls tables, lists and named elements out of a parsed
// document. The "table" and "list" selector keys override the default
// selectors; every other key selects named text elements.
func extractPage(doc *goquery.Document, url string, selectors map[string]string) pageExtraction {
	out := pageExtraction{
		Tables:           [][][]string{},
		Lists:            [][]string{},
		SpecificElements: map[string][]string{},
		URL:              url,
		Status:           "success",
	}

	tableSelector := selectors["table"]
	if tableSelector == "" {
		tableSelector = "table"
	}
	doc.Find(tableSelector).Each(func(_ int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > 0 {
			out.Tables = append(out.Tables, rows)
		}
	})

	listSelector := selectors["list"]
	if listSelector == "" {
		listSelector = "ul, ol"
	}
	doc.Find(listSelector).Each(func(_ int, list *goquery.Selection) {
		var items []string
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			items = append(items, strings.TrimSpace(li.Text()))
		})
		if len(items) > 0 {
			out.Lists = append(out.Lists, items)
		}
	})

	for key, selector := range selectors {
		if key == "table" || key == "list" {
			continue
		}
		var texts []string
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(sel.Text()))
		})
		out.SpecificElements[key] = texts
	}

	return out
}
