// Package websearch queries the DuckDuckGo instant-answer API and renders
// the results as prompt context.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.duckduckgo.com/"
	DefaultLimit   = 3
	DefaultTimeout = 10 * time.Second

	fallbackSearchURL = "https://duckduckgo.com/?q="
)

var (
	tagRegex        = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Result is one normalized search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// StatusError is returned when the search API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("DuckDuckGo API error: %d", e.StatusCode)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client searches the DuckDuckGo instant-answer API.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client, filling unset options with defaults.
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, client: client}
}

type apiResult struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
	Result   string `json:"Result"`
}

type apiTopic struct {
	apiResult
	// Topics is non-nil for category groupings, which carry no hit of their own.
	Topics []apiTopic `json:"Topics"`
}

type apiResponse struct {
	AbstractText  string      `json:"AbstractText"`
	Heading       string      `json:"Heading"`
	RelatedTopics []apiTopic  `json:"RelatedTopics"`
	Results       []apiResult `json:"Results"`
}

// Search returns at most limit results for query. A blank query returns no
// results without contacting the API. A non-positive limit means DefaultLimit.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing search base URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("no_redirect", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	results := collect(data, query)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// collect assembles primary results, then related topics depth-first, then
// the abstract fallback. URLs are de-duplicated across all sources.
func collect(data apiResponse, query string) []Result {
	var results []Result
	seen := make(map[string]struct{})

	add := func(item apiResult) {
		title, snippet, ok := splitTitle(item.Text)
		link := strings.TrimSpace(item.FirstURL)
		if !ok || link == "" {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		results = append(results, Result{Title: title, URL: link, Snippet: snippet})
	}

	for _, item := range data.Results {
		add(item)
	}

	var walk func(topics []apiTopic)
	walk = func(topics []apiTopic) {
		for _, t := range topics {
			if t.Topics != nil {
				walk(t.Topics)
				continue
			}
			add(t.apiResult)
		}
	}
	walk(data.RelatedTopics)

	if len(results) == 0 && data.AbstractText != "" {
		if title, snippet, ok := splitTitle(data.AbstractText); ok {
			if data.Heading != "" {
				title = data.Heading
			}
			results = append(results, Result{
				Title:   title,
				URL:     fallbackSearchURL + escapeComponent(query),
				Snippet: snippet,
			})
		}
	}
	return results
}

// sanitize replaces markup tags with spaces and collapses whitespace.
func sanitize(text string) string {
	text = tagRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitTitle splits sanitized text on its first " - ". Text without the
// separator is used whole as both title and snippet.
func splitTitle(text string) (title, snippet string, ok bool) {
	clean := sanitize(text)
	if clean == "" {
		return "", "", false
	}
	head, rest, found := strings.Cut(clean, " - ")
	snippet = clean
	if found {
		snippet = rest
	}
	title = strings.TrimSpace(head)
	if title == "" {
		title = clean
	}
	return title, snippet, true
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildContext renders the results for query as a numbered list. The second
// return value is false when the query is blank or nothing was found.
func (c *Client) BuildContext(ctx context.Context, query string, limit int) (string, bool, error) {
	results, err := c.Search(ctx, query, limit)
	if err != nil {
		return "", false, err
	}
	if len(results) == 0 {
		return "", false, nil
	}
	return Render(results), true, nil
}

// Render formats results as numbered blocks separated by blank lines.
func Render(results []Result) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		blocks = append(blocks, fmt.Sprintf("%d. %s\n链接：%s\n摘要：%s", i+1, r.Title, r.URL, r.Snippet))
	}
	return strings.Join(blocks, "\n\n")
}
