// Package search queries a hosted DocSearch-style index over its REST API.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultHitsPerPage is used when a query does not set HitsPerPage.
const DefaultHitsPerPage = 10

// ErrNotConfigured is returned by a Client without credentials.
var ErrNotConfigured = errors.New("search: client not configured")

// Query is one search request. Page is zero-based.
type Query struct {
	Text        string
	Page        int
	HitsPerPage int
}

// Hierarchy holds the heading levels of a hit.
type Hierarchy struct {
	Lvl0 string `json:"lvl0"`
	Lvl1 string `json:"lvl1"`
	Lvl2 string `json:"lvl2"`
}

// Hit is one search result. The highlighted fields are sanitized HTML.
type Hit struct {
	URL              string
	Hierarchy        Hierarchy
	Content          string
	HighlightedTitle template.HTML
	HighlightedText  template.HTML
}

// Result is one page of hits.
type Result struct {
	Query       string
	Hits        []Hit
	Page        int
	Pages       int
	Total       int
	HitsPerPage int
}

// Searcher runs queries.
type Searcher interface {
	Search(ctx context.Context, q Query) (Result, error)
}

// Config identifies the index.
type Config struct {
	AppID       string
	APIKey      string
	IndexName   string
	HitsPerPage int
	// Endpoint overrides https://<appId>-dsn.algolia.net.
	Endpoint string
}

// Client is a Searcher for the hosted index.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient returns a Client. A nil httpClient uses a client with a 10s
// timeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.HitsPerPage <= 0 {
		cfg.HitsPerPage = DefaultHitsPerPage
	}
	if cfg.Endpoint == "" && cfg.AppID != "" {
		cfg.Endpoint = "https://" + strings.ToLower(cfg.AppID) + "-dsn.algolia.net"
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Index returns the configured index name.
func (c *Client) Index() string { return c.cfg.IndexName }

type queryRequest struct {
	Query       string `json:"query"`
	Page        int    `json:"page"`
	HitsPerPage int    `json:"hitsPerPage"`
}

type highlight struct {
	Value string `json:"value"`
}

type rawHit struct {
	URL       string    `json:"url"`
	Hierarchy Hierarchy `json:"hierarchy"`
	Content   string    `json:"content"`
	Highlight struct {
		Hierarchy struct {
			Lvl1 highlight `json:"lvl1"`
		} `json:"hierarchy"`
		Content highlight `json:"content"`
	} `json:"_highlightResult"`
}

type queryResponse struct {
	Hits        []rawHit `json:"hits"`
	NbHits      int      `json:"nbHits"`
	Page        int      `json:"page"`
	NbPages     int      `json:"nbPages"`
	HitsPerPage int      `json:"hitsPerPage"`
}

// Search runs q against the index. An empty query returns an empty result
// without a request.
func (c *Client) Search(ctx context.Context, q Query) (Result, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.HitsPerPage <= 0 {
		q.HitsPerPage = c.cfg.HitsPerPage
	}
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Text == "" {
		return Result{Page: q.Page, HitsPerPage: q.HitsPerPage}, nil
	}
	if c.cfg.Endpoint == "" || c.cfg.IndexName == "" || c.cfg.APIKey == "" {
		return Result{}, ErrNotConfigured
	}

	body, err := json.Marshal(queryRequest{Query: q.Text, Page: q.Page, HitsPerPage: q.HitsPerPage})
	if err != nil {
		return Result{}, err
	}
	endpoint := c.cfg.Endpoint + "/1/indexes/" + url.PathEscape(c.cfg.IndexName) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.cfg.AppID)
	req.Header.Set("X-Algolia-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("search: query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("search: query: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	var qr queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return Result{}, fmt.Errorf("search: decode response: %w", err)
	}

	res := Result{
		Query:       q.Text,
		Hits:        make([]Hit, 0, len(qr.Hits)),
		Page:        qr.Page,
		Pages:       qr.NbPages,
		Total:       qr.NbHits,
		HitsPerPage: qr.HitsPerPage,
	}
	if res.HitsPerPage == 0 {
		res.HitsPerPage = q.HitsPerPage
	}
	for _, h := range qr.Hits {
		res.Hits = append(res.Hits, Hit{
			URL:              h.URL,
			Hierarchy:        h.Hierarchy,
			Content:          h.Content,
			HighlightedTitle: Highlight(h.Highlight.Hierarchy.Lvl1.Value, h.Hierarchy.Lvl1),
			HighlightedText:  Highlight(h.Highlight.Content.Value, h.Content),
		})
	}
	return res, nil
}

var highlightPolicy = bluemonday.NewPolicy().AllowElements("em", "mark")

// Highlight sanitizes a highlighted snippet, keeping only em and mark tags.
// When value is empty the escaped plain text is used.
func Highlight(value, plain string) template.HTML {
	if value == "" {
		return template.HTML(template.HTMLEscapeString(plain))
	}
	return template.HTML(highlightPolicy.Sanitize(value))
}

// LocalizeURL returns the path and fragment of hitURL when host is a
// localhost address, so results stay on a development server. Otherwise, or
// when hitURL does not parse, it is returned unchanged.
func LocalizeURL(hitURL, host string) string {
	hostname := host
	if h, _, ok := strings.Cut(host, ":"); ok {
		hostname = h
	}
	if hostname != "localhost" {
		return hitURL
	}
	u, err := url.Parse(hitURL)
	if err != nil || u.Scheme == "" {
		return hitURL
	}
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.Fragment != "" {
		out += "#" + u.EscapedFragment()
	}
	return out
}
