package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.github.com"
	MaxPerPage     = 100

	userAgent = "repo-radar"
)

// RateObserver receives the rate-limit headers of every response.
type RateObserver interface {
	Observe(remaining int, reset time.Time)
}

// Client is a thin wrapper around the GitHub REST search API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	observer   RateObserver
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, GHES).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = &http.Client{Timeout: d} }
}

// WithRateObserver registers o to receive rate-limit headers.
func WithRateObserver(o RateObserver) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient builds a client. An empty token sends unauthenticated requests,
// which GitHub rate limits far more aggressively.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchParams are the query parameters of one repository search.
type SearchParams struct {
	Query   string
	Sort    string
	Order   string
	PerPage int
}

// RawRepo is the subset of a search result item we read. Required fields
// are pointers so that an absent key can be told apart from a zero value.
type RawRepo struct {
	ID              *int64   `json:"id"`
	Name            *string  `json:"name"`
	FullName        *string  `json:"full_name"`
	HTMLURL         *string  `json:"html_url"`
	Description     *string  `json:"description"`
	Language        *string  `json:"language"`
	StargazersCount *int     `json:"stargazers_count"`
	ForksCount      *int     `json:"forks_count"`
	WatchersCount   *int     `json:"watchers_count"`
	OpenIssuesCount *int     `json:"open_issues_count"`
	CreatedAt       *string  `json:"created_at"`
	UpdatedAt       *string  `json:"updated_at"`
	Topics          []string `json:"topics"`
}

type searchResponse struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             *[]RawRepo `json:"items"`
}

// SearchRepositories performs one search request and returns its items.
func (c *Client) SearchRepositories(ctx context.Context, p SearchParams) ([]RawRepo, error) {
	perPage := p.PerPage
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	q := url.Values{}
	q.Set("q", p.Query)
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	q.Set("per_page", strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/repositories?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	remaining, reset, hasRate := parseRateHeaders(resp.Header)
	if hasRate && c.observer != nil {
		c.observer.Observe(remaining, reset)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Status:      resp.StatusCode,
			Body:        truncate(string(body), 512),
			RateLimited: isRateLimited(resp.StatusCode, resp.Header, hasRate, remaining),
		}
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if sr.Items == nil {
		return nil, &DecodeError{Err: errMissingItems}
	}
	return *sr.Items, nil
}

// parseRateHeaders reads X-RateLimit-Remaining and X-RateLimit-Reset. ok is
// false when the remaining count is absent or unparsable.
func parseRateHeaders(h http.Header) (remaining int, reset time.Time, ok bool) {
	rem := h.Get("X-RateLimit-Remaining")
	if rem == "" {
		return 0, time.Time{}, false
	}
	n, err := strconv.Atoi(rem)
	if err != nil {
		return 0, time.Time{}, false
	}
	if sec, err := strconv.ParseInt(h.Get("X-RateLimit-Reset"), 10, 64); err == nil && sec > 0 {
		reset = time.Unix(sec, 0).UTC()
	}
	return n, reset, true
}

// isRateLimited covers both the primary limit (remaining quota of zero) and
// the secondary limit, which GitHub signals with Retry-After instead.
func isRateLimited(status int, h http.Header, hasRate bool, remaining int) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return (hasRate && remaining == 0) || h.Get("Retry-After") != ""
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
