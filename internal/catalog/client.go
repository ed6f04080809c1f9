// Package catalog is the page-layer data client: paginated title queries
// against the catalog RPC endpoint, routed through the caching gateway.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Filter describes a catalog query.
type Filter struct {
	Search    string
	Genres    []string
	YearMin   int
	YearMax   int
	RatingMin float64
	Sort      string
}

// Title is one catalog entry.
type Title struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"` // "movie" or "show"
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
	Poster string  `json:"poster"`
}

// Page is one paginated result set.
type Page struct {
	Titles   []Title `json:"titles"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// Querier is the data-fetch contract the guard wraps and the prefetcher
// invokes.
type Querier interface {
	Query(ctx context.Context, f Filter, page, pageSize int) (*Page, error)
}

// Ensure Client implements Querier
var _ Querier = (*Client)(nil)

// Client queries the search_titles RPC through the gateway so every call
// shares the freshness-windowed cache path.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a catalog client against the given base URL
func NewClient(baseURL string, client *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

// Query implements Querier
func (c *Client) Query(ctx context.Context, f Filter, page, pageSize int) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(f, page, pageSize), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build query request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog query failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read query response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog query returned status %d", resp.StatusCode)
	}

	var result Page
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return &result, nil
}

// FilterFromQuery decodes a filter and paging from a query string in the
// shape queryURL produces. Absent or malformed params fall back to zero
// values, with paging defaulting to the first page of 24.
func FilterFromQuery(params url.Values) (Filter, int, int) {
	f := Filter{
		Search: params.Get("search"),
		Sort:   params.Get("sort"),
	}
	if genres := params.Get("genres"); genres != "" {
		f.Genres = strings.Split(genres, ",")
	}
	f.YearMin, _ = strconv.Atoi(params.Get("year_min"))
	f.YearMax, _ = strconv.Atoi(params.Get("year_max"))
	f.RatingMin, _ = strconv.ParseFloat(params.Get("rating_min"), 64)

	page, _ := strconv.Atoi(params.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(params.Get("page_size"))
	if pageSize < 1 {
		pageSize = 24
	}
	return f, page, pageSize
}

// queryURL encodes the filter into the RPC query string. The encoding is
// deterministic so identical queries share a cache key.
func (c *Client) queryURL(f Filter, page, pageSize int) string {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if len(f.Genres) > 0 {
		params.Set("genres", strings.Join(f.Genres, ","))
	}
	if f.YearMin > 0 {
		params.Set("year_min", strconv.Itoa(f.YearMin))
	}
	if f.YearMax > 0 {
		params.Set("year_max", strconv.Itoa(f.YearMax))
	}
	if f.RatingMin > 0 {
		params.Set("rating_min", strconv.FormatFloat(f.RatingMin, 'f', -1, 64))
	}
	if f.Sort != "" {
		params.Set("sort", f.Sort)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	return c.baseURL + "/rest/v1/rpc/search_titles?" + params.Encode()
}
