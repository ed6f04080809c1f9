package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// Ensure OriginFetcher implements interfaces.Fetcher
var _ interfaces.Fetcher = (*OriginFetcher)(nil)

// OriginFetcher issues intercepted requests against the origin server and
// captures the response together with its fetch timestamp.
type OriginFetcher struct {
	origin *url.URL
	client *http.Client
	clock  clock.Clock
	logger *zap.Logger
}

// New creates a new OriginFetcher. The timeout bounds every origin call so
// a hung upstream socket cannot pin a request forever.
func New(origin *url.URL, client *http.Client, clk clock.Clock, logger *zap.Logger) *OriginFetcher {
	return &OriginFetcher{
		origin: origin,
		client: client,
		clock:  clk,
		logger: logger,
	}
}

// Fetch rewrites the request onto the origin and captures the full response.
// Transport failures come back as errors; HTTP error statuses come back as
// entries so strategies can decide storability themselves.
func (f *OriginFetcher) Fetch(ctx context.Context, req *http.Request) (*models.Entry, error) {
	target := *req.URL
	target.Scheme = f.origin.Scheme
	target.Host = f.origin.Host

	var body io.Reader
	if req.Body != nil {
		body = req.Body
	}

	outbound, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build origin request: %w", err)
	}
	outbound.Header = req.Header.Clone()
	outbound.Host = f.origin.Host

	resp, err := f.client.Do(outbound)
	if err != nil {
		return nil, fmt.Errorf("origin fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read origin response: %w", err)
	}

	return &models.Entry{
		Status:    resp.StatusCode,
		Header:    resp.Header.Clone(),
		Body:      data,
		FetchedAt: f.clock.Now().Unix(),
	}, nil
}
