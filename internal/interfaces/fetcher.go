package interfaces

import (
	"context"
	"net/http"

	"catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher issues a request against the origin and returns the captured
// response. A non-nil error means transport failure (unreachable, timeout);
// HTTP error statuses are returned as entries, not errors.
type Fetcher interface {
	Fetch(ctx context.Context, req *http.Request) (*models.Entry, error)
}
