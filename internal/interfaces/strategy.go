package interfaces

import (
	"context"
	"net/http"

	"catalog-cache/internal/models"
)

//go:generate mockgen -package=mock -source=strategy.go -destination=mock/strategy.go

// Strategy serves one intercepted request according to a caching policy.
// Implementations may consult the store, the network, or both; background
// cache refreshes never gate the returned result.
type Strategy interface {
	Serve(ctx context.Context, req *http.Request) (*models.Result, error)
}
