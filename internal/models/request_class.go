package models

// RequestClass is the closed set of categories an intercepted request can
// fall into. Classification is a pure function of method, URL and resource
// hint; it never depends on cache state.
type RequestClass string

const (
	// ClassBypass covers non-read-retrieval methods. The gateway passes
	// these straight to the origin without touching any cache.
	ClassBypass RequestClass = "bypass"

	// ClassLive covers per-user and authentication endpoints. Never cached,
	// never read from cache, for any method.
	ClassLive RequestClass = "live"

	// ClassNavigation covers document requests for the application shell.
	ClassNavigation RequestClass = "navigation"

	// ClassAPI covers catalog RPC endpoints, cached with a freshness window.
	ClassAPI RequestClass = "api"

	// ClassAsset covers bulk object-storage assets and script/style/image/
	// font resources, cached stale-while-revalidate.
	ClassAsset RequestClass = "asset"

	// ClassOther is the best-effort cache-first default.
	ClassOther RequestClass = "other"
)

// Cacheable reports whether any cache may be consulted for this class.
func (c RequestClass) Cacheable() bool {
	return c != ClassBypass && c != ClassLive
}
