package store

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// BuildKey canonizes a request into its cache key: method plus absolute URL
// with the fragment stripped. Only read-retrieval requests are ever cached,
// so HEAD collapses onto GET to share entries.
func BuildKey(method string, u *url.URL) string {
	if method == http.MethodHead {
		method = http.MethodGet
	}

	clean := *u
	clean.Fragment = ""

	return fmt.Sprintf("%s %s", strings.ToUpper(method), clean.String())
}

// BuildRequestKey is a convenience wrapper over BuildKey for *http.Request.
func BuildRequestKey(req *http.Request) string {
	return BuildKey(req.Method, req.URL)
}
