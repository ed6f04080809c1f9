package classify

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"catalog-cache/internal/config"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/models"
)

// resourceHintHeader carries the platform-declared resource type of the
// intercepted request (document, script, style, image, font, ...).
const resourceHintHeader = "Sec-Fetch-Dest"

// Ensure Classifier implements the Classifier interface
var _ interfaces.Classifier = (*Classifier)(nil)

// Classifier categorizes intercepted requests into request classes.
// Rules are evaluated in a fixed order; the first match wins.
type Classifier struct {
	logger          *zap.Logger
	livePrefixes    []string
	apiPrefixes     []string
	storagePrefixes []string
}

// NewClassifier creates a new Classifier from the configured route prefixes
func NewClassifier(routes config.RoutesConfig, logger *zap.Logger) *Classifier {
	return &Classifier{
		logger:          logger,
		livePrefixes:    routes.LivePrefixes,
		apiPrefixes:     routes.APIPrefixes,
		storagePrefixes: routes.StoragePrefixes,
	}
}

// Classify implements interfaces.Classifier. It is a pure function of
// method, URL path and resource hint; cache state never influences it.
func (c *Classifier) Classify(req *http.Request) models.RequestClass {
	path := req.URL.Path

	// Live endpoints bypass every cache for every method, so they are
	// checked before the method rule: a GET against them must not be
	// promoted to a cacheable class.
	if matchesPrefix(path, c.livePrefixes) {
		return models.ClassLive
	}

	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return models.ClassBypass
	}

	if isNavigation(req) {
		return models.ClassNavigation
	}

	if matchesPrefix(path, c.apiPrefixes) {
		return models.ClassAPI
	}

	if matchesPrefix(path, c.storagePrefixes) {
		return models.ClassAsset
	}

	switch req.Header.Get(resourceHintHeader) {
	case "script", "style", "image", "font":
		return models.ClassAsset
	}

	return models.ClassOther
}

// isNavigation reports whether the request asks for an HTML document.
func isNavigation(req *http.Request) bool {
	if req.Header.Get(resourceHintHeader) == "document" {
		return true
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
