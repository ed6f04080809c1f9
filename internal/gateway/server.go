package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"catalog-cache/internal/catalog"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/lifecycle"
	"catalog-cache/internal/metrics"
	"catalog-cache/internal/models"
)

// PrefetchScheduler accepts next-page warm-up requests derived from pages
// the gateway has just served.
type PrefetchScheduler interface {
	Schedule(f catalog.Filter, page, pageSize, total int)
}

// Server is the fetch-intercept surface: every request is classified and
// dispatched to exactly one strategy executor, or proxied straight through
// for the bypass classes.
type Server struct {
	classifier interfaces.Classifier
	strategies map[models.RequestClass]interfaces.Strategy
	fetcher    interfaces.Fetcher
	manager    *lifecycle.Manager
	clock      clock.Clock
	logger     *zap.Logger
	server     *http.Server

	titles    *catalog.GuardedClient
	scheduler PrefetchScheduler

	lastActivity atomic.Int64 // unix nanos of the last intercepted request
}

// NewServer creates the gateway server. The strategies map must cover every
// cacheable request class; bypass classes use the fetcher directly.
func NewServer(classifier interfaces.Classifier, strategies map[models.RequestClass]interfaces.Strategy, fetcher interfaces.Fetcher, manager *lifecycle.Manager, clk clock.Clock, logger *zap.Logger) *Server {
	s := &Server{
		classifier: classifier,
		strategies: strategies,
		fetcher:    fetcher,
		manager:    manager,
		clock:      clk,
		logger:     logger,
	}
	s.lastActivity.Store(clk.Now().UnixNano())
	return s
}

// AttachPageLayer wires the guarded page-layer catalog client and the
// prefetch scheduler. Either may be nil; call before Start.
func (s *Server) AttachPageLayer(titles *catalog.GuardedClient, scheduler PrefetchScheduler) {
	s.titles = titles
	s.scheduler = scheduler
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.createRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting gateway server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping gateway server")
	return s.server.Shutdown(ctx)
}

// LastActivity implements prefetch.ActivitySource
func (s *Server) LastActivity() time.Time {
	return time.Unix(0, s.lastActivity.Load())
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	if s.titles != nil {
		router.HandleFunc("/api/titles", s.handleTitles).Methods("GET")
	}

	// Everything else is an intercepted request.
	router.PathPrefix("/").HandlerFunc(s.handleFetch)

	return router
}

// handleHealth reports the lifecycle state alongside liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.manager.State()

	status := http.StatusOK
	health := "healthy"
	if state == lifecycle.StateFailed {
		status = http.StatusServiceUnavailable
		health = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status": health,
		"state":  string(state),
		"time":   s.clock.Now().UTC(),
	}); err != nil {
		s.logger.Error("Failed to write health response", zap.Error(err))
	}
}

// handleFetch classifies the request and dispatches it to one strategy
func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	s.lastActivity.Store(s.clock.Now().UnixNano())

	class := s.classifier.Classify(r)
	metrics.RecordRequest(string(class))

	if !class.Cacheable() {
		s.proxyThrough(w, r, class)
		return
	}

	executor, ok := s.strategies[class]
	if !ok {
		// A cacheable class with no wired executor is a wiring bug;
		// degrade to pass-through rather than failing the request.
		s.logger.Error("No strategy wired for class", zap.String("class", string(class)))
		s.proxyThrough(w, r, class)
		return
	}

	done := metrics.TimeStrategyServe(string(class))
	result, err := executor.Serve(r.Context(), r)
	done()

	if err != nil {
		s.logger.Warn("Strategy failed with nothing to serve",
			zap.String("class", string(class)),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeErrorResponse(w, "upstream unreachable and no cached copy exists", http.StatusBadGateway)
		return
	}

	switch result.Status {
	case models.CacheStatusHit, models.CacheStatusStale:
		metrics.RecordCacheHit(string(class), string(result.Level))
	case models.CacheStatusMiss:
		metrics.RecordCacheMiss(string(class))
	}

	if class == models.ClassAPI && s.scheduler != nil && result.Entry.Successful() {
		s.scheduleNextPage(r, result.Entry.Body)
	}

	s.writeEntry(w, result)
}

// scheduleNextPage registers a warm-up for the page after the one just
// served. Warming is best-effort; responses that do not carry paging
// fields are skipped.
func (s *Server) scheduleNextPage(r *http.Request, body []byte) {
	var page struct {
		Total    int `json:"total"`
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}
	if err := json.Unmarshal(body, &page); err != nil || page.PageSize == 0 {
		return
	}

	filter, _, _ := catalog.FilterFromQuery(r.URL.Query())
	s.scheduler.Schedule(filter, page.Page, page.PageSize, page.Total)
}

// handleTitles serves the page layer's paginated catalog queries through
// the request sequence guard.
func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	s.lastActivity.Store(s.clock.Now().UnixNano())

	filter, page, pageSize := catalog.FilterFromQuery(r.URL.Query())
	result, applied, err := s.titles.Query(r.Context(), filter, page, pageSize)
	if !applied {
		// A newer query superseded this one; there is nothing to render.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		s.logger.Warn("Page-layer catalog query failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeErrorResponse(w, "catalog query failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("Failed to write titles response", zap.Error(err))
	}
}

// proxyThrough forwards the request to the origin with no cache read or
// write on either side.
func (s *Server) proxyThrough(w http.ResponseWriter, r *http.Request, class models.RequestClass) {
	entry, err := s.fetcher.Fetch(r.Context(), r)
	if err != nil {
		s.logger.Warn("Pass-through fetch failed",
			zap.String("class", string(class)),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		s.writeErrorResponse(w, "upstream unreachable", http.StatusBadGateway)
		return
	}

	s.writeEntry(w, &models.Result{Entry: entry, Status: models.CacheStatusBypass, Level: models.CacheLevelMiss})
}

// writeEntry writes a strategy result as the HTTP response
func (s *Server) writeEntry(w http.ResponseWriter, result *models.Result) {
	header := w.Header()
	for k, vs := range result.Entry.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	header.Set("X-Cache-Status", string(result.Status))
	if result.Status == models.CacheStatusHit || result.Status == models.CacheStatusStale {
		header.Set("X-Cache-Level", string(result.Level))
	}

	w.WriteHeader(result.Entry.Status)
	if _, err := w.Write(result.Entry.Body); err != nil {
		s.logger.Error("Failed to write response body", zap.Error(err))
	}
}

// writeErrorResponse writes a JSON error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
