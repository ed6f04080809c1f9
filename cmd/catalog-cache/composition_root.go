package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"catalog-cache/internal/background"
	"catalog-cache/internal/catalog"
	"catalog-cache/internal/classify"
	"catalog-cache/internal/config"
	"catalog-cache/internal/fetch"
	"catalog-cache/internal/gateway"
	"catalog-cache/internal/guard"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/lifecycle"
	"catalog-cache/internal/models"
	"catalog-cache/internal/prefetch"
	"catalog-cache/internal/store/l1"
	"catalog-cache/internal/store/l2"
	"catalog-cache/internal/store/noop"
	"catalog-cache/internal/store/tiered"
	"catalog-cache/internal/strategy"
)

// CompositionRoot holds all application dependencies and wires them
// together in initialization order: logger, config, stores, classifier,
// strategies, lifecycle, gateway, prefetcher.
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	L1Store *l1.Store
	L2Store interfaces.Store
	Store   *tiered.Store

	Runner     *background.Runner
	Fetcher    interfaces.Fetcher
	Manager    *lifecycle.Manager
	Server     *gateway.Server
	Prefetcher *prefetch.Prefetcher
	Guard      *guard.Coordinator
	Catalog    *catalog.GuardedClient

	l2Closer func() error
}

// NewCompositionRoot creates and initializes all application dependencies
func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	root.Logger = logger

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initStores(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache stores: %w", err)
	}

	if err := root.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return root, nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig() error {
	configPath := os.Getenv("CATALOG_CACHE_CONFIG")
	if configPath == "" {
		configPath = "/app/catalog_cache.yaml"
	}

	cfg, err := config.Load(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initStores initializes the L1 and optional L2 generation stores
func (r *CompositionRoot) initStores() error {
	r.L1Store = l1.New(r.Config.Cache.BigCacheSizeMB, r.Logger)
	r.L1Store.StartMetricsCollection(30 * time.Second)

	if r.Config.Cache.KeyDB.Enabled {
		client, err := l2.NewClient(r.Config.Cache.KeyDB, r.Logger)
		if err != nil {
			return err
		}
		r.L2Store = l2.New(r.Config.Cache.KeyDB, client, r.Logger)
		r.l2Closer = client.Close
	} else {
		r.Logger.Info("L2 cache disabled, running memory-only")
		r.L2Store = noop.New()
	}

	r.Store = tiered.New([]interfaces.Store{r.L1Store, r.L2Store}, true, r.Logger)
	return nil
}

// initServices wires the fetcher, strategies, lifecycle, gateway and
// prefetcher together
func (r *CompositionRoot) initServices() error {
	origin, err := url.Parse(r.Config.Origin.URL)
	if err != nil {
		return fmt.Errorf("invalid origin URL: %w", err)
	}

	clk := clock.New()
	httpClient := &http.Client{Timeout: r.Config.Origin.GetTimeout()}

	r.Runner = background.NewRunner(r.Logger)
	r.Fetcher = fetch.New(origin, httpClient, clk, r.Logger)

	r.Manager = lifecycle.NewManager(
		r.Store, r.Fetcher, r.Runner,
		r.Config.Version,
		r.Config.Assets.Critical, r.Config.Assets.Lazy,
		r.Logger,
	)
	gens := r.Manager.Generations()

	classifier := classify.NewClassifier(r.Config.Routes, r.Logger)
	strategies := map[models.RequestClass]interfaces.Strategy{
		models.ClassNavigation: strategy.NewNetworkFirst(r.Store, r.Fetcher, gens.Static, r.Logger),
		models.ClassAPI: strategy.NewFreshnessWindowed(
			r.Store, r.Fetcher, r.Runner, gens.API,
			r.Config.Cache.GetFreshnessWindow(), clk, r.Logger,
		),
		// The static generation is the fallback so install-populated shell
		// assets stay reachable offline even though their request class
		// serves from the dynamic generation.
		models.ClassAsset: strategy.NewStaleWhileRevalidate(r.Store, r.Fetcher, r.Runner, gens.Dynamic, gens.Static, r.Logger),
		models.ClassOther: strategy.NewCacheFirst(r.Store, r.Fetcher, gens.Dynamic, gens.Static, r.Logger),
	}

	r.Server = gateway.NewServer(classifier, strategies, r.Fetcher, r.Manager, clk, r.Logger)

	r.Guard = guard.NewCoordinator()
	selfClient := catalog.NewClient(
		"http://"+listenHost(r.Config.Server.ListenAddr),
		&http.Client{Timeout: r.Config.Origin.GetTimeout()},
		r.Logger,
	)
	r.Catalog = catalog.NewGuardedClient(selfClient, r.Guard, r.Logger)

	if r.Config.Prefetch.Enabled {
		r.Prefetcher = prefetch.New(selfClient, r.Server, clk, r.Config.Prefetch.GetIdleAfter(), r.Logger)
		r.Server.AttachPageLayer(r.Catalog, r.Prefetcher)
	} else {
		r.Server.AttachPageLayer(r.Catalog, nil)
	}

	return nil
}

// Cleanup releases all held resources
func (r *CompositionRoot) Cleanup() error {
	r.Runner.Wait()
	r.L1Store.StopMetricsCollection()

	var firstErr error
	if err := r.L1Store.Close(); err != nil {
		firstErr = err
	}
	if r.l2Closer != nil {
		if err := r.l2Closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// listenHost turns a listen address like ":8080" into a dialable host
func listenHost(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
