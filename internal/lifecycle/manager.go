package lifecycle

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalog-cache/internal/background"
	"catalog-cache/internal/interfaces"
	"catalog-cache/internal/store"
)

// State is the lifecycle state of a cache version.
type State string

const (
	StateNew        State = "new"
	StateInstalling State = "installing"
	StateInstalled  State = "installed"
	StateActivating State = "activating"
	StateActive     State = "active"
	StateFailed     State = "failed"
)

// GenerationSet names the three generations of one application version.
type GenerationSet struct {
	Static  string
	Dynamic string
	API     string
}

// GenerationsFor derives the generation names for a version tag.
func GenerationsFor(version string) GenerationSet {
	return GenerationSet{
		Static:  fmt.Sprintf("static-%s", version),
		Dynamic: fmt.Sprintf("dynamic-%s", version),
		API:     fmt.Sprintf("api-%s", version),
	}
}

// contains reports whether name is one of the set's three generations.
func (g GenerationSet) contains(name string) bool {
	return name == g.Static || name == g.Dynamic || name == g.API
}

// Manager drives a version through installing → installed → activating →
// active, populating the static generation on install and purging
// superseded generations on activation.
type Manager struct {
	store    interfaces.Store
	fetcher  interfaces.Fetcher
	runner   *background.Runner
	logger   *zap.Logger
	version  string
	gens     GenerationSet
	critical []string
	lazy     []string

	mu    sync.Mutex
	state State
}

// NewManager creates a lifecycle manager for the given version
func NewManager(s interfaces.Store, f interfaces.Fetcher, runner *background.Runner, version string, critical, lazy []string, logger *zap.Logger) *Manager {
	return &Manager{
		store:    s,
		fetcher:  f,
		runner:   runner,
		logger:   logger,
		version:  version,
		gens:     GenerationsFor(version),
		critical: critical,
		lazy:     lazy,
		state:    StateNew,
	}
}

// Generations returns the generation names of the managed version
func (m *Manager) Generations() GenerationSet {
	return m.gens
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// Install populates the static generation. The critical asset list is
// atomic: one unfetchable asset fails the whole install and the partial
// population is removed, so a half-populated shell is never served. Lazy
// assets populate best-effort in the background and cannot fail install.
func (m *Manager) Install(ctx context.Context) error {
	m.setState(StateInstalling)
	m.logger.Info("Installing cache version",
		zap.String("version", m.version),
		zap.Int("critical_assets", len(m.critical)),
		zap.Int("lazy_assets", len(m.lazy)))

	g, gctx := errgroup.WithContext(ctx)
	for _, path := range m.critical {
		path := path
		g.Go(func() error {
			return m.populate(gctx, path)
		})
	}

	if err := g.Wait(); err != nil {
		if delErr := m.store.DeleteGeneration(m.gens.Static); delErr != nil {
			m.logger.Warn("Failed to remove partial static generation",
				zap.String("generation", m.gens.Static), zap.Error(delErr))
		}
		m.setState(StateFailed)
		return fmt.Errorf("install failed for version %s: %w", m.version, err)
	}

	for _, path := range m.lazy {
		path := path
		m.runner.Go("lazy_populate", func(ctx context.Context) error {
			return m.populate(ctx, path)
		})
	}

	m.setState(StateInstalled)
	m.logger.Info("Installed cache version", zap.String("version", m.version))
	return nil
}

// Activate purges every generation not belonging to the current version, in
// parallel, then claims control so intercepted requests are governed by the
// new version immediately. Running it twice is a no-op the second time.
func (m *Manager) Activate(ctx context.Context) error {
	m.setState(StateActivating)

	names, err := m.store.Generations()
	if err != nil {
		m.setState(StateFailed)
		return fmt.Errorf("activation failed to enumerate generations: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	for _, name := range names {
		if m.gens.contains(name) {
			continue
		}
		name := name
		g.Go(func() error {
			m.logger.Info("Purging superseded generation", zap.String("generation", name))
			return m.store.DeleteGeneration(name)
		})
	}

	if err := g.Wait(); err != nil {
		m.setState(StateFailed)
		return fmt.Errorf("activation failed to purge generations: %w", err)
	}

	m.setState(StateActive)
	m.logger.Info("Activated cache version", zap.String("version", m.version))
	return nil
}

// populate fetches one shell asset and stores it in the static generation.
func (m *Manager) populate(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("invalid asset path %q: %w", path, err)
	}

	entry, err := m.fetcher.Fetch(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to fetch asset %q: %w", path, err)
	}
	if !entry.Successful() {
		return fmt.Errorf("asset %q returned status %d", path, entry.Status)
	}

	m.store.Put(m.gens.Static, store.BuildKey(http.MethodGet, req.URL), entry)
	return nil
}
