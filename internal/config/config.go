package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Origin   OriginConfig   `yaml:"origin" validate:"required"`
	Version  string         `yaml:"version" validate:"required"`
	Cache    CacheConfig    `yaml:"cache"`
	Assets   AssetsConfig   `yaml:"assets"`
	Routes   RoutesConfig   `yaml:"routes"`
	Prefetch PrefetchConfig `yaml:"prefetch"`
}

// ServerConfig configures the gateway HTTP listener
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// OriginConfig configures the upstream origin the gateway fronts
type OriginConfig struct {
	URL            string `yaml:"url" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GetTimeout returns the origin request timeout as a duration
func (c *OriginConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheConfig configures the generation stores and the freshness window
type CacheConfig struct {
	// FreshnessWindowSeconds is how long a cached API response is trusted
	// without waiting on revalidation. Deployments disagree on the right
	// value (30s and 15m are both in production), so it is a tunable.
	FreshnessWindowSeconds int         `yaml:"freshness_window_seconds"`
	BigCacheSizeMB         int         `yaml:"bigcache_size_mb"`
	KeyDB                  KeyDBConfig `yaml:"keydb"`
}

// GetFreshnessWindow returns the freshness window as a duration
func (c *CacheConfig) GetFreshnessWindow() time.Duration {
	return time.Duration(c.FreshnessWindowSeconds) * time.Second
}

// KeyDBConfig configures the optional L2 KeyDB/Redis tier. Timeouts are in
// milliseconds.
type KeyDBConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Address      string `yaml:"address"`
	Password     string `yaml:"password"`
	DB           int    `yaml:"db"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
}

// GetReadTimeout returns the read timeout as a duration
func (c *KeyDBConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout as a duration
func (c *KeyDBConfig) GetWriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Millisecond
}

// AssetsConfig lists the shell assets populated at install time
type AssetsConfig struct {
	// Critical assets populate atomically and block install completion.
	Critical []string `yaml:"critical"`
	// Lazy assets populate best-effort in the background after install.
	Lazy []string `yaml:"lazy"`
}

// RoutesConfig holds the URL path prefixes the classifier matches against
type RoutesConfig struct {
	LivePrefixes    []string `yaml:"live_prefixes"`
	APIPrefixes     []string `yaml:"api_prefixes"`
	StoragePrefixes []string `yaml:"storage_prefixes"`
}

// PrefetchConfig configures the idle-time next-page warmer
type PrefetchConfig struct {
	Enabled          bool `yaml:"enabled"`
	IdleAfterSeconds int  `yaml:"idle_after_seconds"`
	PageSize         int  `yaml:"page_size"`
}

// GetIdleAfter returns the idle window as a duration
func (c *PrefetchConfig) GetIdleAfter() time.Duration {
	return time.Duration(c.IdleAfterSeconds) * time.Second
}

// Load loads configuration from file path
func Load(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":8080"
	}
	if c.Origin.TimeoutSeconds == 0 {
		c.Origin.TimeoutSeconds = 30
	}
	if c.Cache.FreshnessWindowSeconds == 0 {
		c.Cache.FreshnessWindowSeconds = 30
	}
	if c.Cache.BigCacheSizeMB == 0 {
		c.Cache.BigCacheSizeMB = 256
	}
	if c.Cache.KeyDB.ReadTimeout == 0 {
		c.Cache.KeyDB.ReadTimeout = 500
	}
	if c.Cache.KeyDB.WriteTimeout == 0 {
		c.Cache.KeyDB.WriteTimeout = 1000
	}
	if len(c.Routes.LivePrefixes) == 0 {
		c.Routes.LivePrefixes = []string{"/auth/", "/rest/v1/watchlist"}
	}
	if len(c.Routes.APIPrefixes) == 0 {
		c.Routes.APIPrefixes = []string{"/rest/v1/rpc/"}
	}
	if len(c.Routes.StoragePrefixes) == 0 {
		c.Routes.StoragePrefixes = []string{"/storage/v1/object/public/"}
	}
	if c.Prefetch.IdleAfterSeconds == 0 {
		c.Prefetch.IdleAfterSeconds = 2
	}
	if c.Prefetch.PageSize == 0 {
		c.Prefetch.PageSize = 24
	}
}
