// hotreload.go: dynamic reconfiguration of a running Cache via Argus file
// watching.
//
// Grounded in agilira-balios's hot-reload.go: same Argus wiring
// (argus.Config{PollInterval}, UniversalConfigWatcherWithConfig), the same
// documented limitation that structural knobs (here: MaxEntries,
// ShardCount, EvictionPolicy) require rebuilding the cache and are only
// logged, not applied — only the expiration durations are safe to swap
// under a running cache, since they're read through atomics already.
package corecache

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// HotConfig watches a configuration file and applies safe-to-change
// settings to a running Cache as they're edited on disk.
type HotConfig[K comparable, V any] struct {
	cache   *Cache[K, V]
	watcher *argus.Watcher
	logger  Logger

	mu     sync.RWMutex
	latest reloadableConfig

	// OnReload is called after every successful reload, with the durations
	// that were applied. Must be fast and non-blocking.
	OnReload func(old, new reloadableConfig)
}

// reloadableConfig is the subset of Config that can be changed on a live
// Cache without reconstructing it.
type reloadableConfig struct {
	ExpireAfterWrite  time.Duration
	ExpireAfterAccess time.Duration
	RefreshAfterWrite time.Duration
}

// HotConfigOptions configures NewHotConfig.
type HotConfigOptions struct {
	// ConfigPath is the file to watch (JSON, YAML, TOML, HCL, INI, or
	// Properties — anything Argus's universal loader supports).
	ConfigPath string

	// PollInterval is how often to check for changes. Default 1s, floor
	// 100ms, matching agilira-balios's hot-reload.go.
	PollInterval time.Duration

	Logger   Logger
	OnReload func(old, new reloadableConfig)
}

// NewHotConfig starts watching opts.ConfigPath and applying expiration
// duration changes to cache as they're observed.
func NewHotConfig[K comparable, V any](cache *Cache[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, NewErrInvalidArgument("NewHotConfig: ConfigPath is required")
	}
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = cache.logger
	}

	hc := &HotConfig[K, V]{
		cache:    cache,
		logger:   logger,
		OnReload: opts.OnReload,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleChange, argus.Config{
		PollInterval: opts.PollInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("corecache: starting config watcher: %w", err)
	}
	hc.watcher = watcher
	return hc, nil
}

// Start begins watching, if not already running.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop halts the file watcher. The cache itself is unaffected.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// Current returns the most recently applied reloadable settings.
func (hc *HotConfig[K, V]) Current() reloadableConfig {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.latest
}

func (hc *HotConfig[K, V]) handleChange(data map[string]interface{}) {
	next := hc.parse(data)

	hc.mu.Lock()
	old := hc.latest
	hc.latest = next
	hc.mu.Unlock()

	hc.cache.expire.set(next.ExpireAfterWrite, next.ExpireAfterAccess, next.RefreshAfterWrite)
	hc.logger.Info("corecache: configuration reloaded",
		"expire_after_write", next.ExpireAfterWrite,
		"expire_after_access", next.ExpireAfterAccess,
		"refresh_after_write", next.RefreshAfterWrite)

	if hc.OnReload != nil {
		hc.OnReload(old, next)
	}

	hc.warnUnsupportedKeys(data)
}

func (hc *HotConfig[K, V]) parse(data map[string]interface{}) reloadableConfig {
	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		section = data
	}
	cfg := reloadableConfig{}
	if d, ok := parseDurationKey(section["expire_after_write"]); ok {
		cfg.ExpireAfterWrite = d
	}
	if d, ok := parseDurationKey(section["expire_after_access"]); ok {
		cfg.ExpireAfterAccess = d
	}
	if d, ok := parseDurationKey(section["refresh_after_write"]); ok {
		cfg.RefreshAfterWrite = d
	}
	return cfg
}

// warnUnsupportedKeys logs a reminder that sizing/policy keys present in
// the file are not hot-reloadable: changing those requires constructing
// a new Cache and migrating entries.
func (hc *HotConfig[K, V]) warnUnsupportedKeys(data map[string]interface{}) {
	section, ok := data["cache"].(map[string]interface{})
	if !ok {
		section = data
	}
	for _, key := range []string{"max_entries", "shard_count", "eviction_policy", "max_weight"} {
		if _, present := section[key]; present {
			hc.logger.Warn("corecache: config key is not hot-reloadable, restart to apply", "key", key)
		}
	}
}

func parseDurationKey(value interface{}) (time.Duration, bool) {
	str, ok := value.(string)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, false
	}
	return d, true
}
