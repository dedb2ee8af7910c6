// config.go: cache configuration and named profiles.
//
// Grounded in agilira-metis's config.go and config_validator.go. The
// teacher's package-level globalConfig/configMutex pair and its
// metis.json-on-disk lookup are deliberately not carried over — Design
// Notes resolved that configuration is threaded as an explicit value
// through construction, not stashed behind package globals.
package corecache

import (
	"runtime"
	"time"
)

// Config controls every tunable of a Cache. The zero value is not valid;
// use DefaultConfig or one of the named profiles as a starting point.
type Config struct {
	MaxEntries      int
	MaxWeight       uint64
	ShardCount      int
	EvictionPolicy  EvictionStrategy
	FrequencySketch SketchSize

	// Weigher maps a key/value pair to its cost in abstract units, for
	// StrategyWeight. It must be a Weigher[K, V] matching the Cache's type
	// parameters; nil gives every entry a uniform weight of 1. Config
	// cannot itself be generic, so this is type-asserted at construction.
	Weigher any

	ExpireAfterWrite  time.Duration
	ExpireAfterAccess time.Duration
	RefreshAfterWrite time.Duration
	CleanupInterval   time.Duration

	// IdleLimit bounds StrategyIdle: an entry whose time since last access
	// exceeds IdleLimit becomes an eviction candidate regardless of access
	// frequency. Zero means no idle-time bound; StrategyIdle then evicts
	// purely on capacity pressure, oldest-accessed first.
	IdleLimit time.Duration

	WriteBufferSize int

	Logger           Logger
	MetricsCollector MetricsCollector
	Clock            Clock
}

// DefaultConfig returns a balanced configuration suitable for general
// purpose use: W-TinyLFU eviction, four shards per CPU, no expiration.
func DefaultConfig() Config {
	return Config{
		MaxEntries:      10000,
		ShardCount:      runtime.NumCPU() * 4,
		EvictionPolicy:  StrategyWTinyLFU,
		FrequencySketch: SketchBasic,
		CleanupInterval: time.Minute,
		WriteBufferSize: 1024,
	}
}

// Profile names one of the preset configurations returned by
// ConfigForProfile.
type Profile string

const (
	ProfileDefault         Profile = "default"
	ProfileReadHeavy       Profile = "read_heavy"
	ProfileWriteHeavy      Profile = "write_heavy"
	ProfileMemoryEfficient Profile = "memory_efficient"
	ProfileHighPerformance Profile = "high_performance"
	ProfileSessionCache    Profile = "session_cache"
	ProfileAPICache        Profile = "api_cache"
	ProfileComputeCache    Profile = "compute_cache"
)

// ConfigForProfile returns the preset Config for name, falling back to
// DefaultConfig for an unrecognized name.
func ConfigForProfile(name Profile) Config {
	numCPU := runtime.NumCPU()

	switch name {
	case ProfileReadHeavy:
		c := DefaultConfig()
		c.FrequencySketch = SketchOptimized
		c.ShardCount = numCPU
		return c
	case ProfileWriteHeavy:
		c := DefaultConfig()
		c.WriteBufferSize = 8192
		c.ShardCount = numCPU * 2
		return c
	case ProfileMemoryEfficient:
		c := DefaultConfig()
		c.MaxEntries = 10000
		c.ShardCount = numCPU
		c.FrequencySketch = SketchBasic
		return c
	case ProfileHighPerformance:
		c := DefaultConfig()
		c.MaxEntries = 1000000
		c.ShardCount = numCPU * 4
		c.FrequencySketch = SketchOptimized
		c.CleanupInterval = 0
		return c
	case ProfileSessionCache:
		c := DefaultConfig()
		c.ExpireAfterAccess = 30 * time.Minute
		c.EvictionPolicy = StrategyLRU
		return c
	case ProfileAPICache:
		c := DefaultConfig()
		c.ExpireAfterWrite = 5 * time.Minute
		c.RefreshAfterWrite = 4 * time.Minute
		return c
	case ProfileComputeCache:
		c := DefaultConfig()
		c.EvictionPolicy = StrategyWeight
		c.MaxWeight = 64 * 1024 * 1024
		return c
	default:
		return DefaultConfig()
	}
}

// ConfigValidationResult carries advisory warnings and suggestions from
// ValidateConfig. Unlike an error, a non-empty result does not mean the
// configuration is unusable — only that New chose not to correct it
// for the caller.
type ConfigValidationResult struct {
	Valid       bool
	Warnings    []string
	Suggestions []string
}

// ValidateConfig reports hard errors (returned) and soft advisory
// warnings/suggestions (in the result) about cfg, grounded in
// agilira-metis's ValidateConfig sizing heuristics.
func ValidateConfig(cfg Config) (ConfigValidationResult, error) {
	result := ConfigValidationResult{Valid: true}

	if cfg.MaxEntries <= 0 && cfg.MaxWeight == 0 {
		return result, NewErrInvalidMaxSize(cfg.MaxEntries)
	}
	if cfg.EvictionPolicy == StrategyWeight && cfg.MaxWeight == 0 {
		return result, NewErrInvalidWeightBound(false, cfg.Weigher != nil)
	}
	if cfg.ExpireAfterWrite < 0 {
		return result, NewErrInvalidTTL("ExpireAfterWrite", cfg.ExpireAfterWrite)
	}
	if cfg.ExpireAfterAccess < 0 {
		return result, NewErrInvalidTTL("ExpireAfterAccess", cfg.ExpireAfterAccess)
	}
	if cfg.RefreshAfterWrite < 0 {
		return result, NewErrInvalidTTL("RefreshAfterWrite", cfg.RefreshAfterWrite)
	}
	if cfg.IdleLimit < 0 {
		return result, NewErrInvalidTTL("IdleLimit", cfg.IdleLimit)
	}

	numCPU := runtime.NumCPU()
	if cfg.ShardCount > numCPU*4 {
		result.Suggestions = append(result.Suggestions,
			"shard count is more than 4x CPU cores; consider reducing it")
	} else if cfg.ShardCount > 0 && cfg.ShardCount < numCPU && cfg.MaxEntries > 10000 {
		result.Suggestions = append(result.Suggestions,
			"shard count is below CPU count for a large cache; consider increasing it")
	}

	if cfg.ExpireAfterWrite > 0 && cfg.RefreshAfterWrite > 0 && cfg.RefreshAfterWrite >= cfg.ExpireAfterWrite {
		result.Warnings = append(result.Warnings,
			"RefreshAfterWrite is not shorter than ExpireAfterWrite; entries will expire before refresh triggers")
	}
	if cfg.CleanupInterval == 0 && (cfg.ExpireAfterWrite > 0 || cfg.ExpireAfterAccess > 0) {
		result.Warnings = append(result.Warnings,
			"expiration is configured but CleanupInterval is 0; expired entries are only reaped on access")
	}

	return result, nil
}
