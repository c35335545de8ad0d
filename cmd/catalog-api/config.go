package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/logging"
)

// Configuration keys, read from the environment.
const (
	keyPort               = "PORT"
	keyCacheBackend       = "CACHE_BACKEND"
	keyRedisURL           = "REDIS_URL"
	keyCacheTTL           = "CACHE_TTL"
	keySweepInterval      = "SWEEP_INTERVAL"
	keyProjectID          = "FIREBASE_PROJECT_ID"
	keyDatabaseID         = "FIREBASE_DATABASE_ID"
	keyServiceAccountKey  = "FIREBASE_SERVICE_ACCOUNT_KEY"
	keyServiceAccountPath = "FIREBASE_SERVICE_ACCOUNT_PATH"
	keyAllowedOrigins     = "ALLOWED_ORIGINS"
	keyGroupsFile         = "GROUPS_FILE"
	keyFixturesFile       = "FIXTURES_FILE"
	keyLogLevel           = "LOG_LEVEL"
	keyLogPretty          = "LOG_PRETTY"
)

const (
	backendMemory = "memory"
	backendRedis  = "redis"
)

type config struct {
	Port               int
	CacheBackend       string
	RedisURL           string
	CacheTTL           time.Duration
	SweepInterval      time.Duration
	ProjectID          string
	DatabaseID         string
	ServiceAccountKey  string
	ServiceAccountPath string
	AllowedOrigins     []string
	GroupsFile         string
	FixturesFile       string
	LogLevel           logging.LogLevel
	LogPretty          bool
}

// newViper returns a viper instance reading the environment with defaults applied.
func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(keyPort, 3000)
	v.SetDefault(keyCacheBackend, backendMemory)
	v.SetDefault(keyRedisURL, "localhost:6379")
	v.SetDefault(keyCacheTTL, cache.DefaultTTL)
	v.SetDefault(keySweepInterval, cache.DefaultSweepInterval)
	v.SetDefault(keyProjectID, "bodeguitavanesa")
	v.SetDefault(keyDatabaseID, "negociovanesa")
	v.SetDefault(keyAllowedOrigins, "*")
	v.SetDefault(keyLogLevel, string(logging.LevelInfo))
	v.SetDefault(keyLogPretty, false)
	return v
}

// loadConfig reads and validates the configuration.
func loadConfig(v *viper.Viper) (config, error) {
	level, err := logging.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return config{}, err
	}

	cfg := config{
		Port:               v.GetInt(keyPort),
		CacheBackend:       strings.ToLower(strings.TrimSpace(v.GetString(keyCacheBackend))),
		RedisURL:           v.GetString(keyRedisURL),
		CacheTTL:           v.GetDuration(keyCacheTTL),
		SweepInterval:      v.GetDuration(keySweepInterval),
		ProjectID:          v.GetString(keyProjectID),
		DatabaseID:         v.GetString(keyDatabaseID),
		ServiceAccountKey:  v.GetString(keyServiceAccountKey),
		ServiceAccountPath: v.GetString(keyServiceAccountPath),
		AllowedOrigins:     splitList(v.GetString(keyAllowedOrigins)),
		GroupsFile:         v.GetString(keyGroupsFile),
		FixturesFile:       v.GetString(keyFixturesFile),
		LogLevel:           level,
		LogPretty:          v.GetBool(keyLogPretty),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return config{}, fmt.Errorf("invalid %s %d", keyPort, cfg.Port)
	}
	if cfg.CacheBackend != backendMemory && cfg.CacheBackend != backendRedis {
		return config{}, fmt.Errorf("invalid %s %q, want %q or %q", keyCacheBackend, cfg.CacheBackend, backendMemory, backendRedis)
	}
	if cfg.CacheTTL <= 0 {
		return config{}, fmt.Errorf("%s must be positive", keyCacheTTL)
	}
	if cfg.SweepInterval <= 0 {
		return config{}, fmt.Errorf("%s must be positive", keySweepInterval)
	}
	if cfg.FixturesFile == "" && cfg.ProjectID == "" {
		return config{}, fmt.Errorf("%s is required without %s", keyProjectID, keyFixturesFile)
	}
	return cfg, nil
}

func (c config) addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

// splitList splits a comma separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
