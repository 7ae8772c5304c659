package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	Redis       RedisConfig
	// ResourceCacheTTL bounds staleness of the resource configuration
	// cache. Configuration writes are not propagated proactively.
	ResourceCacheTTL time.Duration
	// AssetDir is the root for certificate background images.
	AssetDir string
}

// RedisConfig captures optional Redis connectivity for the shared
// resource-configuration cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultResourceCacheTTL is the accepted staleness window for resource
// configuration lookups.
const DefaultResourceCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("SYMPOSIA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	ttl := DefaultResourceCacheTTL
	if raw := os.Getenv("RESOURCE_CACHE_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	assetDir := os.Getenv("CERT_ASSET_DIR")
	if assetDir == "" {
		assetDir = "assets"
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		ResourceCacheTTL: ttl,
		AssetDir:         assetDir,
	}
}
