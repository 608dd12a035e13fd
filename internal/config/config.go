package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, read from the environment once at
// startup. main loads a .env file first when present.
type Config struct {
	Port     string
	LogLevel string

	LensAPIURL string
	ChainID    int64

	LivepeerAPIURL string
	LivepeerAPIKey string
	IPFSGateway    string

	RedisURL    string
	RedisPrefix string

	CSRFSecret        string
	TrustedProxyCount int

	// MirrorEnabled issues real mirror mutations. When off, the mirror
	// button shows the Lens v2 upgrade notice instead.
	MirrorEnabled bool

	LensTimeout     time.Duration
	LivepeerTimeout time.Duration
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              GetEnv("PORT", "3000"),
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		LensAPIURL:        GetEnv("LENS_API_URL", "https://api-v2.lens.dev"),
		LivepeerAPIURL:    strings.TrimRight(GetEnv("LIVEPEER_API_URL", "https://livepeer.studio/api"), "/"),
		LivepeerAPIKey:    os.Getenv("LIVEPEER_API_KEY"),
		IPFSGateway:       strings.TrimRight(GetEnv("IPFS_GATEWAY", "https://gw.ipfs-lens.dev/ipfs"), "/"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RedisPrefix:       GetEnv("REDIS_PREFIX", "waves:"),
		CSRFSecret:        os.Getenv("CSRF_SECRET"),
		LensTimeout:       10 * time.Second,
		LivepeerTimeout:   5 * time.Second,
	}

	var err error
	if cfg.ChainID, err = strconv.ParseInt(GetEnv("LENS_CHAIN_ID", "137"), 10, 64); err != nil || cfg.ChainID <= 0 {
		return nil, fmt.Errorf("LENS_CHAIN_ID must be a positive integer")
	}
	if cfg.TrustedProxyCount, err = strconv.Atoi(GetEnv("TRUSTED_PROXY_COUNT", "0")); err != nil || cfg.TrustedProxyCount < 0 {
		return nil, fmt.Errorf("TRUSTED_PROXY_COUNT must be a non-negative integer")
	}
	if cfg.MirrorEnabled, err = strconv.ParseBool(GetEnv("WAVES_FEATURE_MIRROR", "true")); err != nil {
		return nil, fmt.Errorf("WAVES_FEATURE_MIRROR: %w", err)
	}
	if d := os.Getenv("LENS_TIMEOUT"); d != "" {
		if cfg.LensTimeout, err = time.ParseDuration(d); err != nil {
			return nil, fmt.Errorf("LENS_TIMEOUT: %w", err)
		}
	}
	if !strings.HasPrefix(cfg.LensAPIURL, "http://") && !strings.HasPrefix(cfg.LensAPIURL, "https://") {
		return nil, fmt.Errorf("LENS_API_URL must be an http(s) URL")
	}
	return cfg, nil
}

// ChainName is a human label for the configured chain.
func (c *Config) ChainName() string {
	switch c.ChainID {
	case 137:
		return "Polygon"
	case 80001:
		return "Polygon Mumbai"
	case 80002:
		return "Polygon Amoy"
	}
	return "chain " + strconv.FormatInt(c.ChainID, 10)
}

// GetEnv returns the environment value for key or def when unset.
func GetEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
