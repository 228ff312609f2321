package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// BasePath is the prefix every route is mounted under, normalized to a
// leading slash and no trailing one. Empty means the root.
func BasePath() string {
	return normalizeBasePath(os.Getenv("APP_BASE_PATH"))
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

func Port() string {
	port, ok := os.LookupEnv("APP_PORT")
	if !ok || port == "" {
		return ":8080"
	}
	return port
}

type Sessions struct {
	TTL          time.Duration
	ReapInterval time.Duration
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unable to parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func NewSessions() (*Sessions, error) {
	ttl, err := lookupDuration("SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	every, err := lookupDuration("SESSION_REAP_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	return &Sessions{TTL: ttl, ReapInterval: every}, nil
}
