package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds all runtime configuration for jsxpreview.
type Config struct {
	Listen         string
	CacheTTL       time.Duration
	CacheMaxSize   int64
	MaxRequestSize int64
	OrderFile      string
	Recursive      bool
	Sanitize       bool
	AssetBaseURL   string
	AllowedOrigins []string
	RenderDir      string
	Debug          bool
}

// Parse reads configuration from CLI flags with environment variable fallback.
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("jsxpreview", flag.ContinueOnError)

	cfg := &Config{}

	fs.StringVar(&cfg.Listen, "listen", envOr("JSXPREVIEW_LISTEN", "127.0.0.1:8080"), "Listen address")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", envDurationOr("JSXPREVIEW_CACHE_TTL", 5*time.Minute), "Cache TTL duration")
	cacheMaxSize := fs.String("cache-max-size", envOr("JSXPREVIEW_CACHE_MAX_SIZE", "100MB"), "Max cache size (e.g. 100MB)")
	maxRequestSize := fs.String("max-request-size", envOr("JSXPREVIEW_MAX_REQUEST_SIZE", "5MB"), "Max preview request body (e.g. 5MB)")
	fs.StringVar(&cfg.OrderFile, "order-file", envOr("JSXPREVIEW_ORDER_FILE", ""), "YAML file overriding the no-root component order")
	fs.BoolVar(&cfg.Recursive, "recursive", envBoolOr("JSXPREVIEW_RECURSIVE", false), "Resolve components used inside other components")
	fs.BoolVar(&cfg.Sanitize, "sanitize", envBoolOr("JSXPREVIEW_SANITIZE", false), "Strip scripts and event handlers from the rendered body")
	fs.StringVar(&cfg.AssetBaseURL, "asset-base-url", envOr("JSXPREVIEW_ASSET_BASE_URL", ""), "Absolute URL relative src attributes are resolved against")
	allowedOrigins := fs.String("allowed-origins", envOr("JSXPREVIEW_ALLOWED_ORIGINS", ""), "Comma-separated origin host patterns allowed on /live")
	fs.StringVar(&cfg.RenderDir, "render", "", "Render the project in this directory to stdout and exit")
	fs.BoolVar(&cfg.Debug, "debug", envBoolOr("JSXPREVIEW_DEBUG", false), "Log dropped expressions and attributes")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var err error
	cfg.CacheMaxSize, err = parseByteSize(*cacheMaxSize)
	if err != nil {
		return nil, fmt.Errorf("parse cache-max-size: %w", err)
	}

	cfg.MaxRequestSize, err = parseByteSize(*maxRequestSize)
	if err != nil {
		return nil, fmt.Errorf("parse max-request-size: %w", err)
	}

	if cfg.AssetBaseURL != "" {
		u, err := url.Parse(cfg.AssetBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("invalid asset-base-url %q: must be an absolute http(s) URL", cfg.AssetBaseURL)
		}
	}

	cfg.AllowedOrigins = splitList(*allowedOrigins)

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		return v == "1" || v == "true" || v == "yes"
	}
	return fallback
}

// parseByteSize parses a human-readable byte size like "100MB", "5KB", "1GB".
func parseByteSize(s string) (int64, error) {
	if len(s) == 0 {
		return 0, fmt.Errorf("empty size string")
	}

	i := 0
	for i < len(s) && ((s[i] >= '0' && s[i] <= '9') || s[i] == '.') {
		i++
	}

	numStr := s[:i]
	unit := s[i:]

	var num float64
	if _, err := fmt.Sscanf(numStr, "%f", &num); err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	var multiplier int64
	switch unit {
	case "", "B":
		multiplier = 1
	case "KB", "kb":
		multiplier = 1024
	case "MB", "mb":
		multiplier = 1024 * 1024
	case "GB", "gb":
		multiplier = 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown size unit %q in %q", unit, s)
	}

	return int64(num * float64(multiplier)), nil
}
