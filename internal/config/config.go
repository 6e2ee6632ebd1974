package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline, must exceed the slowest store latency

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SeedFile      string        // path to a seed yaml file (empty = built-in seed)
	ResetInterval time.Duration // periodic reset to seed (0 = disabled)

	// Simulated store latency
	LatencyList   time.Duration
	LatencyCreate time.Duration
	LatencyUpdate time.Duration
	LatencyDelete time.Duration

	// Redis (optional, events only)
	RedisAddr             string        // ex: "localhost:6379", empty = events not published
	RedisChannel          string        // pub/sub channel for bug events
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password when RedisAddr is set
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict /readyz and /reset to these CIDRs or IPs
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // allowed origins, "*" = any

	RateLimitBurst  int // max burst of mutating requests per client
	RateLimitPerMin int // sustained mutating requests per minute per client
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("BUGTRACK_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("BUGTRACK_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("BUGTRACK_REQUEST_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("BUGTRACK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("BUGTRACK_PRETTY_LOG", true),

		// Seed
		SeedFile:      getenv("BUGTRACK_SEED_FILE", ""),
		ResetInterval: mustDuration("BUGTRACK_RESET_INTERVAL", 0),

		// Latency
		LatencyList:   mustDuration("BUGTRACK_LATENCY_LIST", 800*time.Millisecond),
		LatencyCreate: mustDuration("BUGTRACK_LATENCY_CREATE", 800*time.Millisecond),
		LatencyUpdate: mustDuration("BUGTRACK_LATENCY_UPDATE", 600*time.Millisecond),
		LatencyDelete: mustDuration("BUGTRACK_LATENCY_DELETE", 500*time.Millisecond),

		// Redis settings
		RedisAddr:             getenv("BUGTRACK_REDIS_ADDR", ""),
		RedisChannel:          getenv("BUGTRACK_REDIS_CHANNEL", "bugtrack:events"),
		RedisUser:             getenv("BUGTRACK_REDIS_USERNAME", ""),
		RedisPasswordRequired: mustBool("BUGTRACK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("BUGTRACK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("BUGTRACK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("BUGTRACK_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("BUGTRACK_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("BUGTRACK_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("BUGTRACK_CORS_ORIGINS", "*")),

		RateLimitBurst:  getenvInt("BUGTRACK_RATE_LIMIT_BURST", 30),
		RateLimitPerMin: getenvInt("BUGTRACK_RATE_LIMIT_PER_MIN", 120),
	}

	if cfg.RedisAddr != "" && cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: BUGTRACK_REDIS_PASSWORD is required when BUGTRACK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether bug events should be published to Redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}

// Validate checks relations between settings that env parsing alone cannot.
func (c *Config) Validate() error {
	slowest := c.LatencyList
	for _, d := range []time.Duration{c.LatencyCreate, c.LatencyUpdate, c.LatencyDelete} {
		if d > slowest {
			slowest = d
		}
	}
	if c.RequestTimeout > 0 && c.RequestTimeout <= slowest {
		return fmt.Errorf("request timeout %v must exceed the slowest store latency %v", c.RequestTimeout, slowest)
	}
	if c.RateLimitBurst <= 0 || c.RateLimitPerMin <= 0 {
		return fmt.Errorf("rate limit burst and per-minute must be > 0, got %d and %d", c.RateLimitBurst, c.RateLimitPerMin)
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
