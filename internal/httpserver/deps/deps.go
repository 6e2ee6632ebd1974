package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bugtrack/internal/bugs"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/version"
)

// StoreStats is the read-only view of the store used by /infra.
type StoreStats interface {
	Len() int
	LastReset() time.Time
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Build           version.Info
	TimeNow         func() time.Time // for testing, defaults to time.Now
	AllowedHosts    []string         // Host headers allowed to access the server
	AllowedCIDRS    []string         // IPs allowed to access readyz and reset
	TrustProxy      bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	CORSOrigins     []string         // allowed browser origins, "*" = any
	RateLimitBurst  int              // mutating requests a client may burst
	RateLimitPerMin int              // sustained mutating requests per client per minute
	Bugs            *bugs.Service    // validation + store facade
	Store           StoreStats       // collection stats for /infra
	RedisClient     *redis.Client    // nil when events are not published
	EventsChannel   string           // Redis pub/sub channel for bug events
	ResetTrigger    chan struct{}    // Channel to trigger a manual re-seed
}

// Now returns the injected clock or time.Now.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
