package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
)

type componentStatus struct {
	OK        bool   `json:"ok"`
	Bugs      *int   `json:"bugs,omitempty"`
	LastReset string `json:"last_reset,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Channel   string `json:"channel,omitempty"`
	Error     string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the store and the event sink. Redis being down degrades
// event publishing only; the API keeps working.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":  storeStatus(d),
			"events": eventsStatus(r.Context(), d),
		}

		status := "ok"
		if !components["store"].OK {
			status = "critical"
		} else if !components["events"].OK {
			status = "degraded"
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, infraResponse{Status: status, Components: components})
	}
}

func storeStatus(d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: false, Error: "store not initialized"}
	}
	count := d.Store.Len()
	last := "never"
	if t := d.Store.LastReset(); !t.IsZero() {
		last = t.Format(time.RFC3339)
	}
	return componentStatus{OK: true, Bugs: &count, LastReset: last, Mode: "memory"}
}

func eventsStatus(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{OK: true, Mode: "log-only"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{OK: false, Mode: "redis", Channel: d.EventsChannel, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: "redis", Channel: d.EventsChannel}
}
