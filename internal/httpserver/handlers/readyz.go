package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool `json:"ready"`
	Seeded bool `json:"seeded"`
}

// Readyz is ready once the store has been seeded at least once.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seeded := d.Store != nil && !d.Store.LastReset().IsZero()
		status := http.StatusOK
		if !seeded {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: seeded, Seeded: seeded})
	}
}
