package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/bugtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bugtrack/internal/logger"
)

type resetResponse struct {
	Status string `json:"status"`
}

// Reset queues a re-seed of the store. 429 when one is already pending.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ResetTrigger <- struct{}{}:
			d.Logger.Info("manual seed reset requested",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, resetResponse{Status: "reset triggered"})
		default:
			d.Logger.Warn("seed reset already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusTooManyRequests, resetResponse{Status: "reset already in progress"})
		}
	}
}
