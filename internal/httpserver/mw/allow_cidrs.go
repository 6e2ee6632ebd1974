package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/utils"
)

// AllowOnlyCIDRS rejects callers outside the allowed IPs/CIDRs with 403.
// An empty list disables the filter.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("request rejected by ip allow-list",
					logger.String("client_ip", ip),
					logger.String("path", r.URL.Path))
				writeForbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"forbidden"}` + "\n"))
}
