package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/bugtrack/internal/logger"
	"github.com/MrSnakeDoc/bugtrack/internal/utils"
)

// EnforceHost rejects requests whose Host header matches none of the allowed
// hosts. Patterns may be exact ("bugs.example.com", "localhost:8080") or
// wildcards ("*.example.com"). An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			patterns = append(patterns, h)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(r.Host)
			for _, p := range patterns {
				if matchHost(host, p) {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.Warn("request rejected by host allow-list",
				logger.String("host", r.Host),
				logger.String("path", r.URL.Path))
			writeForbidden(w)
		})
	}
}

// matchHost compares host against pattern. A pattern without a port matches
// the host on any port.
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	bare := utils.HostNoPort(host)
	if bare == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(bare, suffix) || strings.HasSuffix(host, suffix)
	}
	return false
}
