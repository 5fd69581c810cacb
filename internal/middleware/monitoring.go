package middleware

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/templui/stepboard/internal/metrics"
)

// Path prefixes whose tail is an identifier, collapsed to keep label cardinality low
var metricPathPrefixes = map[string]string{
	"/uploads/":     "/uploads/{key}",
	"/api/profile/": "/api/profile/{name}",
}

// MonitorMiddleware records request counts and latency per route
func MonitorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrap(w)

		next.ServeHTTP(rw, r)

		path := metricPath(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())

		switch rw.statusCode {
		case http.StatusUnauthorized:
			metrics.AuthRejections.WithLabelValues("401_unauthorized").Inc()
		case http.StatusForbidden:
			metrics.AuthRejections.WithLabelValues("403_forbidden").Inc()
		}
	})
}

func metricPath(path string) string {
	for prefix, label := range metricPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return label
		}
	}
	return path
}

// MetricsAuth protects /metrics with basic auth. An empty user leaves it open.
func MetricsAuth(user, pass string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if user == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
				subtle.ConstantTimeCompare([]byte(p), []byte(pass)) != 1 {
				w.Header().Set("WWW-Authenticate", `Basic realm="Metrics"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
