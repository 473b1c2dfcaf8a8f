package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/linkshelf/shelf/internal/logger"
)

// RequireToken guards admin endpoints with a bearer token. The compare
// is constant-time.
func RequireToken(token string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" ||
				subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
				log.Warn("rejected admin request",
					logger.String("path", r.URL.Path),
					logger.String("remote_ip", r.RemoteAddr))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
