package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// APIKeyAuth accepts the key from "Authorization: Bearer <key>", a bare
// Authorization value, or X-API-Key. An empty apiKey rejects every request.
func APIKeyAuth(apiKey string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				logger.Error("api_key is not configured", zap.String("path", r.URL.Path))
				http.Error(w, "Server configuration error", http.StatusInternalServerError)
				return
			}

			providedKey := keyFrom(r)
			if providedKey == "" {
				logger.Error("API key missing from request",
					zap.String("path", r.URL.Path), zap.String("requestId", RequestIDFrom(r.Context())))
				http.Error(w, "API key required. Provide it in Authorization header (Bearer <key>) or X-API-Key header", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				logger.Error("Invalid API key provided",
					zap.String("path", r.URL.Path), zap.String("requestId", RequestIDFrom(r.Context())))
				http.Error(w, "Invalid API key", http.StatusUnauthorized)
				return
			}

			next(w, r)
		}
	}
}

func keyFrom(r *http.Request) string {
	if auth := strings.TrimSpace(r.Header.Get("Authorization")); auth != "" {
		parts := strings.Fields(auth)
		switch {
		case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
			return parts[1]
		case len(parts) == 1:
			return parts[0]
		}
		return ""
	}
	return r.Header.Get("X-API-Key")
}
