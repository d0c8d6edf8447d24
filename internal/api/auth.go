package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/tidewater-news/newsdex/internal/apikeys"
	apperrors "github.com/tidewater-news/newsdex/pkg/errors"
)

type contextKey string

const apiKeyInfoKey contextKey = "api_key_info"

// Auth returns middleware that validates API keys from the request and,
// on success, stores the KeyInfo on the request context for downstream
// handlers and the rate limiter to read.
func Auth(validator *apikeys.Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := extractAPIKey(r)
			if key == "" {
				writeError(w, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "missing api key"))
				return
			}

			info, err := validator.Validate(r.Context(), key)
			if err != nil {
				switch err {
				case apikeys.ErrInvalidKey:
					writeError(w, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "invalid api key"))
				case apikeys.ErrExpiredKey:
					writeError(w, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "expired api key"))
				default:
					writeError(w, apperrors.New(apperrors.ErrInternal, http.StatusInternalServerError, "authentication error"))
				}
				return
			}
			if !info.CanWrite {
				writeError(w, apperrors.New(apperrors.ErrUnauthorized, http.StatusUnauthorized, "key is read-only"))
				return
			}

			ctx := context.WithValue(r.Context(), apiKeyInfoKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// keyInfoFromContext retrieves the validated KeyInfo from the request
// context, if Auth ran for this request.
func keyInfoFromContext(ctx context.Context) *apikeys.KeyInfo {
	info, _ := ctx.Value(apiKeyInfoKey).(*apikeys.KeyInfo)
	return info
}

// extractAPIKey reads the API key from the request in priority order:
// Authorization: Bearer header, X-API-Key header, api_key query parameter.
func extractAPIKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}

// rateLimitKey identifies the caller for rate limiting: the validated API
// key's id if present, otherwise the host part of the request's remote
// address (the port is dropped so every connection from one client
// shares a bucket).
func rateLimitKey(r *http.Request) string {
	if info := keyInfoFromContext(r.Context()); info != nil {
		return "key:" + info.ID
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return "addr:" + host
	}
	return "addr:" + r.RemoteAddr
}
