// Package middleware holds HTTP wrappers shared by the local API.
package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
)

// PublicPaths are reachable without a token. /ws authenticates through its
// first JSON-RPC call instead.
var PublicPaths = []string{"/health", "/ws"}

// Auth requires "Authorization: Bearer <token>" on every path not listed
// in public (PublicPaths when none are given). An empty token disables the
// check.
func Auth(token string, public ...string) func(http.Handler) http.Handler {
	if len(public) == 0 {
		public = PublicPaths
	}
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(public, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			scheme, got, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			switch {
			case !ok && scheme == "":
				unauthorized(w, "missing bearer token")
				return
			case !ok || !strings.EqualFold(scheme, "Bearer"):
				unauthorized(w, "authorization must use the Bearer scheme")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				slog.Warn("rejected request with invalid token", "path", r.URL.Path, "remote", r.RemoteAddr)
				unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="pcfscope"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
