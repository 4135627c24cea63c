package apitest

import (
	"net/http"
	"strings"
)

// bearerAuth rejects requests whose Bearer token is not apiKey.
// An empty apiKey disables the check.
func bearerAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeErrors(w, http.StatusUnauthorized, "You need to sign in before continuing.")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeErrors(w, http.StatusUnauthorized, "Authorization header must use Bearer scheme.")
				return
			}

			if auth[len(bearerPrefix):] != apiKey {
				writeErrors(w, http.StatusUnauthorized, "Invalid credentials.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
