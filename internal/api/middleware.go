// Package api implements the niftynet REST API using chi.
package api

import "net/http"

// AdminKeyMiddleware returns middleware that validates the shared admin
// key carried in the X-Admin-Key header. It gates the ingestion
// operations (submit, refresh) only.
// If enabled is false, all requests pass through (disabled mode).
func AdminKeyMiddleware(enabled bool, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			got := r.Header.Get("X-Admin-Key")
			if got == "" || got != key {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
