package httpx

import (
	"net/http"
	"strings"
)

// CORSConfig controls the headers written by CORS.
type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders string
	AllowMethods []string
}

// DefaultCORS is the permissive policy browser clients of the service expect.
var DefaultCORS = CORSConfig{
	AllowOrigin:  "*",
	AllowHeaders: "*",
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	},
}

// CORS sets the configured headers on every response and answers preflight
// (OPTIONS) requests with 204 without reaching next.
func CORS(cfg CORSConfig) Middleware {
	methods := strings.Join(cfg.AllowMethods, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			h.Set("Access-Control-Allow-Headers", cfg.AllowHeaders)
			if methods != "" {
				h.Set("Access-Control-Allow-Methods", methods)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
