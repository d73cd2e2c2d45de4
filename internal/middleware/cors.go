package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS answers preflight OPTIONS requests and adds the CORS headers to
// every response.
//
// allowedOrigins ["*"] allows any origin. Credentials (the session cookie)
// are only allowed with an explicit origin list: browsers refuse
// "Access-Control-Allow-Credentials: true" next to a wildcard.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	if wildcard {
		allowedOrigins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
