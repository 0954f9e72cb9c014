package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the browser clients in allowedOrigins to call the api with
// credentials. An empty list allows any origin without credentials.
func CORS(allowedOrigins []string, h http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		return cors.AllowAll().Handler(h)
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(h)
}
