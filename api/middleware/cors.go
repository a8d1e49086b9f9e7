package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows any origin. The API serves a mobile app plus a static admin
// panel whose hosts are not known ahead of time; there are no cookies to
// protect.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Idempotency-Key", "X-Admin-UID", "X-Requested-With"},
		MaxAge:         300,
	}).Handler
}
