package middleware

import (
	"net/http"

	"dealerdesk/internal/config"
	"github.com/rs/cors"
)

func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CorsAllowedOrigins,
		AllowedMethods: cfg.Server.CorsAllowedMethods,
		AllowedHeaders: cfg.Server.CorsAllowedHeaders,
		// Session cookie rides on same-site requests; no credentialed CORS.
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
