package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS пустой список источников запрещает кросс-доменные запросы
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", UserIDHeader},
		AllowCredentials: false,
		MaxAge:           600,
	}).Handler
}
