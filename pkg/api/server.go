// Package api exposes the asset inspection service over REST: decode
// property tree files to JSON, resolve and compute name hashes, and report
// service statistics. All /api/v1 routes require an X-API-Key header.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StartServer starts the HTTP server with all routes configured
func StartServer(resolver Resolver, config ServerConfig) error {
	// Initialize metrics
	metrics := NewMetrics()

	server := NewServer(resolver, config, metrics)
	r := Router(server, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting riftkit inspection API on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))

	return nil
}

// Router builds the chi router; split out of StartServer so tests can drive
// it with httptest.
func Router(server *Server, config ServerConfig, metrics *Metrics) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Property tree inspection
		r.Post("/inspect", metrics.InstrumentHandler("POST", "/api/v1/inspect", server.handleInspect))

		// Hash dictionary
		r.Get("/hashes/{hash}", metrics.InstrumentHandler("GET", "/api/v1/hashes/{hash}", server.handleLookupHash))
		r.Get("/hashes", metrics.InstrumentHandler("GET", "/api/v1/hashes", server.handleComputeHash))

		// Diagnostics
		r.Get("/stats", metrics.InstrumentHandler("GET", "/api/v1/stats", server.handleStats))
	})

	return r
}
