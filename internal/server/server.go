package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/stemcrate/StemCrate_Go/internal/catalog"
	"github.com/stemcrate/StemCrate_Go/internal/handler"
	"github.com/stemcrate/StemCrate_Go/internal/identity"
	"github.com/stemcrate/StemCrate_Go/internal/logger"
	"github.com/stemcrate/StemCrate_Go/internal/metrics"
	"github.com/stemcrate/StemCrate_Go/internal/opening"
	"github.com/stemcrate/StemCrate_Go/internal/repository"
)

// Options configures the HTTP server.
type Options struct {
	Port                int
	APIKey              string
	Version             string
	DevEndpointsEnabled bool
	Health              handler.HealthChecker
}

// Server wires the HTTP surface over the opening service.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(opts Options, openingService opening.Service, store repository.Inventory, catalogStore *catalog.Store, resolver *identity.Resolver) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)
	r.Use(identityMiddleware(resolver))

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(opts.Health))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion(opts.Version))

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		openingHandler := handler.NewOpeningHandler(openingService)

		r.Route("/pack", func(r chi.Router) {
			r.Post("/open", openingHandler.HandleOpenPack)
		})

		r.Route("/opening", func(r chi.Router) {
			r.Get("/pending", openingHandler.HandleGetPending)
			r.Post("/commit", openingHandler.HandleCommitCollection)
		})

		r.Get("/inventory", openingHandler.HandleGetInventory)

		// Dev/test-only routes; bypass economy invariants and are excluded
		// from production deployments.
		if opts.DevEndpointsEnabled {
			adminHandler := handler.NewAdminHandler(store, catalogStore)
			r.Route("/admin", func(r chi.Router) {
				r.Post("/grant", adminHandler.HandleGrantBalance)
				r.Post("/reset", adminHandler.HandleResetOwner)
				r.Post("/catalog/reload", adminHandler.HandleReloadCatalog)
			})
		}
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Start begins serving requests, blocking until the listener fails.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// loggingMiddleware attaches a request ID and logs request completion.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip logging for health check endpoints and metrics
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))

		logger.FromContext(ctx).Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// identityMiddleware resolves the owner identity and places it in context.
// A freshly minted anonymous ID is echoed back so the client can persist it.
func identityMiddleware(resolver *identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ownerID, minted := resolver.Resolve(r)
			if minted {
				w.Header().Set(identity.HeaderAnonymousID, strings.TrimPrefix(ownerID, "anon:"))
			}
			ctx := handler.WithOwnerID(r.Context(), ownerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
