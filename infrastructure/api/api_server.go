package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	apimiddleware "github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/middleware"
	v1 "github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/v1"
	mcpinternal "github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/mcp"
)

// APIServer provides an HTTP API backed by a tracker Client.
type APIServer struct {
	client       *tracker.Client
	apiKeys      []string
	version      string
	origins      []string
	mu           sync.Mutex
	server       *Server
	stopped      bool
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given tracker Client.
// apiKeys configures write-protection: mutating endpoints under /api/v1
// require a valid key. Reads, MCP, metrics and docs remain open.
func NewAPIServer(client *tracker.Client, apiKeys []string) *APIServer {
	return &APIServer{
		client:  client,
		apiKeys: apiKeys,
		version: "dev",
		origins: []string{"*"},
		logger:  client.Logger(),
	}
}

// WithVersion sets the version reported by /health and the MCP server.
func (a *APIServer) WithVersion(version string) *APIServer {
	a.version = version
	return a
}

// WithAllowedOrigins restricts CORS to the given origins.
func (a *APIServer) WithAllowedOrigins(origins []string) *APIServer {
	if len(origins) > 0 {
		a.origins = origins
	}
	return a
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call MountRoutes().
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all routes on the router returned by Router.
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY", "X-Correlation-ID", "Mcp-Session-Id"},
		ExposedHeaders: []string{"X-Correlation-ID", "Mcp-Session-Id"},
		MaxAge:         300,
	}))
	router.Use(apimiddleware.CorrelationID)
	router.Use(apimiddleware.Logging(a.logger))

	router.Get("/health", a.health)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(apimiddleware.WriteProtectAuth(a.apiKeys))

		r.Mount("/events", v1.NewEventsRouter(c).Routes())
		r.Mount("/tracker", v1.NewTrackerRouter(c).Routes())
		r.Mount("/sync", v1.NewSyncRouter(c).Routes())
		r.Mount("/sheets", v1.NewSheetsRouter(c).Routes())
		r.Mount("/problems", v1.NewProblemsRouter(c).Routes())
	})

	docs := NewDocsRouter("/docs/openapi.json")
	router.Mount("/docs", docs.Routes())

	// No timeout on /mcp: streamable responses manage their own session
	// state through headers and cannot sit behind a wrapped ResponseWriter.
	mcpSrv := mcpinternal.NewServer(c.Log, c.Problems, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

func (a *APIServer) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "healthy", "version": a.version}
	if err := a.client.Database().Ping(r.Context()); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "unhealthy"
		body["error"] = err.Error()
	}
	apimiddleware.WriteJSON(w, status, body)
}

// ListenAndServe starts the HTTP server on the given address.
// It returns nil at once if Shutdown already ran.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger)

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.server = srv
	a.mu.Unlock()

	if a.routerCalled && a.router != nil {
		srv.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(srv.Router())
	}

	return srv.Start()
}

// Shutdown gracefully stops the server and prevents a later start.
func (a *APIServer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	srv := a.server
	a.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
