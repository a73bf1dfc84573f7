package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/agentstation/imagerater/internal/server/handlers"
	"github.com/agentstation/imagerater/internal/server/middleware"
	"github.com/agentstation/imagerater/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.rater,
		s.cache,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health endpoints
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	// Images
	mux.HandleFunc(prefix+"/images", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleListImages,
	}))
	mux.HandleFunc(prefix+"/images/", func(w http.ResponseWriter, r *http.Request) {
		index := extractPathParam(r.URL.Path, prefix+"/images/")
		if index == "" {
			response.NotFound(w, "Image index required", "")
			return
		}
		if r.Method != http.MethodGet {
			response.MethodNotAllowed(w, r.Method)
			return
		}
		h.HandleGetImage(w, r, index)
	})

	// Ratings
	mux.HandleFunc(prefix+"/ratings", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet:    h.HandleListRatings,
		http.MethodPut:    h.HandleRate,
		http.MethodDelete: h.HandleUnrate,
	}))
	mux.HandleFunc(prefix+"/counts", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleCounts,
	}))

	// View state
	mux.HandleFunc(prefix+"/filter", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleGetFilter,
		http.MethodPut: h.HandleSetFilter,
	}))
	mux.HandleFunc(prefix+"/selection", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet:    h.HandleGetSelection,
		http.MethodPut:    h.HandleSelect,
		http.MethodDelete: h.HandleClearSelection,
	}))
	mux.HandleFunc(prefix+"/selection/next", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodPost: h.HandleNext,
	}))
	mux.HandleFunc(prefix+"/selection/previous", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodPost: h.HandlePrevious,
	}))
	mux.HandleFunc(prefix+"/view", handlers.Methods(map[string]http.HandlerFunc{
		http.MethodGet: h.HandleView,
	}))

	// Real-time endpoints
	mux.HandleFunc(prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc(prefix+"/updates/stream", h.HandleSSE)

	if s.config.MetricsEnabled {
		mux.Handle("/metrics", s.metrics.Handler())
	}
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.CORSEnabled {
		handler = middleware.CORS(middleware.CORSConfig{
			Origins: cfg.CORSOrigins,
			MaxAge:  24 * time.Hour,
		})(handler)
	}

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logger(s.logger),
	}
	if cfg.MetricsEnabled {
		chain = append(chain, s.metrics.Middleware)
	}

	return middleware.Chain(chain...)(handler)
}

// extractPathParam extracts the first path segment after prefix.
func extractPathParam(path, prefix string) string {
	trimmed := strings.TrimPrefix(path, prefix)
	parts := strings.Split(trimmed, "/")
	if len(parts) > 0 {
		return parts[0]
	}
	return ""
}
