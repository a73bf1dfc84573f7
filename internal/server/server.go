// Package server provides the HTTP front for a Rater: a JSON API over the
// rating store and view state, live change feeds over WebSocket and SSE,
// and Prometheus metrics.
//
// The architecture follows the pattern: CLI → App → Server → Router → Handlers
//
// Usage:
//
//	cfg := server.DefaultConfig()
//	srv, err := server.New(app, cfg)
//	if err != nil {
//	    return err
//	}
//	srv.Start()
//	defer srv.Shutdown(ctx)
//	http.ListenAndServe(":8080", srv.Handler())
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/server/cache"
	"github.com/agentstation/imagerater/internal/server/events"
	"github.com/agentstation/imagerater/internal/server/events/adapters"
	"github.com/agentstation/imagerater/internal/server/metrics"
	"github.com/agentstation/imagerater/internal/server/sse"
	ws "github.com/agentstation/imagerater/internal/server/websocket"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	rater          *imagerater.Rater
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a new server instance with the given configuration.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}

	rater, err := app.Rater()
	if err != nil {
		return nil, err
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocket(wsHub))
	broker.Subscribe(adapters.NewSSE(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		rater:          rater,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        metrics.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	s.metrics.SetCounts(rater.Counts())

	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks keeps the cache and metrics current, then hands every change
// to the broker. The cache is flushed before the event is queued, so a
// client that refetches on an event never sees the old view.
func (s *Server) connectHooks() {
	s.rater.OnRatingChanged(func(change imagerater.RatingChange) {
		s.cache.Clear()
		s.metrics.ObserveRatingChange(change.New)
		s.metrics.SetCounts(s.rater.Counts())
	})
	s.rater.OnSelectionChanged(func(imagerater.SelectionChange) {
		s.cache.Clear()
	})
	s.rater.OnFilterChanged(func(imagerater.FilterChange) {
		s.cache.Clear()
	})

	events.Connect(s.rater, s.broker)
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	s.logger.Debug().Msg("Starting background services")

	s.wg.Add(3)
	go func() {
		defer s.wg.Done()
		s.broker.Run(s.ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.wsHub.Run(s.ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.sseBroadcaster.Run(s.ctx)
	}()
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background services, waiting until they exit or ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
