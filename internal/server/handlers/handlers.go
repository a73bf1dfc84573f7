// Package handlers provides HTTP request handlers for the imagerater API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/internal/server/cache"
	"github.com/agentstation/imagerater/internal/server/response"
	"github.com/agentstation/imagerater/internal/server/sse"
	ws "github.com/agentstation/imagerater/internal/server/websocket"
	"github.com/agentstation/imagerater/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app            application.Application
	rater          *imagerater.Rater
	cache          *cache.Cache
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	rater *imagerater.Rater,
	cache *cache.Cache,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		rater:          rater,
		cache:          cache,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
	}
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, w http.ResponseWriter, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewParseError("json", "request body", err.Error(), err)
	}
	return nil
}

// cacheKey scopes a cache entry to a rater version so readers never see a
// view computed before the latest change.
func cacheKey(name string, version uint64) string {
	return name + "@" + strconv.FormatUint(version, 10)
}

// Methods dispatches on the request method, answering 405 for the rest.
func Methods(routes map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fn, ok := routes[r.Method]; ok {
			fn(w, r)
			return
		}
		response.MethodNotAllowed(w, r.Method)
	}
}
