package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/logging"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(mark("first"), mark("second"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(RequestIDHeader)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestLogger(t *testing.T) {
	logger := logging.NewTestLogger(t)

	var ctxLogged bool
	h := Logger(logger.Logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogged = logging.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusCreated)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/api/v1/ratings", nil))

	assert.True(t, ctxLogged)
	assert.True(t, logger.Contains(`"status":201`))
	assert.True(t, logger.Contains(`"path":"/api/v1/ratings"`))
}

func TestRecovery(t *testing.T) {
	logger := logging.NewTestLogger(t)
	h := Recovery(logger.Logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "INTERNAL_ERROR"))
	assert.True(t, logger.Contains("Panic recovered"))
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	local := []string{"http://localhost:5173"}

	tests := []struct {
		name        string
		cfg         CORSConfig
		method      string
		origin      string
		preflight   string
		wantCode    int
		wantOrigin  string
		wantMethods bool
	}{
		{"listed origin", CORSConfig{Origins: local}, http.MethodGet, "http://localhost:5173", "", http.StatusTeapot, "http://localhost:5173", false},
		{"unlisted origin", CORSConfig{Origins: local}, http.MethodGet, "http://evil.example", "", http.StatusTeapot, "", false},
		{"no origin header", CORSConfig{}, http.MethodGet, "", "", http.StatusTeapot, "", false},
		{"any origin", CORSConfig{}, http.MethodGet, "http://a.example", "", http.StatusTeapot, "*", false},
		{"preflight rate", CORSConfig{Origins: local}, http.MethodOptions, "http://localhost:5173", http.MethodPut, http.StatusNoContent, "http://localhost:5173", true},
		{"preflight unlisted", CORSConfig{Origins: local}, http.MethodOptions, "http://evil.example", http.MethodPut, http.StatusNoContent, "", false},
		{"plain options passes through", CORSConfig{}, http.MethodOptions, "http://a.example", "", http.StatusTeapot, "*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/ratings", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight != "" {
				req.Header.Set("Access-Control-Request-Method", tt.preflight)
			}
			rec := httptest.NewRecorder()
			CORS(tt.cfg)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantMethods {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
			} else {
				assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
			}
			if tt.wantOrigin != "" {
				assert.Equal(t, RequestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}

	t.Run("max age", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/filter", nil)
		req.Header.Set("Origin", "http://a.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		rec := httptest.NewRecorder()
		CORS(CORSConfig{MaxAge: time.Hour})(next).ServeHTTP(rec, req)
		assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	})
}
