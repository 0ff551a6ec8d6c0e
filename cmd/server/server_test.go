package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/dedup"
	"codeberg.org/algopatterns/dedup/internal/reports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:            "test",
		Strategy:               dedup.StrategyExact,
		RateLimit:              "3-M",
		PassIdleTimeout:        config.DefaultPassIdleTimeout,
		MaxDocumentsPerRequest: config.DefaultMaxDocuments,
	}
}

func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4711"

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)
	return w
}

func TestNewServer_MemoryStore(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	assert.IsType(t, &reports.MemoryStore{}, srv.reports)

	w := serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(srv, http.MethodPost, "/api/v1/dedup", `{"documents":[{"text":"a"},{"text":"a"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"removed":1`)
}

func TestNewServer_RateLimit(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	for range 3 {
		w := serve(srv, http.MethodGet, "/api/v1/ping", "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(srv, http.MethodGet, "/api/v1/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// health checks are never limited
	w = serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewServer_CORS(t *testing.T) {
	cfg := testConfig()
	cfg.AllowedOrigins = []string{"https://corpus.example"}

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dedup", nil)
	req.Header.Set("Origin", "https://corpus.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	assert.Equal(t, "https://corpus.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewServer_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.RedisURL = "redis://" + mr.Addr()

	srv, err := NewServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	assert.IsType(t, &reports.RedisStore{}, srv.reports)

	w := serve(srv, http.MethodPost, "/api/v1/passes", `{"strategy":"fuzzy"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestNewServer_InvalidRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = "lots"

	_, err := NewServer(context.Background(), cfg)
	assert.Error(t, err)
}
