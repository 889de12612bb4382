package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(RequestIDHeader, "trace-me")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "trace-me", w.Header().Get(RequestIDHeader))
	})
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := observability.NewLogger(&buf, "test", observability.LoggingConfig{})

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test", w.Body.String())
	assert.Contains(t, buf.String(), `"path":"/test"`)
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"status":200`)
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := observability.NewPrometheusMetricsClient("test")
	router := gin.New()
	router.Use(MetricsMiddleware(metrics))
	router.GET("/items/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	for _, path := range []string{"/items/1", "/items/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	body := scrape(t, metrics)
	assert.Contains(t, body, `test_api_requests_total{endpoint="/items/:id",method="GET",status="200"} 2`)
	assert.Contains(t, body, `test_api_requests_total{endpoint="unmatched",method="GET",status="404"} 1`)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)

	metrics := observability.NewPrometheusMetricsClient("test")
	cfg := NewRateLimiterConfigFromConfig(RateLimitConfig{
		Enabled:     true,
		Limit:       1,
		Period:      time.Hour,
		BurstFactor: 2,
		Expiration:  time.Minute,
		MaxClients:  10,
	})
	assert.Equal(t, 2, cfg.Burst)

	router := gin.New()
	router.Use(RateLimiter(cfg, metrics))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// a different client has its own budget
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Contains(t, scrape(t, metrics), `test_rate_limited_total{endpoint="/test"} 1`)
}

func TestRateLimiterStorage_Bounded(t *testing.T) {
	storage := NewRateLimiterStorage(RateLimiterConfig{Limit: 1, Burst: 1, Expiration: time.Minute, MaxClients: 2})

	first := storage.GetLimiter("a")
	assert.Same(t, first, storage.GetLimiter("a"))

	storage.GetLimiter("b")
	storage.GetLimiter("c")
	assert.Equal(t, 2, storage.Len())
}

func TestNewRateLimiterConfigFromConfig_Unlimited(t *testing.T) {
	cfg := NewRateLimiterConfigFromConfig(RateLimitConfig{Enabled: true})
	assert.Equal(t, 1, cfg.Burst)
	assert.True(t, cfg.Limit > 1e300)
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware(CORSConfig{AllowedOrigins: []string{"http://example.com"}}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	t.Run("Preflight Request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
	})

	t.Run("Disallowed Preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Simple Request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://example.com")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "http://example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORSMiddleware(CORSConfig{AllowedOrigins: []string{"*", "http://trusted.example"}}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "test")
	})

	send := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("any origin gets a wildcard without credentials", func(t *testing.T) {
		w := send("http://localhost:3000")

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("listed origin is echoed with credentials", func(t *testing.T) {
		w := send("http://trusted.example")

		assert.Equal(t, "http://trusted.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})
}

func TestCompressionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CompressionMiddleware(gzip.BestSpeed))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "compressed"})
	})
	router.GET("/empty", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	t.Run("gzip accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip, deflate")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
		reader, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.JSONEq(t, `{"message":"compressed"}`, string(body))
	})

	t.Run("gzip not accepted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.JSONEq(t, `{"message":"compressed"}`, w.Body.String())
	})

	t.Run("empty body stays empty", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/empty", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Zero(t, w.Body.Len())
	})
}

func TestCustomRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		environment string
		expected    string
	}{
		{"production", "An internal server error occurred"},
		{"development", "Internal server error: kaboom"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			router := gin.New()
			router.Use(CustomRecoveryMiddleware(observability.NewLogger(&buf, "test", observability.LoggingConfig{}), tt.environment))
			router.GET("/panic", func(c *gin.Context) {
				panic("kaboom")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Body.String(), tt.expected)
			assert.Contains(t, buf.String(), "Panic recovered")
		})
	}
}

func scrape(t *testing.T, metrics *observability.PrometheusMetricsClient) string {
	t.Helper()
	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
