package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
)

// RequestID middleware reuses an incoming X-Request-ID or assigns a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger middleware logs HTTP requests
func RequestLogger(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
			"request_id": c.GetString(requestIDKey),
		}

		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
			logger.Error("API request failed", fields)
			return
		}
		logger.Info("API request", fields)
	}
}

// MetricsMiddleware collects API metrics
func MetricsMiddleware(metrics observability.MetricsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		metrics.RecordAPIOperation(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

// routeLabel returns the matched route template so metric labels stay bounded
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// RateLimiterConfig defines configuration for rate limiting used by the middleware
type RateLimiterConfig struct {
	Limit      rate.Limit    // Sustained requests per second
	Burst      int           // Number of requests that can be made in a burst
	Expiration time.Duration // How long to keep track of an idle client
	MaxClients int           // Number of clients tracked at once
}

// NewRateLimiterConfigFromConfig creates a middleware rate limiter config from the API config
func NewRateLimiterConfigFromConfig(cfg RateLimitConfig) RateLimiterConfig {
	limit := rate.Inf
	if cfg.Limit > 0 && cfg.Period > 0 {
		limit = rate.Limit(float64(cfg.Limit) / cfg.Period.Seconds())
	}

	return RateLimiterConfig{
		Limit:      limit,
		Burst:      max(1, cfg.Limit*cfg.BurstFactor),
		Expiration: cfg.Expiration,
		MaxClients: cfg.MaxClients,
	}
}

// RateLimiterStorage keeps one limiter per client in a bounded cache whose
// entries expire after the configured idle time
type RateLimiterStorage struct {
	limiters *expirable.LRU[string, *rate.Limiter]
	config   RateLimiterConfig
}

// NewRateLimiterStorage creates a new rate limiter storage
func NewRateLimiterStorage(config RateLimiterConfig) *RateLimiterStorage {
	if config.Expiration <= 0 {
		config.Expiration = time.Hour
	}
	if config.MaxClients <= 0 {
		config.MaxClients = 10000
	}

	return &RateLimiterStorage{
		limiters: expirable.NewLRU[string, *rate.Limiter](config.MaxClients, nil, config.Expiration),
		config:   config,
	}
}

// GetLimiter returns the rate limiter for a given key, creating it if needed
func (s *RateLimiterStorage) GetLimiter(key string) *rate.Limiter {
	if limiter, ok := s.limiters.Get(key); ok {
		return limiter
	}

	limiter := rate.NewLimiter(s.config.Limit, s.config.Burst)
	// A concurrent request may have raced us; the last writer wins, which at
	// worst grants one extra burst.
	s.limiters.Add(key, limiter)
	return limiter
}

// Len reports the number of tracked clients
func (s *RateLimiterStorage) Len() int {
	return s.limiters.Len()
}

// RateLimiter middleware implements per-client rate limiting
func RateLimiter(config RateLimiterConfig, metrics observability.MetricsClient) gin.HandlerFunc {
	storage := NewRateLimiterStorage(config)

	return func(c *gin.Context) {
		limiter := storage.GetLimiter("ip:" + c.ClientIP())

		if !limiter.Allow() {
			metrics.RecordRateLimited(routeLabel(c))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// CORSMiddleware enables Cross-Origin Resource Sharing for the configured origins.
// A "*" entry answers with a literal wildcard and never allows credentials;
// explicitly listed origins are echoed back with credentials allowed.
func CORSMiddleware(corsConfig CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed, wildcard := false, false
		for _, allowedOrigin := range corsConfig.AllowedOrigins {
			if allowedOrigin == origin {
				allowed, wildcard = true, false
				break
			}
			if allowedOrigin == "*" {
				allowed, wildcard = true, true
			}
		}

		if allowed && origin != "" {
			header := c.Writer.Header()
			if wildcard {
				header.Set("Access-Control-Allow-Origin", "*")
			} else {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Add("Vary", "Origin")
			}
			header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
			header.Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			if allowed {
				c.AbortWithStatus(http.StatusNoContent)
			} else {
				c.AbortWithStatus(http.StatusForbidden)
			}
			return
		}

		c.Next()
	}
}

// CompressionMiddleware gzips responses for clients that accept it
func CompressionMiddleware(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.Header.Get("Accept-Encoding"), "gzip") ||
			c.Request.Method == http.MethodHead {
			c.Next()
			return
		}

		gz, err := gzip.NewWriterLevel(c.Writer, level)
		if err != nil {
			c.Next()
			return
		}

		gzWriter := &gzipResponseWriter{
			ResponseWriter: c.Writer,
			writer:         gz,
		}
		defer func() {
			// nothing was written, so do not emit a gzip trailer into an empty body
			if gzWriter.written {
				_ = gz.Close()
			}
		}()

		c.Writer = gzWriter
		c.Header("Content-Encoding", "gzip")
		c.Header("Vary", "Accept-Encoding")

		c.Next()
	}
}

// gzipResponseWriter wraps the original response writer with gzip
type gzipResponseWriter struct {
	gin.ResponseWriter
	writer  *gzip.Writer
	written bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	g.Header().Del("Content-Length")
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipResponseWriter) Write(data []byte) (int, error) {
	g.written = true
	return g.writer.Write(data)
}

func (g *gzipResponseWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}
