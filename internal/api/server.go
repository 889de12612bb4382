package api

import (
	"context"
	"net/http"

	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies the service in health answers and traces
const ServiceName = "sae-inference"

// Endpoint describes one route for the service index and startup log
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// Server represents the API server
type Server struct {
	router  *gin.Engine
	server  *http.Server
	engine  *sae.Engine
	config  Config
	logger  observability.Logger
	metrics observability.MetricsClient
	tracer  trace.TracerProvider
}

// Option configures a Server
type Option func(*Server)

// WithTracerProvider sets the provider used by the tracing middleware
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(s *Server) {
		s.tracer = provider
	}
}

// NewServer creates a new API server
func NewServer(engine *sae.Engine, cfg Config, logger observability.Logger, metrics observability.MetricsClient, opts ...Option) *Server {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	if metrics == nil {
		metrics = observability.NewNoopMetricsClient()
	}

	s := &Server{
		router:  gin.New(),
		engine:  engine,
		config:  cfg,
		logger:  logger.WithPrefix("api"),
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router.Use(CustomRecoveryMiddleware(s.logger, cfg.Environment))
	s.router.Use(RequestID())
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(MetricsMiddleware(s.metrics))
	s.router.Use(TracingMiddleware(s.tracer))

	if cfg.EnableCORS {
		s.router.Use(CORSMiddleware(cfg.CORS))
	}

	if cfg.Performance.EnableCompression {
		s.router.Use(CompressionMiddleware(cfg.Performance.CompressionLevel))
	}

	s.server = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	s.setupRoutes()

	return s
}

// setupRoutes initializes all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.indexHandler)
	s.router.GET("/health", healthHandler)

	if s.config.EnableSwagger {
		s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if s.config.MetricsPath != "" {
		s.router.GET(s.config.MetricsPath, gin.WrapH(s.metrics.Handler()))
	}

	// Only the SAE routes are throttled so orchestrator health checks and
	// scrapes keep working while a client is over its budget.
	saeGroup := &s.router.RouterGroup
	if s.config.RateLimit.Enabled {
		saeGroup = s.router.Group("", RateLimiter(NewRateLimiterConfigFromConfig(s.config.RateLimit), s.metrics))
	}
	NewSAEAPI(s.engine, s.logger, s.metrics, s.config.MaxBodyBytes).RegisterRoutes(saeGroup)
}

// Endpoints lists the routes the server exposes
func (s *Server) Endpoints() []Endpoint {
	endpoints := []Endpoint{
		{Method: http.MethodGet, Path: "/health", Description: "Health check"},
		{Method: http.MethodPost, Path: "/sae/encode", Description: "Encode text into SAE features"},
		{Method: http.MethodGet, Path: "/sae/feature/:feature_id", Description: "Describe a feature"},
		{Method: http.MethodGet, Path: "/sae/search", Description: "Search features"},
	}
	if s.config.MetricsPath != "" {
		endpoints = append(endpoints, Endpoint{Method: http.MethodGet, Path: s.config.MetricsPath, Description: "Prometheus metrics"})
	}
	if s.config.EnableSwagger {
		endpoints = append(endpoints, Endpoint{Method: http.MethodGet, Path: "/swagger/index.html", Description: "API documentation"})
	}
	return endpoints
}

// indexHandler lists the available endpoints
func (s *Server) indexHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":           ServiceName,
		"model":             s.engine.Config().ModelTag,
		"feature_dimension": s.engine.FeatureDimension(),
		"endpoints":         s.Endpoints(),
	})
}

// Router exposes the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
