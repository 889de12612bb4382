package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/S-Corkum/sae-inference/internal/api"
	"github.com/S-Corkum/sae-inference/internal/config"
	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/S-Corkum/sae-inference/pkg/observability"
)

// Command-line flags
var (
	configFile  = flag.String("config", "", "Path to the configuration file (overrides SAE_CONFIG_FILE)")
	healthCheck = flag.Bool("health-check", false, "Run health check and exit")
)

func main() {
	flag.Parse()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize configuration
	path := *configFile
	if path == "" {
		path = os.Getenv(config.ConfigFileEnv)
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		observability.NewStandardLogger("server").Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Handle health check flag
	if *healthCheck {
		if err := checkHealth(cfg.API.ListenAddress); err != nil {
			log.Printf("Health check failed: %v", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Initialize logging
	logger := observability.NewLogger(os.Stderr, "server", cfg.Logging)

	// Initialize tracing
	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", map[string]interface{}{"error": err.Error()})
	}

	// Initialize metrics
	metricsClient := observability.NewMetricsClient(cfg.Metrics)

	// Initialize engine
	engine, err := sae.NewEngine(cfg.Engine, sae.WithTracer(observability.Tracer("sae")))
	if err != nil {
		logger.Fatal("Failed to initialize SAE engine", map[string]interface{}{"error": err.Error()})
	}

	// Initialize API server
	server := api.NewServer(engine, cfg.API, logger, metricsClient)

	logger.Info("Server configuration", map[string]interface{}{
		"address":           cfg.API.ListenAddress,
		"env":               cfg.Environment,
		"model":             cfg.Engine.ModelTag,
		"feature_dimension": cfg.Engine.FeatureDimension,
		"metrics":           cfg.Metrics.Enabled,
		"tracing":           cfg.Tracing.Enabled,
	})
	for _, endpoint := range server.Endpoints() {
		logger.Info("Endpoint available", map[string]interface{}{
			"method":      endpoint.Method,
			"path":        endpoint.Path,
			"description": endpoint.Description,
		})
	}

	// Start server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", map[string]interface{}{
			"address": cfg.API.ListenAddress,
		})
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or a failed listener
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", map[string]interface{}{"signal": sig.String()})
	case err := <-serverErr:
		logger.Error("Server failed", map[string]interface{}{"error": err.Error()})
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer provider shutdown error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Server stopped gracefully", nil)
}

// checkHealth calls the local health endpoint of a server listening on address
func checkHealth(address string) error {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", address, err)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port)))
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}
