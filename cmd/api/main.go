package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ixp-backend/infrastructure/config"
	"ixp-backend/infrastructure/di"
	"ixp-backend/infrastructure/observability"
	"ixp-backend/interfaces/http/rest"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// Distributed tracing exports spans over OTLP when enabled
	var tracerProvider *observability.TracerProvider
	if cfg.EnableTracing {
		tracerProvider, err = observability.InitTracing(observability.TracingConfig{
			ServiceName: "ixp-backend",
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
			SampleRate:  cfg.TraceSampleRate,
		})
		if err != nil {
			container.Logger.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	// Register intents, components, and data sources. A misconfigured
	// registry is worse than failing fast at startup.
	defs, err := config.LoadDefinitions(cfg.DefinitionsPath)
	if err != nil {
		container.Logger.Fatal("Failed to load definitions", zap.Error(err))
	}
	if err := container.ApplyDefinitions(defs); err != nil {
		container.Logger.Fatal("Failed to apply definitions", zap.Error(err))
	}
	if container.DataProvider != nil {
		container.RegisterProviderSource()
	}

	// Optional hot reload of the definitions file
	var watcher *config.DefinitionsWatcher
	if cfg.WatchDefinitions {
		watcher, err = config.NewDefinitionsWatcher(cfg.DefinitionsPath, container.Logger)
		if err != nil {
			container.Logger.Fatal("Failed to watch definitions", zap.Error(err))
		}
		watcher.OnReload(func(reloaded *config.Definitions) {
			if err := container.ReplaceDefinitions(reloaded); err != nil {
				container.Logger.Error("Failed to apply reloaded definitions", zap.Error(err))
			}
		})
	}

	// Create router
	router := rest.NewRouter(
		cfg,
		container.RenderHandler,
		container.RegistryHandler,
		container.CrawlerHandler,
		container.Metrics,
		container.Logger,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Int("intents", container.Intents.Len()),
			zap.Int("components", container.Components.Len()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	container.Logger.Info("Shutting down server...")

	if watcher != nil {
		watcher.Stop()
	}
	router.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			container.Logger.Error("Tracer shutdown error", zap.Error(err))
		}
	}

	if err := container.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
