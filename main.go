package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thumbnail-service/internal/files"
	"thumbnail-service/internal/handlers"
	"thumbnail-service/internal/hooks"
	"thumbnail-service/internal/logging"
	"thumbnail-service/internal/metrics"
	"thumbnail-service/internal/middleware"
	"thumbnail-service/internal/startup"
	"thumbnail-service/internal/storage"
	"thumbnail-service/internal/tasks"
	"thumbnail-service/internal/thumbnail"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	// Construct the storage provider. Misconfiguration (unreachable
	// bucket, unwritable root) fails here, before any traffic.
	provider, err := newProvider(config)
	if err != nil {
		logging.Fatal("Storage provider error: %v", err)
	}

	generator := thumbnail.NewGenerator()
	service, err := thumbnail.NewService(provider, generator, config.PathPrefix)
	if err != nil {
		logging.Fatal("Thumbnail service error: %v", err)
	}

	fileService := files.NewStorageService(provider, config.FilesRoot)

	// Register lifecycle hooks
	runner := tasks.NewRunner()
	hooks.Register(runner, service, fileService, hooks.AppIDFromURLPath, hooks.Config{
		EnableItemsHooks: config.EnableItemsHooks,
		EnableAppsHooks:  config.EnableAppsHooks,
		AppsTemplateRoot: config.AppsTemplateRoot,
	})

	if config.MetricsEnabled {
		metrics.InitializeMetrics()
	}

	// Initialize handlers
	h := handlers.New(service, runner, handlers.Config{
		MaxFileSize: config.MaxFileSize,
	})

	// Setup router
	router := setupRouter(h, config)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv)

	// Start server
	logging.Info("Listening on :%s (startup took %v)", config.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func newProvider(config *startup.Config) (storage.Provider, error) {
	switch config.Backend {
	case startup.BackendS3:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewS3(ctx, storage.S3Config{
			Endpoint:        config.S3Endpoint,
			Region:          config.S3Region,
			AccessKeyID:     config.S3AccessKeyID,
			SecretAccessKey: config.S3SecretKey,
			Bucket:          config.S3Bucket,
			UseSSL:          config.S3UseSSL,
			URLExpiry:       config.S3URLExpiry,
		})
	default:
		return storage.NewLocal(config.LocalStorageRoot)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Thumbnail operations
	r.HandleFunc("/thumbnails/{id}", h.UploadThumbnail).Methods("POST")
	r.HandleFunc("/thumbnails/{id}", h.DownloadThumbnail).Methods("GET")

	// Host lifecycle notifications
	r.HandleFunc("/events", h.PostEvent).Methods("POST")

	if config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	return r
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Shutdown initiated (%s)", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		logging.Info("HTTP server stopped")
	}
}
