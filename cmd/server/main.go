package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"fileconverter/config"
	"fileconverter/conversion"
	"fileconverter/formats"
	"fileconverter/handlers"
	"fileconverter/middleware"
	"fileconverter/provider"
	"fileconverter/storage"
	"fileconverter/validation"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Env)
	defer logger.Sync()

	logger.Info("File conversion service starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	matrix, err := formats.Load(cfg.MatrixPath)
	if err != nil {
		logger.Fatal("Failed to load conversion matrix", zap.Error(err))
	}

	staging, err := storage.NewStaging(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal("Failed to prepare staging directory", zap.Error(err))
	}
	// Recover files leaked by a previous crash before accepting work.
	staging.Sweep()

	client := provider.NewClient(cfg.ConvertSecret, cfg.ConvertBaseURL, cfg.ConvertTimeout, logger)
	if !client.Configured() {
		logger.Warn("CONVERTAPI_SECRET is not set; every conversion will fail until it is configured")
	}

	service := conversion.NewService(client, staging, cfg.ConvertTimeout, logger)
	validator := validation.NewValidator(matrix)
	handler := handlers.NewConvertHandler(
		service, validator, matrix, staging, cfg.MaxFileSize, client.BaseURL(), logger,
	)

	router := mux.NewRouter()
	router.HandleFunc("/api/convert", handler.Convert).Methods(http.MethodPost)
	router.HandleFunc("/upload", handler.Upload).Methods(http.MethodPost)
	router.HandleFunc("/api/health", handler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(staging.Dir()))),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOriginList(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	var root http.Handler = router
	root = middleware.Metrics(root)
	root = middleware.Recovery(logger)(root)
	root = middleware.Logging(logger)(root)
	root = middleware.TraceID(root)
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server started", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	// Clear anything the in-flight jobs left behind.
	staging.Sweep()
	logger.Info("Shutdown complete")
}

func newLogger(env string) *zap.Logger {
	if env == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
