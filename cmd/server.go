package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/juancollazo-ch/order-confirmation-service/internal/api"
	"github.com/juancollazo-ch/order-confirmation-service/internal/config"
	"github.com/juancollazo-ch/order-confirmation-service/internal/handlers"
	"github.com/juancollazo-ch/order-confirmation-service/internal/logging"
	"github.com/juancollazo-ch/order-confirmation-service/internal/presenter"
	"github.com/juancollazo-ch/order-confirmation-service/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName    = "order-confirmation-service"
	serviceVersion = "1.0.0"
)

// Convertir niveles de Zap a severidad de GCP Cloud Logging
func zapLevelToGCPSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		enc.AppendString("CRITICAL")
	case zapcore.FatalLevel:
		enc.AppendString("EMERGENCY")
	default:
		enc.AppendString("DEFAULT")
	}
}

func newLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	// Configurar para Cloud Logging (JSON estructurado)
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.LevelKey = "severity"
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeLevel = zapLevelToGCPSeverity
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	return config.Build()
}

// MAIN: inicializa servidor y dependencias
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Reemplazar logger global
	zap.ReplaceGlobals(logger)

	if !cfg.DotEnvLoaded {
		zap.L().Info("No .env file found, using environment variables")
	}

	confirmClient, err := api.NewConfirmClient(cfg.APIURL, cfg.APIKey, api.Options{
		Timeout:            cfg.ConfirmTimeout,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerOpenTimeout: cfg.BreakerOpenTimeout,
	})
	if err != nil {
		zap.L().Error("Failed to start confirmation client", zap.Error(err))
		os.Exit(1)
	}

	renderer, err := presenter.NewRenderer()
	if err != nil {
		zap.L().Error("Failed to load templates", zap.Error(err))
		os.Exit(1)
	}

	orchestrator := service.NewOrchestrator(confirmClient,
		service.WithTimeout(cfg.ConfirmTimeout),
		service.WithHomePath(cfg.HomePath),
	)
	confirmHandler := handlers.NewConfirmHandler(orchestrator, renderer, cfg.HomePath, cfg.SuccessRedirectDelay)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newMux(confirmHandler, confirmClient, cfg.HomePath),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.ConfirmTimeout + 15*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("Server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	})

	// GRACEFUL SHUTDOWN
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("Server exited with error", zap.Error(err))
		os.Exit(1)
	}
	zap.L().Info("Server exited")
}

type breakerStater interface {
	State() gobreaker.State
}

// HTTP ROUTES
func newMux(h *handlers.ConfirmHandler, breaker breakerStater, homePath string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(breaker))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/confirm", withLogging(h.Confirm))
	mux.HandleFunc(homePath, withLogging(h.Home))
	return mux
}

// traceIDFromHeader extrae el TRACE_ID de X-Cloud-Trace-Context
// (formato: TRACE_ID/SPAN_ID;o=TRACE_TRUE)
func traceIDFromHeader(header string) string {
	if slashIdx := strings.IndexByte(header, '/'); slashIdx != -1 {
		return header[:slashIdx]
	}
	return header
}

// MIDDLEWARE: Logging con Trace ID compatible con GCP
func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := traceIDFromHeader(r.Header.Get("X-Cloud-Trace-Context"))
		if traceID == "" {
			traceID = uuid.NewString()
		}

		// Obtener Project ID para el formato completo de trace
		projectID := os.Getenv("GCP_PROJECT")
		if projectID == "" {
			projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		}

		ctx := logging.WithTraceID(r.Context(), traceID)

		logFields := []zap.Field{
			zap.String("httpRequest.requestMethod", r.Method),
			zap.String("httpRequest.requestUrl", r.URL.Path),
			zap.String("httpRequest.remoteIp", r.RemoteAddr),
			zap.String("httpRequest.userAgent", r.UserAgent()),
			zap.String("trace_id", traceID),
		}
		if projectID != "" {
			logFields = append(logFields, zap.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)))
		}

		zap.L().Info("Request started", logFields...)

		w.Header().Set("X-Trace-Id", traceID)
		next(w, r.WithContext(ctx))

		duration := time.Since(start)

		completedFields := []zap.Field{
			zap.String("httpRequest.requestMethod", r.Method),
			zap.String("httpRequest.requestUrl", r.URL.Path),
			zap.Int64("httpRequest.latency.milliseconds", duration.Milliseconds()),
			zap.Float64("httpRequest.latency.seconds", duration.Seconds()),
			zap.String("trace_id", traceID),
		}
		if projectID != "" {
			completedFields = append(completedFields, zap.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)))
		}

		zap.L().Info("Request completed", completedFields...)
	}
}

// HEALTH CHECK
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Breaker string `json:"breaker"`
}

func healthHandler(breaker breakerStater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: serviceVersion,
			Breaker: breaker.State().String(),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
