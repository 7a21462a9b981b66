package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imrishuroy/go-checkout-summary/internal/aws"
	"github.com/imrishuroy/go-checkout-summary/internal/checkout"
	"github.com/imrishuroy/go-checkout-summary/internal/config"
	"github.com/imrishuroy/go-checkout-summary/internal/handlers"
	"github.com/imrishuroy/go-checkout-summary/internal/logger"
	"github.com/imrishuroy/go-checkout-summary/internal/metrics"
)

func setupRouter(cfg handlers.HandlerConfig, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	handlers.RegisterHealthRoutes(r)
	handlers.RegisterCheckoutRoutes(r, cfg)
	r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := prometheus.NewRegistry()
	handlerCfg := handlers.HandlerConfig{
		Calculator: checkout.NewCalculator(cfg.Policy()),
		Logger:     log,
		Metrics:    metrics.NewCheckoutMetrics(registry, "api"),
	}

	if cfg.Metrics.CloudWatch {
		clients, err := aws.NewAWSClients(context.Background())
		if err != nil {
			log.Error("failed to init aws clients", "error", err)
			os.Exit(1)
		}
		handlerCfg.Recorder = aws.NewMetricsEmitter(clients.CloudWatch, cfg.Metrics.Namespace, "api")
	}

	r := setupRouter(handlerCfg, registry)

	if cfg.RunLocal {
		runLocal(cfg, log, r)
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}

// runLocal serves the router behind CORS until SIGINT/SIGTERM.
func runLocal(cfg *config.Config, log *slog.Logger, r http.Handler) {
	handler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", handlers.RequestIDHeader},
		ExposedHeaders: []string{handlers.RequestIDHeader},
		MaxAge:         300,
	})(r)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("running local server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}
