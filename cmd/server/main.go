package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/zhuxiaohai/philips-medical/config"
	"github.com/zhuxiaohai/philips-medical/pkg/otel"
	"github.com/zhuxiaohai/philips-medical/server/api"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not loaded", "error", err)
	}

	ctx := context.Background()

	if err := otel.Setup(ctx, "doc-verifier", "1.0.0"); err != nil {
		slog.Error("failed to set up telemetry", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Parse(*configPath)

	if err != nil {
		slog.Error("failed to parse config", "error", err)
		os.Exit(1)
	}

	handler, err := api.New(cfg)

	if err != nil {
		slog.Error("failed to create handler", "error", err)
		os.Exit(1)
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	handler.Attach(r)

	server := &http.Server{
		Addr:    cfg.Address,
		Handler: otelhttp.NewHandler(r, "server"),
	}

	go func() {
		slog.Info("server listening", "address", cfg.Address)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	server.Close()
}
