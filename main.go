package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ballistix/internal/config"
	"ballistix/internal/container"
	"ballistix/internal/telemetry"
	"ballistix/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:  "ballistix",
		Exporter:     appConfig.Tracing.Exporter,
		OTLPEndpoint: appConfig.Tracing.OTLPEndpoint,
		OTLPInsecure: appConfig.Tracing.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("Failed to initialise tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("Tracing shutdown: %v", err)
		}
	}()

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server, err := ui.NewServer(ui.ServerDeps{
		Service: c.Service,
		Presets: c.Presets,
		Metrics: c.Metrics,
		Logger:  c.Logger,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}

	if c.Presets.Path() != "" {
		go func() {
			if err := c.Presets.Watch(ctx); err != nil {
				c.Logger.Warn("Preset hot reload disabled: %v", err)
			}
		}()
	}

	c.Logger.Info("Ballistix starting (reports enabled: %v)", appConfig.ReportsEnabled())
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		c.Logger.Error("Server error: %v", err)
	}
}
