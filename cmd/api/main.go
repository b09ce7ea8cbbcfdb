package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/voltpath/voltpath/internal/adapters/http"
	natsadapter "github.com/voltpath/voltpath/internal/adapters/nats"
	"github.com/voltpath/voltpath/internal/adapters/nominatim"
	"github.com/voltpath/voltpath/internal/adapters/osrm"
	"github.com/voltpath/voltpath/internal/adapters/postgres"
	"github.com/voltpath/voltpath/internal/adapters/valkey"
	"github.com/voltpath/voltpath/internal/core/usecases"
	"github.com/voltpath/voltpath/internal/pkg/config"
	"github.com/voltpath/voltpath/internal/pkg/logging"
	"github.com/voltpath/voltpath/internal/pkg/metrics"
	"github.com/voltpath/voltpath/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("voltpath-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// External oracles
	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent,
		time.Duration(cfg.Geocoder.TimeoutSeconds)*time.Second)
	router := osrm.New(cfg.Router.BaseURL,
		time.Duration(cfg.Router.TimeoutSeconds)*time.Second)

	// Repos
	stationRepo := postgres.NewStationRepo(db)
	bookingRepo := postgres.NewBookingRepo(db)

	// Use cases
	synth := usecases.NewSynthesizer(time.Now().UnixNano(), nil)
	discoverySvc := usecases.NewDiscoveryService(geocoder, router, stationRepo, cache, synth,
		usecases.DiscoveryOptions{
			CorridorKm:    cfg.Discovery.CorridorKm,
			SampleStride:  cfg.Discovery.SampleStride,
			MinStations:   cfg.Discovery.MinStations,
			BBoxBufferDeg: cfg.Discovery.BBoxBufferDeg,
		})
	stationSvc := usecases.NewStationService(stationRepo, cache, nc)
	bookingSvc := usecases.NewBookingService(bookingRepo, stationRepo, nc)
	adminSvc := usecases.NewAdminService(stationRepo, bookingRepo)

	deps := &http.Dependencies{
		Discovery: discoverySvc,
		Stations:  stationSvc,
		Bookings:  bookingSvc,
		Admin:     adminSvc,
		NATS:      natsConn,
		DB:        db,
		Cache:     cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "VoltPath API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Export pgx pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
