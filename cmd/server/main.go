package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"jobboard/internal/api/handlers"
	"jobboard/internal/api/routes"
	"jobboard/internal/applications"
	"jobboard/internal/categories"
	"jobboard/internal/config"
	"jobboard/internal/grpc/server"
	"jobboard/internal/identity"
	"jobboard/internal/jobs"
	"jobboard/internal/logging"
	"jobboard/internal/mux"
	"jobboard/internal/notify"
	"jobboard/internal/otp"
	"jobboard/internal/session"
	"jobboard/internal/storage"
	"jobboard/internal/store"
	"jobboard/pkg/utils"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()
	logger := logging.GetGlobalLogger()
	logger.Info("Starting job board", map[string]interface{}{"version": handlers.Version})

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", map[string]interface{}{"error": err.Error()})
		logging.CloseLogging()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	var checks []handlers.HealthCheck
	probes := []server.Probe{db.Ping}
	checks = append(checks, handlers.HealthCheck{Name: "database", Check: db.Ping})

	// Sessions and OTP codes live in redis when configured, in memory otherwise
	var (
		sessions session.Store
		codes    otp.Store
	)
	if cfg.Redis.Enabled {
		rc, err := utils.NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("redis unavailable: %w", err)
		}
		sessions = session.NewRedisStore(rc.Client(), cfg.Identity.SessionIdleTimeout)
		codes = otp.NewRedisStore(rc.Client())
		checks = append(checks, handlers.HealthCheck{Name: "redis", Check: rc.IsHealthy})
		probes = append(probes, rc.IsHealthy)
		logger.Info("Using redis for sessions and otp codes")
	} else {
		memSessions := session.NewMemoryStore(cfg.Identity.SessionIdleTimeout, time.Minute)
		defer memSessions.Close()
		memCodes := otp.NewMemoryStore(cfg.OTP.CleanupEvery)
		defer memCodes.Close()
		sessions, codes = memSessions, memCodes
	}

	// Job images
	var (
		images   storage.Store
		imageDir string
	)
	switch cfg.Storage.Backend {
	case "spaces":
		spaces, err := storage.NewSpacesStore(cfg, logger)
		if err != nil {
			return err
		}
		images = spaces
		checks = append(checks, handlers.HealthCheck{Name: "spaces", Check: spaces.IsHealthy})
	case "local", "":
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.URLPath, logger)
		if err != nil {
			return err
		}
		images, imageDir = local, local.Dir()
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// Outgoing email and sms
	var (
		email notify.EmailSender = notify.NewLogSender(logger)
		sms   notify.SMSSender   = notify.NewLogSender(logger)
	)
	if cfg.SMTP.Enabled {
		email = notify.NewSMTPSender(cfg, logger)
	}
	if cfg.SMS.Enabled {
		sms = notify.NewVonageSender(cfg, logger)
	}

	limiter := otp.NewRateLimiter(cfg.OTP.RateLimit, cfg.OTP.Burst, time.Minute)
	defer limiter.Stop()

	idSvc := identity.NewService(db, sessions, email, identity.Options{
		RequireConfirmedAccount: cfg.Identity.RequireConfirmedAccount,
		BaseURL:                 cfg.Server.BaseURL,
		Defaults:                identity.ProvisioningFromConfig(cfg),
	}, logger)
	if err := idSvc.Seed(ctx, cfg.Identity.AdminEmail, cfg.Identity.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed identity data: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	routes.SetupRoutes(e, cfg, routes.Services{
		Identity:     idSvc,
		Jobs:         jobs.NewService(db, images, logger),
		Applications: applications.NewService(db, logger),
		Categories:   categories.NewService(db, logger),
		OTP:          otp.NewService(codes, sms, limiter, cfg.OTP.TTL, logger),
		ImageDir:     imageDir,
		HealthChecks: checks,
	}, logger)

	var grpcServer *server.Server
	if cfg.Server.GRPCEnabled {
		grpcServer = server.NewServer(logger)
		go grpcServer.WatchReadiness(ctx, 15*time.Second, probes...)
	}

	m := mux.NewMultiplexer(cfg, e, grpcServer, logger)
	if err := m.Start(cfg.Address()); err != nil {
		return err
	}

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutting down server...", map[string]interface{}{"signal": sig.String()})
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := m.Stop(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Server shutdown complete")
	return nil
}
