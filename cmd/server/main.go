package main

import (
	"os"

	"github.com/anonto42/nano-tube/backend/internal/middleware"
	"github.com/anonto42/nano-tube/backend/internal/router"
	"github.com/anonto42/nano-tube/backend/internal/services"
	"github.com/anonto42/nano-tube/backend/internal/web"
	"github.com/anonto42/nano-tube/backend/pkg/config"
	"github.com/anonto42/nano-tube/backend/pkg/logger"
	"github.com/anonto42/nano-tube/backend/pkg/media"
	"github.com/anonto42/nano-tube/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if cfg.UsesDefaultSecret() {
		if cfg.IsProduction() {
			log.Fatal("JWT_SECRET must be set in production")
		}
		log.Warn("JWT_SECRET not set, using the development key")
	}

	// Load the JSON collections; a corrupt file stops the server here
	store, err := config.InitStorage(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	mediaStore, err := config.InitMedia(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}
	processor := media.NewProcessor(mediaStore, media.FFmpegResizer{}, os.TempDir())

	locator, closeGeoIP := config.InitGeoIP(cfg, log)
	defer closeGeoIP()

	renderer, err := web.NewRenderer(processor.URL)
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.Renderer = renderer

	opts := router.Options{
		Services: services.New(store, processor, log),
		Sessions: middleware.NewSessionManager(cfg.JWTSecret, cfg.SessionTTL, cfg.CookieSecure, log),
		Access: middleware.AccessConfig{
			BlockedIPs:       cfg.BlockedIPs,
			BlockedCountries: cfg.BlockedCountries,
			BlockedAccounts:  cfg.BlockedAccounts,
			Locator:          locator,
			Logger:           log,
		},
		Logger:    log,
		StaticDir: cfg.StaticDir,
		BodyLimit: cfg.MaxUploadSize,
		RateLimit: cfg.RateLimit,
	}

	// Setup global middleware
	router.SetupMiddleware(e, opts)

	// Setup routes and dependencies
	router.SetupRoutes(e, opts)

	// Start server
	log.WithField("port", cfg.Port).Info("Starting NanoTube")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
