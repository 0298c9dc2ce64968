package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"tawssil-directory/internal/adapters/eventbus"
	"tawssil-directory/internal/adapters/httpserver"
	"tawssil-directory/internal/adapters/postgres"
	"tawssil-directory/internal/adapters/security"
	"tawssil-directory/internal/adapters/tawssil"
	"tawssil-directory/internal/core/directory"
	"tawssil-directory/internal/core/ports"
	"tawssil-directory/internal/notifications"
	"tawssil-directory/internal/shared/config"
	"tawssil-directory/internal/shared/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize Logger
	isDevMode := cfg.AppEnv == "dev"
	baseLogger := logger.New(isDevMode)
	baseLogger.Info().
		Str("app_env", cfg.AppEnv).
		Str("store", cfg.Store).
		Str("http_addr", cfg.HTTPAddr).
		Msg("Configuration loaded")

	ctx := context.Background()

	// 3. Pick the driver store
	var store ports.DriverStore
	switch cfg.Store {
	case config.StorePostgres:
		keyBytes, err := hex.DecodeString(cfg.EncryptionKey)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to decode ENCRYPTION_KEY. It must be hex-encoded.")
		}
		secSvc, err := security.NewAESService(keyBytes, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize security service")
		}

		db, err := postgres.NewDB(ctx, cfg.DatabaseURL, &baseLogger)
		if err != nil {
			baseLogger.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		store = postgres.NewDriverRepository(db, secSvc, &baseLogger)
	case config.StoreAPI:
		store = tawssil.NewClient(cfg.TawssilAPIURL, &baseLogger)
	}

	// 4. Event bus and decision audit trail
	bus := eventbus.NewInMemoryEventBus(&baseLogger)
	notifications.NewDecisionHandler(&baseLogger).Register(bus)

	// 5. Directory service
	dir := directory.NewService(store, bus, &baseLogger)
	if err := dir.Refresh(ctx); err != nil {
		// Serve with an empty roster; admins can retry via the refresh
		// endpoint once the store is reachable.
		baseLogger.Warn().Err(err).Msg("Initial roster fetch failed")
	}

	// 6. HTTP surface
	if !isDevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	httpserver.SetupRouter(router, httpserver.NewDriverHandler(dir, &baseLogger))

	baseLogger.Info().Str("addr", cfg.HTTPAddr).Msg("Driver directory listening")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		baseLogger.Fatal().Err(err).Msg("HTTP server stopped")
	}
}
