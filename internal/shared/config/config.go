package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store selects which DriverStore backs the directory.
const (
	StorePostgres = "postgres"
	StoreAPI      = "api"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv   string
	HTTPAddr string

	// Store is "postgres" (own the records) or "api" (proxy the platform).
	Store string

	DatabaseURL   string
	EncryptionKey string
	TawssilAPIURL string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {

	// 1. Load .env file into the process environment. A missing file is
	// fine in prod; OS-set env vars take over.
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// 2. Explicitly bind viper keys to env var names.
	bindings := map[string]string{
		"app.env":         "APP_ENV",
		"http.addr":       "HTTP_ADDR",
		"directory.store": "DIRECTORY_STORE",
		"database.url":    "DATABASE_URL",
		"encryption.key":  "ENCRYPTION_KEY",
		"tawssil.api.url": "TAWSSIL_API_URL",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	// 3. Set defaults
	viper.SetDefault("app.env", "dev")
	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("directory.store", StoreAPI)

	// 4. Get values directly from viper
	cfg := Config{
		AppEnv:        viper.GetString("app.env"),
		HTTPAddr:      viper.GetString("http.addr"),
		Store:         viper.GetString("directory.store"),
		DatabaseURL:   viper.GetString("database.url"),
		EncryptionKey: viper.GetString("encryption.key"),
		TawssilAPIURL: viper.GetString("tawssil.api.url"),
	}

	// 5. Validation depends on the selected store.
	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DIRECTORY_STORE=%s", StorePostgres)
		}
		if len(cfg.EncryptionKey) != 64 {
			return nil, fmt.Errorf("ENCRYPTION_KEY must be a 64-character hex string (32 bytes), but got %d chars", len(cfg.EncryptionKey))
		}
	case StoreAPI:
		if cfg.TawssilAPIURL == "" {
			return nil, fmt.Errorf("TAWSSIL_API_URL is required when DIRECTORY_STORE=%s", StoreAPI)
		}
	default:
		return nil, fmt.Errorf("unknown DIRECTORY_STORE %q (want %s or %s)", cfg.Store, StorePostgres, StoreAPI)
	}

	return &cfg, nil
}
