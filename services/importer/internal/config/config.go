package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the importer service.
type Config struct {
	DatabaseURL string
	FilePath    string
	DryRun      bool
}

// Load reads configuration from environment variables (optionally
// .env). The CSV path may be given as the first CLI argument or via
// IMPORT_FILE.
func Load(args []string) (Config, error) {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	if len(args) > 0 {
		cfg.FilePath = args[0]
	} else {
		cfg.FilePath = strings.TrimSpace(os.Getenv("IMPORT_FILE"))
	}
	if cfg.FilePath == "" {
		return cfg, errors.New("CSV path is required (argument or IMPORT_FILE)")
	}

	dryRun := strings.TrimSpace(os.Getenv("DRY_RUN"))
	cfg.DryRun = dryRun == "1" || strings.EqualFold(dryRun, "true")

	return cfg, nil
}
