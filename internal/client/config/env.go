package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/safedocs/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	envAPIURL      = "SAFEDOCS_API_URL"
	envShareOrigin = "SAFEDOCS_SHARE_ORIGIN"
	envStateDB     = "SAFEDOCS_STATE_DB"
	envLogLevel    = "SAFEDOCS_LOG_LEVEL"
)

// parseEnv loads a dotenv file into the process environment and overlays the
// SAFEDOCS_* variables. A file named with -e/-env must exist; the default
// ".env" is optional. Variables already set in the environment win over the
// file.
func parseEnv(cfg *Config, args []string) error {
	if file := flagx.EnvFileFlag(args); file != "" {
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load env file %s: %w", file, err)
		}
	} else {
		_ = godotenv.Load(".env")
	}

	cfg.APIBaseURL = getEnv(envAPIURL, cfg.APIBaseURL)
	cfg.ShareOrigin = getEnv(envShareOrigin, cfg.ShareOrigin)
	cfg.StateDBPath = getEnv(envStateDB, cfg.StateDBPath)
	cfg.LogLevel = getEnv(envLogLevel, cfg.LogLevel)
	return nil
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
