package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/safedocs/internal/flagx"
	"github.com/dmitrijs2005/safedocs/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration, so "30s" and integer nanoseconds are both accepted.
type JsonConfig struct {
	APIBaseURL     string         `json:"api_base_url"`
	ShareOrigin    string         `json:"share_origin"`
	StateDBPath    string         `json:"state_db_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	StorageTimeout timex.Duration `json:"storage_timeout"`
	UploadWorkers  int            `json:"upload_workers"`
	StorageRetries int            `json:"storage_retries"`
	LogLevel       string         `json:"log_level"`
	LogFormat      string         `json:"log_format"`
}

// parseJson overlays cfg with the non-zero fields of the file named by -c or
// -config. Without the flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.ShareOrigin, jc.ShareOrigin)
	setString(&cfg.StateDBPath, jc.StateDBPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StorageTimeout.Duration > 0 {
		cfg.StorageTimeout = jc.StorageTimeout.Duration
	}
	if jc.UploadWorkers > 0 {
		cfg.UploadWorkers = jc.UploadWorkers
	}
	if jc.StorageRetries > 0 {
		cfg.StorageRetries = jc.StorageRetries
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
