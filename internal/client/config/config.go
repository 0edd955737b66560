package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL = "http://localhost:3000"
	stateDirName      = "safedocs"
	stateFileName     = "state.db"
)

// Config holds runtime settings for the SafeDocs CLI.
type Config struct {
	// APIBaseURL is the root of the REST backend.
	APIBaseURL string
	// ShareOrigin prefixes rendered share links; empty means APIBaseURL.
	ShareOrigin string
	// StateDBPath is the SQLite file holding the persisted session.
	StateDBPath string

	RequestTimeout time.Duration
	StorageTimeout time.Duration

	UploadWorkers  int
	StorageRetries int

	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.ShareOrigin = ""
	c.StateDBPath = defaultStateDBPath()
	c.RequestTimeout = 30 * time.Second
	c.StorageTimeout = 5 * time.Minute
	c.UploadWorkers = 1
	c.StorageRetries = 0
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

func defaultStateDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return stateFileName
	}
	return filepath.Join(dir, stateDirName, stateFileName)
}

// LoadConfig applies, in order of increasing precedence: defaults, the .env
// file and environment, the JSON file and command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if err := checkURL(c.APIBaseURL); err != nil {
		return fmt.Errorf("api url: %w", err)
	}

	c.ShareOrigin = strings.TrimRight(strings.TrimSpace(c.ShareOrigin), "/")
	if c.ShareOrigin == "" {
		c.ShareOrigin = c.APIBaseURL
	} else if err := checkURL(c.ShareOrigin); err != nil {
		return fmt.Errorf("share origin: %w", err)
	}

	if c.StateDBPath == "" {
		return errors.New("state db path is empty")
	}
	if c.UploadWorkers < 1 {
		c.UploadWorkers = 1
	}
	if c.StorageRetries < 0 {
		c.StorageRetries = 0
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) url", raw)
	}
	return nil
}
