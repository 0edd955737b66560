package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/safedocs/internal/flagx"
)

var ownFlags = []string{"-a", "-o", "-d", "-t", "-w", "-r", "-l"}

// parseFlags overlays cfg with command-line flags:
//
//	-a string    backend API base URL
//	-o string    origin used in rendered share links
//	-d string    state DB path
//	-t duration  API request timeout
//	-w int       parallel upload workers
//	-r int       storage upload retries
//	-l string    log level
//
// Arguments owned by other components are filtered out first.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("safedocs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.ShareOrigin, "o", cfg.ShareOrigin, "origin of share links")
	fs.StringVar(&cfg.StateDBPath, "d", cfg.StateDBPath, "state DB path")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "API request timeout")
	fs.IntVar(&cfg.UploadWorkers, "w", cfg.UploadWorkers, "parallel upload workers")
	fs.IntVar(&cfg.StorageRetries, "r", cfg.StorageRetries, "storage upload retries")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")

	return fs.Parse(flagx.FilterArgs(args, ownFlags))
}
