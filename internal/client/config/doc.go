// Package config loads runtime configuration for the SafeDocs CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file (-e/-env, or ./.env when present) and the process
//     environment: SAFEDOCS_API_URL, SAFEDOCS_SHARE_ORIGIN,
//     SAFEDOCS_STATE_DB, SAFEDOCS_LOG_LEVEL.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags, which override everything else.
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:3000",
//	  "share_origin": "https://docs.example.com",
//	  "state_db_path": "/home/me/.config/safedocs/state.db",
//	  "request_timeout": "30s",
//	  "storage_timeout": "5m",
//	  "upload_workers": 1,
//	  "storage_retries": 0,
//	  "log_level": "warn",
//	  "log_format": "text"
//	}
//
// An empty share origin falls back to the API base URL.
package config
