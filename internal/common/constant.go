// Package common contains constants shared by the SafeDocs client packages.
package common

const (
	// SessionTokenKey and SessionUserKey are the fixed state-store keys of the
	// persisted session. They are always written and removed together.
	SessionTokenKey = "authToken"
	SessionUserKey  = "safedocs-user"

	// MaxUploadSize is the largest file accepted for a direct storage upload.
	MaxUploadSize int64 = 50 * 1024 * 1024

	ContentTypeJSON = "application/json"
	SharePathPrefix = "/shared/"
)
