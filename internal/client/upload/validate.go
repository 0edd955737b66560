package upload

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/safedocs/internal/common"
)

var (
	ErrFileTooLarge   = errors.New("file too large")
	ErrTypeNotAllowed = errors.New("file type not allowed")
)

var allowedTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel":                                                  {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint":                                             {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"text/plain": {},
}

// IsAllowed reports whether mimeType may be uploaded.
func IsAllowed(mimeType string) bool {
	_, ok := allowedTypes[mimeType]
	return ok
}

// Validate checks size first, then type.
func Validate(c Candidate) error {
	if c.Size > common.MaxUploadSize {
		return fmt.Errorf("%w: %s exceeds the 50MB limit", ErrFileTooLarge, c.Name)
	}
	if !IsAllowed(c.MimeType) {
		return fmt.Errorf("%w: %s", ErrTypeNotAllowed, c.MimeType)
	}
	return nil
}

// Rejection is a candidate that did not pass Validate.
type Rejection struct {
	Candidate Candidate
	Err       error
}
