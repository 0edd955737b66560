package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/safedocs/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = common.ErrTokenExpired
	ErrNoSession    = common.ErrNoSession
)

// APIError is a non-2xx backend response. Message is taken from the JSON
// body when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// Unwrap lets callers match well-known statuses with errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return common.ErrorNotFound
	}
	return nil
}

// errorBody covers the backend's error envelope where message is either a
// string or a list of validation messages.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Error   string          `json:"error"`
}

func extractMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}

	if len(eb.Message) > 0 {
		var s string
		if err := json.Unmarshal(eb.Message, &s); err == nil && s != "" {
			return s
		}
		var list []string
		if err := json.Unmarshal(eb.Message, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}

	return eb.Error
}

// MessageOr returns the backend message carried by err, or fallback when err
// is not an *APIError with a message.
func MessageOr(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
