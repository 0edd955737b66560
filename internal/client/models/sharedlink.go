package models

import (
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/safedocs/internal/common"
)

// LinkStatus is the client-computed state of a shared link.
type LinkStatus string

const (
	LinkActive  LinkStatus = "active"
	LinkExpired LinkStatus = "expired"
)

// SharedLink is a time-limited share token minted by the backend.
type SharedLink struct {
	ID          int64     `json:"id"`
	Token       string    `json:"token"`
	ExpiresAt   time.Time `json:"expiresAt"`
	AccessCount int       `json:"accessCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateSharedLinkRequest struct {
	DocumentID int64 `json:"documentId"`
}

// IsExpired reports whether now is strictly after the expiry instant.
func (l SharedLink) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

func (l SharedLink) Status(now time.Time) LinkStatus {
	if l.IsExpired(now) {
		return LinkExpired
	}
	return LinkActive
}

const msPerDay = float64(24 * time.Hour / time.Millisecond)

// DaysRemaining is the ceiling of the remaining time in days, never negative.
func (l SharedLink) DaysRemaining(now time.Time) int {
	ms := float64(l.ExpiresAt.Sub(now).Milliseconds())
	days := int(math.Ceil(ms / msPerDay))
	if days < 0 {
		return 0
	}
	return days
}

// URL renders the public share address under origin.
func (l SharedLink) URL(origin string) string {
	return strings.TrimRight(origin, "/") + common.SharePathPrefix + l.Token
}

// SharedDocument is what an unauthenticated visitor gets for a share token.
type SharedDocument struct {
	DownloadURL string              `json:"downloadUrl"`
	Document    *SharedDocumentInfo `json:"document,omitempty"`
}

type SharedDocumentInfo struct {
	OriginalName string `json:"originalName"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
}

// DefaultSharedFileName names downloads whose metadata carries no name.
const DefaultSharedFileName = "document"

func (d SharedDocument) FileName() string {
	if d.Document == nil || d.Document.OriginalName == "" {
		return DefaultSharedFileName
	}
	return d.Document.OriginalName
}
