package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSharedLink_StatusAndDaysRemaining(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		status    LinkStatus
		days      int
	}{
		{"seven days ahead", now.Add(7 * 24 * time.Hour), LinkActive, 7},
		{"partial day rounds up", now.Add(30 * time.Hour), LinkActive, 2},
		{"one millisecond left", now.Add(time.Millisecond), LinkActive, 1},
		{"exactly now is not expired", now, LinkActive, 0},
		{"in the past", now.Add(-time.Minute), LinkExpired, 0},
		{"long past", now.Add(-30 * 24 * time.Hour), LinkExpired, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := SharedLink{ExpiresAt: tt.expiresAt}
			require.Equal(t, tt.status, l.Status(now))
			require.Equal(t, tt.status == LinkExpired, l.IsExpired(now))
			require.Equal(t, tt.days, l.DaysRemaining(now))
			require.GreaterOrEqual(t, l.DaysRemaining(now), 0)
		})
	}
}

func TestSharedLink_URL(t *testing.T) {
	l := SharedLink{Token: "abc123"}
	require.Equal(t, "https://docs.example.com/shared/abc123", l.URL("https://docs.example.com"))
	require.Equal(t, "https://docs.example.com/shared/abc123", l.URL("https://docs.example.com/"))
}

func TestSharedDocument_FileName(t *testing.T) {
	require.Equal(t, "document", SharedDocument{}.FileName())
	require.Equal(t, "document", SharedDocument{Document: &SharedDocumentInfo{}}.FileName())
	require.Equal(t, "a.pdf", SharedDocument{Document: &SharedDocumentInfo{OriginalName: "a.pdf"}}.FileName())
}

func TestSharedDocument_OptionalDocument(t *testing.T) {
	var withDoc, withoutDoc SharedDocument
	require.NoError(t, json.Unmarshal([]byte(`{"downloadUrl":"https://s3/x","document":{"originalName":"a.pdf","fileType":"application/pdf","fileSize":10}}`), &withDoc))
	require.NoError(t, json.Unmarshal([]byte(`{"downloadUrl":"https://s3/y"}`), &withoutDoc))

	require.NotNil(t, withDoc.Document)
	require.Equal(t, int64(10), withDoc.Document.FileSize)
	require.Nil(t, withoutDoc.Document)
	require.Equal(t, "https://s3/y", withoutDoc.DownloadURL)
}
