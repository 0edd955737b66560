package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Document is the backend's metadata record of an uploaded file.
type Document struct {
	ID            int64     `json:"id"`
	OriginalName  string    `json:"originalName"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	UploadDate    time.Time `json:"uploadDate"`
	StorageKey    string    `json:"s3Key"`
	StorageBucket string    `json:"s3Bucket"`
	Filename      string    `json:"filename"`
}

// Stats are the dashboard figures derived from a fetched document list.
type Stats struct {
	TotalDocuments int
	TotalSize      int64
	TotalStorage   string
	RecentUploads  int
}

// RecentDays is the trailing window counted as "recent uploads".
const RecentDays = 7

// ComputeStats derives dashboard figures from docs as of now.
func ComputeStats(docs []Document, now time.Time) Stats {
	since := now.AddDate(0, 0, -RecentDays)

	var total int64
	recent := 0
	for _, d := range docs {
		total += d.FileSize
		if d.UploadDate.After(since) {
			recent++
		}
	}

	return Stats{
		TotalDocuments: len(docs),
		TotalSize:      total,
		TotalStorage:   FormatSize(total),
		RecentUploads:  recent,
	}
}

// FilterByName returns the documents whose original name contains query,
// ignoring case. An empty query returns docs unchanged.
func FilterByName(docs []Document, query string) []Document {
	if query == "" {
		return docs
	}
	q := strings.ToLower(query)

	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.OriginalName), q) {
			out = append(out, d)
		}
	}
	return out
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatSize renders a byte count in binary units with at most two
// decimals: 0 -> "0 Bytes", 1536 -> "1.5 KB".
func FormatSize(b int64) string {
	if b <= 0 {
		return "0 Bytes"
	}

	i := 0
	scale := float64(1)
	for i < len(sizeUnits)-1 && float64(b) >= scale*1024 {
		scale *= 1024
		i++
	}

	v := math.Round(float64(b)/scale*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FileTypeLabel maps a MIME type to the short label shown in listings.
func FileTypeLabel(mimeType string) string {
	switch {
	case mimeType == "":
		return "Document"
	case strings.HasPrefix(mimeType, "image/"):
		return "Image"
	case mimeType == "application/pdf":
		return "PDF"
	case strings.Contains(mimeType, "excel") || strings.Contains(mimeType, "spreadsheet"):
		return "Excel"
	case strings.Contains(mimeType, "powerpoint") || strings.Contains(mimeType, "presentation"):
		return "PowerPoint"
	case strings.Contains(mimeType, "word") || strings.Contains(mimeType, "document"):
		return "Word"
	case mimeType == "text/plain":
		return "Text"
	default:
		return "Document"
	}
}
