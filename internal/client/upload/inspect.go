package upload

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const defaultMimeType = "application/octet-stream"

// Candidate is a local file offered for upload.
type Candidate struct {
	Path     string
	Name     string
	MimeType string
	Size     int64
	ModTime  time.Time
}

// extension fallbacks missing from the standard library's built-in table
var extTypes = map[string]string{
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

// Inspect stats path and detects its MIME type from content, falling back to
// the file extension when the content is not conclusive.
func Inspect(path string) (Candidate, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Candidate{}, err
	}
	if fi.IsDir() {
		return Candidate{}, fmt.Errorf("%s is a directory", path)
	}

	c := Candidate{
		Path:    path,
		Name:    fi.Name(),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}

	c.MimeType, err = detectType(path)
	if err != nil {
		return Candidate{}, err
	}
	return c, nil
}

func detectType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", path, err)
	}
	detected := baseType(mtype.String())
	if IsAllowed(detected) {
		return detected, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extTypes[ext]; ok {
		return t, nil
	}
	if t := baseType(mime.TypeByExtension(ext)); t != "" {
		return t, nil
	}

	if detected != "" {
		return detected, nil
	}
	return defaultMimeType, nil
}

// baseType drops parameters such as "; charset=utf-8".
func baseType(t string) string {
	t, _, _ = strings.Cut(t, ";")
	return strings.ToLower(strings.TrimSpace(t))
}
